package model

import "time"

// ItemMetadata describes the commit a ref points to.
// Extractors that can fetch it do so independently of tree extraction.
type ItemMetadata struct {
	// Commit is the full commit id.
	Commit string `json:"commit"`

	// Author is the author name.
	Author string `json:"author"`

	// AuthorEmail is the author email address.
	AuthorEmail string `json:"author_email"`

	// Date is the author date.
	Date time.Time `json:"date"`

	// Subject is the first line of the commit message.
	Subject string `json:"subject"`

	// Version is the normalized semantic version when the ref is a semver tag
	// (e.g. "v1.0" -> "1.0.0"). Empty otherwise.
	Version string `json:"version,omitempty"`
}

// ShortCommit returns the first seven characters of the commit id.
func (m *ItemMetadata) ShortCommit() string {
	if m == nil {
		return ""
	}
	if len(m.Commit) > 7 {
		return m.Commit[:7]
	}
	return m.Commit
}
