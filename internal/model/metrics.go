package model

// LanguageStat aggregates files that share a language.
type LanguageStat struct {
	// Name is the language name (e.g. "Go", "Markdown", "Other").
	Name string `json:"name"`

	// Files is the number of files.
	Files int `json:"files"`

	// Bytes is the total size in bytes.
	Bytes int64 `json:"bytes"`

	// Share is Bytes divided by the total tree size, in the range [0, 1].
	Share float64 `json:"share"`
}

// FileStat is a single file's size.
type FileStat struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

// FileChurn holds line changes for one file in a commit.
type FileChurn struct {
	Path       string `json:"path"`
	Insertions int    `json:"insertions"`
	Deletions  int    `json:"deletions"`
}

// Churn summarizes the line changes a commit introduced.
type Churn struct {
	// FilesChanged is the number of files in the patch.
	FilesChanged int `json:"files_changed"`

	// Insertions is the total number of added lines.
	Insertions int `json:"insertions"`

	// Deletions is the total number of removed lines.
	Deletions int `json:"deletions"`

	// Files lists per-file changes ordered by total lines changed, descending.
	Files []FileChurn `json:"files"`
}

// Metrics is the output of an analyzer.
type Metrics struct {
	// Analyzer is the name of the analyzer that produced the metrics.
	Analyzer string `json:"analyzer"`

	// Ref is the work item the metrics were computed for.
	Ref string `json:"ref"`

	// Commit is the commit id of the analyzed tree.
	Commit string `json:"commit"`

	// Files is the number of blob entries.
	Files int `json:"files"`

	// Directories is the number of distinct directories containing files.
	Directories int `json:"directories"`

	// Symlinks is the number of symbolic links.
	Symlinks int `json:"symlinks"`

	// Submodules is the number of submodule gitlinks.
	Submodules int `json:"submodules"`

	// TotalBytes is the sum of all blob sizes.
	TotalBytes int64 `json:"total_bytes"`

	// Digest is a hex SHA3-256 fingerprint of the sorted tree listing.
	// Two refs with identical content have the same digest.
	Digest string `json:"digest"`

	// Languages is the per-language breakdown ordered by bytes, descending.
	Languages []LanguageStat `json:"languages"`

	// Largest lists the largest files, descending.
	Largest []FileStat `json:"largest"`

	// Churn is set by analyzers that inspect the commit patch.
	Churn *Churn `json:"churn,omitempty"`
}

// NewMetrics creates empty metrics for the tree.
func NewMetrics(analyzer string, tree *Tree) *Metrics {
	m := &Metrics{
		Analyzer:  analyzer,
		Languages: make([]LanguageStat, 0),
		Largest:   make([]FileStat, 0),
	}
	if tree != nil {
		m.Ref = tree.Ref
		m.Commit = tree.Commit
	}
	return m
}

// AverageFileSize returns TotalBytes / Files, or zero for an empty tree.
func (m *Metrics) AverageFileSize() int64 {
	if m.Files == 0 {
		return 0
	}
	return m.TotalBytes / int64(m.Files)
}
