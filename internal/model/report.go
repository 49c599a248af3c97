package model

import "time"

// Report is the document reporters render: the ref, its metadata when the
// extractor provided it, and the computed metrics.
type Report struct {
	// Ref is the work item identifier.
	Ref string `json:"ref"`

	// GeneratedAt is when the report was assembled.
	GeneratedAt time.Time `json:"generated_at"`

	// Metadata is nil when the extractor does not provide item metadata.
	Metadata *ItemMetadata `json:"metadata,omitempty"`

	// Metrics are the analyzer results.
	Metrics *Metrics `json:"metrics"`
}

// NewReport assembles a report for the given ref.
func NewReport(ref string, meta *ItemMetadata, metrics *Metrics) *Report {
	return &Report{
		Ref:         ref,
		GeneratedAt: time.Now(),
		Metadata:    meta,
		Metrics:     metrics,
	}
}

// Commit returns the best known commit id for the report.
func (r *Report) Commit() string {
	if r.Metadata != nil && r.Metadata.Commit != "" {
		return r.Metadata.Commit
	}
	if r.Metrics != nil {
		return r.Metrics.Commit
	}
	return ""
}
