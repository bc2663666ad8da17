package eskit

//////
// Const, vars, and types.
//////

// ColumnRoles partitions dataset columns by the role they play in the index
// mapping. The sets may overlap; columns absent from all sets are indexed with
// the engine's dynamic mapping.
type ColumnRoles struct {
	// Text columns get a full-text mapping with the language analyzer.
	Text []string `json:"text"`

	// Tag columns are indexed verbatim as keywords.
	Tag []string `json:"tag"`

	// GeoPoint columns are indexed as geo_point.
	GeoPoint []string `json:"geoPoint"`

	// Date is an optional date column.
	Date string `json:"date"`

	// Suggest is an optional column whose values feed the completion field.
	Suggest string `json:"suggest"`
}

// FailedDocument contains information about a document that failed to index.
type FailedDocument struct {
	// ID the document was submitted under.
	ID string `json:"id"`

	// Document is the (sanitized) record that failed.
	Document map[string]any `json:"document"`

	// Err is the engine-reported error.
	Err error `json:"-"`

	// Reason is the engine-reported reason, when available.
	Reason string `json:"reason"`

	// Status is the HTTP status, when available.
	Status int `json:"status"`
}

// LoadResult aggregates the outcome of a LoadDocuments call. Per-document
// failures are collected here in addition to being logged, so callers can
// decide whether partial failure is fatal.
type LoadResult struct {
	// Succeeded is the number of documents indexed.
	Succeeded int `json:"succeeded"`

	// Failures lists the documents that the engine rejected.
	Failures []FailedDocument `json:"failures"`

	// Metrics of the load.
	Metrics *LoadMetrics `json:"metrics"`
}
