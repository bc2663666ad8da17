package eskit

//////
// Cluster info.
//////

// InfoResponse represents the response from the Elasticsearch root endpoint.
type InfoResponse struct {
	Name        string       `json:"name"`
	ClusterName string       `json:"cluster_name"`
	ClusterUUID string       `json:"cluster_uuid"`
	Tagline     string       `json:"tagline"`
	Version     *VersionInfo `json:"version"`
}

// VersionInfo contains the engine version details.
type VersionInfo struct {
	Number        string `json:"number"`
	BuildFlavor   string `json:"build_flavor"`
	BuildType     string `json:"build_type"`
	BuildHash     string `json:"build_hash"`
	BuildDate     string `json:"build_date"`
	BuildSnapshot bool   `json:"build_snapshot"`
	LuceneVersion string `json:"lucene_version"`
}

//////
// Document APIs.
//////

// DocumentResponse represents the response from a single-document index call.
type DocumentResponse struct {
	Index       string      `json:"_index"`
	ID          string      `json:"_id"`
	Version     int64       `json:"_version"`
	Result      string      `json:"result"`
	SeqNo       int64       `json:"_seq_no"`
	PrimaryTerm int64       `json:"_primary_term"`
	Shards      *ShardStats `json:"_shards"`
}

// ShardStats contains information about shards.
type ShardStats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

//////
// Index APIs.
//////

// AcknowledgedResponse represents the response from index create/delete calls.
type AcknowledgedResponse struct {
	Acknowledged       bool   `json:"acknowledged"`
	ShardsAcknowledged bool   `json:"shards_acknowledged"`
	Index              string `json:"index"`
}

// DeleteByQueryResponse represents the response from a delete-by-query call.
type DeleteByQueryResponse struct {
	Took             int64 `json:"took"`
	TimedOut         bool  `json:"timed_out"`
	Total            int64 `json:"total"`
	Deleted          int64 `json:"deleted"`
	Batches          int64 `json:"batches"`
	VersionConflicts int64 `json:"version_conflicts"`
	Failures         []any `json:"failures"`
}

//////
// Error envelope.
//////

// ErrorCause describes a single engine-reported error.
type ErrorCause struct {
	Type      string        `json:"type"`
	Reason    string        `json:"reason"`
	RootCause []*ErrorCause `json:"root_cause"`
}

// ErrorEnvelope is the standard error body returned by the engine.
type ErrorEnvelope struct {
	Error  *ErrorCause `json:"error"`
	Status int         `json:"status"`
}
