package eskit

import (
	"sync"

	"github.com/thalesfsp/customerror"
)

//////
// Const, vars, and types.
//////

// Status represents the status of a load operation.
type Status = string

const (
	// StatusRunning represents a running status.
	StatusRunning Status = "running"

	// StatusDone represents a done status.
	StatusDone Status = "done"
)

// LoadMetrics contains metrics for a document load operation.
//
// NOTE: Use NewLoadMetrics() to create a new LoadMetrics struct!
type LoadMetrics struct {
	// Status of the load.
	Status Status `json:"status"`

	// Load metrics.
	BytesProcessed  int64 `json:"bytesProcessed"`
	ChunksProcessed int64 `json:"chunksProcessed"`
	DocsFailed      int64 `json:"docsFailed"`
	DocsProcessed   int64 `json:"docsProcessed"`
	DocsSucceeded   int64 `json:"docsSucceeded"`

	mu sync.Mutex `json:"-"`
}

//////
// Methods.
//////

// UpdateStatus updates the status.
func (lm *LoadMetrics) UpdateStatus(status Status) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lm.Status = status
}

// UpdateBytesProcessed updates the number of bytes processed.
func (lm *LoadMetrics) UpdateBytesProcessed(delta int64) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lm.BytesProcessed += delta
}

// IncreaseChunksProcessed increases the number of chunks processed.
func (lm *LoadMetrics) IncreaseChunksProcessed() {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lm.ChunksProcessed++
}

// IncreaseDocsFailed increases the number of documents that failed.
func (lm *LoadMetrics) IncreaseDocsFailed() {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lm.DocsFailed++
}

// IncreaseDocsProcessed increases the number of documents processed.
func (lm *LoadMetrics) IncreaseDocsProcessed() {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lm.DocsProcessed++
}

// IncreaseDocsSucceeded increases the number of documents that succeeded.
func (lm *LoadMetrics) IncreaseDocsSucceeded() {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lm.DocsSucceeded++
}

// GetMetrics returns a copy of the LoadMetrics struct.
func (lm *LoadMetrics) GetMetrics() *LoadMetrics {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	return &LoadMetrics{
		Status: lm.Status,

		BytesProcessed:  lm.BytesProcessed,
		ChunksProcessed: lm.ChunksProcessed,
		DocsFailed:      lm.DocsFailed,
		DocsProcessed:   lm.DocsProcessed,
		DocsSucceeded:   lm.DocsSucceeded,
	}
}

//////
// Factory.
//////

// NewLoadMetrics creates a new LoadMetrics struct.
func NewLoadMetrics() (*LoadMetrics, error) {
	m := &LoadMetrics{
		Status: StatusRunning,

		BytesProcessed:  0,
		ChunksProcessed: 0,
		DocsFailed:      0,
		DocsProcessed:   0,
		DocsSucceeded:   0,

		mu: sync.Mutex{},
	}

	if err := process(m); err != nil {
		return nil, customerror.NewInvalidError("load metrics", customerror.WithError(err))
	}

	return m, nil
}
