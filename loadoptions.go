package eskit

import (
	"github.com/thalesfsp/customerror"
)

//////
// Const, vars, and types.
//////

// DefaultChunkSize is the number of rows materialized per chunk.
const DefaultChunkSize = 1000

// LoadOptions defines the options for loading documents.
//
// NOTE: Use NewLoadOptions() to create a new LoadOptions struct!
type LoadOptions struct {
	// IDColumn whose values become document IDs. When empty, the dataset's
	// row labels (ordinals by default) are used.
	IDColumn string `json:"idColumn"`

	// ChunkSize is the number of rows materialized per chunk.
	ChunkSize int `default:"1000" json:"chunkSize" validate:"gte=1"`

	// SuggestColumn whose values are copied into the completion "suggest"
	// field when present in a record.
	SuggestColumn string `json:"suggestColumn"`

	// DeleteOld drops an existing index of the same name before loading.
	// Absence of the index is not an error.
	DeleteOld bool `json:"deleteOld"`

	// Refresh forces a per-document refresh. Slow, meant for tests.
	Refresh bool `json:"refresh"`

	//////
	// Dynamic options, they are optional.
	//////

	// DocumentIDFunc overrides ID resolution entirely.
	DocumentIDFunc func(record map[string]any, ordinal int) string `json:"-"`

	// OnChunk reports progress after each chunk, e.g. to a progress bar.
	OnChunk func(done, total int) `json:"-"`
}

//////
// Factory.
//////

// NewLoadOptions creates load options with the default chunk size.
func NewLoadOptions() (*LoadOptions, error) {
	lO := &LoadOptions{
		ChunkSize: DefaultChunkSize,
	}

	if err := process(lO); err != nil {
		return nil, customerror.NewInvalidError("load options", customerror.WithError(err))
	}

	return lO, nil
}
