package eskit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoadOptions(t *testing.T) {
	got, err := NewLoadOptions()

	assert.NoError(t, err)
	assert.NotNil(t, got)

	assert.Equal(t, DefaultChunkSize, got.ChunkSize)
}
