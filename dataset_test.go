package eskit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	table := &Table{
		Columns: []string{"id", "title"},
		Rows: [][]any{
			{"a", "first"},
			{"b", "second"},
		},
		Labels: []string{"row-a"},
	}

	assert.Equal(t, 2, table.Len())

	assert.Equal(t, map[string]any{"id": "a", "title": "first"}, table.Record(0))

	// Explicit label where present, ordinal otherwise.
	assert.Equal(t, "row-a", table.Label(0))
	assert.Equal(t, "1", table.Label(1))
}

func TestTableShortRow(t *testing.T) {
	table := &Table{
		Columns: []string{"id", "title"},
		Rows:    [][]any{{"a"}},
	}

	assert.Equal(t, map[string]any{"id": "a"}, table.Record(0))
}

func TestRecords(t *testing.T) {
	records := Records{
		{"title": "first"},
		{"title": "second"},
	}

	assert.Equal(t, 2, records.Len())
	assert.Equal(t, map[string]any{"title": "second"}, records.Record(1))
	assert.Equal(t, "1", records.Label(1))
}

func TestChunkBounds(t *testing.T) {
	lo, hi := chunkBounds(3, 2, 0)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 2, hi)

	lo, hi = chunkBounds(3, 2, 1)
	assert.Equal(t, 2, lo)
	assert.Equal(t, 3, hi)
}

func TestStripMissing(t *testing.T) {
	doc := stripMissing(map[string]any{
		"title":  "kept",
		"count":  0,
		"empty":  "",
		"score":  math.NaN(),
		"scoref": float32(math.NaN()),
		"author": nil,
	})

	// Zero values are data; only nil and NaN are missing.
	assert.Equal(t, map[string]any{
		"title": "kept",
		"count": 0,
		"empty": "",
	}, doc)
}

func TestIsMissing(t *testing.T) {
	assert.True(t, isMissing(nil))
	assert.True(t, isMissing(math.NaN()))
	assert.True(t, isMissing(float32(math.NaN())))

	assert.False(t, isMissing(0.0))
	assert.False(t, isMissing(""))
	assert.False(t, isMissing("NaN"))
}
