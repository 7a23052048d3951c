package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/clawd/cad3d/config"
	"github.com/clawd/cad3d/prompt"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(config.HistoryConfig{
		Enabled:   true,
		Path:      ":memory:",
		MaxRecent: 5,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_AddAndRecent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	desc, err := prompt.Parse("a box 50x30x20mm")
	require.NoError(t, err)

	rec, err := s.Add(ctx, "a box 50x30x20mm", desc, "box.stl")
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)
	assert.Equal(t, "box", rec.Shape)
	assert.Equal(t, "box.stl", rec.Filename)

	records, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	decoded, err := records[0].DecodeDescriptor()
	require.NoError(t, err)
	assert.Equal(t, desc.Shape, decoded.Shape)
	assert.Equal(t, *desc.Width, *decoded.Width)
}

func TestStore_RecentOrderAndClamp(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	desc, err := prompt.Parse("sphere with radius 10")
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		_, err := s.Add(ctx, fmt.Sprintf("prompt %d", i), desc, "")
		require.NoError(t, err)
	}

	// oversized limit clamps to max_recent
	records, err := s.Recent(ctx, 100)
	require.NoError(t, err)
	require.Len(t, records, 5)

	// newest first
	assert.Equal(t, "prompt 7", records[0].Prompt)
	assert.Equal(t, "prompt 3", records[4].Prompt)

	// explicit smaller limit honored
	records, err = s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)
}

func TestStore_RecentEmpty(t *testing.T) {
	s := testStore(t)

	records, err := s.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecord_DecodeCorrupt(t *testing.T) {
	rec := Record{ID: 1, Descriptor: "{not json"}
	_, err := rec.DecodeDescriptor()
	assert.Error(t, err)
}
