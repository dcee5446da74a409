package telemetry

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "samples.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRecordAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := store.Record(ctx, Sample{
			Timestamp:  base.Add(time.Duration(i) * time.Second),
			Identifier: "load_cpu",
			Quotient:   float64(10 * i),
			Value:      float64(10 * i),
			Total:      100,
		})
		require.NoError(t, err)
	}

	samples, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, samples, 3)

	// Newest first.
	assert.Equal(t, 40.0, samples[0].Quotient)
	assert.Equal(t, 30.0, samples[1].Quotient)
	assert.Equal(t, 20.0, samples[2].Quotient)
	assert.Equal(t, "load_cpu", samples[0].Identifier)
	assert.Equal(t, base.Add(4*time.Second), samples[0].Timestamp)
}

func TestStoreRecent_Empty(t *testing.T) {
	store := newTestStore(t)

	samples, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestStoreOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}

func TestStoreOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "samples.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record(context.Background(), Sample{
		Timestamp:  time.Now(),
		Identifier: "pump",
		Quotient:   50,
		Value:      700,
		Total:      1400,
	}))
}
