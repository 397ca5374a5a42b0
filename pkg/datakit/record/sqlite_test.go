package record_test

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/randalmurphal/datakit/pkg/datakit/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "records.db")

	store1, err := record.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store1.Insert(sample(1, "alice")))
	require.NoError(t, store1.Insert(sample(2, "bob")))
	require.NoError(t, store1.Close())

	store2, err := record.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	list, err := store2.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].Name)
	assert.Equal(t, "bob", list[1].Name)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := record.NewSQLiteStore("/nonexistent/path/records.db")
	assert.Error(t, err)
}

func TestSQLiteStore_CloseIdempotent(t *testing.T) {
	store, err := record.NewSQLiteStore(":memory:")
	require.NoError(t, err)

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_UnicodeNames(t *testing.T) {
	store, err := record.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	rec := sample(1, "Zoë Ångström 山田")
	require.NoError(t, store.Insert(rec))

	got, err := store.Load(1)
	require.NoError(t, err)
	assert.Equal(t, rec.Name, got.Name)
}

func TestSQLiteStore_Concurrent(t *testing.T) {
	store, err := record.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = store.Insert(sample(id, "r"))
			_, _ = store.Load(id)
			_, _ = store.List()
		}(int64(i))
	}
	wg.Wait()

	n, err := store.Len()
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}
