package badger_test

import (
	"sync"
	"testing"

	seqstore "pickingpacking/internal/adapters/out/badger"
	"pickingpacking/internal/core/domain/model/kernel"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSequenceSource_StartsAboveFloor(t *testing.T) {
	source, err := seqstore.NewSequenceSource(openInMemory(t), seqstore.DefaultKey, 41)
	require.NoError(t, err)
	defer func() { _ = source.Close() }()

	first, err := source.Next()
	require.NoError(t, err)
	second, err := source.Next()
	require.NoError(t, err)

	assert.Equal(t, uint64(42), first)
	assert.Equal(t, uint64(43), second)
}

func TestSequenceSource_ConcurrentCallersGetDistinctNumbers(t *testing.T) {
	source, err := seqstore.NewSequenceSource(openInMemory(t), seqstore.DefaultKey, 0)
	require.NoError(t, err)
	defer func() { _ = source.Close() }()

	const workers, perWorker = 8, 300
	var (
		mu   sync.Mutex
		seen = make(map[uint64]struct{})
		wg   sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				n, nextErr := source.Next()
				assert.NoError(t, nextErr)
				mu.Lock()
				seen[n] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestSequenceSource_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	source, err := seqstore.Open(dir, 0)
	require.NoError(t, err)
	last, err := source.Next()
	require.NoError(t, err)
	require.NoError(t, source.Close())

	reopened, err := seqstore.Open(dir, 0)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	next, err := reopened.Next()
	require.NoError(t, err)
	assert.Greater(t, next, last)
}

func TestSequenceSource_DrivesClock(t *testing.T) {
	source, err := seqstore.NewSequenceSource(openInMemory(t), seqstore.DefaultKey, 0)
	require.NoError(t, err)
	defer func() { _ = source.Close() }()

	clock := kernel.NewClock(source)
	a, err := clock.Next()
	require.NoError(t, err)
	b, err := clock.Next()
	require.NoError(t, err)

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, int64(1), a.Seq())
}
