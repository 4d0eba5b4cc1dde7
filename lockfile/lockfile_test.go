package lockfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clarinovist/ceritakita-booking-sub001/types"
)

func newManager(t *testing.T, timeout time.Duration) *Manager {
	t.Helper()
	m, err := New(t.TempDir(), timeout, 10*time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	return m
}

func TestAcquireRelease(t *testing.T) {
	m := newManager(t, time.Second)

	require.NoError(t, m.Acquire("booking:abc"))
	m.Release("booking:abc")

	// Released lock can be taken again immediately.
	require.NoError(t, m.Acquire("booking:abc"))
	m.Release("booking:abc")
}

func TestReleaseWithoutAcquireIsNoop(t *testing.T) {
	m := newManager(t, time.Second)
	m.Release("booking:never-held")
}

func TestAcquireTimesOutWhileHeld(t *testing.T) {
	m := newManager(t, 200*time.Millisecond)

	require.NoError(t, m.Acquire("booking:contested"))
	defer m.Release("booking:contested")

	start := time.Now()
	err := m.Acquire("booking:contested")
	elapsed := time.Since(start)

	var lt *types.LockTimeoutError
	require.ErrorAs(t, err, &lt)
	assert.Equal(t, "booking:contested", lt.Resource)
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
}

func TestDifferentResourcesDoNotBlock(t *testing.T) {
	m := newManager(t, time.Second)

	require.NoError(t, m.Acquire("booking:one"))
	defer m.Release("booking:one")

	require.NoError(t, m.Acquire("booking:two"))
	m.Release("booking:two")
}

func TestLockFilePayload(t *testing.T) {
	dir := t.TempDir()
	m, err := New(dir, time.Second, 10*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	before := time.Now().UnixMilli()
	require.NoError(t, m.Acquire("booking:payload"))
	defer m.Release("booking:payload")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".lock", filepath.Ext(entries[0].Name()))

	raw, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)

	var info struct {
		Timestamp int64  `json:"timestamp"`
		PID       int    `json:"pid"`
		Resource  string `json:"resource"`
	}
	require.NoError(t, json.Unmarshal(raw, &info))
	assert.Equal(t, "booking:payload", info.Resource)
	assert.Equal(t, os.Getpid(), info.PID)
	assert.GreaterOrEqual(t, info.Timestamp, before)
}

func TestWithLockReleasesOnError(t *testing.T) {
	m := newManager(t, time.Second)

	err := m.WithLock("booking:err", func() error {
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	// The failed call must not leave the lock held.
	require.NoError(t, m.Acquire("booking:err"))
	m.Release("booking:err")
}

func TestWithLockMutualExclusion(t *testing.T) {
	m := newManager(t, 5*time.Second)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.WithLock("booking:shared", func() error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				time.Sleep(20 * time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen, "two holders observed inside the critical section")
}

func TestCleanupStale(t *testing.T) {
	dir := t.TempDir()
	m, err := New(dir, 100*time.Millisecond, 10*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, m.Acquire("booking:stale"))

	// Age the lock file past the timeout, as if the holder crashed.
	old := time.Now().Add(-time.Minute)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, os.Chtimes(filepath.Join(dir, entries[0].Name()), old, old))

	removed, err := m.CleanupStale()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	// The resource is usable again.
	require.NoError(t, m.Acquire("booking:stale"))
	m.Release("booking:stale")
}

func TestCleanupStaleKeepsFreshLocks(t *testing.T) {
	m := newManager(t, time.Minute)

	require.NoError(t, m.Acquire("booking:fresh"))
	defer m.Release("booking:fresh")

	removed, err := m.CleanupStale()
	require.NoError(t, err)
	assert.Zero(t, removed)
}
