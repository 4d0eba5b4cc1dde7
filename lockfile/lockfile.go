// Package lockfile provides advisory, filesystem-based mutual exclusion for
// named resources (e.g. "booking:<id>"). A held lock is represented by a file
// in the lock directory whose name is derived from a hash of the resource
// string. The primitive is cooperative: only callers that go through a
// Manager observe it.
package lockfile

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/clarinovist/ceritakita-booking-sub001/types"
)

// lockInfo is the JSON payload written into a lock file. Timestamp is epoch
// milliseconds.
type lockInfo struct {
	Timestamp int64  `json:"timestamp"`
	PID       int    `json:"pid"`
	Resource  string `json:"resource"`
}

// Manager serializes access to named resources across process boundaries.
// Acquisition polls at PollInterval until the lock file disappears or Timeout
// elapses. There is no fairness guarantee and no deadlock detection.
type Manager struct {
	dir          string
	timeout      time.Duration
	pollInterval time.Duration
	log          *zap.Logger
}

// New creates the lock directory if needed and returns a Manager.
func New(dir string, timeout, pollInterval time.Duration, log *zap.Logger) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if pollInterval <= 0 {
		pollInterval = 100 * time.Millisecond
	}
	return &Manager{
		dir:          dir,
		timeout:      timeout,
		pollInterval: pollInterval,
		log:          log,
	}, nil
}

func (m *Manager) path(resource string) string {
	sum := sha1.Sum([]byte(resource))
	return filepath.Join(m.dir, hex.EncodeToString(sum[:])+".lock")
}

// Acquire takes the lock for resource, blocking up to the manager's timeout.
// It returns a *types.LockTimeoutError when the lock is still held by someone
// else at the deadline.
func (m *Manager) Acquire(resource string) error {
	path := m.path(resource)
	deadline := time.Now().Add(m.timeout)

	for {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			info := lockInfo{
				Timestamp: time.Now().UnixMilli(),
				PID:       os.Getpid(),
				Resource:  resource,
			}
			if encErr := json.NewEncoder(f).Encode(&info); encErr != nil {
				m.log.Warn("failed to write lock info", zap.String("resource", resource), zap.Error(encErr))
			}
			f.Close()
			return nil
		}
		if !os.IsExist(err) {
			return err
		}
		if time.Now().After(deadline) {
			return &types.LockTimeoutError{Resource: resource, Timeout: m.timeout}
		}
		time.Sleep(m.pollInterval)
	}
}

// Release drops the lock for resource. Releasing a lock that is not held is
// not an error.
func (m *Manager) Release(resource string) {
	if err := os.Remove(m.path(resource)); err != nil && !os.IsNotExist(err) {
		m.log.Warn("failed to remove lock file", zap.String("resource", resource), zap.Error(err))
	}
}

// WithLock runs fn while holding the lock for resource. The lock is always
// released, including when fn returns an error or panics. When acquisition
// times out, fn is never started.
func (m *Manager) WithLock(resource string, fn func() error) error {
	if err := m.Acquire(resource); err != nil {
		return err
	}
	defer m.Release(resource)
	return fn()
}

// CleanupStale removes lock files older than the manager's timeout. It is the
// crash-recovery sweep: a process that died while holding a lock leaves its
// file behind, and without this sweep the resource would stay blocked until
// someone deletes the file by hand. Returns the number of files removed.
func (m *Manager) CleanupStale() (int, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	cutoff := time.Now().Add(-m.timeout)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lock" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(m.dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			m.log.Warn("failed to remove stale lock", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		m.log.Info("cleaned up stale locks", zap.Int("removed", removed))
	}
	return removed, nil
}
