package jobs

import (
	"time"

	"go.uber.org/zap"

	"github.com/clarinovist/ceritakita-booking-sub001/lockfile"
)

// LockCleanupJob periodically sweeps the lock directory for stale lock files
// left behind by crashed processes.
type LockCleanupJob struct {
	locks    *lockfile.Manager
	interval time.Duration
	log      *zap.Logger
	stopChan chan bool
}

// NewLockCleanupJob creates a new cleanup job
func NewLockCleanupJob(locks *lockfile.Manager, interval time.Duration, log *zap.Logger) *LockCleanupJob {
	return &LockCleanupJob{
		locks:    locks,
		interval: interval,
		log:      log,
		stopChan: make(chan bool),
	}
}

// Start begins the cleanup job
func (j *LockCleanupJob) Start() {
	go j.run()
	j.log.Info("lock cleanup job started", zap.Duration("interval", j.interval))
}

// Stop stops the cleanup job
func (j *LockCleanupJob) Stop() {
	j.stopChan <- true
	j.log.Info("lock cleanup job stopped")
}

func (j *LockCleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := j.locks.CleanupStale(); err != nil {
				j.log.Error("stale lock sweep failed", zap.Error(err))
			}
		case <-j.stopChan:
			return
		}
	}
}
