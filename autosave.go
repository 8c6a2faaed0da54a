// FILE: lixenwraith/chanlog/autosave.go
package chanlog

import (
	"sync"
	"sync/atomic"
	"time"
)

// autoSaveState tracks the periodic save goroutine of one manager
type autoSaveState struct {
	mu       sync.Mutex
	started  atomic.Bool
	exited   atomic.Bool
	interval time.Duration
	stop     chan struct{}

	totalSaves    atomic.Uint64
	totalFailures atomic.Uint64
}

// StartAutoSave saves the pending file every interval until StopAutoSave.
// Ticks on which the history length is unchanged since the last periodic save
// are skipped. A running autosaver is restarted with the new interval.
func (m *SnapshotManager) StartAutoSave(interval time.Duration) error {
	if interval <= 0 {
		return fmtErrorf("autosave interval must be positive: %v", interval)
	}

	s := &m.autosave
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started.Load() {
		if err := m.stopAutoSave(2 * interval); err != nil {
			return fmtErrorf("failed to stop running autosaver: %w", err)
		}
	}

	s.stop = make(chan struct{})
	s.interval = interval
	s.exited.Store(false)
	s.started.Store(true)
	go m.runAutoSave(interval, s.stop)

	return nil
}

// StopAutoSave halts the autosaver and waits up to timeout for it to exit.
// It returns nil when no autosaver is running.
func (m *SnapshotManager) StopAutoSave(timeout time.Duration) error {
	s := &m.autosave
	s.mu.Lock()
	defer s.mu.Unlock()
	return m.stopAutoSave(timeout)
}

// stopAutoSave runs with autosave.mu held
func (m *SnapshotManager) stopAutoSave(timeout time.Duration) error {
	s := &m.autosave
	if !s.started.CompareAndSwap(true, false) {
		return nil
	}
	close(s.stop)

	if timeout < minWaitTime {
		timeout = minWaitTime
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.exited.Load() {
			return nil
		}
		time.Sleep(minWaitTime)
	}

	if !s.exited.Load() {
		return fmtErrorf("autosaver of channel '%s' did not exit within timeout (%v)", m.owner.Identity(), timeout)
	}
	return nil
}

// AutoSaveRunning reports whether the autosaver is active
func (m *SnapshotManager) AutoSaveRunning() bool {
	return m.autosave.started.Load()
}

// AutoSaveStats returns the number of successful and failed periodic saves
func (m *SnapshotManager) AutoSaveStats() (saves, failures uint64) {
	return m.autosave.totalSaves.Load(), m.autosave.totalFailures.Load()
}

func (m *SnapshotManager) runAutoSave(interval time.Duration, stop <-chan struct{}) {
	s := &m.autosave
	defer s.exited.Store(true)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// History length covered by the last periodic save
	saved := 0

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			n := m.owner.History().Len()
			if n == saved {
				continue
			}
			if m.NextFile().Save() {
				saved = n
				s.totalSaves.Add(1)
			} else {
				s.totalFailures.Add(1)
				internalLog(m.owner.Debug(), "autosave of channel '%s' failed\n", m.owner.Identity())
			}
		}
	}
}
