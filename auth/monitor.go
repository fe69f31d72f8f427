package auth

import (
	"sync"
	"time"
)

// Monitor polls a Manager and notifies the owner when the session is about
// to expire or has expired. The warn callback fires once per session; a
// Refresh on the manager re-arms it. On expiry the expire callback fires and
// the owner is expected to force a logout.
type Monitor struct {
	manager  *Manager
	interval time.Duration
	onWarn   func(remaining time.Duration)
	onExpire func()

	mu     sync.Mutex
	warned bool
	stop   chan struct{}
	done   chan struct{}
}

// NewMonitor builds a monitor with the standard 60s check interval.
func NewMonitor(manager *Manager, onWarn func(time.Duration), onExpire func()) *Monitor {
	return &Monitor{
		manager:  manager,
		interval: CheckInterval,
		onWarn:   onWarn,
		onExpire: onExpire,
	}
}

// SetInterval overrides the polling interval (used by tests).
func (mo *Monitor) SetInterval(d time.Duration) {
	mo.interval = d
}

// Start launches the polling loop. Stop must be called on teardown so no
// timer is left dangling.
func (mo *Monitor) Start() {
	mo.stop = make(chan struct{})
	mo.done = make(chan struct{})
	go mo.run()
}

func (mo *Monitor) run() {
	defer close(mo.done)
	ticker := time.NewTicker(mo.interval)
	defer ticker.Stop()
	for {
		select {
		case <-mo.stop:
			return
		case <-ticker.C:
			if mo.Check() == StateExpired {
				return
			}
		}
	}
}

// Check runs one poll cycle and returns the observed state. Exported so the
// owner can force an immediate check.
func (mo *Monitor) Check() SessionState {
	state := mo.manager.State()
	remaining := mo.manager.Remaining()

	mo.mu.Lock()
	defer mo.mu.Unlock()

	switch state {
	case StateExpired:
		if mo.onExpire != nil {
			mo.onExpire()
		}
	case StateAuthenticated:
		if remaining <= WarningThreshold {
			if !mo.warned && mo.onWarn != nil {
				mo.onWarn(remaining)
			}
			mo.warned = true
		} else {
			// Session was extended; clear the warning latch.
			mo.warned = false
		}
	}
	return state
}

// Stop terminates the polling loop and waits for it to exit.
func (mo *Monitor) Stop() {
	if mo.stop == nil {
		return
	}
	select {
	case <-mo.stop:
	default:
		close(mo.stop)
	}
	<-mo.done
}
