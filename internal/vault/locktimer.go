package vault

import (
	"sync"
	"time"
)

// lockTimer calls fire after d of inactivity. A zero duration disables it.
type lockTimer struct {
	mu    sync.Mutex
	d     time.Duration
	fire  func()
	timer *time.Timer
}

func newLockTimer(d time.Duration, fire func()) *lockTimer {
	return &lockTimer{d: d, fire: fire}
}

// touch restarts the countdown.
func (t *lockTimer) touch() {
	if t.d <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.d, t.fire)
}

// stop cancels a pending countdown.
func (t *lockTimer) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
