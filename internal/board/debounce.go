package board

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of calls per key into one call of fire, issued
// after delay of quiet. Flush runs fire at once if anything is pending.
type debouncer struct {
	delay time.Duration
	fire  func()

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func newDebouncer(delay time.Duration, fire func()) *debouncer {
	return &debouncer{delay: delay, fire: fire, pending: make(map[string]*time.Timer)}
}

// Trigger (re)starts the timer for key.
func (d *debouncer) Trigger(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.pending[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.pending[key] != t {
			// superseded by a newer Trigger or cancelled by Flush
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		d.mu.Unlock()
		d.fire()
	})
	d.pending[key] = t
}

// Pending reports how many keys are waiting to fire.
func (d *debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Flush cancels every pending timer and, if there was one, fires once now.
func (d *debouncer) Flush() bool {
	d.mu.Lock()
	n := len(d.pending)
	for k, t := range d.pending {
		t.Stop()
		delete(d.pending, k)
	}
	d.mu.Unlock()
	if n == 0 {
		return false
	}
	d.fire()
	return true
}
