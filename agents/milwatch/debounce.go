package milwatch

import (
	"sync"
	"time"
)

// Debouncer enforces the per-aircraft alert cooldown. An aircraft with
// no recorded alert always fires; afterwards it fires again only once
// the cooldown has fully elapsed. Entries are never evicted: the map is
// bounded by the number of distinct airframes seen over the process
// lifetime and resets on restart.
type Debouncer struct {
	mu        sync.Mutex
	cooldown  time.Duration
	lastAlert map[string]time.Time
}

func NewDebouncer(cooldown time.Duration) *Debouncer {
	return &Debouncer{
		cooldown:  cooldown,
		lastAlert: make(map[string]time.Time),
	}
}

// ShouldAlert decides whether an alert for hex may fire at now, and
// records now as the last-alert time only when it returns true.
func (d *Debouncer) ShouldAlert(hex string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.lastAlert[hex]; ok && now.Sub(last) < d.cooldown {
		return false
	}
	d.lastAlert[hex] = now
	return true
}

// Tracked returns the number of distinct aircraft with a recorded alert.
func (d *Debouncer) Tracked() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.lastAlert)
}
