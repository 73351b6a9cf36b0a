package storage

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// RateGuard enforces a minimum interval between feed requests across
// every process sharing the same guard file. The file holds the unix
// nanosecond timestamp of the last request; an exclusive advisory lock
// guards the read-sleep-write critical section.
type RateGuard struct {
	path   string
	minGap time.Duration
	lock   *flock.Flock
}

func NewRateGuard(path string, minGap time.Duration) *RateGuard {
	return &RateGuard{
		path:   path,
		minGap: minGap,
		lock:   flock.New(path),
	}
}

// Acquire blocks until at least the configured minimum gap has elapsed
// since the last acquisition by any process, then records the new
// acquisition time.
func (g *RateGuard) Acquire(ctx context.Context) error {
	if err := g.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock rate guard %s: %w", g.path, err)
	}
	defer g.lock.Unlock()

	last := g.readLast()
	if deficit := g.minGap - time.Since(last); deficit > 0 {
		timer := time.NewTimer(deficit)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return g.writeNow()
}

// readLast returns the persisted last-acquisition time, or the zero time
// when the file is new or unreadable.
func (g *RateGuard) readLast() time.Time {
	data, err := os.ReadFile(g.path)
	if err != nil {
		return time.Time{}
	}
	ns, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

func (g *RateGuard) writeNow() error {
	stamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := os.WriteFile(g.path, []byte(stamp), 0644); err != nil {
		return fmt.Errorf("failed to update rate guard %s: %w", g.path, err)
	}
	return nil
}
