package milwatch

import (
	"testing"
	"time"
)

func TestDebouncerFirstSightingAlwaysFires(t *testing.T) {
	d := NewDebouncer(30 * time.Minute)
	if !d.ShouldAlert("abc123", time.Now()) {
		t.Error("first sighting must always fire")
	}
}

func TestDebouncerCooldownWindow(t *testing.T) {
	d := NewDebouncer(1800 * time.Second)
	t0 := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	if !d.ShouldAlert("abc123", t0) {
		t.Fatal("first sighting must fire")
	}
	if d.ShouldAlert("abc123", t0.Add(600*time.Second)) {
		t.Error("sighting inside the cooldown must not fire")
	}
	if !d.ShouldAlert("abc123", t0.Add(1801*time.Second)) {
		t.Error("sighting after the cooldown must fire again")
	}
}

func TestDebouncerExactBoundaryFires(t *testing.T) {
	d := NewDebouncer(1800 * time.Second)
	t0 := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	d.ShouldAlert("abc123", t0)
	if !d.ShouldAlert("abc123", t0.Add(1800*time.Second)) {
		t.Error("a sighting exactly at the cooldown boundary must fire")
	}
}

func TestDebouncerTracksPerAircraft(t *testing.T) {
	d := NewDebouncer(time.Hour)
	now := time.Now()

	if !d.ShouldAlert("abc123", now) {
		t.Error("first aircraft must fire")
	}
	if !d.ShouldAlert("def456", now) {
		t.Error("an unseen aircraft must fire regardless of other entries")
	}
	if d.Tracked() != 2 {
		t.Errorf("expected 2 tracked aircraft, got %d", d.Tracked())
	}
}

// No two accepted alerts for the same aircraft may be closer than the
// cooldown, whatever the sighting sequence looks like.
func TestDebouncerMinimumAlertSpacing(t *testing.T) {
	cooldown := 100 * time.Second
	d := NewDebouncer(cooldown)
	t0 := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	var accepted []time.Time
	for i := 0; i < 500; i++ {
		now := t0.Add(time.Duration(i*7) * time.Second)
		if d.ShouldAlert("abc123", now) {
			accepted = append(accepted, now)
		}
	}

	if len(accepted) < 2 {
		t.Fatalf("expected multiple alerts over the sequence, got %d", len(accepted))
	}
	for i := 1; i < len(accepted); i++ {
		if gap := accepted[i].Sub(accepted[i-1]); gap < cooldown {
			t.Fatalf("alerts %d and %d are only %v apart (cooldown %v)", i-1, i, gap, cooldown)
		}
	}
}
