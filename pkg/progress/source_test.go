package progress

import (
	"math"
	"testing"
	"time"
)

func newTestSource(t *testing.T) *Source {
	t.Helper()
	// Range [0,1000], no smoothing lag (factor 1) unless a test wants it.
	s, err := NewSource(0, 1000, 1.0, 0.01, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}
	return s
}

func TestNewSource_Validation(t *testing.T) {
	if _, err := NewSource(10, 10, 0.5, 0.01, time.Second); err == nil {
		t.Error("expected error for empty range")
	}
	if _, err := NewSource(0, 1, 0, 0.01, time.Second); err == nil {
		t.Error("expected error for zero smoothing")
	}
	if _, err := NewSource(0, 1, 1.5, 0.01, time.Second); err == nil {
		t.Error("expected error for smoothing above 1")
	}
	if _, err := NewSource(0, 1, 0.5, -1, time.Second); err == nil {
		t.Error("expected error for negative epsilon")
	}
}

func TestObserve_Normalization(t *testing.T) {
	s := newTestSource(t)
	now := time.Now()

	p, recompute := s.Observe(250, now)
	if math.Abs(p-0.25) > 1e-12 {
		t.Errorf("expected progress 0.25, got %f", p)
	}
	if !recompute {
		t.Error("first observation must trigger a recompute")
	}
}

func TestObserve_Throttle(t *testing.T) {
	s := newTestSource(t)
	start := time.Now()

	s.Observe(100, start)

	// Big movement inside the interval: throttled.
	if _, recompute := s.Observe(900, start.Add(10*time.Millisecond)); recompute {
		t.Error("recompute inside the interval must be throttled")
	}

	// Same movement after the interval: allowed.
	if _, recompute := s.Observe(900, start.Add(150*time.Millisecond)); !recompute {
		t.Error("expected recompute once the interval elapsed")
	}
}

func TestObserve_EpsilonGate(t *testing.T) {
	s := newTestSource(t)
	start := time.Now()

	s.Observe(500, start)

	// Interval elapsed but progress barely moved: skipped.
	if _, recompute := s.Observe(501, start.Add(time.Second)); recompute {
		t.Error("sub-epsilon movement must not trigger a recompute")
	}

	// A real movement after the interval recomputes.
	if _, recompute := s.Observe(600, start.Add(2*time.Second)); !recompute {
		t.Error("expected recompute for movement beyond epsilon")
	}
}

func TestObserve_FrozenOutsideBounds(t *testing.T) {
	s := newTestSource(t)
	now := time.Now()

	p0, _ := s.Observe(400, now)

	// Out-of-bounds coordinates freeze everything.
	p, recompute := s.Observe(-50, now.Add(time.Second))
	if recompute {
		t.Error("frozen source must not recompute")
	}
	if p != p0 {
		t.Errorf("frozen source must keep last progress %f, got %f", p0, p)
	}

	p, _ = s.Observe(5000, now.Add(2*time.Second))
	if p != p0 {
		t.Errorf("frozen source must keep last progress %f, got %f", p0, p)
	}

	// Back in bounds, it resumes.
	p, recompute = s.Observe(800, now.Add(3*time.Second))
	if !recompute || math.Abs(p-0.8) > 1e-12 {
		t.Errorf("expected resume at 0.8 with recompute, got %f recompute=%v", p, recompute)
	}
}

func TestObserve_Smoothing(t *testing.T) {
	s, err := NewSource(0, 1000, 0.5, 0.01, 0)
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}
	now := time.Now()

	// First observation snaps the follower to the raw coordinate.
	p, _ := s.Observe(0, now)
	if p != 0 {
		t.Fatalf("expected initial progress 0, got %f", p)
	}

	// The follower then eases halfway toward the target each tick.
	p, _ = s.Observe(1000, now.Add(time.Second))
	if math.Abs(p-0.5) > 1e-12 {
		t.Errorf("expected eased progress 0.5, got %f", p)
	}
	p, _ = s.Observe(1000, now.Add(2*time.Second))
	if math.Abs(p-0.75) > 1e-12 {
		t.Errorf("expected eased progress 0.75, got %f", p)
	}
}
