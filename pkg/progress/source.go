// Package progress adapts an external bounded interaction coordinate (a
// scrub bar, a tracked controller, a camera rig position) into the [0,1]
// progress scalar that drives the simulation, with per-tick smoothing and a
// throttle on the expensive recompute path.
package progress

import (
	"fmt"
	"time"
)

// Source maps a raw 1-D coordinate into progress via clamped normalization
// against a configured range. The follower eases toward the raw coordinate
// every tick; the recompute signal is throttled to at most once per interval
// and suppressed while progress moves less than epsilon. Coordinates outside
// the range freeze the source: the follower stops easing and no recompute
// fires, but the last progress stays available for display.
//
// Time is an injected now so the throttle is testable without sleeping.
type Source struct {
	min, max  float64
	smoothing float64
	epsilon   float64
	interval  time.Duration

	follower  float64
	live      float64
	committed float64
	lastAt    time.Time
	started   bool
	computed  bool
}

// NewSource validates the configuration and returns a source. smoothing is
// the per-tick easing factor in (0,1]; epsilon the minimum progress change
// that justifies a recompute; interval the minimum spacing between recomputes.
func NewSource(min, max, smoothing, epsilon float64, interval time.Duration) (*Source, error) {
	if max <= min {
		return nil, fmt.Errorf("progress: invalid coordinate range [%f,%f]", min, max)
	}
	if smoothing <= 0 || smoothing > 1 {
		return nil, fmt.Errorf("progress: smoothing factor must be in (0,1], got %f", smoothing)
	}
	if epsilon < 0 {
		return nil, fmt.Errorf("progress: negative change epsilon %f", epsilon)
	}
	if interval < 0 {
		return nil, fmt.Errorf("progress: negative recompute interval %s", interval)
	}
	return &Source{min: min, max: max, smoothing: smoothing, epsilon: epsilon, interval: interval}, nil
}

// Observe feeds one tick's raw coordinate and returns the smoothed progress
// plus whether the expensive recompute path should run this tick.
func (s *Source) Observe(raw float64, now time.Time) (progress float64, recompute bool) {
	if raw < s.min || raw > s.max {
		// Frozen: keep displaying the last computed state unchanged.
		return s.live, false
	}

	if !s.started {
		s.follower = raw
		s.started = true
	} else {
		s.follower += (raw - s.follower) * s.smoothing
	}

	p := (s.follower - s.min) / (s.max - s.min)
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	s.live = p

	// The first computable recompute always fires so a late-loading dataset
	// gets applied; after that, both the interval and the epsilon gate it.
	if !s.computed {
		recompute = true
	} else if now.Sub(s.lastAt) >= s.interval && abs(p-s.committed) > s.epsilon {
		recompute = true
	}
	if recompute {
		s.committed = p
		s.lastAt = now
		s.computed = true
	}
	return p, recompute
}

// Progress returns the last smoothed progress value.
func (s *Source) Progress() float64 { return s.live }

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
