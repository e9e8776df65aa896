package dataset

import (
	"fmt"
	"sync/atomic"
)

// Store owns the sorted snapshot series. It starts empty, is populated
// exactly once by an asynchronous load, and is immutable afterwards. The
// published series sits behind an atomic pointer so the one-time load never
// blocks or races the tick loop: Interpolate simply returns nil until the
// data is there.
type Store struct {
	orderingKey string
	series      atomic.Pointer[series]
}

type series struct {
	snaps  []Snapshot
	minKey float64
	maxKey float64
}

// NewStore creates an empty store keyed on the named ordering field.
func NewStore(orderingKey string) *Store {
	return &Store{orderingKey: orderingKey}
}

// OrderingKey returns the name of the ordering key field.
func (s *Store) OrderingKey() string { return s.orderingKey }

// Ready reports whether the snapshot series has been loaded.
func (s *Store) Ready() bool { return s.series.Load() != nil }

// Bounds returns the min and max ordering key values, and false until loaded.
func (s *Store) Bounds() (minKey, maxKey float64, ok bool) {
	sr := s.series.Load()
	if sr == nil {
		return 0, 0, false
	}
	return sr.minKey, sr.maxKey, true
}

// Len returns the number of loaded snapshots (0 until loaded).
func (s *Store) Len() int {
	sr := s.series.Load()
	if sr == nil {
		return 0
	}
	return len(sr.snaps)
}

// Load publishes the snapshot series. The input is sorted ascending by
// ordering key before publication. Loading an empty series or loading twice
// is an error; a failed load leaves the store in its not-ready state.
func (s *Store) Load(snaps []Snapshot) error {
	if len(snaps) == 0 {
		return fmt.Errorf("dataset: refusing to load empty snapshot series")
	}
	sorted := make([]Snapshot, len(snaps))
	copy(sorted, snaps)
	sortSnapshots(sorted)

	sr := &series{
		snaps:  sorted,
		minKey: sorted[0].Key,
		maxKey: sorted[len(sorted)-1].Key,
	}
	if !s.series.CompareAndSwap(nil, sr) {
		return fmt.Errorf("dataset: store already loaded")
	}
	return nil
}

// Interpolate returns the synthetic record at the given progress, or nil
// while the store is not ready. Progress is clamped to [0,1]. The ordering
// key of the result is set to min + progress*(max-min) exactly; every other
// field is linearly interpolated between the two bracketing snapshots.
// Once loaded this never fails: zero-width brackets collapse to the lower
// record and a single-snapshot series is returned unchanged.
func (s *Store) Interpolate(progress float64) *Record {
	sr := s.series.Load()
	if sr == nil {
		return nil
	}

	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}

	if len(sr.snaps) == 1 {
		return copyRecord(sr.snaps[0], sr.snaps[0].Key)
	}

	targetKey := sr.minKey + progress*(sr.maxKey-sr.minKey)

	// Scan for the first adjacent pair bracketing the target key. The series
	// is tens of records at most, so a linear scan beats cleverness.
	for i := 0; i < len(sr.snaps)-1; i++ {
		lower, upper := sr.snaps[i], sr.snaps[i+1]
		if targetKey < lower.Key || targetKey > upper.Key {
			continue
		}

		t := 0.0
		if width := upper.Key - lower.Key; width > 0 {
			t = (targetKey - lower.Key) / width
		}

		rec := &Record{Key: targetKey, Fields: make(map[string]float64, len(lower.Fields))}
		for name, lo := range lower.Fields {
			if name == s.orderingKey {
				continue
			}
			rec.Fields[name] = lo + t*(upper.Fields[name]-lo)
		}
		rec.Fields[s.orderingKey] = targetKey
		return rec
	}

	// Unreachable for a sorted series, but a total function beats a panic in
	// a path that runs every animation frame.
	return copyRecord(sr.snaps[len(sr.snaps)-1], targetKey)
}

func copyRecord(snap Snapshot, key float64) *Record {
	rec := &Record{Key: key, Fields: make(map[string]float64, len(snap.Fields))}
	for name, val := range snap.Fields {
		rec.Fields[name] = val
	}
	return rec
}
