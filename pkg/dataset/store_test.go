package dataset

import (
	"math"
	"testing"
)

const key = "ownershipRate"

func twoSnapshotStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(key)
	err := s.Load([]Snapshot{
		{Key: 0, Fields: map[string]float64{key: 0, "groupA": 1.0, "groupB": 0.0}},
		{Key: 1, Fields: map[string]float64{key: 1, "groupA": 0.0, "groupB": 1.0}},
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return s
}

func TestStore_NotReady(t *testing.T) {
	s := NewStore(key)
	if s.Ready() {
		t.Error("empty store should not be ready")
	}
	if rec := s.Interpolate(0.5); rec != nil {
		t.Errorf("Interpolate before load should return nil, got %+v", rec)
	}
	if _, _, ok := s.Bounds(); ok {
		t.Error("Bounds before load should report not ok")
	}
}

func TestStore_LoadRejectsEmpty(t *testing.T) {
	s := NewStore(key)
	if err := s.Load(nil); err == nil {
		t.Error("expected error loading empty series")
	}
	if s.Ready() {
		t.Error("failed load must leave the store not ready")
	}
}

func TestStore_LoadRejectsSecondLoad(t *testing.T) {
	s := twoSnapshotStore(t)
	err := s.Load([]Snapshot{{Key: 5, Fields: map[string]float64{key: 5}}})
	if err == nil {
		t.Error("expected error on second load")
	}
}

func TestStore_InterpolateMidpoint(t *testing.T) {
	// Scenario from the data contract: two snapshots, groupA fading out as
	// groupB fades in. The midpoint must be an exact 50/50 blend.
	s := twoSnapshotStore(t)

	rec := s.Interpolate(0.5)
	if rec == nil {
		t.Fatal("Interpolate returned nil on a loaded store")
	}
	if rec.Key != 0.5 {
		t.Errorf("expected key 0.5, got %f", rec.Key)
	}
	if rec.Fields["groupA"] != 0.5 || rec.Fields["groupB"] != 0.5 {
		t.Errorf("expected 0.5/0.5 blend, got A=%f B=%f", rec.Fields["groupA"], rec.Fields["groupB"])
	}
}

func TestStore_InterpolateBounds(t *testing.T) {
	s := NewStore(key)
	err := s.Load([]Snapshot{
		{Key: 42.5, Fields: map[string]float64{key: 42.5, "x": 1}},
		{Key: 48.0, Fields: map[string]float64{key: 48.0, "x": 3}},
		{Key: 63.5, Fields: map[string]float64{key: 63.5, "x": 7}},
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if rec := s.Interpolate(0); rec.Key != 42.5 {
		t.Errorf("progress 0: expected minKey 42.5, got %f", rec.Key)
	}
	if rec := s.Interpolate(1); rec.Key != 63.5 {
		t.Errorf("progress 1: expected maxKey 63.5, got %f", rec.Key)
	}

	// Out-of-range progress clamps rather than extrapolating.
	if rec := s.Interpolate(-0.5); rec.Key != 42.5 {
		t.Errorf("progress -0.5: expected clamp to 42.5, got %f", rec.Key)
	}
	if rec := s.Interpolate(2); rec.Key != 63.5 {
		t.Errorf("progress 2: expected clamp to 63.5, got %f", rec.Key)
	}

	// The ordering key must be monotonically non-decreasing in progress.
	prev := math.Inf(-1)
	for p := 0.0; p <= 1.0; p += 0.01 {
		rec := s.Interpolate(p)
		if rec.Key < prev {
			t.Fatalf("ordering key decreased at progress %f: %f < %f", p, rec.Key, prev)
		}
		prev = rec.Key
	}
}

func TestStore_InterpolateIdempotent(t *testing.T) {
	s := twoSnapshotStore(t)

	a := s.Interpolate(0.37)
	b := s.Interpolate(0.37)
	if a.Key != b.Key {
		t.Errorf("keys differ: %f vs %f", a.Key, b.Key)
	}
	if len(a.Fields) != len(b.Fields) {
		t.Fatalf("field counts differ: %d vs %d", len(a.Fields), len(b.Fields))
	}
	for name, av := range a.Fields {
		if bv := b.Fields[name]; av != bv {
			t.Errorf("field %q differs: %f vs %f", name, av, bv)
		}
	}
}

func TestStore_SingleSnapshot(t *testing.T) {
	s := NewStore(key)
	err := s.Load([]Snapshot{
		{Key: 7, Fields: map[string]float64{key: 7, "a": 0.3}},
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for _, p := range []float64{0, 0.5, 1} {
		rec := s.Interpolate(p)
		if rec.Key != 7 || rec.Fields["a"] != 0.3 {
			t.Errorf("progress %f: single snapshot must be returned unchanged, got %+v", p, rec)
		}
	}
}

func TestStore_ZeroWidthBracket(t *testing.T) {
	// Duplicate ordering keys are legal; the zero-width bracket must behave
	// as t=0 instead of dividing by zero.
	s := NewStore(key)
	err := s.Load([]Snapshot{
		{Key: 0, Fields: map[string]float64{key: 0, "a": 1}},
		{Key: 0, Fields: map[string]float64{key: 0, "a": 2}},
		{Key: 10, Fields: map[string]float64{key: 10, "a": 3}},
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	rec := s.Interpolate(0)
	if math.IsNaN(rec.Fields["a"]) || math.IsInf(rec.Fields["a"], 0) {
		t.Fatalf("zero-width bracket produced non-finite value: %f", rec.Fields["a"])
	}
	if rec.Fields["a"] != 1 {
		t.Errorf("expected lower record value 1, got %f", rec.Fields["a"])
	}
}

func TestStore_LoadSortsUnorderedInput(t *testing.T) {
	s := NewStore(key)
	err := s.Load([]Snapshot{
		{Key: 9, Fields: map[string]float64{key: 9, "a": 9}},
		{Key: 1, Fields: map[string]float64{key: 1, "a": 1}},
		{Key: 5, Fields: map[string]float64{key: 5, "a": 5}},
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	minKey, maxKey, ok := s.Bounds()
	if !ok || minKey != 1 || maxKey != 9 {
		t.Errorf("expected bounds [1,9], got [%f,%f] ok=%v", minKey, maxKey, ok)
	}
	if rec := s.Interpolate(0.5); rec.Fields["a"] != 5 {
		t.Errorf("expected midpoint record a=5, got %f", rec.Fields["a"])
	}
}
