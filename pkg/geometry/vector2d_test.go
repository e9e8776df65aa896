package geometry

import (
	"math"
	"testing"
)

func TestVector2D_AddSubMul(t *testing.T) {
	a := Vector2D{X: 1, Y: 2}
	b := Vector2D{X: 3, Y: -4}

	if got := a.Add(b); !got.Eq(Vector2D{X: 4, Y: -2}) {
		t.Errorf("Add: expected (4,-2), got %s", got)
	}
	if got := a.Sub(b); !got.Eq(Vector2D{X: -2, Y: 6}) {
		t.Errorf("Sub: expected (-2,6), got %s", got)
	}
	if got := a.Mul(2.5); !got.Eq(Vector2D{X: 2.5, Y: 5}) {
		t.Errorf("Mul: expected (2.5,5), got %s", got)
	}
}

func TestVector2D_Len(t *testing.T) {
	v := Vector2D{X: 3, Y: 4}
	if got := v.Len(); math.Abs(got-5) > Epsilon {
		t.Errorf("Len: expected 5, got %f", got)
	}
	if got := v.LenSqr(); math.Abs(got-25) > Epsilon {
		t.Errorf("LenSqr: expected 25, got %f", got)
	}
}

func TestVector2D_Normalize(t *testing.T) {
	v := Vector2D{X: 10, Y: 0}
	if got := v.Normalize(); !got.Eq(Vector2D{X: 1, Y: 0}) {
		t.Errorf("Normalize: expected (1,0), got %s", got)
	}

	// A zero vector must not blow up; it normalizes to zero.
	zero := Vector2D{}
	if got := zero.Normalize(); !got.Eq(Vector2D{}) {
		t.Errorf("Normalize of zero: expected (0,0), got %s", got)
	}
}

func TestVector2D_Distance(t *testing.T) {
	a := Vector2D{X: 0, Y: 0}
	b := Vector2D{X: 6, Y: 8}

	if got := a.DistanceTo(b); math.Abs(got-10) > Epsilon {
		t.Errorf("DistanceTo: expected 10, got %f", got)
	}
	if got := a.DistanceSquaredTo(b); math.Abs(got-100) > Epsilon {
		t.Errorf("DistanceSquaredTo: expected 100, got %f", got)
	}
}

func TestVector2D_Lerp(t *testing.T) {
	a := Vector2D{X: 0, Y: 0}
	b := Vector2D{X: 10, Y: -10}

	if got := a.Lerp(b, 0); !got.Eq(a) {
		t.Errorf("Lerp t=0: expected %s, got %s", a, got)
	}
	if got := a.Lerp(b, 1); !got.Eq(b) {
		t.Errorf("Lerp t=1: expected %s, got %s", b, got)
	}
	if got := a.Lerp(b, 0.5); !got.Eq(Vector2D{X: 5, Y: -5}) {
		t.Errorf("Lerp t=0.5: expected (5,-5), got %s", got)
	}
}
