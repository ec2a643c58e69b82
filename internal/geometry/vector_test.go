package geometry

import "testing"

func TestNormalizedLeavesShortVectorsAlone(t *testing.T) {
	v := Vector2{X: 0.3, Y: 0.4}
	got := v.Normalized()
	if got != v {
		t.Fatalf("got %+v, want unchanged %+v", got, v)
	}
}

func TestNormalizedRescalesLongVectors(t *testing.T) {
	v := Vector2{X: 3, Y: 4}
	got := v.Normalized()
	if l := got.Length(); l < 0.999 || l > 1.001 {
		t.Fatalf("got length %v, want ~1", l)
	}
}

func TestDistance(t *testing.T) {
	a := Vector2{X: 0, Y: 0}
	b := Vector2{X: 3, Y: 4}
	if d := a.Distance(b); d != 5 {
		t.Fatalf("got %v, want 5", d)
	}
}

func TestRectClamp(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 800, Height: 600}
	x, y := r.Clamp(-10, 700, 15)
	if x != 15 || y != 585 {
		t.Fatalf("got (%v, %v), want (15, 585)", x, y)
	}
}
