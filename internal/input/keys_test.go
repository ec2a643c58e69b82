package input

import "testing"

func TestVectorCombinesHeldDirections(t *testing.T) {
	s := NewState()
	s.SetPressed(DirUp, true)
	s.SetPressed(DirRight, true)

	v := s.Vector()
	if v.X != 1 || v.Y != -1 {
		t.Fatalf("got (%v,%v), want (1,-1)", v.X, v.Y)
	}
}

func TestVectorCancelsOpposingDirections(t *testing.T) {
	s := NewState()
	s.SetPressed(DirLeft, true)
	s.SetPressed(DirRight, true)

	v := s.Vector()
	if v.X != 0 {
		t.Fatalf("got X %v, want 0", v.X)
	}
}

func TestResetClearsAllDirections(t *testing.T) {
	s := NewState()
	s.SetPressed(DirDown, true)
	s.Reset()

	if s.IsPressed(DirDown) {
		t.Fatalf("expected DirDown cleared after Reset")
	}
	if v := s.Vector(); v.X != 0 || v.Y != 0 {
		t.Fatalf("got (%v,%v), want (0,0)", v.X, v.Y)
	}
}

func TestSetPressedIgnoresOutOfRangeDirection(t *testing.T) {
	s := NewState()
	s.SetPressed(DirCount, true)
	if s.IsPressed(DirCount) {
		t.Fatalf("expected out-of-range direction to stay unset")
	}
}

func TestDefaultBindingsMapsWASD(t *testing.T) {
	b := DefaultBindings()
	want := map[rune]Direction{'w': DirUp, 'a': DirLeft, 's': DirDown, 'd': DirRight}
	for k, v := range want {
		if b[k] != v {
			t.Fatalf("binding %q: got %v, want %v", k, b[k], v)
		}
	}
}
