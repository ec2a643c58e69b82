// Package input tracks which movement keys are currently held and
// converts that state into the movement vector sent to the server as
// PLAYER_INPUT.
package input

import "github.com/flagrush-arena/server/internal/geometry"

// Direction is a logical movement key, independent of any particular
// terminal backend's key codes.
type Direction uint8

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
	DirCount // sentinel for array sizing
)

// State tracks the pressed state of all movement directions using a
// fixed-size array.
type State struct {
	pressed [DirCount]bool
}

// NewState returns a state with nothing pressed.
func NewState() *State { return &State{} }

// IsPressed reports whether dir is currently held.
func (s *State) IsPressed(dir Direction) bool {
	if dir >= DirCount {
		return false
	}
	return s.pressed[dir]
}

// SetPressed updates a direction's pressed state.
func (s *State) SetPressed(dir Direction, pressed bool) {
	if dir >= DirCount {
		return
	}
	s.pressed[dir] = pressed
}

// Reset clears every direction.
func (s *State) Reset() {
	for i := range s.pressed {
		s.pressed[i] = false
	}
}

// Vector combines the currently held directions into a movement
// vector. Opposing directions cancel; the simulator normalizes the
// result itself, so diagonals come back unnormalized here.
func (s *State) Vector() geometry.Vector2 {
	var v geometry.Vector2
	if s.pressed[DirUp] {
		v.Y -= 1
	}
	if s.pressed[DirDown] {
		v.Y += 1
	}
	if s.pressed[DirLeft] {
		v.X -= 1
	}
	if s.pressed[DirRight] {
		v.X += 1
	}
	return v
}

// DefaultBindings maps WASD to their logical directions.
func DefaultBindings() map[rune]Direction {
	return map[rune]Direction{
		'w': DirUp,
		's': DirDown,
		'a': DirLeft,
		'd': DirRight,
	}
}
