// Package render draws GAME_STATE snapshots to a terminal and
// translates terminal key events back into movement input, with three
// backends of increasing fidelity: plain ASCII, half-block true color,
// and a full tcell screen.
package render

import (
	"fmt"

	"github.com/flagrush-arena/server/internal/input"
	"github.com/flagrush-arena/server/internal/protocol"
)

// Color is an RGB color independent of any backend's color type.
type Color struct {
	R, G, B uint8
}

var (
	ColorWhite  = Color{255, 255, 255}
	ColorBlack  = Color{0, 0, 0}
	ColorRed    = Color{220, 50, 50}
	ColorBlue   = Color{60, 110, 230}
	ColorYellow = Color{230, 200, 60}
	ColorGray   = Color{120, 120, 120}
)

// Camera maps world coordinates onto a terminal viewport. The arena's
// world space is fixed, so the camera only needs to know the viewport
// it is scaling into.
type Camera struct {
	WorldWidth, WorldHeight   float32
	ViewportWidth, ViewportHeight int
}

// Project maps a world-space point to an integer terminal cell.
func (c Camera) Project(x, y float32) (int, int) {
	if c.WorldWidth == 0 || c.WorldHeight == 0 {
		return 0, 0
	}
	sx := int(x / c.WorldWidth * float32(c.ViewportWidth))
	sy := int(y / c.WorldHeight * float32(c.ViewportHeight))
	return sx, sy
}

// InputEventType classifies a translated terminal event.
type InputEventType int

const (
	InputNone InputEventType = iota
	InputDirection
	InputQuit
	InputStart
	InputResize
)

// InputEvent is a terminal key event translated into the vocabulary
// the client runtime understands.
type InputEvent struct {
	Type      InputEventType
	Direction input.Direction
	HasDir    bool
	Pressed   bool // true = key down, false = key up; only meaningful when HasDir
}

// Renderer draws GAME_STATE snapshots and polls for input. Backends
// are not safe for concurrent use from more than one goroutine.
type Renderer interface {
	Init() error
	Close()
	DrawState(state protocol.GameState, localPlayerID uint32, connected bool)
	PollInput() (InputEvent, bool)
}

// connStr formats the HUD's connection status line.
func connStr(connected bool, addr string) string {
	if connected {
		return fmt.Sprintf("connected to %s", addr)
	}
	return "disconnected"
}
