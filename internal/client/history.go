package client

import "github.com/flagrush-arena/server/internal/protocol"

// History holds the most recent GameState snapshots received from the
// server, oldest first. Its main use is letting a renderer fall back to
// the latest known state between ticks rather than blocking on the
// network.
type History struct {
	snapshots []protocol.GameState
	capacity  int
}

// NewHistory returns a history that retains at most capacity snapshots.
func NewHistory(capacity int) *History {
	return &History{
		snapshots: make([]protocol.GameState, 0, capacity),
		capacity:  capacity,
	}
}

// Add appends a snapshot, evicting the oldest one if the buffer is full.
func (h *History) Add(s protocol.GameState) {
	if len(h.snapshots) >= h.capacity {
		copy(h.snapshots, h.snapshots[1:])
		h.snapshots = h.snapshots[:len(h.snapshots)-1]
	}
	h.snapshots = append(h.snapshots, s)
}

// Latest returns the most recently added snapshot, or false if the
// history is empty.
func (h *History) Latest() (protocol.GameState, bool) {
	if len(h.snapshots) == 0 {
		return protocol.GameState{}, false
	}
	return h.snapshots[len(h.snapshots)-1], true
}

// Len returns the number of buffered snapshots.
func (h *History) Len() int { return len(h.snapshots) }
