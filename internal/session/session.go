// Package session owns the per-connection read loop: one goroutine per
// connected player, decoding framed messages off its socket and
// dispatching them to the server.
package session

import (
	"sync/atomic"

	"github.com/flagrush-arena/server/internal/network"
)

// Session is one connected player's socket plus its run state. A
// Session's own Serve goroutine is the only reader of its socket;
// Send and Stop may be called from any goroutine.
type Session struct {
	ID   uint32
	Conn *network.Conn

	running atomic.Bool
}

// New wraps an accepted connection as a running session.
func New(id uint32, conn *network.Conn) *Session {
	s := &Session{ID: id, Conn: conn}
	s.running.Store(true)
	return s
}

// Running reports whether the session's own loop should keep reading.
func (s *Session) Running() bool { return s.running.Load() }

// Stop clears the running flag. It does not itself unblock a pending
// read; the caller is responsible for closing or half-closing the
// underlying connection to do that.
func (s *Session) Stop() { s.running.Store(false) }

// Send writes a framed payload to the client. A write failure marks
// the session as no longer running, so its Serve loop winds down on
// its next readiness check.
func (s *Session) Send(payload []byte) error {
	if err := s.Conn.Send(payload); err != nil {
		s.running.Store(false)
		return err
	}
	return nil
}

func (s *Session) Close() error { return s.Conn.Close() }

// Serve blocks, repeatedly reading framed messages off the socket and
// handing each decoded payload to onMessage, until the session's own
// running flag clears, serverRunning clears, or the socket read fails.
// It always returns by falling out of the loop; the caller is
// responsible for any cleanup once it does.
func (s *Session) Serve(serverRunning *atomic.Bool, onMessage func(payload []byte)) {
	buf := make([]byte, 1023)
	for s.running.Load() && serverRunning.Load() {
		msgs, err := s.Conn.ReadMessages(buf)
		if err != nil {
			s.running.Store(false)
			return
		}
		for _, m := range msgs {
			onMessage(m)
		}
	}
}
