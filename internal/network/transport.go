// Package network provides the TCP transport beneath the arena's
// framed wire protocol: a listener with a bounded accept poll and a
// connection wrapper that frames outgoing writes and decodes incoming
// ones.
package network

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/flagrush-arena/server/internal/protocol"
)

// ErrTimeout is returned by Listener.AcceptTimeout when no connection
// arrived before the deadline.
var ErrTimeout = errors.New("network: accept timeout")

// Listener wraps a TCP listener with a deadline-bounded Accept, used by
// the acceptor loop to poll for new connections without blocking
// shutdown indefinitely.
type Listener struct {
	ln *net.TCPListener
}

// Listen binds addr (host:port) with the platform's default backlog.
func Listen(addr string) (*Listener, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("network: resolve %s: %w", addr, err)
	}
	ln, err := net.ListenTCP("tcp", tcpAddr)
	if err != nil {
		return nil, fmt.Errorf("network: listen on %s: %w", addr, err)
	}
	return &Listener{ln: ln}, nil
}

// AcceptTimeout waits up to d for a pending connection. It returns
// ErrTimeout if none arrived in time, which the caller should treat as
// a normal readiness-poll miss rather than an error.
func (l *Listener) AcceptTimeout(d time.Duration) (*Conn, error) {
	if err := l.ln.SetDeadline(time.Now().Add(d)); err != nil {
		return nil, err
	}
	c, err := l.ln.Accept()
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, ErrTimeout
		}
		return nil, err
	}
	return NewConn(c), nil
}

// Close stops the listener, unblocking any pending AcceptTimeout call.
func (l *Listener) Close() error { return l.ln.Close() }

// Conn wraps a TCP connection with frame-aware send and receive.
type Conn struct {
	c   net.Conn
	dec protocol.Decoder
}

func NewConn(c net.Conn) *Conn { return &Conn{c: c} }

// Dial connects to addr and wraps the resulting socket.
func Dial(addr string) (*Conn, error) {
	c, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("network: dial %s: %w", addr, err)
	}
	return NewConn(c), nil
}

// Send frames payload as LEN:PAYLOAD and writes it in full, looping
// over partial writes.
func (c *Conn) Send(payload []byte) error {
	framed := protocol.Frame(payload)
	for len(framed) > 0 {
		n, err := c.c.Write(framed)
		if err != nil {
			return fmt.Errorf("network: send: %w", err)
		}
		framed = framed[n:]
	}
	return nil
}

// ReadMessages performs a single blocking read into buf, feeds the
// bytes to the connection's frame decoder, and returns every complete
// message the decoder could extract (zero, one, or more).
func (c *Conn) ReadMessages(buf []byte) ([][]byte, error) {
	n, err := c.c.Read(buf)
	if err != nil {
		return nil, err
	}
	c.dec.Feed(buf[:n])
	return c.dec.Drain(), nil
}

func (c *Conn) Close() error         { return c.c.Close() }
func (c *Conn) RemoteAddr() net.Addr { return c.c.RemoteAddr() }

// CloseRead half-closes the read side, which unblocks a pending
// ReadMessages call while leaving the write side open for a final
// write. The server's shutdown path does not call it; it closes each
// session socket outright.
func (c *Conn) CloseRead() error {
	if tc, ok := c.c.(*net.TCPConn); ok {
		return tc.CloseRead()
	}
	return nil
}
