package render

import (
	"os"

	"golang.org/x/term"
)

// rawStdin puts the terminal into raw mode and streams single bytes
// read from stdin onto a buffered channel, so a renderer's PollInput
// can do a non-blocking select against it instead of blocking the
// draw loop on a read.
type rawStdin struct {
	fd       int
	oldState *term.State
	bytes    chan byte
	quit     chan struct{}
}

func newRawStdin() (*rawStdin, error) {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	r := &rawStdin{
		fd:       fd,
		oldState: old,
		bytes:    make(chan byte, 64),
		quit:     make(chan struct{}),
	}
	go r.read()
	return r, nil
}

func (r *rawStdin) read() {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return
		}
		select {
		case r.bytes <- buf[0]:
		case <-r.quit:
			return
		default:
			// drop under backpressure; the next poll will pick up the
			// next byte rather than stall the reader goroutine
		}
	}
}

func (r *rawStdin) poll() (byte, bool) {
	select {
	case b := <-r.bytes:
		return b, true
	default:
		return 0, false
	}
}

func (r *rawStdin) close() {
	close(r.quit)
	term.Restore(r.fd, r.oldState)
}
