package protocol

import (
	"bytes"
	"strconv"
)

// Frame wraps a payload in the wire's LEN:PAYLOAD prefix.
func Frame(payload []byte) []byte {
	prefix := strconv.Itoa(len(payload))
	out := make([]byte, 0, len(prefix)+1+len(payload))
	out = append(out, prefix...)
	out = append(out, ':')
	out = append(out, payload...)
	return out
}

// Decoder incrementally extracts LEN:PAYLOAD messages from a stream of
// bytes arriving in arbitrary chunks. A single Decoder is meant to live
// for the lifetime of one connection.
type Decoder struct {
	buf []byte
}

// Feed appends freshly received bytes to the decode buffer.
func (d *Decoder) Feed(b []byte) {
	d.buf = append(d.buf, b...)
}

// Next attempts to extract one complete message from the buffer. It
// returns ok=false if the buffer does not yet hold a full message. A
// length prefix that fails to parse as a non-negative integer is
// treated as corruption: the entire buffer is discarded, matching the
// wire's recovery rule of resyncing on the next colon rather than
// trying to skip just the bad prefix.
func (d *Decoder) Next() (msg []byte, ok bool) {
	colon := bytes.IndexByte(d.buf, ':')
	if colon < 0 {
		return nil, false
	}

	n, err := strconv.Atoi(string(d.buf[:colon]))
	if err != nil || n < 0 {
		d.buf = nil
		return nil, false
	}

	need := colon + 1 + n
	if len(d.buf) < need {
		return nil, false
	}

	msg = make([]byte, n)
	copy(msg, d.buf[colon+1:need])

	rest := make([]byte, len(d.buf)-need)
	copy(rest, d.buf[need:])
	d.buf = rest

	return msg, true
}

// Drain repeatedly calls Next until the buffer holds no further
// complete messages, returning every message extracted this call.
func (d *Decoder) Drain() [][]byte {
	var out [][]byte
	for {
		msg, ok := d.Next()
		if !ok {
			break
		}
		out = append(out, msg)
	}
	return out
}
