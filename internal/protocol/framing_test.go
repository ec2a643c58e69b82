package protocol

import (
	"bytes"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	payload := []byte("hello world")
	framed := Frame(payload)

	var d Decoder
	d.Feed(framed)
	msg, ok := d.Next()
	if !ok {
		t.Fatalf("Next() returned ok=false for a complete frame")
	}
	if !bytes.Equal(msg, payload) {
		t.Fatalf("got %q, want %q", msg, payload)
	}
}

func TestDecoderMultipleMessagesInOneChunk(t *testing.T) {
	var d Decoder
	d.Feed([]byte("5:HELLO2:HI"))

	msgs := d.Drain()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if string(msgs[0]) != "HELLO" {
		t.Fatalf("first message = %q, want HELLO", msgs[0])
	}
	if string(msgs[1]) != "HI" {
		t.Fatalf("second message = %q, want HI", msgs[1])
	}
}

func TestDecoderPartialMessageWaitsForMoreBytes(t *testing.T) {
	var d Decoder
	d.Feed([]byte("5:HEL"))
	if msgs := d.Drain(); len(msgs) != 0 {
		t.Fatalf("got %d messages from a partial frame, want 0", len(msgs))
	}

	d.Feed([]byte("LO"))
	msgs := d.Drain()
	if len(msgs) != 1 || string(msgs[0]) != "HELLO" {
		t.Fatalf("got %v after completing the frame, want [HELLO]", msgs)
	}
}

func TestDecoderPartialLengthPrefixWaitsForColon(t *testing.T) {
	var d Decoder
	d.Feed([]byte("1"))
	if msgs := d.Drain(); len(msgs) != 0 {
		t.Fatalf("got %d messages before the colon arrived, want 0", len(msgs))
	}
	d.Feed([]byte("0:0123456789"))
	msgs := d.Drain()
	if len(msgs) != 1 || string(msgs[0]) != "0123456789" {
		t.Fatalf("got %v, want [0123456789]", msgs)
	}
}

func TestDecoderCorruptLengthPrefixDiscardsBuffer(t *testing.T) {
	var d Decoder
	d.Feed([]byte("abc:garbage5:HELLO"))

	// The corrupt "abc" prefix clears the whole buffer, including the
	// valid "5:HELLO" message that followed it in the same chunk.
	msgs := d.Drain()
	if len(msgs) != 0 {
		t.Fatalf("got %v, want no messages after a corrupt prefix", msgs)
	}

	d.Feed([]byte("5:HELLO"))
	msgs = d.Drain()
	if len(msgs) != 1 || string(msgs[0]) != "HELLO" {
		t.Fatalf("got %v, want [HELLO] after feeding a fresh valid frame", msgs)
	}
}

func TestDecoderNegativeLengthIsCorrupt(t *testing.T) {
	var d Decoder
	d.Feed([]byte("-1:x"))
	if msgs := d.Drain(); len(msgs) != 0 {
		t.Fatalf("got %v, want no messages for a negative length prefix", msgs)
	}
}

func TestDecoderZeroLengthMessage(t *testing.T) {
	var d Decoder
	d.Feed([]byte("0:"))
	msg, ok := d.Next()
	if !ok {
		t.Fatalf("Next() returned ok=false for a zero-length frame")
	}
	if len(msg) != 0 {
		t.Fatalf("got %q, want empty message", msg)
	}
}
