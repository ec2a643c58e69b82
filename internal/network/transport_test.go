package network

import (
	"net"
	"testing"
	"time"
)

func TestConnSendReadMessagesRoundTrip(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	sc := NewConn(server)
	cc := NewConn(client)

	done := make(chan error, 1)
	go func() { done <- sc.Send([]byte("hello")) }()

	buf := make([]byte, 1024)
	msgs, err := cc.ReadMessages(buf)
	if err != nil {
		t.Fatalf("ReadMessages: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(msgs) != 1 || string(msgs[0]) != "hello" {
		t.Fatalf("got %v, want [hello]", msgs)
	}
}

func TestListenerAcceptTimeout(t *testing.T) {
	ln, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	_, err = ln.AcceptTimeout(50 * time.Millisecond)
	if err != ErrTimeout {
		t.Fatalf("got %v, want ErrTimeout", err)
	}
}
