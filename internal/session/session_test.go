package session

import (
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/flagrush-arena/server/internal/network"
)

func TestServeDispatchesDecodedMessages(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer clientConn.Close()

	sess := New(1, network.NewConn(serverConn))

	var serverRunning atomic.Bool
	serverRunning.Store(true)

	received := make(chan []byte, 4)
	done := make(chan struct{})
	go func() {
		sess.Serve(&serverRunning, func(payload []byte) { received <- payload })
		close(done)
	}()

	client := network.NewConn(clientConn)
	if err := client.Send([]byte("ping")); err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case msg := <-received:
		if string(msg) != "ping" {
			t.Fatalf("got %q, want ping", msg)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for dispatched message")
	}

	sess.Stop()
	clientConn.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Serve did not return after Stop and connection close")
	}
}
