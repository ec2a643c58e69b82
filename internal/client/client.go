// Package client implements the thin client runtime: it dials the
// arena server, decodes its broadcasts, and exposes a small callback
// surface that a renderer and input loop can drive without knowing
// anything about the wire protocol.
package client

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/flagrush-arena/server/internal/network"
	"github.com/flagrush-arena/server/internal/protocol"
)

// Config holds client configuration.
type Config struct {
	ServerAddr string
	PlayerName string
}

const historyCapacity = 16

// Client owns one connection to the arena server. Run must be called
// from its own goroutine; SendPlayerInput, RequestPlayerList,
// RequestStartGame and Disconnect may be called from any goroutine.
type Client struct {
	cfg  Config
	conn *network.Conn

	playerID atomic.Uint32
	running  atomic.Bool
	history  *History

	onMessage           func(payload []byte)
	onConnectionChanged func(connected bool)
}

// New constructs a client. Call Connect before Run.
func New(cfg Config) *Client {
	return &Client{
		cfg:     cfg,
		history: NewHistory(historyCapacity),
	}
}

// OnMessage registers a callback invoked for every decoded message the
// client receives, after the client's own interception of
// PLAYER_JOINED, GAME_STATE and SERVER_SHUTDOWN.
func (c *Client) OnMessage(fn func(payload []byte)) { c.onMessage = fn }

// OnConnectionChanged registers a callback invoked when the connection
// is established or lost.
func (c *Client) OnConnectionChanged(fn func(connected bool)) { c.onConnectionChanged = fn }

// PlayerID returns the id assigned by the server's PLAYER_JOINED
// message, or 0 if none has arrived yet.
func (c *Client) PlayerID() uint32 { return c.playerID.Load() }

// History returns the client's buffered GAME_STATE snapshots.
func (c *Client) History() *History { return c.history }

// Connect dials the server.
func (c *Client) Connect() error {
	conn, err := network.Dial(c.cfg.ServerAddr)
	if err != nil {
		return fmt.Errorf("client: connect to %s: %w", c.cfg.ServerAddr, err)
	}
	c.conn = conn
	c.running.Store(true)
	if c.onConnectionChanged != nil {
		c.onConnectionChanged(true)
	}
	log.Printf("client: connected to %s as %q", c.cfg.ServerAddr, c.cfg.PlayerName)
	return nil
}

// Run blocks, reading and dispatching messages until the connection is
// lost or Disconnect is called.
func (c *Client) Run() error {
	buf := make([]byte, 4096)
	for c.running.Load() {
		msgs, err := c.conn.ReadMessages(buf)
		if err != nil {
			c.running.Store(false)
			if c.onConnectionChanged != nil {
				c.onConnectionChanged(false)
			}
			return fmt.Errorf("client: read: %w", err)
		}
		for _, m := range msgs {
			c.handle(m)
		}
	}
	return nil
}

func (c *Client) handle(payload []byte) {
	mt, err := protocol.TypeOf(payload)
	if err != nil {
		return
	}

	switch mt {
	case protocol.MsgPlayerJoined:
		if id, err := protocol.DecodePlayerJoined(payload); err == nil {
			c.playerID.Store(id)
		}
	case protocol.MsgGameState:
		if state, err := protocol.DecodeGameState(payload); err == nil {
			c.history.Add(state)
		}
	case protocol.MsgServerShutdown:
		c.running.Store(false)
	}

	if c.onMessage != nil {
		c.onMessage(payload)
	}
}

// SendPlayerInput sends the player's current movement vector.
func (c *Client) SendPlayerInput(x, y float32) error {
	return c.conn.Send(protocol.EncodePlayerInput(c.playerID.Load(), x, y))
}

// RequestPlayerList asks the server to broadcast the current roster.
func (c *Client) RequestPlayerList() error {
	return c.conn.Send(protocol.EncodeRequestPlayerList())
}

// RequestStartGame asks the server to start the match.
func (c *Client) RequestStartGame() error {
	return c.conn.Send(protocol.EncodeRequestStartGame())
}

// Disconnect closes the connection and stops Run.
func (c *Client) Disconnect() {
	c.running.Store(false)
	if c.conn != nil {
		c.conn.Close()
	}
}
