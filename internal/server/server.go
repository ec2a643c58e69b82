// Package server implements the authoritative dedicated server: a TCP
// acceptor bounded by a session cap, a fixed-rate tick worker driving
// the simulation, and the broadcasts that keep every client's view of
// the arena in sync.
package server

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flagrush-arena/server/internal/game"
	"github.com/flagrush-arena/server/internal/network"
	"github.com/flagrush-arena/server/internal/protocol"
	"github.com/flagrush-arena/server/internal/session"
)

// Config holds server configuration.
type Config struct {
	Port        int
	MaxSessions int
	TickRate    int // simulation ticks per second
}

// DefaultConfig returns the arena's standard configuration.
func DefaultConfig() Config {
	return Config{
		Port:        12345,
		MaxSessions: 8,
		TickRate:    60,
	}
}

// Server is the authoritative dedicated server for a single lobby.
type Server struct {
	cfg Config
	sim *game.Simulator
	ln  *network.Listener

	mu        sync.Mutex
	sessions  map[uint32]*session.Session
	sessionWG sync.WaitGroup

	running     atomic.Bool
	gameRunning atomic.Bool

	acceptorDone chan struct{}
	tickDone     chan struct{}
}

// New constructs a server. Call Init before Start.
func New(cfg Config) *Server {
	return &Server{
		cfg:      cfg,
		sim:      game.NewSimulator(),
		sessions: make(map[uint32]*session.Session),
	}
}

// Init binds the listening socket.
func (srv *Server) Init() error {
	ln, err := network.Listen(fmt.Sprintf("0.0.0.0:%d", srv.cfg.Port))
	if err != nil {
		return fmt.Errorf("server: init failed: %w", err)
	}
	srv.ln = ln
	log.Printf("server: listening on 0.0.0.0:%d (max sessions %d)", srv.cfg.Port, srv.cfg.MaxSessions)
	return nil
}

// Start launches the acceptor loop. If background is true it runs in
// its own goroutine and Start returns immediately; otherwise it blocks
// the caller until the server stops.
func (srv *Server) Start(background bool) {
	srv.running.Store(true)
	if background {
		srv.acceptorDone = make(chan struct{})
		go func() {
			defer close(srv.acceptorDone)
			srv.acceptLoop()
		}()
		return
	}
	srv.acceptLoop()
}

func (srv *Server) acceptLoop() {
	for srv.running.Load() {
		if srv.sessionCount() >= srv.cfg.MaxSessions {
			time.Sleep(200 * time.Millisecond)
			continue
		}

		conn, err := srv.ln.AcceptTimeout(time.Second)
		if err != nil {
			if errors.Is(err, network.ErrTimeout) {
				continue
			}
			if !srv.running.Load() {
				return
			}
			log.Printf("server: accept error: %v", err)
			continue
		}

		srv.handleNewConnection(conn)
	}
}

func (srv *Server) sessionCount() int {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return len(srv.sessions)
}

func (srv *Server) handleNewConnection(conn *network.Conn) {
	id, _ := srv.sim.AddPlayer("")
	sess := session.New(id, conn)

	srv.mu.Lock()
	srv.sessions[id] = sess
	srv.mu.Unlock()
	srv.sessionWG.Add(1)

	log.Printf("server: player %d connected from %s", id, conn.RemoteAddr())

	if err := sess.Send(protocol.EncodePlayerJoined(id)); err != nil {
		log.Printf("server: send PLAYER_JOINED to %d failed: %v", id, err)
	}
	if srv.sim.PlayerCount() == 1 {
		if err := sess.Send(protocol.EncodeMarkClientHost()); err != nil {
			log.Printf("server: send MARK_CLIENT_HOST to %d failed: %v", id, err)
		}
	}

	go srv.runSession(sess)

	srv.broadcastPlayerList()
}

func (srv *Server) runSession(sess *session.Session) {
	defer func() {
		srv.sim.RemovePlayer(sess.ID)
		sess.Close()

		srv.mu.Lock()
		delete(srv.sessions, sess.ID)
		srv.mu.Unlock()

		srv.sessionWG.Done()

		if srv.running.Load() {
			srv.broadcastPlayerList()
		}
		log.Printf("server: player %d disconnected", sess.ID)
	}()

	sess.Serve(&srv.running, func(payload []byte) {
		srv.dispatch(sess, payload)
	})
}

func (srv *Server) dispatch(sess *session.Session, payload []byte) {
	mt, err := protocol.TypeOf(payload)
	if err != nil {
		return
	}

	switch mt {
	case protocol.MsgRequestPlayerList:
		srv.broadcastPlayerList()
	case protocol.MsgPlayerInput:
		in, err := protocol.DecodePlayerInput(payload)
		if err != nil {
			log.Printf("server: malformed PLAYER_INPUT from %d: %v", sess.ID, err)
			return
		}
		srv.sim.QueuePlayerInput(in.PlayerID, in.InputX, in.InputY)
	case protocol.MsgRequestStartGame:
		if err := srv.StartGame(); err != nil {
			log.Printf("server: %v", err)
		}
	default:
		log.Printf("server: unhandled message type %s from player %d", mt, sess.ID)
	}
}

// StartGame starts the tick worker, if it is not already running.
func (srv *Server) StartGame() error {
	if !srv.running.Load() {
		return errors.New("server: cannot start a game before the server is running")
	}
	if srv.gameRunning.Load() {
		return errors.New("server: game already running")
	}
	srv.gameRunning.Store(true)
	srv.sim.Start()

	srv.tickDone = make(chan struct{})
	go func() {
		defer close(srv.tickDone)
		srv.tickLoop()
	}()
	return nil
}

func (srv *Server) tickLoop() {
	interval := time.Second / time.Duration(srv.cfg.TickRate)
	previous := time.Now()

	for srv.gameRunning.Load() && srv.running.Load() {
		now := time.Now()
		elapsed := now.Sub(previous)
		if elapsed >= interval {
			srv.sim.Update(uint32(elapsed.Milliseconds()))
			srv.broadcastGameState()
			previous = now
		} else {
			time.Sleep(time.Millisecond)
		}
	}
}

func (srv *Server) broadcastGameState() {
	if !srv.running.Load() {
		return
	}
	srv.notifyAll(protocol.EncodeGameState(srv.sim.GameState()))
}

func (srv *Server) broadcastPlayerList() {
	if !srv.running.Load() {
		return
	}
	state := srv.sim.GameState()
	names := make([]string, 0, len(state.Players))
	for _, id := range protocol.SortedPlayerIDs(state.Players) {
		names = append(names, state.Players[id].Name)
	}
	srv.notifyAll(protocol.EncodePlayerList(names))
}

func (srv *Server) broadcastShutdown() {
	srv.notifyAll(protocol.EncodeServerShutdown())
}

// notifyAll sends payload to every currently running session. It
// snapshots the session set under the registry lock and sends outside
// of it, so a slow or blocked client write never holds up accepts or
// disconnects.
func (srv *Server) notifyAll(payload []byte) {
	srv.mu.Lock()
	targets := make([]*session.Session, 0, len(srv.sessions))
	for _, s := range srv.sessions {
		if s.Running() {
			targets = append(targets, s)
		}
	}
	srv.mu.Unlock()

	for _, s := range targets {
		if err := s.Send(payload); err != nil {
			log.Printf("server: send to player %d failed: %v", s.ID, err)
		}
	}
}

// Stop shuts the server down: announce SERVER_SHUTDOWN, stop accepting
// and ticking, then close every session socket and wait for its worker
// to exit. Safe to call more than once.
func (srv *Server) Stop() {
	if !srv.running.Load() {
		return
	}

	srv.broadcastShutdown()

	srv.running.Store(false)
	srv.gameRunning.Store(false)
	srv.sim.Stop()

	srv.mu.Lock()
	sessions := make([]*session.Session, 0, len(srv.sessions))
	for _, s := range srv.sessions {
		s.Stop()
		sessions = append(sessions, s)
	}
	srv.mu.Unlock()

	if srv.ln != nil {
		srv.ln.Close()
	}

	if srv.tickDone != nil {
		<-srv.tickDone
	}
	if srv.acceptorDone != nil {
		<-srv.acceptorDone
	}

	for _, s := range sessions {
		s.Close()
	}
	srv.sessionWG.Wait()

	srv.mu.Lock()
	srv.sessions = make(map[uint32]*session.Session)
	srv.mu.Unlock()

	log.Printf("server: stopped cleanly")
}

// IsRunning reports whether the server is currently accepting sessions.
func (srv *Server) IsRunning() bool { return srv.running.Load() }

// IsGameRunning reports whether the tick worker is currently running.
func (srv *Server) IsGameRunning() bool { return srv.gameRunning.Load() }
