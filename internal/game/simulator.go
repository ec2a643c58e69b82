// Package game implements the authoritative simulation of the capture
// the flag arena: player movement, wall and player collisions, and
// flag pickup/capture/pop rules.
package game

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/flagrush-arena/server/internal/geometry"
	"github.com/flagrush-arena/server/internal/protocol"
)

const (
	PlayerRadius       float32 = 15
	PlayerAcceleration float32 = 60
	PlayerMaxSpeed     float32 = 1000
	PlayerFriction     float32 = 0.98
	PlayerRestitution  float32 = 0.2
	WallRestitution    float32 = 0.15
	ArenaWidth         float32 = 800
	ArenaHeight        float32 = 600

	TeamRed  uint8 = 0
	TeamBlue uint8 = 1

	lobbyID uint32 = 1
)

var (
	RedFlagHome  = geometry.Vector2{X: 100, Y: 300}
	BlueFlagHome = geometry.Vector2{X: 700, Y: 300}

	// Arena bounds the playable area; clampToWalls keeps every player's
	// center at least PlayerRadius inside it.
	Arena = geometry.Rect{X: 0, Y: 0, Width: ArenaWidth, Height: ArenaHeight}
)

// Simulator owns the authoritative game state and is safe for
// concurrent use by an acceptor goroutine (AddPlayer/RemovePlayer), a
// pool of session read-loops (QueuePlayerInput), and a single tick
// worker (Update/GameState). Update acquires stateMu for its whole
// duration and, while holding it, briefly takes inputMu to swap out the
// pending input queue; QueuePlayerInput takes inputMu alone. The lock
// order is therefore always stateMu before inputMu.
type Simulator struct {
	stateMu sync.Mutex
	state   protocol.GameState

	inputMu    sync.Mutex
	inputQueue []protocol.PlayerInput

	running bool
}

// NewSimulator returns an empty simulator for a single lobby.
func NewSimulator() *Simulator {
	return &Simulator{
		state: protocol.GameState{
			LobbyID: lobbyID,
			Players: make(map[uint32]protocol.PlayerState),
		},
	}
}

func (s *Simulator) Start() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.running {
		return
	}
	s.running = true
	log.Printf("game: lobby %d started", s.state.LobbyID)
}

func (s *Simulator) Stop() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	log.Printf("game: lobby %d stopped", s.state.LobbyID)
}

func spawnPosition(team uint8) (float32, float32) {
	if team == TeamRed {
		return 100, ArenaHeight / 2
	}
	return ArenaWidth - 100, ArenaHeight / 2
}

func smallestUnusedID(players map[uint32]protocol.PlayerState) uint32 {
	id := uint32(1)
	for {
		if _, exists := players[id]; !exists {
			return id
		}
		id++
	}
}

// AddPlayer allocates the smallest unused positive id, derives the
// player's team by alternating on that id, and spawns them at their
// team's home side of the arena. An empty name is replaced with
// "Player<id>". It returns the assigned id and team.
func (s *Simulator) AddPlayer(name string) (id uint32, team uint8) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	id = smallestUnusedID(s.state.Players)
	team = uint8(id % 2)
	if name == "" {
		name = fmt.Sprintf("Player%d", id)
	}

	x, y := spawnPosition(team)
	s.state.Players[id] = protocol.PlayerState{
		ID:        id,
		Name:      name,
		X:         x,
		Y:         y,
		Team:      team,
		Connected: true,
	}
	log.Printf("game: %s (id %d) joined team %d", name, id, team)
	return id, team
}

// RemovePlayer removes a player and, if they held it, returns the flag
// they were carrying to its home. If the lobby becomes empty, scores
// and both flags reset. It reports whether the player existed.
func (s *Simulator) RemovePlayer(id uint32) bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	p, ok := s.state.Players[id]
	if !ok {
		return false
	}
	delete(s.state.Players, id)

	if p.HasFlag {
		if p.Team == TeamRed {
			s.state.BlueFlag = 0
		} else {
			s.state.RedFlag = 0
		}
	}

	if len(s.state.Players) == 0 {
		s.state.RedScore = 0
		s.state.BlueScore = 0
		s.state.RedFlag = 0
		s.state.BlueFlag = 0
	}

	log.Printf("game: %s (id %d) removed", p.Name, id)
	return true
}

// SetPlayerTeam reassigns a player's team directly. Exposed as part of
// the simulator's interface but not invoked by any inbound protocol
// message today; switching teams mid-match does not reposition or
// respawn the player.
func (s *Simulator) SetPlayerTeam(id uint32, team uint8) bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	p, ok := s.state.Players[id]
	if !ok {
		return false
	}
	p.Team = team
	s.state.Players[id] = p
	return true
}

// QueuePlayerInput records a player's latest movement vector for
// consumption by the next tick. Only the most recent input per player
// need be kept, but the simulator queues every call and lets the tick
// apply them in arrival order, matching the source's queue semantics.
func (s *Simulator) QueuePlayerInput(playerID uint32, x, y float32) {
	s.inputMu.Lock()
	defer s.inputMu.Unlock()
	s.inputQueue = append(s.inputQueue, protocol.PlayerInput{PlayerID: playerID, InputX: x, InputY: y})
}

// PlayerCount returns the number of players currently in the lobby.
func (s *Simulator) PlayerCount() int {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return len(s.state.Players)
}

// GameState returns a deep copy of the current authoritative state,
// safe for the caller to serialize or inspect without further locking.
func (s *Simulator) GameState() protocol.GameState {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	players := make(map[uint32]protocol.PlayerState, len(s.state.Players))
	for id, p := range s.state.Players {
		players[id] = p
	}
	out := s.state
	out.Players = players
	return out
}

// Update advances the simulation by deltaMs milliseconds: respawn
// countdowns, queued input, velocity integration and friction, wall
// bounces, flag pickup/capture, and player-player collisions with the
// flag pop rule.
func (s *Simulator) Update(deltaMs uint32) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	deltaSec := float32(deltaMs) / 1000

	for id, p := range s.state.Players {
		if p.RespawnTimer == 0 {
			continue
		}
		if deltaMs >= p.RespawnTimer {
			p.RespawnTimer = 0
		} else {
			p.RespawnTimer -= deltaMs
		}
		s.state.Players[id] = p
	}

	s.drainInputs(deltaSec)

	ids := protocol.SortedPlayerIDs(s.state.Players)

	for _, id := range ids {
		p := s.state.Players[id]
		if !p.Connected {
			continue
		}
		decay := float32(math.Pow(float64(PlayerFriction), float64(deltaSec)))
		p.VelocityX *= decay
		p.VelocityY *= decay
		p.X += p.VelocityX * deltaSec
		p.Y += p.VelocityY * deltaSec
		if abs32(p.VelocityX) < 0.01 {
			p.VelocityX = 0
		}
		if abs32(p.VelocityY) < 0.01 {
			p.VelocityY = 0
		}
		s.state.Players[id] = p
	}

	for _, id := range ids {
		p := s.state.Players[id]
		clampToWalls(&p)
		s.state.Players[id] = p
	}

	s.resolveFlags(ids)
	s.resolveCollisions(ids)
}

func (s *Simulator) drainInputs(deltaSec float32) {
	s.inputMu.Lock()
	queued := s.inputQueue
	s.inputQueue = nil
	s.inputMu.Unlock()

	for _, in := range queued {
		p, ok := s.state.Players[in.PlayerID]
		if !ok || p.RespawnTimer != 0 {
			continue
		}

		input := geometry.Vector2{X: in.InputX, Y: in.InputY}.Normalized()
		p.VelocityX += input.X * PlayerAcceleration * deltaSec
		p.VelocityY += input.Y * PlayerAcceleration * deltaSec

		speed := geometry.Vector2{X: p.VelocityX, Y: p.VelocityY}.Length()
		if speed > PlayerMaxSpeed {
			scale := PlayerMaxSpeed / speed
			p.VelocityX *= scale
			p.VelocityY *= scale
		}

		s.state.Players[in.PlayerID] = p
	}
}

// clampToWalls pulls a player back inside Arena and reflects their
// velocity off whichever wall they hit, but only when they were moving
// into it; a player already bounced clear of a wall never gets a
// second reflection from the same contact.
func clampToWalls(p *protocol.PlayerState) {
	hitLeft := p.X < Arena.X+PlayerRadius
	hitRight := p.X > Arena.X+Arena.Width-PlayerRadius
	hitTop := p.Y < Arena.Y+PlayerRadius
	hitBottom := p.Y > Arena.Y+Arena.Height-PlayerRadius

	p.X, p.Y = Arena.Clamp(p.X, p.Y, PlayerRadius)

	if hitLeft && p.VelocityX < 0 {
		p.VelocityX = -p.VelocityX * WallRestitution
	} else if hitRight && p.VelocityX > 0 {
		p.VelocityX = -p.VelocityX * WallRestitution
	}
	if hitTop && p.VelocityY < 0 {
		p.VelocityY = -p.VelocityY * WallRestitution
	} else if hitBottom && p.VelocityY > 0 {
		p.VelocityY = -p.VelocityY * WallRestitution
	}
}

func (s *Simulator) resolveFlags(ids []uint32) {
	for _, id := range ids {
		p := s.state.Players[id]
		if p.RespawnTimer != 0 || !p.Connected {
			continue
		}

		pos := geometry.Vector2{X: p.X, Y: p.Y}
		switch p.Team {
		case TeamRed:
			if s.state.BlueFlag == 0 && pos.Distance(BlueFlagHome) < 2*PlayerRadius {
				p.HasFlag = true
				s.state.BlueFlag = p.ID
			}
			if p.HasFlag && s.state.RedFlag == 0 && pos.Distance(RedFlagHome) < 2*PlayerRadius {
				p.HasFlag = false
				s.state.BlueFlag = 0
				s.state.RedScore++
			}
		case TeamBlue:
			if s.state.RedFlag == 0 && pos.Distance(RedFlagHome) < 2*PlayerRadius {
				p.HasFlag = true
				s.state.RedFlag = p.ID
			}
			if p.HasFlag && s.state.BlueFlag == 0 && pos.Distance(BlueFlagHome) < 2*PlayerRadius {
				p.HasFlag = false
				s.state.RedFlag = 0
				s.state.BlueScore++
			}
		}

		s.state.Players[id] = p
	}
}

func (s *Simulator) resolveCollisions(ids []uint32) {
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			id1, id2 := ids[i], ids[j]
			p1 := s.state.Players[id1]
			p2 := s.state.Players[id2]

			if p1.RespawnTimer != 0 || p2.RespawnTimer != 0 || !p1.Connected || !p2.Connected {
				continue
			}

			pos1 := geometry.Vector2{X: p1.X, Y: p1.Y}
			pos2 := geometry.Vector2{X: p2.X, Y: p2.Y}
			delta := pos1.Sub(pos2)
			dist := delta.Length()
			if !(dist < 2*PlayerRadius && dist > 0) {
				continue
			}

			nx, ny := delta.X/dist, delta.Y/dist
			overlap := 2*PlayerRadius - dist
			sep := overlap / 2
			p1.X += nx * sep
			p1.Y += ny * sep
			p2.X -= nx * sep
			p2.Y -= ny * sep

			rvx := p1.VelocityX - p2.VelocityX
			rvy := p1.VelocityY - p2.VelocityY
			velAlongNormal := rvx*nx + rvy*ny

			if velAlongNormal <= 0 {
				impulse := -(1 + PlayerRestitution) * velAlongNormal / 2
				p1.VelocityX += nx * impulse
				p1.VelocityY += ny * impulse
				p2.VelocityX -= nx * impulse
				p2.VelocityY -= ny * impulse
			}

			if p1.HasFlag && p1.Team != p2.Team {
				s.popCarrier(&p1)
			}
			if p2.HasFlag && p1.Team != p2.Team {
				s.popCarrier(&p2)
			}

			s.state.Players[id1] = p1
			s.state.Players[id2] = p2
		}
	}
}

// popCarrier strips a flag carrier of the flag on contact with an
// opposing player, zeroes their velocity, sends them back to their
// team's spawn, and returns the carried flag to its home.
func (s *Simulator) popCarrier(p *protocol.PlayerState) {
	p.HasFlag = false
	p.VelocityX = 0
	p.VelocityY = 0
	p.X, p.Y = spawnPosition(p.Team)
	if p.Team == TeamRed {
		s.state.BlueFlag = 0
	} else {
		s.state.RedFlag = 0
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
