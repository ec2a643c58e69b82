// Package protocol implements the wire format spoken between the arena
// server and its clients: a length-prefixed framing scheme wrapping a
// small set of text-encoded messages.
package protocol

import "sort"

// MessageType is the single leading byte of every framed payload.
type MessageType byte

const (
	MsgPlayerList       MessageType = 0x01
	MsgGameState        MessageType = 0x02
	MsgPlayerInput      MessageType = 0x03
	MsgRequestPlayerList MessageType = 0x04
	MsgPlayerJoined     MessageType = 0x05
	MsgPlayerLeft       MessageType = 0x06
	MsgMarkClientHost   MessageType = 0x07
	MsgRequestStartGame MessageType = 0x08
	MsgServerShutdown   MessageType = 0x09
)

func (t MessageType) String() string {
	switch t {
	case MsgPlayerList:
		return "PLAYER_LIST"
	case MsgGameState:
		return "GAME_STATE"
	case MsgPlayerInput:
		return "PLAYER_INPUT"
	case MsgRequestPlayerList:
		return "REQUEST_PLAYER_LIST"
	case MsgPlayerJoined:
		return "PLAYER_JOINED"
	case MsgPlayerLeft:
		return "PLAYER_LEFT"
	case MsgMarkClientHost:
		return "MARK_CLIENT_HOST"
	case MsgRequestStartGame:
		return "REQUEST_START_GAME"
	case MsgServerShutdown:
		return "SERVER_SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}

// PlayerState is one player's authoritative position and status within
// a GameState snapshot.
type PlayerState struct {
	ID           uint32
	Name         string
	X, Y         float32
	VelocityX    float32
	VelocityY    float32
	Team         uint8
	RespawnTimer uint32
	HasFlag      bool
	Connected    bool
}

// GameState is the full authoritative snapshot broadcast to every
// connected client once per tick.
type GameState struct {
	LobbyID   uint32
	MapID     uint8
	RedScore  uint8
	BlueScore uint8
	RedFlag   uint32 // 0 = at home, else the carrying player's id
	BlueFlag  uint32
	Players   map[uint32]PlayerState
}

// PlayerInput is a player's most recently queued movement vector.
type PlayerInput struct {
	PlayerID uint32
	InputX   float32
	InputY   float32
}

// SortedPlayerIDs returns a GameState's player ids in ascending order.
// Both the wire format and the tick's collision/flag resolution rely on
// this canonical order to stay reproducible across runs.
func SortedPlayerIDs(players map[uint32]PlayerState) []uint32 {
	ids := make([]uint32, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
