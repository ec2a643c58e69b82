package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeOf reports the message type tag of a decoded (unframed) payload.
func TypeOf(payload []byte) (MessageType, error) {
	if len(payload) == 0 {
		return 0, fmt.Errorf("protocol: empty payload")
	}
	return MessageType(payload[0]), nil
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

func parseUint(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

// EncodeGameState serializes a GameState into the GAME_STATE wire
// format:
//
//	lobbyId|mapId|redScore|blueScore|redFlag|blueFlag|p1;p2;...
//
// where each player is id,name,x,y,vx,vy,team,connected;
func EncodeGameState(s GameState) []byte {
	var players strings.Builder
	for _, id := range SortedPlayerIDs(s.Players) {
		p := s.Players[id]
		fmt.Fprintf(&players, "%d,%s,%s,%s,%s,%s,%d,%t;",
			p.ID, p.Name, formatFloat(p.X), formatFloat(p.Y),
			formatFloat(p.VelocityX), formatFloat(p.VelocityY),
			p.Team, p.Connected)
	}

	out := fmt.Sprintf("%d|%d|%d|%d|%d|%d|%s",
		s.LobbyID, s.MapID, s.RedScore, s.BlueScore, s.RedFlag, s.BlueFlag, players.String())

	return append([]byte{byte(MsgGameState)}, out...)
}

// DecodeGameState parses a GAME_STATE payload produced by EncodeGameState.
func DecodeGameState(payload []byte) (GameState, error) {
	if len(payload) == 0 || MessageType(payload[0]) != MsgGameState {
		return GameState{}, fmt.Errorf("protocol: not a GAME_STATE payload")
	}
	fields := strings.SplitN(string(payload[1:]), "|", 7)
	if len(fields) != 7 {
		return GameState{}, fmt.Errorf("protocol: malformed GAME_STATE: %d fields", len(fields))
	}

	lobbyID, err := parseUint(fields[0])
	if err != nil {
		return GameState{}, fmt.Errorf("protocol: bad lobbyId: %w", err)
	}
	mapID, err := parseUint(fields[1])
	if err != nil {
		return GameState{}, fmt.Errorf("protocol: bad mapId: %w", err)
	}
	redScore, err := parseUint(fields[2])
	if err != nil {
		return GameState{}, fmt.Errorf("protocol: bad redScore: %w", err)
	}
	blueScore, err := parseUint(fields[3])
	if err != nil {
		return GameState{}, fmt.Errorf("protocol: bad blueScore: %w", err)
	}
	redFlag, err := parseUint(fields[4])
	if err != nil {
		return GameState{}, fmt.Errorf("protocol: bad redFlag: %w", err)
	}
	blueFlag, err := parseUint(fields[5])
	if err != nil {
		return GameState{}, fmt.Errorf("protocol: bad blueFlag: %w", err)
	}

	players := make(map[uint32]PlayerState)
	for _, rec := range strings.Split(fields[6], ";") {
		if rec == "" {
			continue
		}
		pf := strings.Split(rec, ",")
		if len(pf) != 8 {
			return GameState{}, fmt.Errorf("protocol: malformed player record %q", rec)
		}
		id, err := parseUint(pf[0])
		if err != nil {
			return GameState{}, fmt.Errorf("protocol: bad player id: %w", err)
		}
		x, err := parseFloat(pf[2])
		if err != nil {
			return GameState{}, fmt.Errorf("protocol: bad player x: %w", err)
		}
		y, err := parseFloat(pf[3])
		if err != nil {
			return GameState{}, fmt.Errorf("protocol: bad player y: %w", err)
		}
		vx, err := parseFloat(pf[4])
		if err != nil {
			return GameState{}, fmt.Errorf("protocol: bad player vx: %w", err)
		}
		vy, err := parseFloat(pf[5])
		if err != nil {
			return GameState{}, fmt.Errorf("protocol: bad player vy: %w", err)
		}
		team, err := parseUint(pf[6])
		if err != nil {
			return GameState{}, fmt.Errorf("protocol: bad player team: %w", err)
		}
		players[id] = PlayerState{
			ID:        id,
			Name:      pf[1],
			X:         x,
			Y:         y,
			VelocityX: vx,
			VelocityY: vy,
			Team:      uint8(team),
			Connected: pf[7] == "true",
			HasFlag:   redFlag == id || blueFlag == id,
		}
	}

	return GameState{
		LobbyID:   lobbyID,
		MapID:     uint8(mapID),
		RedScore:  uint8(redScore),
		BlueScore: uint8(blueScore),
		RedFlag:   redFlag,
		BlueFlag:  blueFlag,
		Players:   players,
	}, nil
}

// EncodePlayerList serializes a comma-joined list of player names.
func EncodePlayerList(names []string) []byte {
	return append([]byte{byte(MsgPlayerList)}, strings.Join(names, ",")...)
}

// DecodePlayerList parses a PLAYER_LIST payload. An empty player list
// encodes as an empty string and decodes to a zero-length slice.
func DecodePlayerList(payload []byte) ([]string, error) {
	if len(payload) == 0 || MessageType(payload[0]) != MsgPlayerList {
		return nil, fmt.Errorf("protocol: not a PLAYER_LIST payload")
	}
	body := string(payload[1:])
	if body == "" {
		return []string{}, nil
	}
	return strings.Split(body, ","), nil
}

// EncodePlayerInput serializes a player's latest movement vector.
func EncodePlayerInput(playerID uint32, x, y float32) []byte {
	out := fmt.Sprintf("%d,%s,%s", playerID, formatFloat(x), formatFloat(y))
	return append([]byte{byte(MsgPlayerInput)}, out...)
}

// DecodePlayerInput parses a PLAYER_INPUT payload.
func DecodePlayerInput(payload []byte) (PlayerInput, error) {
	if len(payload) == 0 || MessageType(payload[0]) != MsgPlayerInput {
		return PlayerInput{}, fmt.Errorf("protocol: not a PLAYER_INPUT payload")
	}
	fields := strings.Split(string(payload[1:]), ",")
	if len(fields) != 3 {
		return PlayerInput{}, fmt.Errorf("protocol: malformed PLAYER_INPUT")
	}
	id, err := parseUint(fields[0])
	if err != nil {
		return PlayerInput{}, fmt.Errorf("protocol: bad playerId: %w", err)
	}
	x, err := parseFloat(fields[1])
	if err != nil {
		return PlayerInput{}, fmt.Errorf("protocol: bad inputX: %w", err)
	}
	y, err := parseFloat(fields[2])
	if err != nil {
		return PlayerInput{}, fmt.Errorf("protocol: bad inputY: %w", err)
	}
	return PlayerInput{PlayerID: id, InputX: x, InputY: y}, nil
}

// EncodeRequestPlayerList builds a REQUEST_PLAYER_LIST payload. It
// carries no body.
func EncodeRequestPlayerList() []byte { return []byte{byte(MsgRequestPlayerList)} }

// EncodePlayerJoined builds a PLAYER_JOINED payload announcing the id
// assigned to the connection that receives it.
func EncodePlayerJoined(playerID uint32) []byte {
	return append([]byte{byte(MsgPlayerJoined)}, strconv.FormatUint(uint64(playerID), 10)...)
}

// DecodePlayerJoined parses a PLAYER_JOINED payload.
func DecodePlayerJoined(payload []byte) (uint32, error) {
	if len(payload) == 0 || MessageType(payload[0]) != MsgPlayerJoined {
		return 0, fmt.Errorf("protocol: not a PLAYER_JOINED payload")
	}
	return parseUint(string(payload[1:]))
}

// EncodePlayerLeft builds a PLAYER_LEFT payload. Currently unused by the
// server runtime (departures are folded into PLAYER_LIST broadcasts)
// but kept as a defined message kind per the wire contract.
func EncodePlayerLeft() []byte { return []byte{byte(MsgPlayerLeft)} }

// EncodeMarkClientHost builds a MARK_CLIENT_HOST payload, sent only to
// the first player to join a lobby.
func EncodeMarkClientHost() []byte { return []byte{byte(MsgMarkClientHost)} }

// EncodeRequestStartGame builds a REQUEST_START_GAME payload.
func EncodeRequestStartGame() []byte { return []byte{byte(MsgRequestStartGame)} }

// EncodeServerShutdown builds a SERVER_SHUTDOWN payload.
func EncodeServerShutdown() []byte { return []byte{byte(MsgServerShutdown)} }
