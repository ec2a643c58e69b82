package game

import (
	"testing"

	"github.com/flagrush-arena/server/internal/protocol"
)

func approxEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestAddPlayerAllocatesSmallestUnusedID(t *testing.T) {
	sim := NewSimulator()
	id1, team1 := sim.AddPlayer("")
	id2, team2 := sim.AddPlayer("")
	if id1 != 1 || id2 != 2 {
		t.Fatalf("got ids %d, %d, want 1, 2", id1, id2)
	}
	if team1 != TeamBlue || team2 != TeamRed {
		t.Fatalf("got teams %d, %d, want %d, %d (alternating on id%%2)", team1, team2, TeamBlue, TeamRed)
	}

	sim.RemovePlayer(id1)
	id3, _ := sim.AddPlayer("")
	if id3 != 1 {
		t.Fatalf("got id %d after removing id 1, want the id reused", id3)
	}
}

func TestLoneBallDecaysUnderFriction(t *testing.T) {
	sim := NewSimulator()
	id, _ := sim.AddPlayer("")

	sim.stateMu.Lock()
	p := sim.state.Players[id]
	p.X, p.Y = 400, 300
	p.VelocityX = 100
	sim.state.Players[id] = p
	sim.stateMu.Unlock()

	sim.Update(1000)

	state := sim.GameState()
	got := state.Players[id]

	wantVX := float32(100 * 0.98)
	if !approxEqual(got.VelocityX, wantVX, 0.5) {
		t.Fatalf("vx = %v, want ~%v", got.VelocityX, wantVX)
	}
	if got.X <= 400 || got.X >= 500 {
		t.Fatalf("x = %v, want strictly between 400 and 500", got.X)
	}
}

func TestStationaryBallStaysPut(t *testing.T) {
	sim := NewSimulator()
	id, _ := sim.AddPlayer("")
	sim.Update(16)
	state := sim.GameState()
	spawnX, spawnY := spawnPosition(state.Players[id].Team)
	got := state.Players[id]
	if got.X != spawnX || got.Y != spawnY {
		t.Fatalf("got (%v, %v), want unchanged spawn (%v, %v)", got.X, got.Y, spawnX, spawnY)
	}
	if got.VelocityX != 0 || got.VelocityY != 0 {
		t.Fatalf("got velocity (%v, %v), want zero", got.VelocityX, got.VelocityY)
	}
}

func TestInputAcceleratesAndRespectsMaxSpeed(t *testing.T) {
	sim := NewSimulator()
	id, _ := sim.AddPlayer("")

	// Input alone cannot reach PlayerMaxSpeed inside an 800-wide arena,
	// and a player held against the right wall has its velocity
	// reflected every tick, so start at the left wall already at top
	// speed and stop well before the far wall.
	sim.stateMu.Lock()
	p := sim.state.Players[id]
	p.X = PlayerRadius
	p.VelocityX = PlayerMaxSpeed
	sim.state.Players[id] = p
	sim.stateMu.Unlock()

	for i := 0; i < 40; i++ {
		sim.QueuePlayerInput(id, 1, 0)
		sim.Update(16)
	}

	got := sim.GameState().Players[id]
	if got.VelocityX > PlayerMaxSpeed+0.01 {
		t.Fatalf("vx = %v, exceeds max speed %v", got.VelocityX, PlayerMaxSpeed)
	}
	if got.VelocityX <= 0 {
		t.Fatalf("vx = %v, want positive after sustained rightward input", got.VelocityX)
	}
}

func TestDiagonalInputIsNormalized(t *testing.T) {
	sim := NewSimulator()
	id, _ := sim.AddPlayer("")

	sim.QueuePlayerInput(id, 1, 1)
	sim.Update(1000)

	got := sim.GameState().Players[id]
	speed := approxLen(got.VelocityX, got.VelocityY)
	if speed > PlayerAcceleration+0.5 {
		t.Fatalf("speed = %v after one second of diagonal input, want <= acceleration magnitude %v", speed, PlayerAcceleration)
	}
}

func approxLen(x, y float32) float32 {
	return float32ApproxSqrt(x*x + y*y)
}

func float32ApproxSqrt(v float32) float32 {
	if v <= 0 {
		return 0
	}
	guess := v
	for i := 0; i < 20; i++ {
		guess = (guess + v/guess) / 2
	}
	return guess
}

func TestWallBounceReflectsVelocity(t *testing.T) {
	sim := NewSimulator()
	id, _ := sim.AddPlayer("")

	sim.stateMu.Lock()
	p := sim.state.Players[id]
	p.X, p.Y = PlayerRadius - 1, 300
	p.VelocityX = -200
	sim.state.Players[id] = p
	sim.stateMu.Unlock()

	sim.Update(16)

	got := sim.GameState().Players[id]
	if got.X != PlayerRadius {
		t.Fatalf("x = %v, want clamped to radius %v", got.X, PlayerRadius)
	}
	if got.VelocityX <= 0 {
		t.Fatalf("vx = %v, want positive (reflected) after hitting the left wall", got.VelocityX)
	}
}

func TestPickupAndCaptureAwardsScore(t *testing.T) {
	sim := NewSimulator()
	id, _ := sim.AddPlayer("") // team derives from id; id 1 is blue, so force red explicitly below
	sim.SetPlayerTeam(id, TeamRed)

	sim.stateMu.Lock()
	p := sim.state.Players[id]
	p.X, p.Y = BlueFlagHome.X, BlueFlagHome.Y
	sim.state.Players[id] = p
	sim.stateMu.Unlock()

	sim.Update(16)

	afterPickup := sim.GameState()
	if afterPickup.BlueFlag != id {
		t.Fatalf("blueFlag = %d, want %d after pickup", afterPickup.BlueFlag, id)
	}
	if !afterPickup.Players[id].HasFlag {
		t.Fatalf("player should be carrying the flag after pickup")
	}

	sim.stateMu.Lock()
	p = sim.state.Players[id]
	p.X, p.Y = RedFlagHome.X, RedFlagHome.Y
	sim.state.Players[id] = p
	sim.stateMu.Unlock()

	sim.Update(16)

	final := sim.GameState()
	if final.RedScore != 1 {
		t.Fatalf("redScore = %d, want 1 after capture", final.RedScore)
	}
	if final.BlueFlag != 0 {
		t.Fatalf("blueFlag = %d, want 0 (returned home) after capture", final.BlueFlag)
	}
	if final.Players[id].HasFlag {
		t.Fatalf("carrier should no longer hold the flag after capture")
	}
}

func TestCollisionPopsFlagCarrier(t *testing.T) {
	sim := NewSimulator()
	carrier, _ := sim.AddPlayer("")
	sim.SetPlayerTeam(carrier, TeamRed)
	opponent, _ := sim.AddPlayer("")
	sim.SetPlayerTeam(opponent, TeamBlue)

	sim.stateMu.Lock()
	c := sim.state.Players[carrier]
	c.X, c.Y = 400, 300
	c.HasFlag = true
	sim.state.Players[carrier] = c
	sim.state.BlueFlag = carrier

	o := sim.state.Players[opponent]
	o.X, o.Y = 405, 300
	sim.state.Players[opponent] = o
	sim.stateMu.Unlock()

	sim.Update(16)

	final := sim.GameState()
	if final.Players[carrier].HasFlag {
		t.Fatalf("carrier should have been popped")
	}
	if final.BlueFlag != 0 {
		t.Fatalf("blueFlag = %d, want 0 after the carrier was popped", final.BlueFlag)
	}
	spawnX, spawnY := spawnPosition(TeamRed)
	if final.Players[carrier].X != spawnX || final.Players[carrier].Y != spawnY {
		t.Fatalf("carrier position = (%v, %v), want spawn (%v, %v)",
			final.Players[carrier].X, final.Players[carrier].Y, spawnX, spawnY)
	}
}

func TestRemovingLastPlayerResetsLobby(t *testing.T) {
	sim := NewSimulator()
	id, _ := sim.AddPlayer("")

	sim.stateMu.Lock()
	sim.state.RedScore = 3
	sim.state.BlueFlag = id
	sim.stateMu.Unlock()

	sim.RemovePlayer(id)

	final := sim.GameState()
	if final.RedScore != 0 || final.BlueFlag != 0 || final.RedFlag != 0 {
		t.Fatalf("got %+v, want a fully reset lobby", final)
	}
}

func TestChecksumStableAcrossEquivalentSnapshots(t *testing.T) {
	state := protocol.GameState{
		Players: map[uint32]protocol.PlayerState{
			1: {ID: 1, X: 1, Y: 2},
			2: {ID: 2, X: 3, Y: 4},
		},
	}
	reordered := protocol.GameState{
		Players: map[uint32]protocol.PlayerState{
			2: {ID: 2, X: 3, Y: 4},
			1: {ID: 1, X: 1, Y: 2},
		},
	}
	if Checksum(state) != Checksum(reordered) {
		t.Fatalf("checksum should not depend on map iteration order")
	}
}
