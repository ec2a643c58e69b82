package game

import (
	"fmt"
	"hash/fnv"

	"github.com/flagrush-arena/server/internal/protocol"
)

// Checksum returns an order-independent hash of a GameState. Tests use
// it to detect unintended drift between two snapshots without writing
// a field-by-field comparison for every player.
func Checksum(s protocol.GameState) uint32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d|%d|%d|%d|%d", s.RedScore, s.BlueScore, s.RedFlag, s.BlueFlag, len(s.Players))
	for _, id := range protocol.SortedPlayerIDs(s.Players) {
		p := s.Players[id]
		fmt.Fprintf(h, "|%d,%.4f,%.4f,%.4f,%.4f,%d,%t,%t",
			p.ID, p.X, p.Y, p.VelocityX, p.VelocityY, p.Team, p.Connected, p.HasFlag)
	}
	return h.Sum32()
}
