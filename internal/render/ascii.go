package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/flagrush-arena/server/internal/input"
	"github.com/flagrush-arena/server/internal/protocol"
)

// ASCIIRenderer draws the arena as a plain grid of characters, with no
// color escapes at all. It is the fallback for terminals Detect can't
// say anything good about.
type ASCIIRenderer struct {
	width, height int
	stdin         *rawStdin
}

// NewASCIIRenderer creates an ASCII renderer sized to a terminal cell
// grid of width x height.
func NewASCIIRenderer(width, height int) *ASCIIRenderer {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return &ASCIIRenderer{width: width, height: height}
}

func (r *ASCIIRenderer) Init() error {
	stdin, err := newRawStdin()
	if err != nil {
		return err
	}
	r.stdin = stdin
	fmt.Print("\x1b[?25l") // hide cursor
	return nil
}

func (r *ASCIIRenderer) Close() {
	fmt.Print("\x1b[?25h")
	if r.stdin != nil {
		r.stdin.close()
	}
}

func (r *ASCIIRenderer) DrawState(state protocol.GameState, localPlayerID uint32, connected bool) {
	grid := make([][]byte, r.height)
	for y := range grid {
		grid[y] = make([]byte, r.width)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	cam := Camera{WorldWidth: 800, WorldHeight: 600, ViewportWidth: r.width, ViewportHeight: r.height - 1}
	for _, id := range protocol.SortedPlayerIDs(state.Players) {
		p := state.Players[id]
		x, y := cam.Project(p.X, p.Y)
		if x < 0 || x >= r.width || y < 0 || y >= r.height-1 {
			continue
		}
		ch := byte('r')
		if p.Team == 1 {
			ch = 'b'
		}
		if id == localPlayerID {
			ch -= 32 // uppercase marks the local player
		}
		grid[y][x] = ch
	}

	var b strings.Builder
	b.WriteString("\x1b[2J\x1b[H")
	for _, row := range grid {
		b.Write(row)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "red %d - %d blue | %s", state.RedScore, state.BlueScore, connStr(connected, fmt.Sprintf("lobby %d", state.LobbyID)))
	os.Stdout.WriteString(b.String())
}

func (r *ASCIIRenderer) PollInput() (InputEvent, bool) {
	if r.stdin == nil {
		return InputEvent{}, false
	}
	b, ok := r.stdin.poll()
	if !ok {
		return InputEvent{}, false
	}
	return translateByte(b)
}

func translateByte(b byte) (InputEvent, bool) {
	switch b {
	case 'q', 'Q', 3: // 3 == Ctrl-C
		return InputEvent{Type: InputQuit}, true
	case '\r', '\n':
		return InputEvent{Type: InputStart}, true
	}
	if dir, ok := input.DefaultBindings()[rune(b)]; ok {
		return InputEvent{Type: InputDirection, Direction: dir, HasDir: true, Pressed: true}, true
	}
	return InputEvent{Type: InputNone}, true
}
