package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/flagrush-arena/server/internal/protocol"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// HalfBlockRenderer doubles vertical resolution by pairing two world
// rows per terminal cell, drawn as an upper-half block glyph whose
// foreground is the top row's color and whose background is the
// bottom row's. True color escapes are used directly; no palette
// quantization is needed.
type HalfBlockRenderer struct {
	width, cellRows int // cellRows terminal rows == 2*cellRows world rows
	stdin           *rawStdin
}

// NewHalfBlockRenderer creates a half-block renderer with the given
// terminal cell dimensions.
func NewHalfBlockRenderer(width, cellRows int) *HalfBlockRenderer {
	if width <= 0 {
		width = 80
	}
	if cellRows <= 0 {
		cellRows = 24
	}
	return &HalfBlockRenderer{width: width, cellRows: cellRows}
}

func (r *HalfBlockRenderer) Init() error {
	stdin, err := newRawStdin()
	if err != nil {
		return err
	}
	r.stdin = stdin
	fmt.Print("\x1b[?25l")
	return nil
}

func (r *HalfBlockRenderer) Close() {
	fmt.Print("\x1b[?25h")
	if r.stdin != nil {
		r.stdin.close()
	}
}

// blend mixes colors in Lab space using go-colorful, folding each
// further color into the running result at equal weight. DrawState
// uses it to tint the local player's team color toward yellow; players
// that land on the same cell are not blended, and the one drawn last
// covers the others.
func blend(colors []Color) Color {
	if len(colors) == 0 {
		return ColorBlack
	}
	acc := toColorful(colors[0])
	for _, c := range colors[1:] {
		acc = acc.BlendLab(toColorful(c), 0.5)
	}
	r, g, b := acc.Clamped().RGB255()
	return Color{r, g, b}
}

func toColorful(c Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func (r *HalfBlockRenderer) DrawState(state protocol.GameState, localPlayerID uint32, connected bool) {
	worldRows := r.cellRows * 2
	top := make([][]Color, r.cellRows)
	bottom := make([][]Color, r.cellRows)
	for i := range top {
		top[i] = make([]Color, r.width)
		bottom[i] = make([]Color, r.width)
	}

	cam := Camera{WorldWidth: 800, WorldHeight: 600, ViewportWidth: r.width, ViewportHeight: worldRows}
	for _, id := range protocol.SortedPlayerIDs(state.Players) {
		p := state.Players[id]
		x, y := cam.Project(p.X, p.Y)
		if x < 0 || x >= r.width || y < 0 || y >= worldRows {
			continue
		}
		col := ColorRed
		if p.Team == 1 {
			col = ColorBlue
		}
		if id == localPlayerID {
			col = blend([]Color{col, ColorYellow})
		}
		if y%2 == 0 {
			top[y/2][x] = col
		} else {
			bottom[y/2][x] = col
		}
	}

	var b strings.Builder
	b.WriteString("\x1b[2J\x1b[H")
	for row := 0; row < r.cellRows; row++ {
		for col := 0; col < r.width; col++ {
			fg, bg := top[row][col], bottom[row][col]
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				fg.R, fg.G, fg.B, bg.R, bg.G, bg.B)
		}
		b.WriteString("\x1b[0m\n")
	}
	fmt.Fprintf(&b, "red %d - %d blue | %s", state.RedScore, state.BlueScore, connStr(connected, fmt.Sprintf("lobby %d", state.LobbyID)))
	os.Stdout.WriteString(b.String())
}

func (r *HalfBlockRenderer) PollInput() (InputEvent, bool) {
	if r.stdin == nil {
		return InputEvent{}, false
	}
	b, ok := r.stdin.poll()
	if !ok {
		return InputEvent{}, false
	}
	return translateByte(b)
}
