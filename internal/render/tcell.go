package render

import (
	"fmt"

	"github.com/flagrush-arena/server/internal/input"
	"github.com/flagrush-arena/server/internal/protocol"
	"github.com/gdamore/tcell/v2"
)

// TcellRenderer renders through a tcell.Screen, giving it access to
// real terminal resizing and a proper event loop instead of polled raw
// stdin reads.
type TcellRenderer struct {
	screen  tcell.Screen
	eventCh chan tcell.Event
	quitCh  chan struct{}
}

// NewTcellRenderer constructs a tcell-backed renderer. Init must be
// called before use.
func NewTcellRenderer() *TcellRenderer {
	return &TcellRenderer{
		eventCh: make(chan tcell.Event, 32),
		quitCh:  make(chan struct{}),
	}
}

func (r *TcellRenderer) Init() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()
	r.screen = screen
	go r.pollEvents()
	return nil
}

func (r *TcellRenderer) pollEvents() {
	for {
		select {
		case <-r.quitCh:
			return
		default:
			ev := r.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case r.eventCh <- ev:
			default:
			}
		}
	}
}

func (r *TcellRenderer) Close() {
	close(r.quitCh)
	if r.screen != nil {
		r.screen.Fini()
	}
}

func (r *TcellRenderer) DrawState(state protocol.GameState, localPlayerID uint32, connected bool) {
	if r.screen == nil {
		return
	}
	r.screen.Clear()

	w, h := r.screen.Size()
	cam := Camera{WorldWidth: 800, WorldHeight: 600, ViewportWidth: w, ViewportHeight: h - 2}

	r.drawFlag(cam, 100, 300, ColorRed)
	r.drawFlag(cam, 700, 300, ColorBlue)

	for _, id := range protocol.SortedPlayerIDs(state.Players) {
		p := state.Players[id]
		x, y := cam.Project(p.X, p.Y)
		col := ColorRed
		if p.Team == 1 {
			col = ColorBlue
		}
		ch := 'o'
		if p.HasFlag {
			ch = '@'
		}
		if id == localPlayerID {
			ch = '*'
		}
		r.setCell(x, y, ch, col, ColorBlack)
	}

	r.drawText(0, h-1, fmt.Sprintf("red %d - %d blue | %s", state.RedScore, state.BlueScore, connStr(connected, fmt.Sprintf("lobby %d", state.LobbyID))), ColorYellow)
	r.screen.Show()
}

func (r *TcellRenderer) drawFlag(cam Camera, wx, wy float32, col Color) {
	x, y := cam.Project(wx, wy)
	r.setCell(x, y, '#', col, ColorBlack)
}

func (r *TcellRenderer) drawText(x, y int, text string, color Color) {
	for i, ch := range text {
		r.setCell(x+i, y, ch, color, ColorBlack)
	}
}

func (r *TcellRenderer) setCell(x, y int, ch rune, fg, bg Color) {
	if r.screen == nil {
		return
	}
	style := tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B))).
		Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B)))
	r.screen.SetContent(x, y, ch, nil, style)
}

func (r *TcellRenderer) PollInput() (InputEvent, bool) {
	select {
	case ev := <-r.eventCh:
		return r.translateEvent(ev), true
	default:
		return InputEvent{Type: InputNone}, false
	}
}

func (r *TcellRenderer) translateEvent(ev tcell.Event) InputEvent {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return InputEvent{Type: InputQuit}
		case tcell.KeyEnter:
			return InputEvent{Type: InputStart}
		case tcell.KeyUp:
			return InputEvent{Type: InputDirection, Direction: input.DirUp, HasDir: true, Pressed: true}
		case tcell.KeyDown:
			return InputEvent{Type: InputDirection, Direction: input.DirDown, HasDir: true, Pressed: true}
		case tcell.KeyLeft:
			return InputEvent{Type: InputDirection, Direction: input.DirLeft, HasDir: true, Pressed: true}
		case tcell.KeyRight:
			return InputEvent{Type: InputDirection, Direction: input.DirRight, HasDir: true, Pressed: true}
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return InputEvent{Type: InputQuit}
			default:
				if dir, ok := input.DefaultBindings()[ev.Rune()]; ok {
					return InputEvent{Type: InputDirection, Direction: dir, HasDir: true, Pressed: true}
				}
			}
		}
	case *tcell.EventResize:
		r.screen.Sync()
		return InputEvent{Type: InputResize}
	}
	return InputEvent{Type: InputNone}
}
