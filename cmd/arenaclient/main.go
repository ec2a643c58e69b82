// Command arenaclient is the terminal client for the capture-the-flag
// arena. It embeds no server of its own; it always connects to one.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/flagrush-arena/server/internal/client"
	"github.com/flagrush-arena/server/internal/input"
	"github.com/flagrush-arena/server/internal/render"
)

// Version is set at build time.
var Version = "dev"

// keyHoldTimeout is how long a direction stays "pressed" after its
// last key event, since the terminal only tells us about key-down
// events, not key-up.
const keyHoldTimeout = 150 * time.Millisecond

func main() {
	addr := flag.String("server", "127.0.0.1:12345", "arena server address")
	name := flag.String("name", "", "player name")
	mode := flag.String("mode", "auto", "render mode: auto, ascii, halfblock, tcell")
	flag.Parse()

	fmt.Printf("arenaclient v%s connecting to %s\n", Version, *addr)

	c := client.New(client.Config{ServerAddr: *addr, PlayerName: *name})
	if err := c.Connect(); err != nil {
		log.Fatalf("arenaclient: %v", err)
	}
	defer c.Disconnect()

	renderer := render.Select(render.Detect(), parseMode(*mode))
	if err := renderer.Init(); err != nil {
		log.Fatalf("arenaclient: render init: %v", err)
	}
	defer renderer.Close()

	connected := true
	c.OnConnectionChanged(func(ok bool) { connected = ok })

	go func() {
		if err := c.Run(); err != nil {
			log.Printf("arenaclient: %v", err)
		}
	}()

	keyState := input.NewState()
	lastSeen := make(map[input.Direction]time.Time)

	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		for {
			ev, ok := renderer.PollInput()
			if !ok {
				break
			}
			switch ev.Type {
			case render.InputQuit:
				return
			case render.InputStart:
				if err := c.RequestStartGame(); err != nil {
					log.Printf("arenaclient: %v", err)
				}
			case render.InputDirection:
				keyState.SetPressed(ev.Direction, true)
				lastSeen[ev.Direction] = time.Now()
			}
		}

		now := time.Now()
		for dir, seen := range lastSeen {
			if now.Sub(seen) > keyHoldTimeout {
				keyState.SetPressed(dir, false)
			}
		}

		v := keyState.Vector()
		if err := c.SendPlayerInput(v.X, v.Y); err != nil {
			log.Printf("arenaclient: %v", err)
			return
		}

		if state, ok := c.History().Latest(); ok {
			renderer.DrawState(state, c.PlayerID(), connected)
		}
	}
}

func parseMode(s string) render.Mode {
	switch s {
	case "ascii":
		return render.ModeASCII
	case "halfblock":
		return render.ModeHalfBlock
	case "tcell":
		return render.ModeTcell
	default:
		return render.ModeAuto
	}
}
