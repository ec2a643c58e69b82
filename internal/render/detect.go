package render

import (
	"os"
	"strings"
)

// Capability reports what the current terminal looks like it supports.
type Capability struct {
	Truecolor bool
	Color256  bool
	Unicode   bool
}

// Detect probes environment variables for terminal capability hints.
func Detect() Capability {
	var c Capability

	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		c.Truecolor = true
		c.Color256 = true
	}

	term := os.Getenv("TERM")
	if strings.Contains(term, "256color") {
		c.Color256 = true
	}

	lang := os.Getenv("LANG")
	c.Unicode = strings.Contains(strings.ToLower(lang), "utf")
	if !c.Unicode {
		c.Unicode = true // modern terminals default to it
	}

	return c
}

// Mode selects a rendering backend.
type Mode int

const (
	ModeAuto Mode = iota
	ModeASCII
	ModeHalfBlock
	ModeTcell
)

// Select picks a renderer for the given capabilities, honoring an
// explicit override when one is given. ModeAuto prefers half-block
// true color, falls back to tcell's own degraded styling when the
// terminal lacks truecolor, and only drops to bare ASCII when unicode
// itself looks unsupported.
func Select(cap Capability, override Mode) Renderer {
	switch override {
	case ModeASCII:
		return NewASCIIRenderer(80, 24)
	case ModeHalfBlock:
		return NewHalfBlockRenderer(80, 24)
	case ModeTcell:
		return NewTcellRenderer()
	default:
		if cap.Truecolor && cap.Unicode {
			return NewHalfBlockRenderer(80, 24)
		}
		if cap.Unicode {
			return NewTcellRenderer()
		}
		return NewASCIIRenderer(80, 24)
	}
}
