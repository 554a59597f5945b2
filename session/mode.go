package session

import "fmt"

// Mode selects what a tick sends to the player.
type Mode int

const (
	// CurrentNote plays only what the last edit added.
	CurrentNote Mode = iota
	// FullMml plays the whole document on every change.
	FullMml
)

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	switch m {
	case CurrentNote:
		return FullMml
	case FullMml:
		return CurrentNote
	}
	panic(fmt.Sprintf("session: invalid mode %d", int(m)))
}

// String returns the display name.
func (m Mode) String() string {
	switch m {
	case CurrentNote:
		return "Current note"
	case FullMml:
		return "Full MML"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Key returns the configuration name of m.
func (m Mode) Key() string {
	switch m {
	case CurrentNote:
		return "current-note"
	case FullMml:
		return "full-mml"
	}
	return ""
}

// ParseMode parses a configuration name as produced by Key.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "current-note":
		return CurrentNote, nil
	case "full-mml":
		return FullMml, nil
	}
	return CurrentNote, fmt.Errorf("unknown playback mode %q (want current-note or full-mml)", s)
}
