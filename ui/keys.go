package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/mmledit/commands"
)

// Key is an editing key delivered to the text area.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyEscape
)

// EventKind tells what an Event carries.
type EventKind int

const (
	EventKey EventKind = iota + 1
	EventResize
	EventCall
)

// Event is a translated terminal event.
type Event struct {
	Kind  EventKind
	Key   Key
	Rune  rune
	Chord commands.Chord
	Call  func()
}

// Plain reports whether the key event carries no Ctrl or Alt modifier.
func (e Event) Plain() bool {
	return !e.Chord.Ctrl && !e.Chord.Alt
}

var keyNames = map[tcell.Key]struct {
	key  Key
	name string
}{
	tcell.KeyEnter:      {KeyEnter, "Enter"},
	tcell.KeyTab:        {KeyTab, "Tab"},
	tcell.KeyBackspace:  {KeyBackspace, "Backspace"},
	tcell.KeyBackspace2: {KeyBackspace, "Backspace"},
	tcell.KeyDelete:     {KeyDelete, "Delete"},
	tcell.KeyLeft:       {KeyLeft, "Left"},
	tcell.KeyRight:      {KeyRight, "Right"},
	tcell.KeyUp:         {KeyUp, "Up"},
	tcell.KeyDown:       {KeyDown, "Down"},
	tcell.KeyHome:       {KeyHome, "Home"},
	tcell.KeyEnd:        {KeyEnd, "End"},
	tcell.KeyEscape:     {KeyEscape, "Esc"},
}

// translateKey converts a tcell key event into an Event with its chord.
func translateKey(ev *tcell.EventKey) Event {
	mods := ev.Modifiers()
	out := Event{
		Kind: EventKey,
		Chord: commands.Chord{
			Ctrl:  mods&tcell.ModCtrl != 0,
			Alt:   mods&tcell.ModAlt != 0,
			Shift: mods&tcell.ModShift != 0,
		},
	}

	k := ev.Key()
	if named, ok := keyNames[k]; ok {
		out.Key = named.key
		out.Chord.Key = named.name
		return out
	}
	switch {
	case k == tcell.KeyRune:
		out.Key = KeyRune
		out.Rune = ev.Rune()
		out.Chord.Key = string(ev.Rune())
		out.Chord.Shift = false // already folded into the rune
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		out.Chord.Key = string(rune('A' + (k - tcell.KeyCtrlA)))
		out.Chord.Ctrl = true
	default:
		out.Chord.Key = tcell.KeyNames[k]
	}
	return out
}
