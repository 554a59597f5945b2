// Package commands maps key chords to editor actions.
package commands

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Action identifiers used in keybinding files.
const (
	Quit           = "quit"
	NextTemplate   = "template.next"
	TogglePlayback = "playback.toggle"
	SaveFile       = "file.save"
	Undo           = "edit.undo"
	Redo           = "edit.redo"
)

// Actions holds callbacks for all editor commands.
type Actions struct {
	Quit           func()
	NextTemplate   func()
	TogglePlayback func()
	SaveFile       func()
	Undo           func()
	Redo           func()
}

// Command is one bindable editor command.
type Command struct {
	ID        string
	Label     string
	Shortcut  string
	OnExecute func()
}

// AllCommands returns the full command list with shortcuts taken from km.
func AllCommands(a Actions, km *Keymap) []Command {
	cmds := []Command{
		{ID: Quit, Label: "Quit", OnExecute: a.Quit},
		{ID: NextTemplate, Label: "Next Template", OnExecute: a.NextTemplate},
		{ID: TogglePlayback, Label: "Toggle Playback Mode", OnExecute: a.TogglePlayback},
		{ID: SaveFile, Label: "Save File", OnExecute: a.SaveFile},
		{ID: Undo, Label: "Undo", OnExecute: a.Undo},
		{ID: Redo, Label: "Redo", OnExecute: a.Redo},
	}
	for i := range cmds {
		cmds[i].Shortcut = km.Shortcut(cmds[i].ID)
	}
	return cmds
}

// Chord is a key plus modifiers, written like "Ctrl+T" or "Esc".
type Chord struct {
	Key   string
	Ctrl  bool
	Alt   bool
	Shift bool
}

// String formats c the way it is shown to the user.
func (c Chord) String() string {
	var b strings.Builder
	if c.Ctrl {
		b.WriteString("Ctrl+")
	}
	if c.Alt {
		b.WriteString("Alt+")
	}
	if c.Shift {
		b.WriteString("Shift+")
	}
	b.WriteString(c.Key)
	return b.String()
}

// KeyBinding is one entry of a keybindings file. An empty Action unbinds
// the chord.
type KeyBinding struct {
	Key    string `yaml:"key"`
	Ctrl   bool   `yaml:"ctrl"`
	Alt    bool   `yaml:"alt"`
	Shift  bool   `yaml:"shift"`
	Action string `yaml:"action"`
}

// Keymap resolves chords to action identifiers.
type Keymap struct {
	bindings map[Chord]string
	hints    map[string]string // action -> last chord bound to it
}

//go:embed keybindings.yml
var defaultKeyBindings []byte

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() *Keymap {
	km := &Keymap{bindings: map[Chord]string{}, hints: map[string]string{}}
	if err := km.Load(bytes.NewReader(defaultKeyBindings)); err != nil {
		panic(fmt.Errorf("failed to unmarshal default keybindings: %w", err))
	}
	return km
}

// Load applies the bindings in r on top of the current ones.
func (km *Keymap) Load(r io.Reader) error {
	var bindings []KeyBinding
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&bindings); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode keybindings: %w", err)
	}
	for _, kb := range bindings {
		if err := km.Bind(kb); err != nil {
			return err
		}
	}
	return nil
}

// Bind adds or removes a single binding.
func (km *Keymap) Bind(kb KeyBinding) error {
	if kb.Key == "" {
		return errors.New("keybinding without key")
	}
	if kb.Action != "" && !knownAction(kb.Action) {
		return fmt.Errorf("unknown action %q for %s", kb.Action, kb.Key)
	}
	chord := Chord{Key: normalizeKey(kb.Key), Ctrl: kb.Ctrl, Alt: kb.Alt, Shift: kb.Shift}
	if prev, ok := km.bindings[chord]; ok && km.hints[prev] == chord.String() {
		delete(km.hints, prev)
	}
	if kb.Action == "" {
		delete(km.bindings, chord)
		return nil
	}
	km.bindings[chord] = kb.Action
	km.hints[kb.Action] = chord.String()
	return nil
}

// Lookup returns the action bound to c.
func (km *Keymap) Lookup(c Chord) (string, bool) {
	c.Key = normalizeKey(c.Key)
	action, ok := km.bindings[c]
	return action, ok
}

// Shortcut returns the display string of the chord bound to action, or "".
func (km *Keymap) Shortcut(action string) string {
	if km == nil {
		return ""
	}
	return km.hints[action]
}

// Dispatch runs the command bound to c. It reports whether c was bound.
func Dispatch(cmds []Command, km *Keymap, c Chord) bool {
	action, ok := km.Lookup(c)
	if !ok {
		return false
	}
	for _, cmd := range cmds {
		if cmd.ID == action {
			if cmd.OnExecute != nil {
				cmd.OnExecute()
			}
			return true
		}
	}
	return false
}

func knownAction(id string) bool {
	switch id {
	case Quit, NextTemplate, TogglePlayback, SaveFile, Undo, Redo:
		return true
	}
	return false
}

// normalizeKey upper-cases single letters so "t" and "T" bind the same chord.
func normalizeKey(k string) string {
	if len(k) == 1 {
		return strings.ToUpper(k)
	}
	return k
}
