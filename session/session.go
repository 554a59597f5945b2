// Package session decides, after each edit, what MML should be played.
package session

import (
	"fmt"
	"strings"

	"github.com/odvcencio/mmledit/mml"
	"github.com/odvcencio/mmledit/player"
	"github.com/odvcencio/mmledit/templates"
)

// Surface is the editable text the session reads and, when switching
// templates, replaces.
type Surface interface {
	Content() string
	SetContent(text string)
}

// Option configures a Session.
type Option func(*Session)

// WithMode sets the initial playback mode.
func WithMode(m Mode) Option {
	return func(s *Session) { s.mode = m }
}

// WithTemplate sets the initial template index. Out of range values start
// at 0.
func WithTemplate(index int) Option {
	return func(s *Session) {
		if index < 0 || index >= s.catalog.Count() {
			index = 0
		}
		s.template = index
	}
}

// WithObserver registers fn to see every request handed to the player.
func WithObserver(fn func(player.Request)) Option {
	return func(s *Session) { s.observers = append(s.observers, fn) }
}

// Session tracks the last evaluated content, the template index and the
// playback mode. It is not safe for concurrent use; all calls are expected
// from the editor's event loop.
type Session struct {
	catalog   *templates.Catalog
	surface   Surface
	player    player.Player
	observers []func(player.Request)

	previous string
	mode     Mode
	template int
}

// New returns a session over surface that plays through p. A nil catalog
// uses templates.Default().
func New(catalog *templates.Catalog, surface Surface, p player.Player, opts ...Option) *Session {
	if catalog == nil {
		catalog = templates.Default()
	}
	s := &Session{catalog: catalog, surface: surface, player: p}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Observe runs a tick against the surface's current content.
func (s *Session) Observe() (player.Request, bool) {
	return s.Tick(s.surface.Content())
}

// Tick evaluates current against the previously evaluated content. It
// emits at most one playback request and reports whether it did. An
// unchanged document is a no-op; otherwise current becomes the new
// baseline whether or not anything was played.
func (s *Session) Tick(current string) (player.Request, bool) {
	if current == s.previous {
		return player.Request{}, false
	}
	candidate := s.Candidate(current)
	s.previous = current

	if strings.TrimSpace(candidate) == "" || !mml.ContainsNotes(candidate) {
		return player.Request{}, false
	}
	req := player.NewRequest(candidate)
	if s.player != nil {
		s.player.Play(req)
	}
	for _, fn := range s.observers {
		fn(req)
	}
	return req, true
}

// Candidate returns what a tick with current would consider for playback.
// It does not change the session.
func (s *Session) Candidate(current string) string {
	switch s.mode {
	case CurrentNote:
		return mml.Diff(s.previous, current)
	case FullMml:
		return current
	}
	panic(fmt.Sprintf("session: invalid mode %d", int(s.mode)))
}

// NextTemplate advances to the next template, wrapping after the last one,
// and replaces the surface content with it. The replacement is played by the
// following tick like any other edit.
func (s *Session) NextTemplate() string {
	s.template = s.catalog.Next(s.template)
	content := s.catalog.Get(s.template)
	s.surface.SetContent(content)
	return content
}

// ToggleMode flips the playback mode and returns the new one. It does not
// trigger playback.
func (s *Session) ToggleMode() Mode {
	s.mode = s.mode.Toggle()
	return s.mode
}

// Reset makes content the baseline without playing it.
func (s *Session) Reset(content string) {
	s.previous = content
}

// Mode returns the current playback mode.
func (s *Session) Mode() Mode { return s.mode }

// Template returns the current template index.
func (s *Session) Template() int { return s.template }

// TemplateTitle returns the display name of the current template.
func (s *Session) TemplateTitle() string { return s.catalog.Title(s.template) }

// Previous returns the last evaluated content.
func (s *Session) Previous() string { return s.previous }

// Title is the editor frame title for the current template and mode.
func (s *Session) Title() string {
	return fmt.Sprintf("MML Editor - %s [%s] - ESC to exit", s.TemplateTitle(), s.mode)
}
