// Package ui draws the editor on a terminal and delivers its key events.
package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// View is what Draw renders inside the frame.
type View struct {
	Lines      []string
	CursorLine int
	CursorCol  int // rune column
}

// Screen owns the terminal between New and Cleanup.
type Screen struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	once   sync.Once

	title   string
	status  string
	scroll  int
	hscroll int
}

// New initializes the terminal: raw mode and the alternate screen.
func New() (*Screen, error) {
	sc, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return NewWithScreen(sc)
}

// NewWithScreen takes over an uninitialized tcell screen.
func NewWithScreen(sc tcell.Screen) (*Screen, error) {
	if err := sc.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	sc.SetStyle(tcell.StyleDefault)
	sc.Clear()

	s := &Screen{
		screen: sc,
		events: make(chan tcell.Event, 16),
		quit:   make(chan struct{}),
	}
	go sc.ChannelEvents(s.events, s.quit)
	return s, nil
}

// SetTitle sets the text shown in the top border.
func (s *Screen) SetTitle(title string) {
	s.title = title
}

// Title returns the current frame title.
func (s *Screen) Title() string {
	return s.title
}

// SetStatus sets the bottom status line.
func (s *Screen) SetStatus(status string) {
	s.status = status
}

// Poll waits at most timeout for the next event. It returns false on timeout
// and for events the editor does not handle.
func (s *Screen) Poll(timeout time.Duration) (Event, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev, ok := <-s.events:
		if !ok {
			return Event{}, false
		}
		return translate(ev)
	case <-timer.C:
		return Event{}, false
	}
}

// Post queues fn to run on the goroutine calling Poll. It is safe to call
// from any goroutine.
func (s *Screen) Post(fn func()) error {
	return s.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

// Cleanup restores the terminal. It is safe to call more than once.
func (s *Screen) Cleanup() {
	s.once.Do(func() {
		close(s.quit)
		s.screen.Fini()
	})
}

func translate(ev tcell.Event) (Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return translateKey(ev), true
	case *tcell.EventResize:
		return Event{Kind: EventResize}, true
	case *tcell.EventInterrupt:
		if fn, ok := ev.Data().(func()); ok {
			return Event{Kind: EventCall, Call: fn}, true
		}
	}
	return Event{}, false
}
