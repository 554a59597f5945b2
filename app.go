package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bep/debounce"

	"github.com/odvcencio/mmledit/commands"
	"github.com/odvcencio/mmledit/config"
	"github.com/odvcencio/mmledit/editor"
	"github.com/odvcencio/mmledit/player"
	"github.com/odvcencio/mmledit/session"
	"github.com/odvcencio/mmledit/ui"
	"github.com/odvcencio/mmledit/web"
)

// errEditorClosed is returned to monitor clients once the loop has exited.
var errEditorClosed = errors.New("editor closed")

// mmlApp wires the edit surface, the session and the terminal together.
// Everything except the monitor snapshot is owned by the Run goroutine.
type mmlApp struct {
	cfg     config.Config
	screen  *ui.Screen
	area    *editor.TextArea
	session *session.Session
	keymap  *commands.Keymap
	cmds    []commands.Command
	monitor *web.Server

	status      string
	clearStatus func(func())
	quit        bool

	mu       sync.Mutex
	snapshot web.State
	closed   bool
}

func newMMLApp(cfg config.Config, screen *ui.Screen, area *editor.TextArea, p player.Player) *mmlApp {
	a := &mmlApp{
		cfg:    cfg,
		screen: screen,
		area:   area,
		keymap: loadKeymap(),
	}
	if cfg.StatusTimeout > 0 {
		a.clearStatus = debounce.New(cfg.StatusTimeout)
	}
	a.session = session.New(cfg.Catalog(), area, p,
		session.WithMode(cfg.PlaybackMode()),
		session.WithTemplate(cfg.Template),
		session.WithObserver(a.onPlay),
	)
	// Content loaded from disk is the starting point, not an edit.
	a.session.Reset(area.Content())

	a.cmds = commands.AllCommands(commands.Actions{
		Quit:           func() { a.quit = true },
		NextTemplate:   a.nextTemplate,
		TogglePlayback: a.toggleMode,
		SaveFile:       a.save,
		Undo:           func() { a.area.Undo() },
		Redo:           func() { a.area.Redo() },
	}, a.keymap)
	a.publish()
	return a
}

// loadKeymap returns the default bindings with the user's keybindings.yml
// applied on top.
func loadKeymap() *commands.Keymap {
	km := commands.DefaultKeymap()
	data, ok, err := config.ReadUserFile("keybindings.yml")
	if err != nil {
		logger.Warn("read keybindings", "err", err)
		return km
	}
	if ok {
		if err := km.Load(strings.NewReader(string(data))); err != nil {
			logger.Warn("load keybindings", "err", err)
		}
	}
	return km
}

// run opens path (if any), takes over the terminal and edits until Esc or
// ctx is cancelled.
func run(ctx context.Context, cfg config.Config, path string) error {
	buf := editor.NewBuffer()
	if path != "" {
		if err := buf.Open(path); err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
	}

	screen, err := ui.New()
	if err != nil {
		return err
	}
	defer screen.Cleanup()

	p := player.NewExecPlayer(cfg.Player, logger)
	a := newMMLApp(cfg, screen, editor.NewTextArea(buf), p)
	p.OnError = a.playbackFailed
	if err := p.EnsureReady(); err != nil {
		logger.Warn("player unavailable", "command", cfg.Player.Command, "err", err)
		a.diagnostic(playbackMessage(err))
	}

	if cfg.Web.Addr != "" {
		a.monitor = web.NewServer(a, cfg.Web.AllowedOrigins, logger)
		go func() {
			if err := a.monitor.ListenAndServe(ctx, cfg.Web.Addr); err != nil {
				logger.Error("monitor stopped", "err", err)
				_ = screen.Post(func() { a.diagnostic("monitor: " + err.Error()) })
			}
		}()
	}

	go func() {
		<-ctx.Done()
		_ = screen.Post(func() { a.quit = true })
	}()

	logger.Info("editor started", "file", buf.Path(), "player", cfg.Player.Command, "mode", a.session.Mode().Key())
	a.Run()
	logger.Info("editor stopped")
	return nil
}

// Run draws, polls and handles events until quit.
func (a *mmlApp) Run() {
	defer a.close()
	for !a.quit {
		a.draw()
		if ev, ok := a.screen.Poll(a.cfg.PollInterval); ok {
			a.handle(ev)
		}
		a.tick()
		a.publish()
	}
}

func (a *mmlApp) handle(ev ui.Event) {
	switch ev.Kind {
	case ui.EventCall:
		ev.Call()
	case ui.EventResize:
		a.screen.Sync()
	case ui.EventKey:
		if commands.Dispatch(a.cmds, a.keymap, ev.Chord) {
			break
		}
		applyKey(a.area, ev)
	}
}

// applyKey forwards an editing key to the text area.
func applyKey(ta *editor.TextArea, ev ui.Event) {
	switch ev.Key {
	case ui.KeyRune:
		if ev.Plain() {
			ta.InsertRune(ev.Rune)
		}
	case ui.KeyEnter:
		ta.InsertNewline()
	case ui.KeyTab:
		ta.InsertRune('\t')
	case ui.KeyBackspace:
		ta.Backspace()
	case ui.KeyDelete:
		ta.DeleteForward()
	case ui.KeyLeft:
		ta.MoveLeft()
	case ui.KeyRight:
		ta.MoveRight()
	case ui.KeyUp:
		ta.MoveUp()
	case ui.KeyDown:
		ta.MoveDown()
	case ui.KeyHome:
		ta.Home()
	case ui.KeyEnd:
		ta.End()
	}
}

// tick lets the session judge the current content. Unchanged content is a
// no-op, so it runs after every poll.
func (a *mmlApp) tick() {
	a.session.Observe()
}

func (a *mmlApp) nextTemplate() {
	a.session.NextTemplate()
	a.diagnostic("Template: " + a.session.TemplateTitle())
}

func (a *mmlApp) toggleMode() {
	m := a.session.ToggleMode()
	a.diagnostic("Playback mode: " + m.String())
}

// save writes the buffer to its file. An untitled buffer gets the first free
// untitled*.mml name in the working directory.
func (a *mmlApp) save() {
	buf := a.area.Buffer()
	var err error
	if buf.Untitled() {
		err = buf.SaveAs(untitledPath("."))
	} else {
		err = buf.Save()
	}
	if err != nil {
		logger.Error("save", "path", buf.Path(), "err", err)
		a.diagnostic("Save failed: " + err.Error())
		return
	}
	logger.Info("saved", "path", buf.Path())
	a.diagnostic("Saved " + buf.Title())
}

// untitledPath returns dir/untitled.mml, or untitled-N.mml for the first N
// not already taken.
func untitledPath(dir string) string {
	path := filepath.Join(dir, "untitled.mml")
	for n := 2; ; n++ {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("untitled-%d.mml", n))
	}
}

func (a *mmlApp) onPlay(req player.Request) {
	logger.Debug("playback", "id", req.ID, "mml", req.MML)
	if a.monitor != nil {
		a.monitor.Publish("playback", map[string]string{"id": req.ID, "mml": req.MML})
	}
}

// playbackFailed reports a player failure on the loop. It may be called
// from any goroutine and leaves the session untouched.
func (a *mmlApp) playbackFailed(req player.Request, err error) {
	_ = a.screen.Post(func() { a.diagnostic(playbackMessage(err)) })
}

// diagnostic shows msg in the status line until the status timeout passes.
func (a *mmlApp) diagnostic(msg string) {
	a.status = msg
	if a.clearStatus == nil {
		return
	}
	a.clearStatus(func() {
		_ = a.screen.Post(func() {
			if a.status == msg {
				a.status = ""
			}
		})
	})
}

func playbackMessage(err error) string {
	if errors.Is(err, player.ErrPlayerNotFound) {
		return "Player not installed: " + err.Error()
	}
	return "Playback failed: " + err.Error()
}

func (a *mmlApp) draw() {
	line, col := a.area.CursorPos()
	a.screen.SetTitle(a.session.Title())
	a.screen.SetStatus(a.statusLine())
	a.screen.Draw(ui.View{Lines: a.area.Lines(), CursorLine: line, CursorCol: col})
}

func (a *mmlApp) statusLine() string {
	buf := a.area.Buffer()
	name := buf.Title()
	if buf.Dirty() && !buf.Untitled() {
		name += " [+]"
	}
	parts := []string{
		name,
		a.session.TemplateTitle(),
		a.session.Mode().String(),
		fmt.Sprintf("%s next template", a.keymap.Shortcut(commands.NextTemplate)),
		fmt.Sprintf("%s mode", a.keymap.Shortcut(commands.TogglePlayback)),
	}
	if a.status != "" {
		parts = append(parts, a.status)
	}
	return " " + strings.Join(parts, " | ")
}

// publish refreshes the monitor snapshot and notifies clients on change.
func (a *mmlApp) publish() {
	st := web.State{
		Content:       a.area.Content(),
		Mode:          a.session.Mode().Key(),
		Template:      a.session.Template(),
		TemplateTitle: a.session.TemplateTitle(),
		Title:         a.session.Title(),
		Dirty:         a.area.Buffer().Dirty(),
	}
	a.mu.Lock()
	changed := st != a.snapshot
	a.snapshot = st
	a.mu.Unlock()
	if changed && a.monitor != nil {
		a.monitor.Publish("state", st)
	}
}

func (a *mmlApp) close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
}

// Snapshot implements web.EditorState.
func (a *mmlApp) Snapshot() web.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot
}

// SetContent implements web.EditorState. The edit runs on the loop.
func (a *mmlApp) SetContent(text string) error {
	return a.post(func() { a.area.SetContent(text) })
}

// NextTemplate implements web.EditorState.
func (a *mmlApp) NextTemplate() error {
	return a.post(a.nextTemplate)
}

// ToggleMode implements web.EditorState.
func (a *mmlApp) ToggleMode() error {
	return a.post(a.toggleMode)
}

func (a *mmlApp) post(fn func()) error {
	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return errEditorClosed
	}
	return a.screen.Post(fn)
}
