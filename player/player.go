// Package player hands MML text to an external player process.
//
// Playback is fire-and-forget: Play never waits for the player, and player
// failures are reported through a diagnostic hook instead of being returned.
package player

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrPlayerNotFound is reported when the player command is not on PATH.
var ErrPlayerNotFound = errors.New("player not found")

// Request is a single piece of MML sent for playback.
type Request struct {
	ID  string
	MML string
	At  time.Time
}

// NewRequest stamps mml with a fresh id and the current time.
func NewRequest(mml string) Request {
	return Request{ID: uuid.NewString(), MML: mml, At: time.Now()}
}

// Player accepts playback requests. Implementations must return promptly.
type Player interface {
	Play(req Request)
}

// Func adapts a plain function to Player.
type Func func(req Request)

// Play calls f(req).
func (f Func) Play(req Request) { f(req) }

// Multi fans every request out to each player in order.
type Multi []Player

// Play forwards req to every non-nil player.
func (m Multi) Play(req Request) {
	for _, p := range m {
		if p != nil {
			p.Play(req)
		}
	}
}

// Recorder keeps every request it receives. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	requests []Request
}

// Play records req.
func (r *Recorder) Play(req Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
}

// Requests returns a copy of the recorded requests.
func (r *Recorder) Requests() []Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Request(nil), r.requests...)
}

// MML returns just the MML text of each recorded request.
func (r *Recorder) MML() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.requests))
	for i, req := range r.requests {
		out[i] = req.MML
	}
	return out
}

// ExecPlayer starts Config.Command once per request and never waits for it.
type ExecPlayer struct {
	cfg    Config
	logger *slog.Logger

	// OnError receives spawn and exit failures. It may be called from any
	// goroutine.
	OnError func(req Request, err error)
}

// NewExecPlayer returns a player running cfg. A nil logger uses slog.Default().
func NewExecPlayer(cfg Config, logger *slog.Logger) *ExecPlayer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecPlayer{cfg: cfg, logger: logger}
}

// Config returns the command configuration.
func (p *ExecPlayer) Config() Config {
	return p.cfg
}

// EnsureReady checks that the player command can be found.
func (p *ExecPlayer) EnsureReady() error {
	_, err := p.lookPath()
	return err
}

// Play starts the player for req and returns immediately.
func (p *ExecPlayer) Play(req Request) {
	path, err := p.lookPath()
	if err != nil {
		p.fail(req, err)
		return
	}

	cmd := exec.Command(path, p.cfg.Expand(req.MML)...)
	if err := cmd.Start(); err != nil {
		p.fail(req, fmt.Errorf("start %s: %w", p.cfg.Command, err))
		return
	}
	p.logger.Debug("playback started", "id", req.ID, "pid", cmd.Process.Pid, "bytes", len(req.MML))

	go func() {
		if err := cmd.Wait(); err != nil {
			p.fail(req, fmt.Errorf("%s: %w", p.cfg.Command, err))
			return
		}
		p.logger.Debug("playback finished", "id", req.ID, "elapsed", time.Since(req.At))
	}()
}

func (p *ExecPlayer) lookPath() (string, error) {
	if strings.TrimSpace(p.cfg.Command) == "" {
		return "", fmt.Errorf("%w: no command configured", ErrPlayerNotFound)
	}
	path, err := exec.LookPath(p.cfg.Command)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPlayerNotFound, p.cfg.Command)
	}
	return path, nil
}

func (p *ExecPlayer) fail(req Request, err error) {
	p.logger.Warn("playback failed", "id", req.ID, "err", err)
	if p.OnError != nil {
		p.OnError(req, err)
	}
}
