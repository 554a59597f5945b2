package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/odvcencio/mmledit/session"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Player.Command != "cat-play-mml" {
		t.Errorf("player command = %q, want %q", cfg.Player.Command, "cat-play-mml")
	}
	if cfg.PollInterval != 100*time.Millisecond {
		t.Errorf("poll interval = %v, want 100ms", cfg.PollInterval)
	}
	if cfg.StatusTimeout != 3*time.Second {
		t.Errorf("status timeout = %v, want 3s", cfg.StatusTimeout)
	}
	if cfg.PlaybackMode() != session.CurrentNote {
		t.Errorf("mode = %v, want CurrentNote", cfg.PlaybackMode())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, "mode: full-mml\nplayer:\n  command: mmlfm\n  args: [\"-mml\", \"{mml}\"]\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PlaybackMode() != session.FullMml {
		t.Errorf("mode = %v, want FullMml", cfg.PlaybackMode())
	}
	if cfg.Player.Command != "mmlfm" || len(cfg.Player.Args) != 2 {
		t.Errorf("player = %+v", cfg.Player)
	}
	if cfg.PollInterval != 100*time.Millisecond {
		t.Errorf("poll interval = %v, want default 100ms", cfg.PollInterval)
	}
}

func TestLoadResolvesKnownPlayerArgs(t *testing.T) {
	path := writeConfig(t, "player:\n  command: mmlfm\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := cfg.Player.Expand("cde")
	if len(got) != 2 || got[0] != "-mml" || got[1] != "cde" {
		t.Errorf("mmlfm argv = %q, want [-mml cde]", got)
	}
}

func TestLoadKeepsExplicitPlayerArgs(t *testing.T) {
	path := writeConfig(t, "player:\n  command: mmlfm\n  args: [\"-file\", \"{mml}\"]\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Player.Args; len(got) != 2 || got[0] != "-file" {
		t.Errorf("args = %q, want [-file {mml}]", got)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "volume: 11\n")
	if _, err := Load(path); err == nil {
		t.Error("Load with unknown key should fail")
	}
}

func TestLoadRejectsBadMode(t *testing.T) {
	path := writeConfig(t, "mode: loud\n")
	if _, err := Load(path); err == nil {
		t.Error("Load with unknown mode should fail")
	}
}

func TestLoadRejectsZeroPoll(t *testing.T) {
	path := writeConfig(t, "poll_interval: 0s\n")
	if _, err := Load(path); err == nil {
		t.Error("Load with zero poll interval should fail")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load missing = %v, want ErrNotExist", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if cfg.Player.Command != Default().Player.Command {
		t.Errorf("player command = %q, want default", cfg.Player.Command)
	}
}

func TestCatalogAppendsTemplates(t *testing.T) {
	path := writeConfig(t, "templates:\n  - title: Mine\n    content: gfedc\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c := cfg.Catalog()
	if c.Count() != 9 {
		t.Fatalf("Count = %d, want 9", c.Count())
	}
	if c.Get(8) != "gfedc" || c.Title(8) != "Mine" {
		t.Errorf("template 8 = %q/%q", c.Title(8), c.Get(8))
	}
}

func TestLoadUserUsesConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	cfg, err := LoadUser()
	if err != nil {
		t.Fatalf("LoadUser without file: %v", err)
	}
	if cfg.Mode != Default().Mode {
		t.Errorf("mode = %q, want default", cfg.Mode)
	}

	path, err := Path("config.yml")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte("template: 3\n"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	cfg, err = LoadUser()
	if err != nil {
		t.Fatalf("LoadUser: %v", err)
	}
	if cfg.Template != 3 {
		t.Errorf("template = %d, want 3", cfg.Template)
	}

	data, ok, err := ReadUserFile("config.yml")
	if err != nil || !ok || string(data) != "template: 3\n" {
		t.Errorf("ReadUserFile = %q, %v, %v", data, ok, err)
	}
	if _, ok, err := ReadUserFile("missing.yml"); ok || err != nil {
		t.Errorf("ReadUserFile missing = %v, %v", ok, err)
	}
}
