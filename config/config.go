// Package config loads editor settings from the embedded defaults and the
// user's config directory.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/mmledit/player"
	"github.com/odvcencio/mmledit/session"
	"github.com/odvcencio/mmledit/templates"
)

// AppName names the directory under os.UserConfigDir holding user files.
const AppName = "mmledit"

// Config is the full set of editor settings.
type Config struct {
	Player        player.Config        `yaml:"player"`
	Mode          string               `yaml:"mode"`
	Template      int                  `yaml:"template"`
	PollInterval  time.Duration        `yaml:"poll_interval"`
	StatusTimeout time.Duration        `yaml:"status_timeout"`
	LogFile       string               `yaml:"log_file"`
	Debug         bool                 `yaml:"debug"`
	Web           WebConfig            `yaml:"web"`
	Templates     []templates.Template `yaml:"templates"`
}

// WebConfig controls the optional remote monitor.
type WebConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

//go:embed default.yml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	if err := decode(bytes.NewReader(defaultYAML), &cfg); err != nil {
		panic(fmt.Errorf("failed to unmarshal default config: %w", err))
	}
	return cfg
}

// Load reads the YAML file at path over the defaults. A player given without
// args takes the invocation of the matching known player.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	if err := decode(f, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if len(cfg.Player.Args) == 0 {
		cfg.Player = player.Resolve(cfg.Player.Command, nil)
	}
	return cfg, cfg.Validate()
}

// LoadUser reads config.yml from the user config directory. A missing file
// yields the defaults.
func LoadUser() (Config, error) {
	path, err := Path("config.yml")
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Path returns the location of name inside the user config directory.
func Path(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, name), nil
}

// ReadUserFile returns the contents of name in the user config directory and
// whether it exists.
func ReadUserFile(name string) ([]byte, bool, error) {
	path, err := Path(name)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Validate checks values that YAML decoding cannot.
func (c Config) Validate() error {
	if _, err := session.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %v", c.PollInterval)
	}
	if c.StatusTimeout < 0 {
		return fmt.Errorf("status_timeout must not be negative, got %v", c.StatusTimeout)
	}
	return nil
}

// PlaybackMode returns the configured starting mode.
func (c Config) PlaybackMode() session.Mode {
	m, _ := session.ParseMode(c.Mode)
	return m
}

// Catalog returns the default templates followed by any configured ones.
func (c Config) Catalog() *templates.Catalog {
	if len(c.Templates) == 0 {
		return templates.Default()
	}
	return templates.Default().Extend(c.Templates...)
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
