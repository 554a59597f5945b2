package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/odvcencio/mmledit/config"
	"github.com/odvcencio/mmledit/player"
)

// logger is the package-wide structured logger. Safe to use before
// initLogger is called; defaults to slog.Default().
var logger = slog.Default()

// initLogger points the shared logger at path. The editor owns the terminal,
// so nothing is written to stderr; with no path and no debug flag logs are
// discarded.
func initLogger(path string, debug bool) (io.Closer, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if path == "" && debug {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, config.AppName, "mmledit.log")
	}

	var w io.Writer = io.Discard
	var closer io.Closer = nopCloser{}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		w, closer = f, f
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type options struct {
	configPath string
	player     string
	playerArgs []string
	mode       string
	template   int
	web        string
	logFile    string
	debug      bool
	poll       time.Duration
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "mmledit [file.mml]",
		Short: "Terminal MML editor that plays what you type",
		Long: `mmledit is a terminal text editor for Music Macro Language. Every edit
is handed to an external player: in current-note mode only the newly typed
notes are played, in full-mml mode the whole document is.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			closer, err := initLogger(cfg.LogFile, cfg.Debug)
			if err != nil {
				return fmt.Errorf("open log: %w", err)
			}
			defer closer.Close()

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, cfg, path)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "config file (default: user config dir)/"+config.AppName+"/config.yml")
	f.StringVar(&opts.player, "player", "", "player command")
	f.StringArrayVar(&opts.playerArgs, "player-arg", nil, "player argument, repeatable; "+player.Placeholder+" is replaced by the MML")
	f.StringVar(&opts.mode, "mode", "", "initial playback mode: current-note or full-mml")
	f.IntVar(&opts.template, "template", 0, "initial template index")
	f.StringVar(&opts.web, "web", "", "monitor address (e.g. :8080)")
	f.StringVar(&opts.logFile, "log", "", "log file")
	f.BoolVar(&opts.debug, "debug", false, "debug logging")
	f.DurationVar(&opts.poll, "poll", 0, "input poll interval")

	cmd.AddCommand(newTemplatesCmd(&opts), newCheckCmd(&opts))
	return cmd
}

// loadConfig reads the config file and applies any flags that were set.
func loadConfig(cmd *cobra.Command, opts options) (config.Config, error) {
	var cfg config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadUser()
	}
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("player") || flags.Changed("player-arg") {
		name := opts.player
		if name == "" {
			name = cfg.Player.Command
		}
		cfg.Player = player.Resolve(name, opts.playerArgs)
	}
	if flags.Changed("mode") {
		cfg.Mode = opts.mode
	}
	if flags.Changed("template") {
		cfg.Template = opts.template
	}
	if flags.Changed("web") {
		cfg.Web.Addr = opts.web
	}
	if flags.Changed("log") {
		cfg.LogFile = opts.logFile
	}
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}
	if flags.Changed("poll") {
		cfg.PollInterval = opts.poll
	}
	return cfg, cfg.Validate()
}

func newTemplatesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the template catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *opts)
			if err != nil {
				return err
			}
			catalog := cfg.Catalog()
			out := cmd.OutOrStdout()
			for i := 0; i < catalog.Count(); i++ {
				fmt.Fprintf(out, "%2d  %-32s %q\n", i, catalog.Title(i), catalog.Get(i))
			}
			return nil
		},
	}
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the configured player can be started",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *opts)
			if err != nil {
				return err
			}
			p := player.NewExecPlayer(cfg.Player, logger)
			if err := p.EnsureReady(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "player: %s %q\nmode: %s\n", cfg.Player.Command, cfg.Player.Args, cfg.PlaybackMode())
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "mmledit: %v\n", err)
		os.Exit(1)
	}
}
