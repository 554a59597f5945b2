package player

import "strings"

// Placeholder is replaced by the MML text inside Config.Args.
const Placeholder = "{mml}"

// Config describes how to invoke a player command.
type Config struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// DefaultPlayers returns built-in player invocations keyed by name.
func DefaultPlayers() map[string]Config {
	return map[string]Config{
		"cat-play-mml": {Command: "cat-play-mml"},
		"mmlfm":        {Command: "mmlfm", Args: []string{"-mml", Placeholder}},
	}
}

// Resolve returns the configuration for name, falling back to running name
// directly with the MML as its final argument.
func Resolve(name string, args []string) Config {
	if len(args) > 0 {
		return Config{Command: name, Args: append([]string(nil), args...)}
	}
	if cfg, ok := DefaultPlayers()[name]; ok {
		return cfg
	}
	return Config{Command: name}
}

// Expand builds the argument list for mml. Every Placeholder is substituted;
// without one, mml is appended after "--" so text starting with '-' is not
// taken for a flag.
func (c Config) Expand(mml string) []string {
	args := make([]string, 0, len(c.Args)+2)
	substituted := false
	for _, a := range c.Args {
		if strings.Contains(a, Placeholder) {
			a = strings.ReplaceAll(a, Placeholder, mml)
			substituted = true
		}
		args = append(args, a)
	}
	if !substituted {
		args = append(args, "--", mml)
	}
	return args
}
