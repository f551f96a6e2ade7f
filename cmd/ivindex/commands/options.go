// Package commands implements CLI command handlers for ivindex.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/ivindex/pkg/config"
	"github.com/Sumatoshi-tech/ivindex/pkg/observability"
)

// stdinPath reads a script from standard input.
const stdinPath = "-"

// GlobalOptions holds the persistent root flags.
type GlobalOptions struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
}

// logLevel applies --verbose and --quiet on top of the configured level.
func (g *GlobalOptions) logLevel(configured slog.Level) slog.Level {
	switch {
	case g.Quiet:
		return slog.LevelError
	case g.Verbose:
		return slog.LevelDebug
	default:
		return configured
	}
}

// useColor resolves the configured colour mode. noColor wins over config.
func useColor(mode string, noColor bool) bool {
	if noColor {
		return false
	}

	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		// fatih/color detects a terminal on stdout and honours NO_COLOR.
		return !color.NoColor
	}
}

// readInput returns the bytes of path, or of stdin when path is "-", and
// a label for messages.
func readInput(path string, stdin io.Reader) (data []byte, label string, err error) {
	if path == stdinPath {
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, "stdin", fmt.Errorf("read stdin: %w", err)
		}

		return data, "stdin", nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read script: %w", err)
	}

	return data, path, nil
}

// initObservability builds providers from cfg with logs sent to stderr.
func initObservability(cfg *config.Config, globals *GlobalOptions, ver string, stderr io.Writer) (observability.Providers, error) {
	obsCfg := cfg.ObservabilityConfig(ver)
	obsCfg.LogOutput = stderr
	obsCfg.LogLevel = globals.logLevel(obsCfg.LogLevel)

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return observability.Providers{}, fmt.Errorf("init observability: %w", err)
	}

	return providers, nil
}
