package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/itfview/internal/config"
	"github.com/aretw0/itfview/internal/logging"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Env is what every command needs: configuration, a logger and its streams.
type Env struct {
	Config config.Config
	Logger *slog.Logger
	Out    io.Writer
	Err    io.Writer
}

// Setup loads the configuration and builds the logger. Logs go to errOut so
// rendered output on out stays clean. debug overrides the configured level.
func Setup(configPath string, debug bool, out, errOut io.Writer) (*Env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if debug {
		level = slog.LevelDebug
	}

	return &Env{
		Config: cfg,
		Logger: logging.NewWriter(errOut, level, cfg.Log.JSON),
		Out:    out,
		Err:    errOut,
	}, nil
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ColorProfile returns the colour profile for w: none unless w is a terminal.
func ColorProfile(w io.Writer) termenv.Profile {
	if !IsTTY(w) {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}
