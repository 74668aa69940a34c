package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/crowd-runner/internal/audio"
	"github.com/vovakirdan/crowd-runner/internal/core"
	"github.com/vovakirdan/crowd-runner/internal/storage"
)

// newLogger builds the logger for a command. Interactive commands own the
// terminal, so they log to --log-file or nowhere. The returned func closes
// the log file.
func newLogger(interactive bool) (*log.Logger, func(), error) {
	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          "crowdrun",
		Level:           log.InfoLevel,
	}
	if flagDebug {
		opts.Level = log.DebugLevel
	}

	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(expandHome(flagLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return log.NewWithOptions(f, opts), func() { f.Close() }, nil
	case interactive:
		return log.NewWithOptions(io.Discard, opts), func() {}, nil
	default:
		return log.NewWithOptions(os.Stderr, opts), func() {}, nil
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// runtimeConfig sizes the screen from the terminal and applies the global flags.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the leaderboard. Failure is not fatal: the game runs
// without recording scores.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// openAudio opens the sound device, falling back to silence.
func openAudio(enabled bool, logger *log.Logger) audio.Player {
	if !enabled {
		return audio.NopPlayer{}
	}
	p, err := audio.NewBeepPlayer()
	if err != nil {
		logger.Warn("audio unavailable, playing silently", "err", err)
		return audio.NopPlayer{}
	}
	return p
}
