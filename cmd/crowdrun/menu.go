package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/crowd-runner/internal/config"
	"github.com/vovakirdan/crowd-runner/internal/platform/tui"
	"github.com/vovakirdan/crowd-runner/internal/registry"
)

// runMenu loops between the start menu, the scoreboard and the game until
// the player quits.
func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}
	player := openAudio(!flagNoAudio, logger)
	defer player.Close()

	difficulty, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	cfg := runtimeConfig()
	lastGame := ""

	for {
		result, err := tui.RunMenu(store, cfg, difficulty)
		if err != nil {
			return err
		}
		cfg = result.Config
		difficulty = result.Difficulty

		if result.Quit {
			return nil
		}

		if result.WantsScoreboard {
			goBack, err := tui.RunScoreboard(store, lastGame, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if goBack {
				continue
			}
			return nil
		}

		game, err := registry.Create(result.GameID, registry.Options{
			ConfigPath: flagConfig,
			Difficulty: string(difficulty),
			Logger:     logger,
			Audio:      player,
		})
		if err != nil {
			logger.Error("could not create game", "game", result.GameID, "err", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		lastGame = result.GameID

		// Fresh course each time unless the player pinned a seed
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		logger.Info("run started", "game", result.GameID, "difficulty", difficulty)
		if err := tui.Run(game, store, cfg, logger); err != nil {
			return err
		}
	}
}

// playOnce runs a single game session outside the menu.
func playOnce(gameID, difficulty string, logger *log.Logger) error {
	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}
	player := openAudio(!flagNoAudio, logger)
	defer player.Close()

	game, err := registry.Create(gameID, registry.Options{
		ConfigPath: flagConfig,
		Difficulty: difficulty,
		Logger:     logger,
		Audio:      player,
	})
	if err != nil {
		return err
	}

	logger.Info("run started", "game", gameID, "difficulty", difficulty)
	return tui.Run(game, store, runtimeConfig(), logger)
}
