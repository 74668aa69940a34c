package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/crowd-runner/internal/games/crowdrun"
	"github.com/vovakirdan/crowd-runner/internal/registry"
)

var flagTimed bool

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play Crowd Runner",
	Long: `Start a run of the given variant (default: crowdrun).

Controls:
  A/D, Left/Right - Steer the crowd
  Enter/Space     - Start, next level, play again
  M               - Toggle sound
  P/Esc           - Pause
  R               - Restart
  Q/Ctrl+C        - Quit
  Ctrl+S          - Save a screenshot

Difficulty options:
  easy   - Fewer enemies, denser gates
  normal - Use the config as written
  hard   - More enemies, sparser gates
  fixed  - Keep the config's multiplier, no per-level ramp

Examples:
  crowdrun play
  crowdrun play --timed
  crowdrun play crowdrun_timed --difficulty hard
  crowdrun play --config ./my-crowdrun.yaml --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagTimed, "timed", false, "Resolve battles on a timer instead of by attrition")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := crowdrun.ID
	if flagTimed {
		gameID = crowdrun.TimedID
	}
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q; run 'crowdrun list' to see available games", gameID)
	}

	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	return playOnce(gameID, flagDifficulty, logger)
}
