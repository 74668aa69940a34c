// crowdrun is a terminal lane runner: steer a crowd through arithmetic
// gates, grow it, and throw it at the enemy waves before the finish line.
//
// Usage:
//
//	crowdrun                 - Start menu to pick a variant and difficulty
//	crowdrun play [game]     - Play a variant directly (default: crowdrun)
//	crowdrun list            - List available variants
//	crowdrun scores [game]   - Show the leaderboard
//	crowdrun gates           - Print the generated course of a level
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 60)
//	--seed <value>     - Set RNG seed for reproducible courses
//	--db <path>        - Set database path (default: ~/.arcade/crowdrun.db)
//	--config <path>    - Load a custom game config YAML
//	--difficulty <p>   - Difficulty preset: easy, normal, hard, fixed
//	--log-file <path>  - Write logs to a file
//	--debug            - Log state transitions
//	--no-audio         - Play without sound
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register the game variants
	_ "github.com/vovakirdan/crowd-runner/internal/games/crowdrun"
)

var (
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogFile    string
	flagDebug      bool
	flagNoAudio    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "crowdrun",
	Short: "Crowd Runner - grow a crowd and beat the waves in your terminal",
	Long: `Crowd Runner is a lane runner for the terminal. Steer your crowd
through arithmetic gates (+, -, x, /) to grow it, fight two enemy waves per
level with it, and reach the finish line for a bonus.

Running crowdrun without a command opens the start menu.

Available commands:
  play     - Play a variant directly
  list     - Show all variants
  scores   - View the leaderboard
  gates    - Print the generated course of a level

Examples:
  crowdrun
  crowdrun play --difficulty hard
  crowdrun play --timed
  crowdrun scores --board
  crowdrun gates --level 3 --seed 42`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/crowdrun.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log every state transition")
	rootCmd.PersistentFlags().BoolVar(&flagNoAudio, "no-audio", false, "Do not open the sound device")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(gatesCmd)
}
