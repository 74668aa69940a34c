package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/crowd-runner/internal/games/crowdrun"
	"github.com/vovakirdan/crowd-runner/internal/platform/tui"
	"github.com/vovakirdan/crowd-runner/internal/registry"
	"github.com/vovakirdan/crowd-runner/internal/storage"
)

var (
	flagBoard bool
	flagClear bool
	flagTop   int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show the leaderboard",
	Long: `Display the best runs of a variant (default: crowdrun).

Examples:
  crowdrun scores
  crowdrun scores crowdrun_timed --top 20
  crowdrun scores --board
  crowdrun scores --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagBoard, "board", false, "Open the interactive scoreboard")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every recorded run of the game")
	scoresCmd.Flags().IntVar(&flagTop, "top", 10, "Number of runs to show")
}

var (
	scoresHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Padding(0, 1)
	scoresCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func runScores(_ *cobra.Command, args []string) error {
	gameID := crowdrun.ID
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q; run 'crowdrun list' to see available games", gameID)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open scores database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Printf("Cleared all runs of %s.\n", gameID)
		return nil
	}

	if flagBoard {
		cfg := runtimeConfig()
		_, err := tui.RunScoreboard(store, gameID, cfg.ScreenW, cfg.ScreenH)
		return err
	}

	runs, err := store.TopRuns(gameID, max(1, flagTop))
	if err != nil {
		return fmt.Errorf("retrieve scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n\n", gameTitle(gameID))
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'crowdrun play %s' to set the first high score!\n", gameID)
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("Rank", "Score", "Level", "Date").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return scoresHeaderStyle
			}
			return scoresCellStyle
		})
	for i, r := range runs {
		t.Row(
			fmt.Sprintf("#%d", i+1),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Level),
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	fmt.Println(t.Render())

	best, err := store.BestLevel(gameID)
	if err == nil {
		fmt.Printf("\nBest: %d points, level %d\n", runs[0].Score, best)
	}
	return nil
}

func gameTitle(id string) string {
	for _, g := range registry.List() {
		if g.ID == id {
			return g.Title
		}
	}
	return id
}
