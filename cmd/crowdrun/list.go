package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/crowd-runner/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all game variants",
	Long:  `Shows every registered Crowd Runner variant.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()

	idW := len("ID")
	for _, g := range games {
		idW = max(idW, len(g.ID))
	}

	fmt.Printf("  %-*s  %s\n", idW, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", idW, "--", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", idW, g.ID, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'crowdrun play <id>' to play a variant.")
}
