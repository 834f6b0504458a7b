package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tabletop/internal/registry"
	"github.com/vovakirdan/tui-tabletop/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history <game>",
	Short: "Show recorded match history for a game",
	Long: `Display the most recent matches and per-player records for the
specified game.

For the interactive browser with online results, open the menu and
press Tab instead.

Examples:
  tabletop history tilerun
  tabletop history tilerun --db ./matches.db`,
	Args: cobra.ExactArgs(1),
	Run:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tabletop list' to see available games.")
		os.Exit(1)
	}

	// Get game title
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	// Open match storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening match database: %v\n", err)
		os.Exit(1)
	}

	// Get recent matches
	matches, err := store.RecentMatches(gameID, 10)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving matches: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Display matches
	fmt.Printf("Match History - %s\n", title)
	fmt.Println()

	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'tabletop play %s' to record the first match!\n", gameID)
		return
	}

	// Print header
	fmt.Printf("  %-16s  %-9s  %-12s  %-5s  %s\n", "Date", "Preset", "Winner", "Top", "Turns")
	fmt.Printf("  %-16s  %-9s  %-12s  %-5s  %s\n", "----", "------", "------", "---", "-----")

	// Print matches
	for _, rec := range matches {
		dateStr := rec.CreatedAt.Format("2006-01-02 15:04")
		winner := rec.Winner
		if winner == "" {
			winner = "tie"
		}
		top := 0
		if len(rec.Players) > 0 {
			top = rec.Players[0].Score
			for _, p := range rec.Players[1:] {
				if p.Score > top {
					top = p.Score
				}
			}
		}
		fmt.Printf("  %-16s  %-9s  %-12s  %-5d  %d\n", dateStr, rec.Preset, winner, top, rec.Turns)
	}

	// Show per-player records
	tallies, err := store.PlayerTallies(gameID, 5)
	if err == nil && len(tallies) > 0 {
		fmt.Println()
		fmt.Printf("  %-12s  %-8s  %-5s  %s\n", "Player", "Matches", "Wins", "Best")
		fmt.Printf("  %-12s  %-8s  %-5s  %s\n", "------", "-------", "----", "----")
		for _, t := range tallies {
			fmt.Printf("  %-12s  %-8d  %-5d  %d\n", t.Name, t.Matches, t.Wins, t.BestScore)
		}
	}

	// Show best score
	fmt.Println()
	if best, err := store.BestScore(gameID); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
}
