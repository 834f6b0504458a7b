// tabletop is a TUI platform for playing turn-based board games in the
// terminal, locally or over SSH.
//
// Usage:
//
//	tabletop list              - List available games
//	tabletop play <game>       - Play a hotseat match
//	tabletop menu              - Start menu to pick games interactively
//	tabletop serve             - Start SSH server for remote and online play
//	tabletop history <game>    - Show recorded match history
//	tabletop simulate <game>   - Run a headless match and print the transcript
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 30)
//	--seed <value>  - Set RNG seed for reproducible matches
//	--db <path>     - Set database path (default: ~/.tabletop/matches.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/tui-tabletop/internal/games/tilerun"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tabletop",
	Short: "TUI Tabletop - Play board games in your terminal",
	Long: `TUI Tabletop is a terminal-based platform for turn-based board games,
played hotseat at one keyboard or online against other SSH users.

Available commands:
  list      - Show all available games
  play      - Start a hotseat match directly
  menu      - Interactive game picker menu
  serve     - Start SSH server for remote and online play
  history   - View recorded match history
  simulate  - Run a headless match and print the transcript

Examples:
  tabletop list
  tabletop play tilerun
  tabletop play tilerun --preset quick --names Ann,Bob
  tabletop menu
  tabletop serve --ssh :2222
  tabletop history tilerun
  tabletop simulate tilerun --seed 42`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = mint a fresh one per match)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tabletop/matches.db", "Path to match database")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(simulateCmd)
}
