package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tabletop/internal/core"
	"github.com/vovakirdan/tui-tabletop/internal/games/tilerun"
	"github.com/vovakirdan/tui-tabletop/internal/platform/tui"
	"github.com/vovakirdan/tui-tabletop/internal/registry"
	"github.com/vovakirdan/tui-tabletop/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the platform with a game picker menu",
	Long: `Start the platform in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
After a match ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab          - Match history
  Q            - Quit

Examples:
  tabletop menu
  tabletop menu --fps 20
  tabletop menu --db ./matches.db`,
	Run: runMenu,
}

func init() {
	// Uses global flags from main.go (--fps, --seed, --db)
}

func runMenu(_ *cobra.Command, _ []string) {
	// Open match storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open match database: %v\n", err)
		store = nil
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	// Create runtime config
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Menu loop
	for {
		// Show menu and get selection
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		// Check if user quit
		if menuResult.Quit {
			break
		}

		// Check if user wants the match history browser
		if menuResult.WantsHistory {
			goBack, histErr := tui.RunMatchHistory(store, cfg.ScreenW, cfg.ScreenH)
			if histErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", histErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from the history browser
		}

		gameID := menuResult.GameID
		if gameID == "" {
			break
		}

		// Configure the match before creation
		switch gameID {
		case "tilerun":
			tilerun.SetConfigPath(flagConfig)
			tilerun.SetQuestionPack(flagPack)

			// Show the match setup wizard
			setup, updatedCfg, setupErr := tui.RunTilerunSetup(cfg)
			if setupErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", setupErr)
				continue
			}
			cfg = updatedCfg

			// User pressed back or quit
			if setup == nil {
				continue
			}

			tilerun.SetPreset(setup.Preset)
			tilerun.SetPacing(setup.Pacing)
			tilerun.SetRoster(setup.Names)
			tilerun.SetTeams(setup.Teams)

			// A wizard-entered seed wins; zero lets the engine mint a
			// fresh one for every match started from the menu
			cfg.Seed = setup.Seed
		}

		// Create game instance
		game, err := registry.Create(gameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// Run the game
		if err := tui.Run(game, store, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}

		// Loop back to menu
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
