package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tabletop/internal/config"
	"github.com/vovakirdan/tui-tabletop/internal/core"
	"github.com/vovakirdan/tui-tabletop/internal/games/tilerun"
	"github.com/vovakirdan/tui-tabletop/internal/platform/tui"
	"github.com/vovakirdan/tui-tabletop/internal/registry"
	"github.com/vovakirdan/tui-tabletop/internal/storage"
)

var (
	flagConfig string
	flagPreset string
	flagPacing string
	flagNames  string
	flagPack   string
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Start a hotseat match",
	Long: `Start a hotseat match of the specified game.

Without --preset, --names or --pacing a setup wizard collects the board
preset, the seat count, the player names and the question pacing. With
any of those flags the match starts immediately, using defaults for
whatever was not given.

Controls:
  Space/Enter - Roll dice, confirm, continue
  1-4         - Answer trivia questions
  P           - Pause
  R           - Restart (after the match ends)
  Q/Ctrl+C    - Quit

Board presets:
  classic  - 50 tiles, 12 rounds
  quick    - 30 tiles, 6 rounds
  marathon - 80 tiles, 20 rounds

Question pacing:
  relaxed - Full countdown all match
  normal  - Countdown tightens from 30%
  tight   - Countdown tightens from 70%
  fixed   - No tightening

Examples:
  tabletop play tilerun
  tabletop play tilerun --preset quick
  tabletop play tilerun --names Ann,Bob,Carol --pacing tight
  tabletop play tilerun --config ./my-board.yaml --pack capitals`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagPreset, "preset", "", "Board preset: classic, quick, marathon")
	playCmd.Flags().StringVar(&flagPacing, "pacing", "", "Question pacing: relaxed, normal, tight, fixed")
	playCmd.Flags().StringVar(&flagNames, "names", "", "Comma-separated player names (skips the wizard)")
	playCmd.Flags().StringVar(&flagPack, "pack", "", "Question pack ID to play")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tabletop list' to see available games.")
		os.Exit(1)
	}

	// Get terminal size early for the setup wizard
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
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

	// Configure the match before creation
	switch gameID {
	case "tilerun":
		tilerun.SetConfigPath(flagConfig)
		tilerun.SetQuestionPack(flagPack)

		if flagPreset == "" && flagNames == "" && flagPacing == "" {
			// Show the match setup wizard
			setup, updatedCfg, setupErr := tui.RunTilerunSetup(cfg)
			if setupErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", setupErr)
				os.Exit(1)
			}
			cfg = updatedCfg

			// User pressed back or quit
			if setup == nil {
				return
			}

			tilerun.SetPreset(setup.Preset)
			tilerun.SetPacing(setup.Pacing)
			tilerun.SetRoster(setup.Names)
			tilerun.SetTeams(setup.Teams)
			if setup.Seed != 0 {
				cfg.Seed = setup.Seed
			}
			break
		}

		if flagPreset != "" {
			preset, presetErr := parseGamePreset(flagPreset)
			if presetErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", presetErr)
				os.Exit(1)
			}
			tilerun.SetPreset(preset)
		}
		if flagPacing != "" {
			pacing, pacingErr := parsePacingPreset(flagPacing)
			if pacingErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", pacingErr)
				os.Exit(1)
			}
			tilerun.SetPacing(pacing)
		}
		tilerun.SetRoster(splitNames(flagNames))
	}

	// Create game instance
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open match storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open match database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	// Run the game
	runErr := tui.Run(game, store, cfg)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// parseGamePreset validates a --preset flag value.
func parseGamePreset(raw string) (config.GamePreset, error) {
	p := config.GamePreset(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range config.GamePresets() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown preset %q (valid: classic, quick, marathon)", raw)
}

// parsePacingPreset validates a --pacing flag value.
func parsePacingPreset(raw string) (config.PacingPreset, error) {
	switch p := config.PacingPreset(strings.ToLower(strings.TrimSpace(raw))); p {
	case config.PacingRelaxed, config.PacingNormal, config.PacingTight, config.PacingFixed:
		return p, nil
	}
	return "", fmt.Errorf("unknown pacing %q (valid: relaxed, normal, tight, fixed)", raw)
}

// splitNames parses a comma-separated roster, dropping blank entries.
func splitNames(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
