package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tabletop/internal/config"
	"github.com/vovakirdan/tui-tabletop/internal/games/tilerun"
	"github.com/vovakirdan/tui-tabletop/internal/games/tilerun/core"
	"github.com/vovakirdan/tui-tabletop/internal/games/tilerun/questions"
	"github.com/vovakirdan/tui-tabletop/internal/registry"
	"github.com/vovakirdan/tui-tabletop/internal/storage"
)

var (
	flagSimPreset  string
	flagSimNames   string
	flagSimPlayers int
	flagSimPack    string
	flagSimConfig  string
	flagSimSave    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <game>",
	Short: "Run a headless match and print the transcript",
	Long: `Play a full match without a UI and print one line per turn.

The dice, the board layout and the question order all derive from the
seed, so the same seed always reproduces the same transcript. Trivia
questions are answered by a random guesser drawn from its own stream,
which keeps the dice sequence identical to an interactive match.

Examples:
  tabletop simulate tilerun
  tabletop simulate tilerun --seed 42
  tabletop simulate tilerun --players 4 --save
  tabletop simulate tilerun --preset marathon --names Ann,Bob,Carol`,
	Args: cobra.ExactArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagSimPreset, "preset", "classic", "Board preset: classic, quick, marathon")
	simulateCmd.Flags().StringVar(&flagSimNames, "names", "", "Comma-separated player names")
	simulateCmd.Flags().IntVar(&flagSimPlayers, "players", 2, "Number of seats when --names is not given")
	simulateCmd.Flags().StringVar(&flagSimPack, "pack", "", "Question pack ID to draw from")
	simulateCmd.Flags().StringVar(&flagSimConfig, "config", "", "Path to custom game config YAML")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Archive the finished match in the database")
}

func runSimulate(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tabletop list' to see available games.")
		os.Exit(1)
	}
	if gameID != "tilerun" {
		fmt.Fprintf(os.Stderr, "Error: game %q does not support headless simulation\n", gameID)
		os.Exit(1)
	}

	preset, err := parseGamePreset(flagSimPreset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fileCfg, err := config.LoadTilerun(flagSimConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	config.ApplyGamePreset(&fileCfg, preset)
	rules := tilerun.RulesFromConfig(fileCfg)

	names := splitNames(flagSimNames)
	if len(names) == 0 {
		count := flagSimPlayers
		if count < 1 {
			count = 2
		}
		names = make([]string, count)
		for i := range names {
			names[i] = fmt.Sprintf("Player %d", i+1)
		}
	}
	seats := make([]core.Player, len(names))
	for i, name := range names {
		seats[i] = core.Player{Name: name}
	}

	// A zero seed lets the engine mint one; the header prints the minted
	// value so the run can be replayed.
	match, err := core.NewMatch(flagSeed, seats, rules)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	pack, err := simulationPack(fileCfg.Trivia, flagSimPack)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading question pack: %v\n", err)
		os.Exit(1)
	}

	// Question order matches the interactive game; the guesser rolls on its
	// own stream so trivia never disturbs the dice sequence.
	picker := questions.NewPicker(pack, match.Seed()+1)
	guesser := core.NewRNG(match.Seed() + 2)

	fmt.Printf("Tile Run: seed %d, preset %s, %d seats, %d rounds\n",
		match.Seed(), preset, match.PlayerCount(), rules.MaxTurns)
	fmt.Println()
	fmt.Printf("  %-5s  %-10s  %-4s  %-4s  %-14s  %-5s  %s\n",
		"Round", "Player", "Roll", "Tile", "Kind", "Delta", "Score")

	started := time.Now()
	for !match.GameOver() {
		if err := playTurn(match, picker, guesser); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println()
	fmt.Println("Final standings:")
	standings := match.Standings()
	for i, p := range standings {
		fmt.Printf("  %d. %-10s  %d points\n", i+1, p.Name, p.Score)
	}

	winner := ""
	if len(standings) == 1 || standings[0].Score > standings[1].Score {
		winner = standings[0].Name
	}

	fmt.Println()
	if winner == "" {
		fmt.Println("The match is a tie.")
	} else {
		fmt.Printf("%s wins!\n", winner)
	}

	if flagSimSave {
		saveSimulation(match, gameID, preset, winner, started)
	}
}

// saveSimulation archives the finished match alongside interactive ones.
func saveSimulation(match *core.Match, gameID string, preset config.GamePreset, winner string, started time.Time) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open match database: %v\n", err)
		return
	}
	defer store.Close()

	standings := match.Standings()
	players := make([]storage.PlayerResult, 0, len(standings))
	for _, p := range standings {
		players = append(players, storage.PlayerResult{
			Seat:     p.ID,
			Name:     p.Name,
			Score:    p.Score,
			Position: p.Position,
		})
	}

	rec := storage.MatchRecord{
		GameID:   gameID,
		Seed:     match.Seed(),
		Preset:   string(preset),
		Turns:    match.Rules().MaxTurns,
		Duration: int(time.Since(started).Seconds()),
		Winner:   winner,
		Players:  players,
	}
	if _, err := store.SaveMatch(rec); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save match: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("Match saved to the archive.")
}

// playTurn drives one seat through a full turn and prints its transcript
// line. The caller loops until the match reports game over.
func playTurn(match *core.Match, picker *questions.Picker, guesser *core.RNG) error {
	if err := match.StartTurn(); err != nil {
		return err
	}
	if match.GameOver() {
		return nil
	}
	round := match.TurnNumber()

	roll, err := match.RollDice()
	if err != nil {
		return err
	}
	if err := match.MovePawn(nil); err != nil {
		return err
	}
	tile, err := match.ResolveTile()
	if err != nil {
		return err
	}

	note := ""
	if match.Phase() == core.PhaseMinigame {
		q := picker.Next()
		guess := guesser.IntBetween(0, len(q.Options)-1)
		if guess == q.Answer {
			note = "answered right"
		} else {
			note = "answered wrong"
		}
		if err := match.CompleteMinigame(guess == q.Answer); err != nil {
			return err
		}
	}

	delta, _ := match.PendingDelta()
	seat := match.CurrentPlayer()
	fmt.Printf("  %-5d  %-10s  %-4d  %-4d  %-14s  %+-5d  %-5d  %s\n",
		round, seat.Name, roll, seat.Position, tile.Kind, delta, seat.Score, note)

	return match.EndTurn()
}

// simulationPack resolves the trivia pack the same way the interactive
// game does: an explicit pack ID from the configured directory when one
// is available, the built-in pack otherwise.
func simulationPack(tc config.TriviaConfig, packID string) (questions.Pack, error) {
	if packID == "" {
		packID = tc.Pack
	}
	if tc.PackDir != "" {
		loader := questions.NewLoader(tc.PackDir)
		if packID != "" {
			if pack, err := loader.LoadByID(packID); err == nil {
				return pack, nil
			}
		}
	}
	return questions.BuiltinPack()
}
