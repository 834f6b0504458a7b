// Package tilerun provides the Tile Run board game for the tabletop platform.
// The deterministic engine lives in the core subpackage; this package drives
// it tick by tick: dice and pawn animation, the trivia minigame, hotseat
// seat handling and the online turn relay.
package tilerun

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tui-tabletop/internal/config"
	platformcore "github.com/vovakirdan/tui-tabletop/internal/core"
	"github.com/vovakirdan/tui-tabletop/internal/games/tilerun/core"
	"github.com/vovakirdan/tui-tabletop/internal/games/tilerun/questions"
	"github.com/vovakirdan/tui-tabletop/internal/registry"
)

// uiPhase tracks where the presentation layer is within a turn. The engine
// phase advances in bursts (roll, move and resolve happen back to back);
// the ui phase stretches those bursts over animation ticks.
type uiPhase int

const (
	uiWaitRoll uiPhase = iota
	uiDiceRoll
	uiPawnMove
	uiResolve
	uiTrivia
	uiTriviaResult
	uiGameOver
)

// Animation timings, in ticks at 30 ticks per second.
const (
	diceAnimTicks    = 20 // Dice tumble before settling
	hopEveryTicks    = 4  // Pawn hop cadence, one tile per hop
	resolveBanner    = 36 // Tile effect banner
	triviaBannerLong = 54 // Trivia outcome banner (longer, shows the info line)
)

// Game implements the Tile Run board game.
type Game struct {
	cfg    config.TilerunConfig
	rules  core.Rules
	match  *core.Match
	picker *questions.Picker
	pacing *config.PacingManager
	jitter *rand.Rand // Visual-only randomness (dice tumble faces)

	// Fixed per-instance setup, overriding the package-level selections
	roster         []string
	teams          []bool
	online         bool
	presetOverride config.GamePreset
	pacingOverride config.PacingPreset

	preset config.GamePreset
	seed   int64

	// Screen dimensions
	screenW  int
	screenH  int
	tickRate int

	// Status
	tick     uint64
	paused   bool
	tooSmall bool
	loadErr  string

	// Turn presentation state
	ui     uiPhase
	anim   animState
	banner int // Ticks left on the current banner

	lastTile    core.Tile
	hasLastTile bool

	// Trivia state
	question        *questions.Question
	answerTicksLeft int
	answerTotal     int
	chosen          int // Selected option, -1 until answered
	outcome         int // 0 pending, 1 won, 2 lost

}

// Package-level variables for configuration, set by the setup wizard or
// CLI flags before the platform calls Reset.
var (
	selectedRoster []string
	selectedTeams  []bool
	selectedPreset config.GamePreset
	selectedPacing config.PacingPreset
	selectedPack   string
	configPath     string
)

// SetRoster sets the seat names for the next hotseat match.
// Nil or empty restores the two-seat default.
func SetRoster(names []string) {
	selectedRoster = names
}

// GetRoster returns the currently selected roster.
func GetRoster() []string {
	return selectedRoster
}

// SetTeams marks which roster seats stand for whole teams rather than a
// single person. Indexes align with SetRoster; missing entries mean solo.
func SetTeams(teams []bool) {
	selectedTeams = teams
}

// SetPreset selects the board preset (classic, quick, marathon).
func SetPreset(p config.GamePreset) {
	selectedPreset = p
}

// GetPreset returns the currently selected board preset.
func GetPreset() config.GamePreset {
	return selectedPreset
}

// SetPacing selects the trivia countdown preset.
func SetPacing(p config.PacingPreset) {
	selectedPacing = p
}

// SetQuestionPack overrides the trivia pack ID from the config file.
func SetQuestionPack(id string) {
	selectedPack = id
}

// SetConfigPath points the loader at an explicit config file.
func SetConfigPath(path string) {
	configPath = path
}

func init() {
	registry.Register("tilerun", func() registry.Game {
		return New()
	})
}

// New creates a new Tile Run game.
func New() *Game {
	return &Game{chosen: -1}
}

// NewOnline creates an authoritative two-seat game for the online relay.
// The seed fixes the board layout and dice stream so the match can be
// replayed from its archive row.
func NewOnline(seed int64) (*Game, error) {
	g := New()
	g.online = true
	g.roster = []string{"Player 1", "Player 2"}
	g.Reset(platformcore.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     seed,
	})
	if g.match == nil {
		return nil, fmt.Errorf("tilerun: %s", g.loadErr)
	}
	return g, nil
}

// ConfigureMatch pins board, pacing and roster for this instance,
// overriding the package-level selections. Server sessions use it so
// concurrent players never race on the shared wizard state. Takes effect
// on the next Reset.
func (g *Game) ConfigureMatch(preset config.GamePreset, pacing config.PacingPreset, names []string, teams []bool) {
	g.presetOverride = preset
	g.pacingOverride = pacing
	g.roster = names
	g.teams = teams
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "tilerun"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Tile Run"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tickRate = cfg.TickRate
	if g.tickRate < 1 {
		g.tickRate = 30
	}
	g.tick = 0
	g.paused = false
	g.loadErr = ""
	g.match = nil
	g.anim = animState{}
	g.banner = 0
	g.question = nil
	g.chosen = -1
	g.outcome = 0
	g.hasLastTile = false

	fileCfg, err := config.LoadTilerun(configPath)
	if err != nil {
		g.loadErr = err.Error()
		return
	}
	g.preset = g.presetOverride
	if g.preset == "" {
		g.preset = selectedPreset
	}
	if g.preset != "" {
		config.ApplyGamePreset(&fileCfg, g.preset)
	}
	pacing := g.pacingOverride
	if pacing == "" {
		pacing = selectedPacing
	}
	if pacing != "" {
		config.ApplyPacingPreset(&fileCfg, pacing)
	}
	g.cfg = fileCfg
	g.rules = RulesFromConfig(fileCfg)

	roster := g.roster
	teams := g.teams
	if roster == nil {
		roster = selectedRoster
		teams = selectedTeams
	}
	if len(roster) == 0 {
		roster = []string{"Player 1", "Player 2"}
		teams = nil
	}
	seats := make([]core.Player, len(roster))
	for i, name := range roster {
		seats[i] = core.Player{Name: name}
		if i < len(teams) {
			seats[i].Team = teams[i]
		}
	}

	match, err := core.NewMatch(cfg.Seed, seats, g.rules)
	if err != nil {
		g.loadErr = err.Error()
		return
	}
	g.match = match
	g.seed = match.Seed()
	// Seed the visual jitter from the minted seed so replays show the
	// same dice tumble
	g.jitter = rand.New(rand.NewSource(g.seed))

	pack, err := g.loadPack(fileCfg.Trivia)
	if err != nil {
		g.loadErr = err.Error()
		g.match = nil
		return
	}
	// Offset keeps the question order off the dice stream while staying
	// replayable from the same seed.
	g.picker = questions.NewPicker(pack, g.seed+1)
	g.pacing = config.NewPacingManager(fileCfg.Pacing)

	g.layoutBoard()

	g.match.StartTurn()
	if g.match.GameOver() {
		g.ui = uiGameOver
	} else {
		g.ui = uiWaitRoll
	}
}

// RulesFromConfig maps the YAML config onto the engine ruleset.
func RulesFromConfig(cfg config.TilerunConfig) core.Rules {
	b := cfg.Board
	s := cfg.Scoring
	return core.Rules{
		TrackLength:    b.TrackLength,
		MaxTurns:       b.MaxTurns,
		DiceMin:        b.DiceMin,
		DiceMax:        b.DiceMax,
		PositiveTiles:  b.PositiveTiles,
		NegativeTiles:  b.NegativeTiles,
		RandomTiles:    b.RandomTiles,
		MinigameTiles:  b.MinigameTiles,
		PositiveDelta:  s.PositiveDelta,
		NegativeDelta:  s.NegativeDelta,
		RandomDeltas:   append([]int(nil), s.RandomDeltas...),
		MinigamePoints: s.MinigamePoints,
	}
}

// loadPack resolves the trivia pack: an explicit selection from the pack
// directory first, any pack from the directory next, the built-in pack last.
func (g *Game) loadPack(tc config.TriviaConfig) (questions.Pack, error) {
	packID := selectedPack
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
		if packs, err := loader.LoadAll(); err == nil && len(packs) > 0 {
			return packs[0], nil
		}
	}

	return questions.BuiltinPack()
}

// Step advances the game by one tick.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	g.tick++

	// Handle restart
	if in.Has(platformcore.ActionRestart) && g.ui == uiGameOver {
		g.Reset(platformcore.RuntimeConfig{
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: g.tickRate,
			Seed:     0, // Mint a fresh seed for the rematch
		})
		return platformcore.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(platformcore.ActionPause) && g.ui != uiGameOver {
		g.paused = !g.paused
	}

	if g.paused || g.tooSmall || g.match == nil {
		return platformcore.StepResult{State: g.State()}
	}

	switch g.ui {
	case uiWaitRoll:
		if in.Has(platformcore.ActionConfirm) {
			g.beginRoll()
		}
	case uiDiceRoll:
		g.stepDice()
	case uiPawnMove:
		g.stepHop()
	case uiTrivia:
		g.stepTrivia(in)
	case uiResolve, uiTriviaResult:
		g.stepBanner(in)
	case uiGameOver:
		// Waiting for restart
	}

	return platformcore.StepResult{State: g.State()}
}

// beginRoll draws the dice and starts the tumble animation.
func (g *Game) beginRoll() {
	if _, err := g.match.RollDice(); err != nil {
		return
	}
	roll, _ := g.match.LastRoll()
	g.anim = animState{
		phase: animDice,
		face:  roll,
		shown: roll,
	}
	g.ui = uiDiceRoll
}

// stepDice advances the dice tumble; when it settles the movement commits
// and the pawn starts hopping.
func (g *Game) stepDice() {
	if !g.anim.stepDice(g.jitter, g.rules) {
		return
	}

	// Tumble finished: commit the movement and animate the hops.
	from := g.match.CurrentPlayer().Position
	roll, _ := g.match.LastRoll()
	to := from
	g.match.MovePawn(func(position int) {
		to = position
	})
	g.anim.startHops(from, to, roll, g.rules.TrackLength)
	g.ui = uiPawnMove
}

// stepHop advances the pawn one tile at a time; when it lands the tile
// resolves.
func (g *Game) stepHop() {
	if !g.anim.stepHops() {
		return
	}
	g.resolveLanding()
}

// resolveLanding applies the landed tile and routes to the banner or the
// trivia minigame.
func (g *Game) resolveLanding() {
	tile, err := g.match.ResolveTile()
	if err != nil {
		return
	}
	g.lastTile = tile
	g.hasLastTile = true
	g.anim = animState{}

	if g.match.Phase() == core.PhaseMinigame {
		g.dealQuestion()
		g.ui = uiTrivia
		return
	}

	g.banner = resolveBanner
	g.ui = uiResolve
}

// dealQuestion draws the next trivia question and starts its countdown.
func (g *Game) dealQuestion() {
	q := g.picker.Next()
	g.question = &q
	g.chosen = -1
	g.outcome = 0
	g.answerTotal = g.pacing.AnswerTicks(g.cfg.Trivia.AnswerTicks, g.match.TurnNumber(), g.rules.MaxTurns)
	g.answerTicksLeft = g.answerTotal
}

// stepTrivia runs the question countdown and scores the answer.
func (g *Game) stepTrivia(in platformcore.InputFrame) {
	if idx := in.Option(); idx >= 0 && idx < len(g.question.Options) {
		g.chosen = idx
		g.settleTrivia(idx == g.question.Answer)
		return
	}

	g.answerTicksLeft--
	if g.answerTicksLeft <= 0 {
		g.chosen = -1
		g.settleTrivia(false)
	}
}

// settleTrivia reports the outcome to the engine and shows the result.
func (g *Game) settleTrivia(success bool) {
	g.match.CompleteMinigame(success)
	if success {
		g.outcome = 1
	} else {
		g.outcome = 2
	}
	g.banner = triviaBannerLong
	g.ui = uiTriviaResult
}

// stepBanner counts the effect banner down; Confirm skips ahead.
func (g *Game) stepBanner(in platformcore.InputFrame) {
	g.banner--
	if g.banner > 0 && !in.Has(platformcore.ActionConfirm) {
		return
	}
	g.finishTurn()
}

// finishTurn closes the engine turn and opens the next one, or ends the
// match once the final round has been played.
func (g *Game) finishTurn() {
	g.match.EndTurn()
	g.question = nil
	g.outcome = 0
	g.hasLastTile = false
	g.banner = 0

	if g.match.GameOver() {
		g.ui = uiGameOver
		return
	}
	g.match.StartTurn()
	if g.match.GameOver() {
		g.ui = uiGameOver
		return
	}
	g.ui = uiWaitRoll
}

// State returns the current game state. Score reports the leader so the
// platform's generic HUD shows something meaningful for a multi-seat game.
func (g *Game) State() platformcore.GameState {
	if g.match == nil {
		return platformcore.GameState{GameOver: g.loadErr != ""}
	}
	return platformcore.GameState{
		Score:    g.match.Leader().Score,
		GameOver: g.ui == uiGameOver,
		Paused:   g.paused || g.tooSmall,
	}
}

// Match exposes the underlying engine state for the platform layer
// (standings panel, match archive row).
func (g *Game) Match() *core.Match {
	return g.match
}

// Seed returns the seed the current match was built from.
func (g *Game) Seed() int64 {
	return g.seed
}

// Preset returns the board preset the current match plays.
func (g *Game) Preset() config.GamePreset {
	if g.preset == "" {
		return config.PresetClassic
	}
	return g.preset
}
