package tilerun

import (
	"testing"

	"github.com/vovakirdan/tui-tabletop/internal/config"
	platformcore "github.com/vovakirdan/tui-tabletop/internal/core"
	"github.com/vovakirdan/tui-tabletop/internal/games/tilerun/core"
	"github.com/vovakirdan/tui-tabletop/internal/multiplayer"
)

func testConfig(seed int64) platformcore.RuntimeConfig {
	return platformcore.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     seed,
	}
}

// playTicks drives the hotseat loop: Confirm every tick and answer 1
// whenever a question is open, which pushes turns through as fast as the
// animations allow.
func playTicks(g *Game, n int) {
	for i := 0; i < n; i++ {
		in := platformcore.NewInputFrame()
		in.Set(platformcore.ActionConfirm)
		if g.ui == uiTrivia {
			in.Set(platformcore.ActionOption1)
		}
		g.Step(in)
	}
}

func TestResetStartsFirstTurn(t *testing.T) {
	g := New()
	g.Reset(testConfig(42))

	if g.match == nil {
		t.Fatalf("Expected a match after Reset, got load error %q", g.loadErr)
	}
	if g.ui != uiWaitRoll {
		t.Errorf("Expected uiWaitRoll after Reset, got %v", g.ui)
	}
	if g.match.Phase() != core.PhaseRollDice {
		t.Errorf("Expected engine parked in RollDice, got %v", g.match.Phase())
	}
	if g.match.PlayerCount() != 2 {
		t.Errorf("Expected default roster of 2, got %d", g.match.PlayerCount())
	}
	if st := g.State(); st.GameOver {
		t.Error("Expected fresh match to not be game over")
	}
}

func TestTrackMatchesRules(t *testing.T) {
	g := New()
	g.Reset(testConfig(7))

	tiles := g.match.Tiles()
	if len(tiles) != g.rules.TrackLength {
		t.Fatalf("Expected %d tiles, got %d", g.rules.TrackLength, len(tiles))
	}

	counts := core.CountByKind(tiles)
	want := map[core.TileKind]int{
		core.TileFixedPositive: g.rules.PositiveTiles,
		core.TileFixedNegative: g.rules.NegativeTiles,
		core.TileRandomReward:   g.rules.RandomTiles,
		core.TileMinigame: g.rules.MinigameTiles,
	}
	for kind, n := range want {
		if counts[kind] != n {
			t.Errorf("Expected %d %s tiles, got %d", n, kind, counts[kind])
		}
	}
}

func TestPresetChangesBoard(t *testing.T) {
	SetPreset(config.PresetQuick)
	t.Cleanup(func() { SetPreset("") })

	g := New()
	g.Reset(testConfig(7))

	if g.rules.TrackLength != 30 {
		t.Errorf("Expected quick preset track of 30, got %d", g.rules.TrackLength)
	}
	if g.rules.MaxTurns != 6 {
		t.Errorf("Expected quick preset to play 6 rounds, got %d", g.rules.MaxTurns)
	}
	if len(g.match.Tiles()) != 30 {
		t.Errorf("Expected 30 generated tiles, got %d", len(g.match.Tiles()))
	}
}

func TestRosterNames(t *testing.T) {
	SetRoster([]string{"Ada", "Bea", "Cyd"})
	t.Cleanup(func() { SetRoster(nil) })

	g := New()
	g.Reset(testConfig(3))

	players := g.match.Players()
	if len(players) != 3 {
		t.Fatalf("Expected 3 players, got %d", len(players))
	}
	for i, want := range []string{"Ada", "Bea", "Cyd"} {
		if players[i].Name != want {
			t.Errorf("Expected seat %d to be %s, got %s", i, want, players[i].Name)
		}
	}
}

func TestDeterminism(t *testing.T) {
	cfg := testConfig(12345)

	g1 := New()
	g1.Reset(cfg)
	g2 := New()
	g2.Reset(cfg)

	playTicks(g1, 600)
	playTicks(g2, 600)

	s1 := g1.Snapshot().(Snapshot)
	s2 := g2.Snapshot().(Snapshot)

	if s1.Track != s2.Track {
		t.Error("Track layout diverged between same-seed games")
	}
	if s1.Turn != s2.Turn || s1.ActiveSeat != s2.ActiveSeat || s1.Phase != s2.Phase {
		t.Errorf("Turn state diverged: %d/%d/%d vs %d/%d/%d",
			s1.Turn, s1.ActiveSeat, s1.Phase, s2.Turn, s2.ActiveSeat, s2.Phase)
	}
	if s1.Pos1 != s2.Pos1 || s1.Pos2 != s2.Pos2 {
		t.Errorf("Positions diverged: (%d,%d) vs (%d,%d)", s1.Pos1, s1.Pos2, s2.Pos1, s2.Pos2)
	}
	if s1.Score1 != s2.Score1 || s1.Score2 != s2.Score2 {
		t.Errorf("Scores diverged: (%d,%d) vs (%d,%d)", s1.Score1, s1.Score2, s2.Score1, s2.Score2)
	}
}

func TestFullMatchReachesGameOver(t *testing.T) {
	g := New()
	g.Reset(testConfig(42))

	// Worst case a turn needs ~60 ticks with the fast driver; 12 rounds of
	// 2 seats fit comfortably in 5000.
	playTicks(g, 5000)

	if g.ui != uiGameOver {
		t.Fatalf("Expected game over after a full match, got ui %v", g.ui)
	}
	if !g.match.GameOver() {
		t.Error("Expected the engine to report game over")
	}
	if !g.State().GameOver {
		t.Error("Expected State to report game over")
	}

	standings := g.match.Standings()
	for i := 1; i < len(standings); i++ {
		if standings[i].Score > standings[i-1].Score {
			t.Errorf("Standings out of order at %d: %d > %d", i, standings[i].Score, standings[i-1].Score)
		}
	}
}

func TestRestartMintsFreshMatch(t *testing.T) {
	g := New()
	g.Reset(testConfig(42))
	playTicks(g, 5000)
	if g.ui != uiGameOver {
		t.Fatalf("Expected game over before restart, got %v", g.ui)
	}

	in := platformcore.NewInputFrame()
	in.Set(platformcore.ActionRestart)
	g.Step(in)

	if g.ui != uiWaitRoll {
		t.Errorf("Expected a fresh turn after restart, got %v", g.ui)
	}
	if g.match.TurnNumber() != 1 {
		t.Errorf("Expected restart at turn 1, got %d", g.match.TurnNumber())
	}
}

func TestTriviaTimeoutScoresNothing(t *testing.T) {
	g := New()
	g.Reset(testConfig(9))

	seat := g.match.CurrentPlayerIndex()
	before := g.match.Players()[seat].Score

	g.match.ForceState(core.PhaseMinigame)
	g.dealQuestion()
	g.ui = uiTrivia
	g.answerTicksLeft = 3
	g.answerTotal = 3

	for i := 0; i < 5 && g.ui == uiTrivia; i++ {
		g.Step(platformcore.NewInputFrame())
	}

	if g.ui != uiTriviaResult {
		t.Fatalf("Expected trivia result after timeout, got %v", g.ui)
	}
	if g.outcome != 2 {
		t.Errorf("Expected a lost outcome, got %d", g.outcome)
	}
	won, done := g.match.MinigameOutcome()
	if !done || won {
		t.Errorf("Expected recorded failure, got won=%v done=%v", won, done)
	}
	if after := g.match.Players()[seat].Score; after != before {
		t.Errorf("Expected no points on timeout, score went %d -> %d", before, after)
	}
}

func TestCorrectAnswerAwardsPoints(t *testing.T) {
	g := New()
	g.Reset(testConfig(9))

	seat := g.match.CurrentPlayerIndex()
	before := g.match.Players()[seat].Score

	g.match.ForceState(core.PhaseMinigame)
	g.dealQuestion()
	g.ui = uiTrivia

	options := []platformcore.Action{
		platformcore.ActionOption1,
		platformcore.ActionOption2,
		platformcore.ActionOption3,
		platformcore.ActionOption4,
	}
	in := platformcore.NewInputFrame()
	in.Set(options[g.question.Answer])
	g.Step(in)

	if g.ui != uiTriviaResult {
		t.Fatalf("Expected trivia result after answering, got %v", g.ui)
	}
	if g.outcome != 1 {
		t.Errorf("Expected a won outcome, got %d", g.outcome)
	}
	if after := g.match.Players()[seat].Score; after != before+g.rules.MinigamePoints {
		t.Errorf("Expected score %d after winning, got %d", before+g.rules.MinigamePoints, after)
	}
}

func TestOnlineTurnFlow(t *testing.T) {
	g, err := NewOnline(77)
	if err != nil {
		t.Fatalf("NewOnline failed: %v", err)
	}

	if g.ActivePlayer() != multiplayer.Player1 {
		t.Fatalf("Expected Player1 to open the match, got %v", g.ActivePlayer())
	}

	roll := multiplayer.TurnCommand{Kind: multiplayer.CommandRoll, Answer: -1}
	if err := g.Apply(multiplayer.Player2, roll); err == nil {
		t.Error("Expected an out-of-turn roll to be rejected")
	}
	if err := g.Apply(multiplayer.Player1, roll); err != nil {
		t.Fatalf("Expected Player1's roll to apply, got %v", err)
	}

	snap := g.Snapshot().(Snapshot)
	if snap.Phase == SnapTrivia {
		answer := multiplayer.TurnCommand{Kind: multiplayer.CommandAnswer, Answer: 0}
		if err := g.Apply(multiplayer.Player1, answer); err != nil {
			t.Fatalf("Expected the answer to apply, got %v", err)
		}
		snap = g.Snapshot().(Snapshot)
		if snap.Phase != SnapTriviaResult {
			t.Fatalf("Expected trivia result after answering, got phase %d", snap.Phase)
		}
	}
	if snap.Phase != SnapResolved && snap.Phase != SnapTriviaResult {
		t.Fatalf("Expected a settled turn after rolling, got phase %d", snap.Phase)
	}
	if snap.Dice < g.rules.DiceMin || snap.Dice > g.rules.DiceMax {
		t.Errorf("Expected dice in [%d,%d], got %d", g.rules.DiceMin, g.rules.DiceMax, snap.Dice)
	}

	cont := multiplayer.TurnCommand{Kind: multiplayer.CommandContinue, Answer: -1}
	if err := g.Apply(multiplayer.Player1, cont); err != nil {
		t.Fatalf("Expected continue to apply, got %v", err)
	}
	if g.ActivePlayer() != multiplayer.Player2 {
		t.Errorf("Expected turn to pass to Player2, got %v", g.ActivePlayer())
	}
	if g.IsGameOver() {
		t.Error("Expected the match to continue after one turn")
	}
}

func TestOnlineAutoAdvanceFinishesTurn(t *testing.T) {
	g, err := NewOnline(5)
	if err != nil {
		t.Fatalf("NewOnline failed: %v", err)
	}

	// One turn needs at most three automatic steps: roll, failed answer,
	// continue.
	for i := 0; i < 3 && g.ActivePlayer() == multiplayer.Player1; i++ {
		g.AutoAdvance()
	}
	if g.ActivePlayer() != multiplayer.Player2 {
		t.Errorf("Expected auto-advance to pass the turn, still %v", g.ActivePlayer())
	}
}

func TestOnlineMatchPlaysToCompletion(t *testing.T) {
	g, err := NewOnline(11)
	if err != nil {
		t.Fatalf("NewOnline failed: %v", err)
	}

	for i := 0; i < 10000 && !g.IsGameOver(); i++ {
		g.AutoAdvance()
	}
	if !g.IsGameOver() {
		t.Fatal("Expected the match to finish under auto-advance")
	}

	snap := g.Snapshot().(Snapshot)
	if snap.Phase != SnapGameOver {
		t.Errorf("Expected game-over snapshot, got phase %d", snap.Phase)
	}

	switch g.Winner() {
	case multiplayer.Player1:
		if snap.Score1 <= snap.Score2 {
			t.Errorf("Player1 declared winner with %d vs %d", snap.Score1, snap.Score2)
		}
	case multiplayer.Player2:
		if snap.Score2 <= snap.Score1 {
			t.Errorf("Player2 declared winner with %d vs %d", snap.Score2, snap.Score1)
		}
	default:
		if snap.Score1 != snap.Score2 {
			t.Errorf("Tie declared with %d vs %d", snap.Score1, snap.Score2)
		}
	}
	if g.Score1() != snap.Score1 || g.Score2() != snap.Score2 {
		t.Errorf("Score accessors disagree with snapshot: %d/%d vs %d/%d",
			g.Score1(), g.Score2(), snap.Score1, snap.Score2)
	}
}

func TestSnapshotHidesAnswerUntilSettled(t *testing.T) {
	g, err := NewOnline(13)
	if err != nil {
		t.Fatalf("NewOnline failed: %v", err)
	}

	g.match.ForceState(core.PhaseMinigame)
	g.dealQuestion()
	g.ui = uiTrivia

	snap := g.Snapshot().(Snapshot)
	if snap.Phase != SnapTrivia {
		t.Fatalf("Expected trivia snapshot, got phase %d", snap.Phase)
	}
	if snap.Correct != -1 {
		t.Errorf("Expected the answer hidden while open, got %d", snap.Correct)
	}
	if snap.Info != "" {
		t.Errorf("Expected the info note hidden while open, got %q", snap.Info)
	}
	if snap.OptionCount < 2 || snap.OptionCount > 4 {
		t.Errorf("Expected 2-4 options, got %d", snap.OptionCount)
	}

	wrong := (g.question.Answer + 1) % len(g.question.Options)
	if err := g.applyAnswer(wrong); err != nil {
		t.Fatalf("Expected the answer to apply, got %v", err)
	}

	snap = g.Snapshot().(Snapshot)
	if snap.Correct != g.question.Answer {
		t.Errorf("Expected revealed answer %d, got %d", g.question.Answer, snap.Correct)
	}
	if snap.Chosen != wrong {
		t.Errorf("Expected chosen %d, got %d", wrong, snap.Chosen)
	}
	if snap.Outcome != 2 {
		t.Errorf("Expected a lost outcome, got %d", snap.Outcome)
	}
}

func TestTrackCodecRoundTrip(t *testing.T) {
	g := New()
	g.Reset(testConfig(21))

	tiles := g.match.Tiles()
	kinds := decodeTrack(encodeTrack(tiles))
	if len(kinds) != len(tiles) {
		t.Fatalf("Expected %d decoded tiles, got %d", len(tiles), len(kinds))
	}
	for i, tile := range tiles {
		if kinds[i] != tile.Kind {
			t.Errorf("Tile %d decoded as %v, want %v", i, kinds[i], tile.Kind)
		}
	}
}

func TestComputeLayoutFitsStandardScreen(t *testing.T) {
	for _, track := range []int{30, 50, 80} {
		l := computeLayout(80, 24, track)
		if l.tooSmall {
			t.Errorf("Track %d should fit an 80x24 screen", track)
		}
		perimeter := 2*(l.cols+l.rows) - 4
		if perimeter < track {
			t.Errorf("Track %d: ring perimeter %d too short", track, perimeter)
		}
		if l.cols*l.tileW > 80 {
			t.Errorf("Track %d: board width %d overflows", track, l.cols*l.tileW)
		}
		if boardTop+l.rows*l.tileH > 24 {
			t.Errorf("Track %d: board height overflows", track)
		}
	}
}

func TestRingCellCoversPerimeter(t *testing.T) {
	cols, rows := 6, 4
	perimeter := 2*(cols+rows) - 4

	seen := make(map[[2]int]bool)
	for i := 0; i < perimeter; i++ {
		cx, cy := ringCell(i, cols, rows)
		if cx < 0 || cx >= cols || cy < 0 || cy >= rows {
			t.Fatalf("Tile %d mapped off the grid: (%d,%d)", i, cx, cy)
		}
		onBorder := cx == 0 || cx == cols-1 || cy == 0 || cy == rows-1
		if !onBorder {
			t.Errorf("Tile %d mapped inside the ring: (%d,%d)", i, cx, cy)
		}
		key := [2]int{cx, cy}
		if seen[key] {
			t.Errorf("Tile %d reuses cell (%d,%d)", i, cx, cy)
		}
		seen[key] = true
	}
	if len(seen) != perimeter {
		t.Errorf("Expected %d distinct cells, got %d", perimeter, len(seen))
	}
}
