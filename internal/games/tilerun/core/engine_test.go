package core_test

import (
	"testing"

	"github.com/vovakirdan/tui-tabletop/internal/games/tilerun/core"
)

func newMatch(t *testing.T, seed int64, players int, rules core.Rules) *core.Match {
	t.Helper()

	roster := make([]core.Player, players)
	m, err := core.NewMatch(seed, roster, rules)
	if err != nil {
		t.Fatalf("NewMatch failed: %v", err)
	}
	return m
}

// turnRecord captures everything observable about one completed turn.
type turnRecord struct {
	player   int
	roll     int
	landed   core.TileKind
	position int
	delta    int
	hadDelta bool
	score    int
}

// playTurn drives one full turn through the public operations. Minigame
// outcomes are decided by the success flag.
func playTurn(t *testing.T, m *core.Match, success bool) turnRecord {
	t.Helper()

	rec := turnRecord{player: m.CurrentPlayerIndex()}

	if err := m.StartTurn(); err != nil {
		t.Fatalf("StartTurn failed: %v", err)
	}
	roll, err := m.RollDice()
	if err != nil {
		t.Fatalf("RollDice failed: %v", err)
	}
	rec.roll = roll

	if err := m.MovePawn(nil); err != nil {
		t.Fatalf("MovePawn failed: %v", err)
	}
	rec.position = m.CurrentPlayer().Position

	tile, err := m.ResolveTile()
	if err != nil {
		t.Fatalf("ResolveTile failed: %v", err)
	}
	rec.landed = tile.Kind

	if m.Phase() == core.PhaseMinigame {
		if err := m.CompleteMinigame(success); err != nil {
			t.Fatalf("CompleteMinigame failed: %v", err)
		}
	}
	rec.delta, rec.hadDelta = m.PendingDelta()
	rec.score = m.Players()[rec.player].Score

	if err := m.EndTurn(); err != nil {
		t.Fatalf("EndTurn failed: %v", err)
	}
	return rec
}

func playOut(t *testing.T, m *core.Match) []turnRecord {
	t.Helper()

	var records []turnRecord
	for !m.GameOver() {
		// Alternate minigame outcomes so both branches see play.
		records = append(records, playTurn(t, m, len(records)%2 == 0))
		if len(records) > 1000 {
			t.Fatal("match did not terminate")
		}
	}
	return records
}

func TestSameSeedSameMatch(t *testing.T) {
	m1 := newMatch(t, 42, 2, core.DefaultRules())
	m2 := newMatch(t, 42, 2, core.DefaultRules())

	tiles1 := m1.Tiles()
	tiles2 := m2.Tiles()
	for i := range tiles1 {
		if tiles1[i].Kind != tiles2[i].Kind {
			t.Fatalf("tile %d differs between same-seed matches: %s vs %s", i, tiles1[i].Kind, tiles2[i].Kind)
		}
	}

	records1 := playOut(t, m1)
	records2 := playOut(t, m2)

	if len(records1) != len(records2) {
		t.Fatalf("same seed played different turn counts: %d vs %d", len(records1), len(records2))
	}
	for i := range records1 {
		if records1[i] != records2[i] {
			t.Fatalf("turn %d diverged: %+v vs %+v", i, records1[i], records2[i])
		}
	}

	final1 := m1.Players()
	final2 := m2.Players()
	for i := range final1 {
		if final1[i].Score != final2[i].Score || final1[i].Position != final2[i].Position {
			t.Errorf("player %d final state diverged: %+v vs %+v", i, final1[i], final2[i])
		}
	}
}

func TestFirstRollRepeatable(t *testing.T) {
	m1 := newMatch(t, 42, 2, core.DefaultRules())
	m2 := newMatch(t, 42, 2, core.DefaultRules())

	r1, err := m1.RollDice()
	if err != nil {
		t.Fatalf("RollDice failed: %v", err)
	}
	r2, err := m2.RollDice()
	if err != nil {
		t.Fatalf("RollDice failed: %v", err)
	}
	if r1 != r2 {
		t.Errorf("first roll differs between same-seed matches: %d vs %d", r1, r2)
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	m1 := newMatch(t, 42, 2, core.DefaultRules())
	m2 := newMatch(t, 1337, 2, core.DefaultRules())

	tiles1 := m1.Tiles()
	tiles2 := m2.Tiles()
	same := true
	for i := range tiles1 {
		if tiles1[i].Kind != tiles2[i].Kind {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different seeds to lay out different tracks")
	}
}

func TestPositionsStayOnTrack(t *testing.T) {
	rules := core.DefaultRules()
	m := newMatch(t, 7, 3, rules)

	records := playOut(t, m)
	for i, rec := range records {
		if rec.position < 0 || rec.position >= rules.TrackLength {
			t.Errorf("turn %d: position %d outside [0,%d)", i, rec.position, rules.TrackLength)
		}
	}
}

func TestEveryTurnLeavesADecision(t *testing.T) {
	m := newMatch(t, 99, 2, core.DefaultRules())

	for i, rec := range playOut(t, m) {
		// Every completed turn ends with a recorded delta, minigame
		// failures included. Zero delta with hadDelta says "played and
		// got nothing", which is not the same as "never resolved".
		if !rec.hadDelta {
			t.Errorf("turn %d on %s left no recorded outcome", i, rec.landed)
		}
	}
}

func TestMinigameFlowThroughPublicAPI(t *testing.T) {
	// A track of nothing but minigame tiles forces the parked path on
	// every single turn.
	rules := core.DefaultRules()
	rules.TrackLength = 10
	rules.PositiveTiles = 0
	rules.NegativeTiles = 0
	rules.RandomTiles = 0
	rules.MinigameTiles = 10
	rules.MaxTurns = 3

	m := newMatch(t, 42, 1, rules)

	if err := m.StartTurn(); err != nil {
		t.Fatalf("StartTurn failed: %v", err)
	}
	if _, err := m.RollDice(); err != nil {
		t.Fatalf("RollDice failed: %v", err)
	}
	if err := m.MovePawn(nil); err != nil {
		t.Fatalf("MovePawn failed: %v", err)
	}
	tile, err := m.ResolveTile()
	if err != nil {
		t.Fatalf("ResolveTile failed: %v", err)
	}
	if tile.Kind != core.TileMinigame {
		t.Fatalf("expected a minigame tile, got %s", tile.Kind)
	}
	if m.Phase() != core.PhaseMinigame {
		t.Fatalf("expected phase %s, got %s", core.PhaseMinigame, m.Phase())
	}
	if _, ok := m.PendingDelta(); ok {
		t.Error("no delta should exist while the machine awaits the outcome")
	}

	if err := m.CompleteMinigame(true); err != nil {
		t.Fatalf("CompleteMinigame failed: %v", err)
	}
	if got := m.Players()[0].Score; got != rules.MinigamePoints {
		t.Errorf("expected score %d after won minigame, got %d", rules.MinigamePoints, got)
	}
	if m.Phase() != core.PhaseEndTurn {
		t.Errorf("expected phase %s, got %s", core.PhaseEndTurn, m.Phase())
	}
}

func TestCustomRulesMatchLength(t *testing.T) {
	rules := core.DefaultRules()
	rules.TrackLength = 12
	rules.PositiveTiles = 5
	rules.NegativeTiles = 3
	rules.RandomTiles = 2
	rules.MinigameTiles = 2
	rules.MaxTurns = 2

	m := newMatch(t, 5, 3, rules)
	records := playOut(t, m)

	// 3 players over 2 rounds is exactly 6 turns.
	if len(records) != 6 {
		t.Errorf("expected 6 turns, got %d", len(records))
	}
	if !m.GameOver() {
		t.Error("expected match to be over")
	}
	if err := m.StartTurn(); err == nil {
		t.Error("expected StartTurn to fail after game end")
	}
	if m.Phase() != core.PhaseGameEnd {
		t.Errorf("terminal phase must hold, got %s", m.Phase())
	}
}

func TestStandingsAfterPlayedMatch(t *testing.T) {
	m := newMatch(t, 21, 4, core.DefaultRules())
	playOut(t, m)

	standings := m.Standings()
	if len(standings) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(standings))
	}
	for i := 1; i < len(standings); i++ {
		if standings[i-1].Score < standings[i].Score {
			t.Errorf("standings out of order at %d: %d before %d", i, standings[i-1].Score, standings[i].Score)
		}
	}
	if m.Leader().Score != standings[0].Score {
		t.Errorf("leader score %d does not match top entry %d", m.Leader().Score, standings[0].Score)
	}
}
