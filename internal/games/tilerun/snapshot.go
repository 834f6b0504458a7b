package tilerun

import (
	"fmt"

	platformcore "github.com/vovakirdan/tui-tabletop/internal/core"
	"github.com/vovakirdan/tui-tabletop/internal/games/tilerun/core"
	"github.com/vovakirdan/tui-tabletop/internal/multiplayer"
)

// Snapshot phases on the wire.
const (
	SnapWaitRoll = iota
	SnapResolved
	SnapTrivia
	SnapTriviaResult
	SnapGameOver
)

// Snapshot is the authoritative match state sent to online clients each
// broadcast. Primitive fields only, so it stays trivially serializable.
// The correct answer and the info note are zeroed until the question is
// settled; a client cannot reveal what it was never sent.
type Snapshot struct {
	Phase      int
	Turn       int
	MaxTurns   int
	ActiveSeat int
	Track      string // One letter per tile, see encodeTrack

	Name1  string
	Name2  string
	Pos1   int
	Pos2   int
	Score1 int
	Score2 int

	Dice     int // Last roll, 0 before the first roll of a turn
	TileKind int // Landed tile kind, -1 when nothing resolved yet
	Delta    int
	HasDelta bool

	Prompt      string
	Option1     string
	Option2     string
	Option3     string
	Option4     string
	OptionCount int
	Chosen      int
	Correct     int
	Info        string
	Outcome     int

	Winner int // Seat index, -1 for none or a tie
	Seed   int64
	Preset string
}

// IsGameSnapshot marks this as a game snapshot.
func (Snapshot) IsGameSnapshot() {}

var _ multiplayer.GameSnapshot = Snapshot{}
var _ multiplayer.TurnBasedGame = (*Game)(nil)

// encodeTrack flattens tile kinds into one letter per tile.
func encodeTrack(tiles []core.Tile) string {
	buf := make([]byte, len(tiles))
	for i, t := range tiles {
		switch t.Kind {
		case core.TileFixedPositive:
			buf[i] = 'P'
		case core.TileFixedNegative:
			buf[i] = 'N'
		case core.TileRandomReward:
			buf[i] = 'R'
		case core.TileMinigame:
			buf[i] = 'M'
		default:
			buf[i] = '.'
		}
	}
	return string(buf)
}

// decodeTrack reverses encodeTrack.
func decodeTrack(s string) []core.TileKind {
	kinds := make([]core.TileKind, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'P':
			kinds[i] = core.TileFixedPositive
		case 'N':
			kinds[i] = core.TileFixedNegative
		case 'R':
			kinds[i] = core.TileRandomReward
		case 'M':
			kinds[i] = core.TileMinigame
		}
	}
	return kinds
}

// snapPhase maps the presentation phase onto the wire phase.
func snapPhase(ui uiPhase) int {
	switch ui {
	case uiResolve:
		return SnapResolved
	case uiTrivia:
		return SnapTrivia
	case uiTriviaResult:
		return SnapTriviaResult
	case uiGameOver:
		return SnapGameOver
	}
	return SnapWaitRoll
}

// seatOf maps a relay player onto a seat index.
func seatOf(p multiplayer.PlayerID) int {
	if p == multiplayer.Player2 {
		return 1
	}
	return 0
}

// Apply handles one command from an online player. Commands from the
// wrong seat or the wrong phase are rejected; the relay drops them.
func (g *Game) Apply(player multiplayer.PlayerID, cmd multiplayer.TurnCommand) error {
	if g.match == nil || g.match.GameOver() {
		return fmt.Errorf("tilerun: match is over")
	}
	if seatOf(player) != g.match.CurrentPlayerIndex() {
		return fmt.Errorf("tilerun: not %s's turn", player)
	}

	switch cmd.Kind {
	case multiplayer.CommandRoll:
		return g.applyRoll()
	case multiplayer.CommandAnswer:
		return g.applyAnswer(cmd.Answer)
	case multiplayer.CommandContinue:
		if g.match.Phase() != core.PhaseEndTurn {
			return fmt.Errorf("tilerun: nothing to continue from")
		}
		g.finishTurn()
		return nil
	}
	return fmt.Errorf("tilerun: unknown command %v", cmd.Kind)
}

// applyRoll runs the whole movement burst: roll, move, resolve. Online
// clients see the outcome in the next snapshot; there is no server-side
// animation to pace it.
func (g *Game) applyRoll() error {
	if _, err := g.match.RollDice(); err != nil {
		return err
	}
	if err := g.match.MovePawn(nil); err != nil {
		return err
	}
	tile, err := g.match.ResolveTile()
	if err != nil {
		return err
	}
	g.lastTile = tile
	g.hasLastTile = true

	if g.match.Phase() == core.PhaseMinigame {
		g.dealQuestion()
		g.ui = uiTrivia
	} else {
		g.ui = uiResolve
	}
	return nil
}

// applyAnswer scores a trivia answer.
func (g *Game) applyAnswer(idx int) error {
	if g.match.Phase() != core.PhaseMinigame || g.question == nil {
		return fmt.Errorf("tilerun: no question is open")
	}
	if idx < 0 || idx >= len(g.question.Options) {
		return fmt.Errorf("tilerun: answer %d out of range", idx)
	}
	g.chosen = idx
	g.settleTrivia(idx == g.question.Answer)
	return nil
}

// AutoAdvance plays the obvious move for the active seat when its turn
// deadline expires: the roll happens, an open question fails, a shown
// result is acknowledged.
func (g *Game) AutoAdvance() {
	if g.match == nil || g.match.GameOver() {
		return
	}
	switch g.match.Phase() {
	case core.PhaseTurnStart, core.PhaseRollDice:
		g.applyRoll()
	case core.PhaseMinigame:
		g.chosen = -1
		g.settleTrivia(false)
	case core.PhaseEndTurn:
		g.finishTurn()
	}
}

// ActivePlayer reports whose command the relay should accept.
func (g *Game) ActivePlayer() multiplayer.PlayerID {
	if g.match == nil {
		return multiplayer.Player1
	}
	if g.match.CurrentPlayerIndex() == 1 {
		return multiplayer.Player2
	}
	return multiplayer.Player1
}

// IsGameOver reports whether the match has ended.
func (g *Game) IsGameOver() bool {
	return g.match == nil || g.match.GameOver()
}

// Winner returns the winning player, or 0 on a tie.
func (g *Game) Winner() multiplayer.PlayerID {
	if g.match == nil {
		return 0
	}
	players := g.match.Players()
	views := make([]pawnView, len(players))
	for i, p := range players {
		views[i] = pawnView{Score: p.Score}
	}
	switch soleLeader(views) {
	case 0:
		return multiplayer.Player1
	case 1:
		return multiplayer.Player2
	}
	return 0
}

// Score1 returns seat 0's score.
func (g *Game) Score1() int {
	if g.match == nil {
		return 0
	}
	return g.match.Players()[0].Score
}

// Score2 returns seat 1's score.
func (g *Game) Score2() int {
	if g.match == nil || g.match.PlayerCount() < 2 {
		return 0
	}
	return g.match.Players()[1].Score
}

// Snapshot flattens the match for broadcast.
func (g *Game) Snapshot() multiplayer.GameSnapshot {
	if g.match == nil {
		return Snapshot{TileKind: -1, Chosen: -1, Correct: -1, Winner: -1}
	}
	m := g.match

	s := Snapshot{
		Phase:      snapPhase(g.ui),
		Turn:       m.TurnNumber(),
		MaxTurns:   g.rules.MaxTurns,
		ActiveSeat: m.CurrentPlayerIndex(),
		Track:      encodeTrack(m.Tiles()),
		TileKind:   -1,
		Chosen:     g.chosen,
		Correct:    -1,
		Outcome:    g.outcome,
		Winner:     -1,
		Seed:       g.seed,
		Preset:     string(g.Preset()),
	}

	players := m.Players()
	s.Name1 = players[0].Name
	s.Pos1 = players[0].Position
	s.Score1 = players[0].Score
	if len(players) > 1 {
		s.Name2 = players[1].Name
		s.Pos2 = players[1].Position
		s.Score2 = players[1].Score
	}

	if roll, ok := m.LastRoll(); ok {
		s.Dice = roll
	}
	if g.hasLastTile {
		s.TileKind = int(g.lastTile.Kind)
	}
	if d, ok := m.PendingDelta(); ok {
		s.Delta = d
		s.HasDelta = true
	}

	if g.question != nil {
		s.Prompt = g.question.Prompt
		opts := g.question.Options
		s.OptionCount = len(opts)
		fill := func(i int) string {
			if i < len(opts) {
				return opts[i]
			}
			return ""
		}
		s.Option1, s.Option2, s.Option3, s.Option4 = fill(0), fill(1), fill(2), fill(3)
		if g.outcome != 0 {
			s.Correct = g.question.Answer
			s.Info = g.question.Info
		}
	}

	if m.GameOver() {
		s.Phase = SnapGameOver
		views := make([]pawnView, len(players))
		for i, p := range players {
			views[i] = pawnView{Score: p.Score}
		}
		s.Winner = soleLeader(views)
	}
	return s
}

// RenderSnapshot draws a frame from a received snapshot. mySeat is the
// seat this client controls.
func RenderSnapshot(dst *platformcore.Screen, s Snapshot, mySeat int) {
	dst.Clear()

	players := []pawnView{
		{Name: s.Name1, Score: s.Score1, Pos: s.Pos1},
		{Name: s.Name2, Score: s.Score2, Pos: s.Pos2},
	}

	var ui uiPhase
	switch s.Phase {
	case SnapResolved:
		ui = uiResolve
	case SnapTrivia:
		ui = uiTrivia
	case SnapTriviaResult:
		ui = uiTriviaResult
	case SnapGameOver:
		ui = uiGameOver
	default:
		ui = uiWaitRoll
	}

	options := make([]string, 0, s.OptionCount)
	for i, opt := range []string{s.Option1, s.Option2, s.Option3, s.Option4} {
		if i < s.OptionCount {
			options = append(options, opt)
		}
	}

	v := boardView{
		preset:     s.Preset,
		seed:       s.Seed,
		turn:       s.Turn,
		maxTurns:   s.MaxTurns,
		track:      decodeTrack(s.Track),
		players:    players,
		active:     s.ActiveSeat,
		ui:         ui,
		dice:       s.Dice,
		animPos:    -1,
		lastKind:   core.TileKind(s.TileKind),
		hasTile:    s.TileKind >= 0,
		delta:      s.Delta,
		hasDelta:   s.HasDelta,
		prompt:     s.Prompt,
		options:    options,
		chosen:     s.Chosen,
		correct:    s.Correct,
		info:       s.Info,
		outcome:    s.Outcome,
		winnerSeat: s.Winner,
		over:       ui == uiGameOver,
		mySeat:     mySeat,
	}
	drawView(dst, v)
}
