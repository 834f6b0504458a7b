package tilerun

import (
	"fmt"
	"strings"

	platformcore "github.com/vovakirdan/tui-tabletop/internal/core"
	"github.com/vovakirdan/tui-tabletop/internal/games/tilerun/core"
)

// boardTop is the first screen row below the HUD.
const boardTop = 4

// pawnView is one seat as the renderer sees it.
type pawnView struct {
	Name  string
	Team  bool
	Score int
	Pos   int
}

// boardView carries everything the renderer needs. The hotseat game builds
// it from live engine state and the online client builds it from a
// snapshot, so both share one draw path.
type boardView struct {
	preset   string
	seed     int64
	turn     int
	maxTurns int
	track    []core.TileKind
	players  []pawnView
	active   int

	ui      uiPhase
	dice    int // Displayed face, 0 when no roll is showing
	animPos int // Tile the active pawn is hopping over, -1 outside hops

	lastKind core.TileKind
	hasTile  bool
	delta    int
	hasDelta bool

	prompt     string
	options    []string
	chosen     int
	correct    int // Revealed answer index, -1 while the question is open
	outcome    int
	info       string
	countLeft  int
	countTotal int

	winnerSeat int // -1 for none or a tie
	over       bool
	paused     bool

	mySeat int // Seat this client controls; -1 means every seat is local
}

// boardLayout places the tile ring on screen.
type boardLayout struct {
	cols     int
	rows     int
	tileW    int
	tileH    int
	x        int
	y        int
	tooSmall bool
}

// computeLayout picks ring dimensions whose perimeter covers the track and
// shrinks the tile cells until the ring fits the screen.
func computeLayout(screenW, screenH, track int) boardLayout {
	rows := (track + 4) / 6
	if rows < 3 {
		rows = 3
	}
	cols := (track+5)/2 - rows
	if cols < 3 {
		cols = 3
	}
	for 2*(cols+rows)-4 < track {
		cols++
	}

	l := boardLayout{cols: cols, rows: rows, tileW: 4, tileH: 2}
	for l.tileW > 2 && cols*l.tileW > screenW-2 {
		l.tileW--
	}
	if boardTop+rows*l.tileH+2 > screenH {
		l.tileH = 1
	}
	l.x = (screenW - cols*l.tileW) / 2
	l.y = boardTop
	l.tooSmall = cols*l.tileW > screenW || boardTop+rows*l.tileH+1 > screenH
	return l
}

// layoutBoard checks whether the ring fits the current screen.
func (g *Game) layoutBoard() {
	g.tooSmall = computeLayout(g.screenW, g.screenH, g.rules.TrackLength).tooSmall
}

// ringCell maps a tile index to grid coordinates, walking the ring
// clockwise from the top-left corner.
func ringCell(i, cols, rows int) (int, int) {
	switch {
	case i < cols:
		return i, 0
	case i < cols+rows-2:
		return cols - 1, i - cols + 1
	case i < 2*cols+rows-2:
		return cols - 1 - (i - (cols + rows - 2)), rows - 1
	default:
		return 0, rows - 2 - (i - (2*cols + rows - 2))
	}
}

func tileGlyph(k core.TileKind) rune {
	switch k {
	case core.TileFixedPositive:
		return '+'
	case core.TileFixedNegative:
		return '-'
	case core.TileRandomReward:
		return '?'
	case core.TileMinigame:
		return '★'
	}
	return '·'
}

func tileColor(k core.TileKind) platformcore.Color {
	switch k {
	case core.TileFixedPositive:
		return platformcore.ColorGreen
	case core.TileFixedNegative:
		return platformcore.ColorRed
	case core.TileRandomReward:
		return platformcore.ColorYellow
	case core.TileMinigame:
		return platformcore.ColorBrightMagenta
	}
	return platformcore.ColorGray
}

func tileLabel(k core.TileKind) string {
	switch k {
	case core.TileFixedPositive:
		return "bonus tile"
	case core.TileFixedNegative:
		return "penalty tile"
	case core.TileRandomReward:
		return "mystery tile"
	case core.TileMinigame:
		return "minigame tile"
	}
	return "tile"
}

// Render draws the current frame.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	if dst.Width() != g.screenW || dst.Height() != g.screenH {
		// Track the live terminal size so the pause gate in Step follows
		// resizes without restarting the match.
		g.screenW = dst.Width()
		g.screenH = dst.Height()
		g.layoutBoard()
	}

	if g.loadErr != "" {
		mid := dst.Height() / 2
		dst.DrawTextCenteredWithColor(mid-1, "Tile Run could not start", platformcore.ColorBrightRed)
		for i, line := range wrapText(g.loadErr, dst.Width()-4) {
			dst.DrawTextCentered(mid+1+i, line)
		}
		return
	}
	if g.match == nil {
		return
	}

	drawView(dst, g.buildView())
}

// buildView flattens the live engine and animation state for the renderer.
func (g *Game) buildView() boardView {
	m := g.match

	tiles := m.Tiles()
	kinds := make([]core.TileKind, len(tiles))
	for i, t := range tiles {
		kinds[i] = t.Kind
	}

	seats := m.Players()
	players := make([]pawnView, len(seats))
	for i, p := range seats {
		players[i] = pawnView{Name: p.Name, Team: p.Team, Score: p.Score, Pos: p.Position}
	}

	v := boardView{
		preset:     string(g.Preset()),
		seed:       g.seed,
		turn:       m.TurnNumber(),
		maxTurns:   g.rules.MaxTurns,
		track:      kinds,
		players:    players,
		active:     m.CurrentPlayerIndex(),
		ui:         g.ui,
		animPos:    -1,
		chosen:     g.chosen,
		correct:    -1,
		outcome:    g.outcome,
		countLeft:  g.answerTicksLeft,
		countTotal: g.answerTotal,
		winnerSeat: -1,
		over:       g.ui == uiGameOver,
		paused:     g.paused,
		mySeat:     -1,
	}

	switch g.ui {
	case uiDiceRoll:
		v.dice = g.anim.shown
	case uiPawnMove, uiResolve, uiTrivia, uiTriviaResult:
		if roll, ok := m.LastRoll(); ok {
			v.dice = roll
		}
	}
	if g.ui == uiPawnMove {
		v.animPos = g.anim.pos
	}
	if g.hasLastTile {
		v.lastKind = g.lastTile.Kind
		v.hasTile = true
	}
	if d, ok := m.PendingDelta(); ok {
		v.delta = d
		v.hasDelta = true
	}
	if g.question != nil {
		v.prompt = g.question.Prompt
		v.options = g.question.Options
		v.info = g.question.Info
		if g.outcome != 0 {
			v.correct = g.question.Answer
		}
	}
	if v.over {
		v.winnerSeat = soleLeader(players)
	}
	return v
}

// soleLeader returns the seat with the strictly highest score, or -1 when
// the top score is shared.
func soleLeader(players []pawnView) int {
	best := 0
	tied := false
	for i := 1; i < len(players); i++ {
		if players[i].Score > players[best].Score {
			best = i
			tied = false
		} else if players[i].Score == players[best].Score {
			tied = true
		}
	}
	if tied || len(players) == 0 {
		return -1
	}
	return best
}

// drawView renders a complete frame from the view.
func drawView(dst *platformcore.Screen, v boardView) {
	renderHUD(dst, v)

	layout := computeLayout(dst.Width(), dst.Height(), len(v.track))
	if layout.tooSmall {
		renderPanel(dst, []panelLine{
			{"Window too small", platformcore.ColorBrightYellow},
			{"Resize to continue", platformcore.ColorGray},
		})
		return
	}

	renderTrack(dst, v, layout)
	renderCenter(dst, v, layout)

	text, color := statusText(v)
	if text != "" {
		dst.DrawTextCenteredWithColor(dst.Height()-1, text, color)
	}

	switch {
	case v.ui == uiTrivia || v.ui == uiTriviaResult:
		renderTrivia(dst, v)
	case v.over:
		renderGameOver(dst, v)
	}

	if v.paused {
		renderPanel(dst, []panelLine{
			{"Paused", platformcore.ColorBrightYellow},
			{"Press P to continue", platformcore.ColorGray},
		})
	}
}

// renderHUD draws the top status bar.
func renderHUD(dst *platformcore.Screen, v boardView) {
	hud := " Tile Run | " + v.preset +
		" | Turn: " + fmt.Sprintf("%d/%d", v.turn, v.maxTurns) +
		" | Seed: " + fmt.Sprintf("%d", v.seed)
	dst.DrawTextWithColor(0, 0, hud, platformcore.ColorCyan)

	for x := 0; x < dst.Width(); x++ {
		dst.SetWithColor(x, 1, '─', platformcore.ColorGray)
	}
	dst.DrawTextWithColor(0, 2, controlsLine(v), platformcore.ColorGray)
	for x := 0; x < dst.Width(); x++ {
		dst.SetWithColor(x, 3, '─', platformcore.ColorGray)
	}
}

func controlsLine(v boardView) string {
	if v.mySeat >= 0 && v.active != v.mySeat && !v.over {
		return " Opponent's turn | Esc: Leave match"
	}
	switch {
	case v.over:
		if v.mySeat >= 0 {
			return " Space: Rematch | Esc: Leave match"
		}
		return " R: Restart"
	case v.ui == uiTrivia:
		return " 1-4: Answer | P: Pause"
	case v.ui == uiResolve || v.ui == uiTriviaResult:
		return " Space: Continue | P: Pause"
	case v.ui == uiWaitRoll:
		return " Space: Roll | P: Pause"
	default:
		return " P: Pause"
	}
}

// renderTrack draws the tile ring and the pawns standing on it.
func renderTrack(dst *platformcore.Screen, v boardView, l boardLayout) {
	// Group pawns by tile, active seat first so it stays visible when a
	// tile is crowded.
	occupants := make(map[int][]int)
	for seat, p := range v.players {
		pos := p.Pos
		if seat == v.active && v.animPos >= 0 {
			pos = v.animPos
		}
		if seat == v.active {
			occupants[pos] = append([]int{seat}, occupants[pos]...)
		} else {
			occupants[pos] = append(occupants[pos], seat)
		}
	}

	slots := l.tileW - 1
	if slots < 1 {
		slots = 1
	}

	perimeter := 2*(l.cols+l.rows) - 4
	for i := 0; i < perimeter; i++ {
		cx, cy := ringCell(i, l.cols, l.rows)
		x := l.x + cx*l.tileW
		y := l.y + cy*l.tileH

		if i >= len(v.track) {
			dst.SetWithColor(x, y, '·', platformcore.ColorGray)
			continue
		}
		kind := v.track[i]
		dst.SetWithColor(x, y, tileGlyph(kind), tileColor(kind))

		seats := occupants[i]
		for j := 0; j < len(seats) && j < slots; j++ {
			r := rune('1' + seats[j])
			c := platformcore.PawnColor(seats[j])
			if j == slots-1 && len(seats) > slots {
				r = '+'
				c = platformcore.ColorBrightWhite
			}
			dst.SetWithColor(x+1+j, y, r, c)
		}
	}
}

// renderCenter draws the turn info and the scoreboard inside the ring.
func renderCenter(dst *platformcore.Screen, v boardView, l boardLayout) {
	cx := l.x + l.cols*l.tileW/2
	top := l.y + l.tileH + 1
	if l.tileH == 1 {
		top = l.y + 1
	}
	bottom := l.y + (l.rows-1)*l.tileH - 1

	name := activeName(v)
	header := "▶ " + name
	if v.mySeat >= 0 && v.active == v.mySeat {
		header += " (you)"
	}
	drawCentered(dst, cx, top, header, platformcore.PawnColor(v.active))

	dice := "Dice: [ ]"
	diceColor := platformcore.ColorGray
	if v.dice > 0 {
		dice = fmt.Sprintf("Dice: [%d]", v.dice)
		diceColor = platformcore.ColorWhite
		if v.ui == uiDiceRoll {
			diceColor = platformcore.ColorBrightYellow
		}
	}
	drawCentered(dst, cx, top+1, dice, diceColor)

	// Scoreboard, split into columns when the ring interior runs out of
	// rows for large rosters.
	y := top + 3
	roomRows := bottom - y + 1
	if roomRows < 1 {
		return
	}
	columns := (len(v.players) + roomRows - 1) / roomRows
	colWidth := 17
	startX := cx - columns*colWidth/2
	lead := soleLeader(v.players)
	for i, p := range v.players {
		row := y + i%roomRows
		x := startX + (i/roomRows)*colWidth
		marker := ' '
		if i == v.active {
			marker = '▶'
		}
		star := ' '
		if i == lead {
			star = '★'
		}
		line := fmt.Sprintf("%c%c %-8s %3d", marker, star, fitText(p.Name, 8), p.Score)
		dst.DrawTextWithColor(x, row, line, platformcore.PawnColor(i))
	}
}

func activeName(v boardView) string {
	if v.active >= 0 && v.active < len(v.players) {
		return v.players[v.active].Name
	}
	return "?"
}

func drawCentered(dst *platformcore.Screen, cx, y int, text string, c platformcore.Color) {
	x := cx - len([]rune(text))/2
	dst.DrawTextWithColor(x, y, text, c)
}

// statusText picks the bottom status line for the current phase.
func statusText(v boardView) (string, platformcore.Color) {
	name := activeName(v)
	waiting := v.mySeat >= 0 && v.active != v.mySeat

	switch v.ui {
	case uiWaitRoll:
		if waiting {
			return "Waiting for " + name + " to roll...", platformcore.ColorGray
		}
		return name + ": press Space to roll", platformcore.ColorWhite
	case uiDiceRoll:
		return "Rolling...", platformcore.ColorBrightYellow
	case uiPawnMove:
		return name + " moves...", platformcore.ColorWhite
	case uiResolve:
		if v.hasDelta {
			c := platformcore.ColorBrightGreen
			if v.delta < 0 {
				c = platformcore.ColorBrightRed
			}
			return fmt.Sprintf("%+d points for %s (%s)", v.delta, name, tileLabel(v.lastKind)), c
		}
		return "", platformcore.ColorWhite
	case uiTrivia:
		if waiting {
			return name + " is answering a question...", platformcore.ColorGray
		}
		return name + ": answer with 1-4", platformcore.ColorBrightMagenta
	case uiTriviaResult:
		if v.outcome == 1 {
			return fmt.Sprintf("Correct! %+d points for %s", v.delta, name), platformcore.ColorBrightGreen
		}
		if v.chosen < 0 {
			return "Time's up! No points for " + name, platformcore.ColorBrightRed
		}
		return "Wrong answer! No points for " + name, platformcore.ColorBrightRed
	case uiGameOver:
		return "Game over", platformcore.ColorBrightWhite
	}
	return "", platformcore.ColorWhite
}

// renderTrivia draws the question box over the board.
func renderTrivia(dst *platformcore.Screen, v boardView) {
	boxW := dst.Width() - 8
	if boxW > 50 {
		boxW = 50
	}
	innerW := boxW - 4

	var lines []panelLine
	lines = append(lines, panelLine{"TRIVIA", platformcore.ColorBrightMagenta})
	lines = append(lines, panelLine{"", platformcore.ColorDefault})
	for _, s := range wrapText(v.prompt, innerW) {
		lines = append(lines, panelLine{s, platformcore.ColorBrightWhite})
	}
	lines = append(lines, panelLine{"", platformcore.ColorDefault})

	for i, opt := range v.options {
		c := platformcore.ColorWhite
		if v.outcome != 0 {
			switch i {
			case v.correct:
				c = platformcore.ColorBrightGreen
			case v.chosen:
				c = platformcore.ColorBrightRed
			default:
				c = platformcore.ColorGray
			}
		} else if i == v.chosen {
			c = platformcore.ColorBrightCyan
		}
		lines = append(lines, panelLine{fmt.Sprintf("%d) %s", i+1, fitText(opt, innerW-3)), c})
	}

	if v.outcome == 0 && v.countTotal > 0 {
		lines = append(lines, panelLine{"", platformcore.ColorDefault})
		lines = append(lines, panelLine{countdownBar(v.countLeft, v.countTotal, innerW), countdownColor(v.countLeft, v.countTotal)})
	}

	if v.outcome != 0 && v.info != "" {
		lines = append(lines, panelLine{"", platformcore.ColorDefault})
		for _, s := range wrapText(v.info, innerW) {
			lines = append(lines, panelLine{s, platformcore.ColorCyan})
		}
	}

	renderPanelWide(dst, lines, boxW)
}

func countdownBar(left, total, width int) string {
	if width < 8 {
		width = 8
	}
	barW := width - 5
	filled := left * barW / total
	if filled < 0 {
		filled = 0
	}
	return "Time " + strings.Repeat("█", filled) + strings.Repeat("░", barW-filled)
}

func countdownColor(left, total int) platformcore.Color {
	switch {
	case left*2 > total:
		return platformcore.ColorBrightGreen
	case left*4 > total:
		return platformcore.ColorBrightYellow
	default:
		return platformcore.ColorBrightRed
	}
}

// renderGameOver draws the final standings box.
func renderGameOver(dst *platformcore.Screen, v boardView) {
	var lines []panelLine
	lines = append(lines, panelLine{"GAME OVER", platformcore.ColorBrightYellow})
	lines = append(lines, panelLine{"", platformcore.ColorDefault})

	if v.winnerSeat >= 0 {
		lines = append(lines, panelLine{v.players[v.winnerSeat].Name + " wins!", platformcore.PawnColor(v.winnerSeat)})
	} else {
		lines = append(lines, panelLine{"It's a tie!", platformcore.ColorBrightWhite})
	}
	lines = append(lines, panelLine{"", platformcore.ColorDefault})

	for rank, seat := range standingsOrder(v.players) {
		p := v.players[seat]
		line := fmt.Sprintf("%d. %-10s %4d", rank+1, fitText(p.Name, 10), p.Score)
		if p.Team {
			line += " (team)"
		}
		lines = append(lines, panelLine{line, platformcore.PawnColor(seat)})
	}

	lines = append(lines, panelLine{"", platformcore.ColorDefault})
	if v.mySeat >= 0 {
		lines = append(lines, panelLine{"Space: Rematch | Esc: Leave", platformcore.ColorGray})
	} else {
		lines = append(lines, panelLine{"Press R to play again", platformcore.ColorGray})
	}

	renderPanel(dst, lines)
}

// standingsOrder returns seat indexes sorted by score descending; ties
// keep seat order.
func standingsOrder(players []pawnView) []int {
	order := make([]int, len(players))
	for i := range order {
		order[i] = i
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && players[order[j]].Score > players[order[j-1]].Score; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}

// panelLine is one row of a centered overlay box.
type panelLine struct {
	text  string
	color platformcore.Color
}

func renderPanel(dst *platformcore.Screen, lines []panelLine) {
	boxW := 0
	for _, l := range lines {
		if n := len([]rune(l.text)); n > boxW {
			boxW = n
		}
	}
	renderPanelWide(dst, lines, boxW+4)
}

// renderPanelWide draws a bordered box of the given width, centered on the
// screen, with one text line per panelLine.
func renderPanelWide(dst *platformcore.Screen, lines []panelLine, boxW int) {
	boxH := len(lines) + 2
	if boxW > dst.Width() {
		boxW = dst.Width()
	}
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2
	if boxY < 0 {
		boxY = 0
	}

	box := platformcore.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ')
	dst.DrawBoxWithColor(box, platformcore.ColorWhite)

	cx := boxX + boxW/2
	for i, l := range lines {
		if l.text == "" {
			continue
		}
		drawCentered(dst, cx, boxY+1+i, l.text, l.color)
	}
}

// fitText truncates a string to at most n characters, marking the cut.
func fitText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// wrapText splits text into lines no wider than the given width.
func wrapText(s string, width int) []string {
	if width < 1 {
		return []string{s}
	}
	words := strings.Fields(s)
	var lines []string
	var cur string
	for _, w := range words {
		switch {
		case cur == "":
			cur = w
		case len(cur)+1+len(w) <= width:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
