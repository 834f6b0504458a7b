package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tabletop/internal/config"
	"github.com/vovakirdan/tui-tabletop/internal/core"
)

// Roster size limits for the hotseat wizard.
const (
	minSeats      = 2
	maxSeats      = 6
	maxNameLen    = 10
	maxSeedDigits = 18
	defaultName   = "Player"
)

// TilerunSetup holds the user's choices from the pre-game wizard.
// Seed 0 means no seed was entered and the engine mints one.
type TilerunSetup struct {
	Preset config.GamePreset
	Pacing config.PacingPreset
	Names  []string
	Teams  []bool
	Seed   int64
}

// setupStep is one page of the wizard.
type setupStep int

const (
	setupStepPreset setupStep = iota
	setupStepSeats
	setupStepNames
	setupStepPacing
	setupStepSeed
)

// TilerunSetupModel walks the user through board, roster, pacing and seed
// choices.
type TilerunSetupModel struct {
	step         setupStep
	presetCursor int
	seatCursor   int // 0 means minSeats players
	pacingCursor int
	names        []string
	teams        []bool
	nameIdx      int
	seedInput    string
	width        int
	height       int
	keyMapper    *KeyMapper
	setup        TilerunSetup
	choosing     bool
	quitting     bool
	back         bool
}

// NewTilerunSetupModel creates a new wizard model.
func NewTilerunSetupModel(width, height int) TilerunSetupModel {
	return TilerunSetupModel{
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m TilerunSetupModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m TilerunSetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m TilerunSetupModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Name and seed entry consume raw keystrokes
	switch m.step {
	case setupStepNames:
		return m.handleNameKey(msg)
	case setupStepSeed:
		return m.handleSeedKey(msg)
	}

	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch m.step {
	case setupStepPreset:
		return m.handlePresetKey(action)
	case setupStepSeats:
		return m.handleSeatsKey(action)
	case setupStepPacing:
		return m.handlePacingKey(action)
	}

	return m, nil
}

func (m TilerunSetupModel) handlePresetKey(action MenuAction) (tea.Model, tea.Cmd) {
	presets := config.GamePresets()

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.presetCursor > 0 {
			m.presetCursor--
		}
	case MenuActionDown:
		if m.presetCursor < len(presets)-1 {
			m.presetCursor++
		}
	case MenuActionSelect:
		m.setup.Preset = presets[m.presetCursor]
		m.step = setupStepSeats
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

func (m TilerunSetupModel) handleSeatsKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.seatCursor > 0 {
			m.seatCursor--
		}
	case MenuActionDown:
		if m.seatCursor < maxSeats-minSeats {
			m.seatCursor++
		}
	case MenuActionSelect:
		seats := minSeats + m.seatCursor
		m.names = make([]string, seats)
		for i := range m.names {
			m.names[i] = fmt.Sprintf("%s %d", defaultName, i+1)
		}
		m.teams = make([]bool, seats)
		m.nameIdx = 0
		m.step = setupStepNames
	case MenuActionBack:
		m.step = setupStepPreset
	}

	return m, nil
}

func (m TilerunSetupModel) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.step = setupStepSeats
		return m, nil
	case "enter", "tab":
		if strings.TrimSpace(m.names[m.nameIdx]) == "" {
			m.names[m.nameIdx] = fmt.Sprintf("%s %d", defaultName, m.nameIdx+1)
		}
		if m.nameIdx < len(m.names)-1 {
			m.nameIdx++
		} else {
			m.step = setupStepPacing
		}
		return m, nil
	case "backspace":
		if m.names[m.nameIdx] != "" {
			m.names[m.nameIdx] = m.names[m.nameIdx][:len(m.names[m.nameIdx])-1]
		}
		return m, nil
	case "ctrl+t":
		// A seat may stand for a whole team; the flag is display-only
		m.teams[m.nameIdx] = !m.teams[m.nameIdx]
		return m, nil
	case "up":
		if m.nameIdx > 0 {
			m.nameIdx--
		}
		return m, nil
	case "down":
		if m.nameIdx < len(m.names)-1 {
			m.nameIdx++
		}
		return m, nil
	}

	// Plain printable input extends the current name
	if len(key) == 1 && len(m.names[m.nameIdx]) < maxNameLen {
		c := key[0]
		if c >= ' ' && c <= '~' {
			m.names[m.nameIdx] += key
		}
	}

	return m, nil
}

func (m TilerunSetupModel) handlePacingKey(action MenuAction) (tea.Model, tea.Cmd) {
	pacings := pacingChoices()

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.pacingCursor > 0 {
			m.pacingCursor--
		}
	case MenuActionDown:
		if m.pacingCursor < len(pacings)-1 {
			m.pacingCursor++
		}
	case MenuActionSelect:
		m.setup.Pacing = pacings[m.pacingCursor]
		m.step = setupStepSeed
	case MenuActionBack:
		m.step = setupStepNames
		m.nameIdx = len(m.names) - 1
	}

	return m, nil
}

func (m TilerunSetupModel) handleSeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.step = setupStepPacing
		return m, nil
	case "enter":
		return m.finishSetup()
	case "backspace":
		if m.seedInput != "" {
			m.seedInput = m.seedInput[:len(m.seedInput)-1]
		}
		return m, nil
	}

	// Digits only; the cap keeps the value inside int64 range
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' && len(m.seedInput) < maxSeedDigits {
		m.seedInput += key
	}

	return m, nil
}

// finishSetup normalizes the roster and closes the wizard.
func (m TilerunSetupModel) finishSetup() (tea.Model, tea.Cmd) {
	m.setup.Names = make([]string, len(m.names))
	for i, name := range m.names {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("%s %d", defaultName, i+1)
		}
		m.setup.Names[i] = name
	}
	m.setup.Teams = make([]bool, len(m.teams))
	copy(m.setup.Teams, m.teams)
	if m.seedInput != "" {
		if seed, err := strconv.ParseInt(m.seedInput, 10, 64); err == nil {
			m.setup.Seed = seed
		}
	}
	m.choosing = false
	return m, tea.Quit
}

// pacingChoices returns the pacing presets in menu order.
func pacingChoices() []config.PacingPreset {
	return []config.PacingPreset{
		config.PacingRelaxed,
		config.PacingNormal,
		config.PacingTight,
		config.PacingFixed,
	}
}

// View renders the current wizard page.
func (m TilerunSetupModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.step {
	case setupStepSeats:
		return m.viewSeats()
	case setupStepNames:
		return m.viewNames()
	case setupStepPacing:
		return m.viewPacing()
	case setupStepSeed:
		return m.viewSeed()
	default:
		return m.viewPreset()
	}
}

func (m TilerunSetupModel) viewPreset() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("T I L E  R U N", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a board:", m.width))
	b.WriteString("\n\n")

	labels := []string{
		"Classic  (50 tiles, 12 rounds)",
		"Quick    (30 tiles, 6 rounds)",
		"Marathon (80 tiles, 20 rounds)",
	}

	for i, label := range labels {
		cursor := "  "
		if i == m.presetCursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+label, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m TilerunSetupModel) viewSeats() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("HOW MANY PLAYERS?", m.width))
	b.WriteString("\n\n")

	for i := 0; i <= maxSeats-minSeats; i++ {
		cursor := "  "
		if i == m.seatCursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%d players", cursor, minSeats+i), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m TilerunSetupModel) viewNames() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("NAME THE PLAYERS", m.width))
	b.WriteString("\n\n")

	for i, name := range m.names {
		display := name
		marker := "  "
		if i == m.nameIdx {
			marker = "> "
			display += "_"
		}
		tag := ""
		if m.teams[i] {
			tag = "(team)"
		}
		b.WriteString(centerText(fmt.Sprintf("%sSeat %d: %-12s %-6s", marker, i+1, display, tag), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Type to edit  |  Ctrl+T: Team seat  |  Enter: Next  |  Esc: Back", m.width))

	return b.String()
}

func (m TilerunSetupModel) viewPacing() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("QUESTION PACING", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("How fast should the trivia clock tighten?", m.width))
	b.WriteString("\n\n")

	labels := []string{
		"Relaxed (gentle clock all game)",
		"Normal  (tightens over the match)",
		"Tight   (short clock, tightens fast)",
		"Fixed   (same clock every turn)",
	}

	for i, label := range labels {
		cursor := "  "
		if i == m.pacingCursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+label, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Next  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m TilerunSetupModel) viewSeed() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("MATCH SEED", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("The seed fixes the board layout and every dice roll.", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Seed: %-19s", m.seedInput+"_"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Leave blank for a random seed", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter: Start  |  Esc: Back  |  Ctrl+C: Quit", m.width))

	return b.String()
}

// Selected returns the wizard result, or nil if still choosing.
func (m TilerunSetupModel) Selected() *TilerunSetup {
	if m.choosing {
		return nil
	}
	return &m.setup
}

// IsChoosing returns true if still in selection mode.
func (m TilerunSetupModel) IsChoosing() bool {
	return m.choosing
}

// IsQuitting returns true if user wants to quit.
func (m TilerunSetupModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m TilerunSetupModel) WantsBack() bool {
	return m.back
}

// RunTilerunSetup runs the pre-game wizard and returns the choices.
func RunTilerunSetup(cfg core.RuntimeConfig) (*TilerunSetup, core.RuntimeConfig, error) {
	model := NewTilerunSetupModel(cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, cfg, err
	}

	m, ok := finalModel.(TilerunSetupModel)
	if !ok {
		return nil, cfg, nil
	}

	if m.IsQuitting() || m.WantsBack() {
		return nil, cfg, nil
	}

	return m.Selected(), cfg, nil
}
