package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tabletop/internal/core"
	"github.com/vovakirdan/tui-tabletop/internal/games/tilerun"
	"github.com/vovakirdan/tui-tabletop/internal/registry"
	"github.com/vovakirdan/tui-tabletop/internal/storage"
)

// Model is the Bubble Tea model for running a game in the local terminal.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keymap     *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	startedAt  time.Time
	quitting   bool
	matchSaved bool // Whether the current game over has been archived
}

// NewModel creates a new Bubble Tea model for the given game.
// A zero seed is passed through; the game mints its own.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		keymap:     NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		startedAt:  time.Now(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	// Initialize the game
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)

	// Start the tick loop
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keymap.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleResize processes window resize events. The match keeps running;
// games relayout from the live screen dimensions on the next frame.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		// Zero the seed so the rematch gets a fresh one
		m.config.Seed = 0
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.matchSaved = false
		m.startedAt = time.Now()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	// Run game simulation
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// Archive the match on game over (once)
	if m.gameState.GameOver && !m.matchSaved {
		archiveMatch(m.store, m.game, m.startedAt)
		m.matchSaved = true
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// archiveMatch writes a finished match to storage. Games that don't
// expose a match archive are skipped.
func archiveMatch(store *storage.Store, game registry.Game, startedAt time.Time) {
	if store == nil {
		return
	}
	tg, ok := game.(*tilerun.Game)
	if !ok {
		return
	}
	match := tg.Match()
	if match == nil || !match.GameOver() {
		return
	}

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

	// Ties leave the winner column empty
	winner := ""
	if len(standings) == 1 || (len(standings) > 1 && standings[0].Score > standings[1].Score) {
		winner = standings[0].Name
	}

	rec := storage.MatchRecord{
		GameID:   game.ID(),
		Seed:     tg.Seed(),
		Preset:   string(tg.Preset()),
		Turns:    match.Rules().MaxTurns,
		Duration: int(time.Since(startedAt).Seconds()),
		Winner:   winner,
		Players:  players,
	}

	//nolint:errcheck // Best-effort save, the session continues regardless
	store.SaveMatch(rec)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	// Render current state
	m.game.Render(m.screen)

	// Create screenshots directory
	dir := filepath.Join(os.Getenv("HOME"), ".tabletop", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	// Save screenshot
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	// Render game to screen buffer
	m.game.Render(m.screen)

	// Convert screen to string
	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse (for future use)
	)

	_, err := p.Run()
	return err
}
