// Package tui provides terminal UI components including SSH server support via Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-tabletop/internal/core"
	"github.com/vovakirdan/tui-tabletop/internal/games/tilerun"
	"github.com/vovakirdan/tui-tabletop/internal/multiplayer"
	"github.com/vovakirdan/tui-tabletop/internal/registry"
	"github.com/vovakirdan/tui-tabletop/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.tabletop/host_key.
	HostKeyPath string

	// DBPath is the path to the match archive database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.tabletop/matches.db",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server for the tabletop. All connected
// sessions share one coordinator, which is what lets two of them meet in
// a lobby and play the same match.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	logger      *log.Logger
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
	coordCfg    multiplayer.CoordinatorConfig
}

// onlineGameFactory builds authoritative game instances for online matches.
func onlineGameFactory(gameID string, seed int64) (multiplayer.TurnBasedGame, error) {
	switch gameID {
	case "tilerun":
		return tilerun.NewOnline(seed)
	default:
		return nil, fmt.Errorf("game %q does not support online play", gameID)
	}
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tabletop-ssh",
	})

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open match database", "error", err)
		// Continue without storage
	}

	sessions := multiplayer.NewSessionRegistry()
	coordCfg := multiplayer.DefaultCoordinatorConfig()
	coordinator := multiplayer.NewCoordinator(coordCfg, onlineGameFactory, sessions)
	if store != nil {
		coordinator.SetResultSaver(store)
	}

	srv := &SSHServer{
		config:      cfg,
		store:       store,
		logger:      logger,
		sessions:    sessions,
		coordinator: coordinator,
		coordCfg:    coordCfg,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".tabletop", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// sessionKey is the ssh context key for the coordinator session handle.
type sessionKey struct{}

// sessionMiddleware gives each connection a coordinator handle and tears
// it down when the connection ends, however it ends. Without the teardown
// a dropped connection would leave its lobby or match hanging until the
// cleanup loop expires it.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		sessionID := multiplayer.SessionID(fmt.Sprintf("%s-%d", sshSession.User(), time.Now().UnixNano()))
		channel := multiplayer.NewChannelSession(sessionID, 0)
		s.sessions.Register(channel)
		sshSession.Context().SetValue(sessionKey{}, channel)

		next(sshSession)

		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: sessionID})
		s.sessions.Unregister(sessionID)
		channel.Close()
	}
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	channel, _ := sshSession.Context().Value(sessionKey{}).(*multiplayer.ChannelSession)
	if channel == nil {
		s.logger.Error("session handle missing", "user", sshSession.User())
		return nil, nil
	}

	// Create runtime config from PTY size. Seed stays zero so every
	// match started in this session mints its own.
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 30,
	}

	// Create session model that handles menu + game flow
	model := NewSessionModel(s.store, cfg, sshSession.User(), channel, s.coordinator, s.coordCfg.TickRate)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coordinator.Start()

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.coordinator.Stop()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionState tracks which screen an SSH session is on.
type sessionState int

const (
	sessionStateMenu sessionState = iota
	sessionStateSetup
	sessionStateGame
	sessionStateLobby
	sessionStateMatch
	sessionStateHistory
)

// SessionModel manages the full session flow for one SSH connection:
// menu, setup wizard, hotseat play, online lobby and match, and the
// match history browser.
type SessionModel struct {
	store        *storage.Store
	config       core.RuntimeConfig
	username     string
	sessionID    multiplayer.SessionID
	channel      *multiplayer.ChannelSession
	coordinator  *multiplayer.Coordinator
	turnTickRate int

	state       sessionState
	menu        MenuModel
	pendingItem MenuItem // Menu pick held while the setup wizard runs
	setup       *TilerunSetupModel
	gameModel   *GameModel
	lobby       *OnlineLobbyModel
	matchClient *OnlineMatchModel
	history     *HistoryModel
	quitting    bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(
	store *storage.Store,
	cfg core.RuntimeConfig,
	username string,
	channel *multiplayer.ChannelSession,
	coordinator *multiplayer.Coordinator,
	turnTickRate int,
) SessionModel {
	return SessionModel{
		store:        store,
		config:       cfg,
		username:     username,
		sessionID:    channel.ID(),
		channel:      channel,
		coordinator:  coordinator,
		turnTickRate: turnTickRate,
		menu:         NewMenuModel(store, cfg, true),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.state {
	case sessionStateSetup:
		return m.updateSetup(msg)
	case sessionStateGame:
		return m.updateGame(msg)
	case sessionStateLobby:
		return m.updateLobby(msg)
	case sessionStateMatch:
		return m.updateMatch(msg)
	case sessionStateHistory:
		return m.updateHistory(msg)
	default:
		return m.updateMenu(msg)
	}
}

// backToMenu resets the session to a fresh menu.
func (m *SessionModel) backToMenu() tea.Cmd {
	m.state = sessionStateMenu
	m.setup = nil
	m.gameModel = nil
	m.lobby = nil
	m.matchClient = nil
	m.history = nil
	m.menu = NewMenuModel(m.store, m.config, true)
	return m.menu.Init()
}

// drainEvents discards coordinator events left over from an earlier
// lobby or match, so a new lobby starts with a clean channel.
func (m *SessionModel) drainEvents() {
	for {
		select {
		case <-m.channel.Events():
		default:
			return
		}
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	// Check if user quit
	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsHistory() {
		history := NewHistoryModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.history = &history
		m.state = sessionStateHistory
		return m, m.history.Init()
	}

	// Check if game was selected
	if selected := m.menu.Selected(); selected != nil {
		m.pendingItem = *selected
		m.config = m.menu.Config() // Get possibly updated config from resize

		if selected.Mode == multiplayer.MatchModeOnlinePvP {
			m.drainEvents()
			lobby := NewOnlineLobbyModel(
				selected.GameID, selected.Title,
				m.sessionID, m.coordinator, m.channel.Events(),
				m.config.ScreenW, m.config.ScreenH,
			)
			m.lobby = &lobby
			m.state = sessionStateLobby
			return m, m.lobby.Init()
		}

		// Hotseat: walk through the setup wizard first
		setup := NewTilerunSetupModel(m.config.ScreenW, m.config.ScreenH)
		m.setup = &setup
		m.state = sessionStateSetup
		return m, m.setup.Init()
	}

	return m, cmd
}

// updateSetup drives the pre-game wizard.
func (m SessionModel) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	newSetup, cmd := m.setup.Update(msg)
	if setupModel, ok := newSetup.(TilerunSetupModel); ok {
		m.setup = &setupModel
	}

	if m.setup.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.setup.WantsBack() {
		return m, m.backToMenu()
	}

	if sel := m.setup.Selected(); sel != nil {
		game, err := registry.Create(m.pendingItem.GameID)
		if err != nil {
			// Shouldn't happen since menu only shows registered games
			return m, m.backToMenu()
		}
		if tg, ok := game.(*tilerun.Game); ok {
			tg.ConfigureMatch(sel.Preset, sel.Pacing, sel.Names, sel.Teams)
		}

		match := multiplayer.NewMatch(
			multiplayer.MatchID(fmt.Sprintf("match-%d", time.Now().UnixNano())),
			m.pendingItem.Mode,
			m.sessionID,
		)

		// A wizard-entered seed wins; zero lets the engine mint one
		cfg := m.config
		cfg.Seed = sel.Seed

		gameModel := NewGameModel(game, m.store, cfg, match)
		m.gameModel = &gameModel
		m.setup = nil
		m.state = sessionStateGame
		return m, m.gameModel.Init()
	}

	return m, cmd
}

// updateGame handles updates when in hotseat game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	// Check if user quit game (back to menu)
	if m.gameModel.BackToMenu() {
		return m, m.backToMenu()
	}

	// Check if user quit entirely
	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateLobby drives the online matchmaking flow.
func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	newLobby, cmd := m.lobby.Update(msg)
	if lobbyModel, ok := newLobby.(OnlineLobbyModel); ok {
		m.lobby = &lobbyModel
	}

	if m.lobby.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.lobby.BackToMenu() {
		return m, m.backToMenu()
	}

	switch m.lobby.State() {
	case OnlineStateInMatch:
		matchClient := NewOnlineMatchModel(
			m.sessionID, m.coordinator, m.channel.Events(),
			m.lobby.MatchID(), m.lobby.Side(), m.turnTickRate,
			m.config.ScreenW, m.config.ScreenH,
		)
		m.matchClient = &matchClient
		m.lobby = nil
		m.state = sessionStateMatch
		return m, m.matchClient.Init()

	case OnlineStateMatchEnded:
		// Lobby collapsed before the match could start
		return m, m.backToMenu()
	}

	return m, cmd
}

// updateMatch drives the online match client.
func (m SessionModel) updateMatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	newClient, cmd := m.matchClient.Update(msg)
	if clientModel, ok := newClient.(OnlineMatchModel); ok {
		m.matchClient = &clientModel
	}

	if m.matchClient.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.matchClient.BackToMenu() {
		return m, m.backToMenu()
	}

	return m, cmd
}

// updateHistory drives the match history browser.
func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newHistory, cmd := m.history.Update(msg)
	if historyModel, ok := newHistory.(HistoryModel); ok {
		m.history = &historyModel
	}

	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.history.IsGoingBack() {
		return m, m.backToMenu()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case sessionStateSetup:
		if m.setup != nil {
			return m.setup.View()
		}
	case sessionStateGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
	case sessionStateLobby:
		if m.lobby != nil {
			return m.lobby.View()
		}
	case sessionStateMatch:
		if m.matchClient != nil {
			return m.matchClient.View()
		}
	case sessionStateHistory:
		if m.history != nil {
			return m.history.View()
		}
	}

	return m.menu.View()
}

// GameModel wraps a hotseat game with back-to-menu capability.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	match      *multiplayer.Match
	inputFrame core.MultiInputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	startedAt  time.Time
	quitting   bool
	backToMenu bool
	matchSaved bool
}

// NewGameModel creates a new game model.
// A zero seed is passed through; the game mints its own.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, match *multiplayer.Match) GameModel {
	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		match:      match,
		inputFrame: core.NewMultiInputFrame(),
		keyMapper:  NewKeyMapper(),
		startedAt:  time.Now(),
	}
}

// Init initializes the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		// The match keeps running; games relayout from the live screen
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Check for quit
	if m.keyMapper.MapKeyToMultiFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	// Check for back to menu (B or Esc when game over or paused)
	action := m.keyMapper.MapKeyToMenuAction(msg)
	if action == MenuActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, nil
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	// Check for restart
	p1Input := m.inputFrame.Player1()
	if p1Input.Has(core.ActionRestart) && m.gameState.GameOver {
		// Zero the seed so the rematch gets a fresh one
		m.config.Seed = 0
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.matchSaved = false
		m.startedAt = time.Now()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	// Run game simulation; every hotseat seat shares the Player1 frame
	result := m.game.Step(p1Input)
	m.gameState = result.State

	// Archive the match on game over (once)
	if m.gameState.GameOver && !m.matchSaved {
		archiveMatch(m.store, m.game, m.startedAt)
		m.matchSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
