package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Lobby represents a waiting room for a match.
type Lobby struct {
	Code      string
	GameID    string
	Host      SessionHandle
	Joiner    SessionHandle
	CreatedAt time.Time
}

// rematchOffer tracks a finished match whose players may want to go again.
type rematchOffer struct {
	gameID    string
	code      string
	player1   SessionHandle
	player2   SessionHandle
	ready     map[SessionID]bool
	createdAt time.Time
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long before an empty lobby expires
	TickRate      int           // Match tick rate (Hz), drives snapshots and deadlines
	TurnTimeout   time.Duration // How long the active player may hold a turn
	RematchWindow time.Duration // How long after a match a rematch can start
	CleanupPeriod time.Duration // How often to clean up expired lobbies
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		TickRate:      10,
		TurnTimeout:   45 * time.Second,
		RematchWindow: 90 * time.Second,
		CleanupPeriod: 30 * time.Second,
	}
}

// GameFactory creates game instances for matches.
// The seed makes the board layout and dice stream reproducible.
type GameFactory func(gameID string, seed int64) (TurnBasedGame, error)

// MatchResultSaver is an interface for saving match results.
// This allows the coordinator to save results without depending on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData contains match result data for persistence.
type MatchResultData struct {
	MatchID        string
	GameID         string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	WinnerSession  string
	EndReason      string
	DurationSecs   int
}

// Coordinator manages lobbies and active matches.
type Coordinator struct {
	config      CoordinatorConfig
	gameFactory GameFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver // Optional, can be nil

	mu        sync.RWMutex
	lobbies   map[string]*Lobby         // code -> lobby
	matches   map[MatchID]*OnlineMatch  // matchID -> match
	rematches map[MatchID]*rematchOffer // ended matchID -> rematch offer

	// Track which session is in which lobby/match
	sessionLobby map[SessionID]string  // sessionID -> lobby code
	sessionMatch map[SessionID]MatchID // sessionID -> matchID

	// Message channel for async processing
	msgChan chan CoordinatorMessage
	done    chan struct{}
}

// NewCoordinator creates a new coordinator.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	c := &Coordinator{
		config:       cfg,
		gameFactory:  factory,
		sessions:     sessions,
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		rematches:    make(map[MatchID]*rematchOffer),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
	return c
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts down the coordinator.
func (c *Coordinator) Stop() {
	close(c.done)
}

// Send sends a message to the coordinator for async processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

// processMessages handles incoming messages.
func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case TurnCommandMsg:
		c.handleTurnCommand(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	case ReadyForRematchMsg:
		c.handleReadyForRematch(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	// Check if session is already in a lobby
	c.mu.Lock()
	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	// Generate unique code
	code := c.generateUniqueCode()

	lobby := &Lobby{
		Code:      code,
		GameID:    msg.GameID,
		Host:      session,
		CreatedAt: time.Now(),
	}

	c.lobbies[code] = lobby
	c.sessionLobby[msg.SessionID] = code
	c.mu.Unlock()

	session.Send(LobbyCreatedEvent{Code: code, GameID: msg.GameID})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Check if session is already in a lobby
	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	// Find lobby
	code := strings.ToUpper(msg.Code)
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}

	// Check if lobby is full
	if lobby.Joiner != nil {
		session.Send(LobbyErrorEvent{Message: "Lobby is full"})
		return
	}

	// Can't join your own lobby
	if lobby.Host.ID() == msg.SessionID {
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}

	// Add joiner
	lobby.Joiner = session
	c.sessionLobby[msg.SessionID] = code

	// Notify both players
	lobby.Host.Send(LobbyJoinedEvent{
		Code:       code,
		Side:       Player1,
		OpponentID: msg.SessionID,
	})
	session.Send(LobbyJoinedEvent{
		Code:       code,
		Side:       Player2,
		OpponentID: lobby.Host.ID(),
	})

	// Start the match
	c.startMatch(lobby.GameID, lobby.Code, lobby.Host, lobby.Joiner)

	// Remove lobby
	delete(c.lobbies, lobby.Code)
}

// startMatch pairs two sessions into a fresh match.
// Must be called with the lock held.
func (c *Coordinator) startMatch(gameID, code string, p1, p2 SessionHandle) {
	matchID := MatchID(fmt.Sprintf("match-%s-%d", code, time.Now().UnixNano()))
	seed := time.Now().UnixNano()

	// Create game instance
	game, err := c.gameFactory(gameID, seed)
	if err != nil {
		p1.Send(LobbyErrorEvent{Message: "Failed to create game"})
		p2.Send(LobbyErrorEvent{Message: "Failed to create game"})
		return
	}

	// Create online match
	match := NewOnlineMatch(matchID, code, gameID, game, p1, p2, c.config.TickRate, c.config.TurnTimeout)

	// Track match
	c.matches[matchID] = match

	// Update session tracking
	delete(c.sessionLobby, p1.ID())
	delete(c.sessionLobby, p2.ID())
	c.sessionMatch[p1.ID()] = matchID
	c.sessionMatch[p2.ID()] = matchID

	// Notify players
	p1.Send(MatchStartedEvent{
		MatchID: matchID,
		Side:    Player1,
		Code:    code,
	})
	p2.Send(MatchStartedEvent{
		MatchID: matchID,
		Side:    Player2,
		Code:    code,
	})

	// Start match loop
	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(matchID, result)
	})
}

func (c *Coordinator) handleMatchEnded(matchID MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, exists := c.matches[matchID]
	if !exists {
		return
	}

	// Save match result if saver is configured
	if c.resultSaver != nil {
		winnerSession := ""
		if result.Winner == Player1 {
			winnerSession = string(match.player1Session.ID())
		} else if result.Winner == Player2 {
			winnerSession = string(match.player2Session.ID())
		}

		tickRate := max(1, c.config.TickRate) // Ensure positive tick rate
		resultData := MatchResultData{
			MatchID:        string(matchID),
			GameID:         match.GameID(),
			Player1Session: string(match.player1Session.ID()),
			Player2Session: string(match.player2Session.ID()),
			Score1:         result.Score1,
			Score2:         result.Score2,
			WinnerSession:  winnerSession,
			EndReason:      result.Reason.String(),
			DurationSecs:   int(result.Ticks / uint64(tickRate)), //nolint:gosec // tickRate is clamped positive
		}
		// Best effort save, don't block on error
		go func() {
			_ = c.resultSaver.SaveMatchResult(resultData) //nolint:errcheck // intentional fire-and-forget
		}()
	}

	// Clean up session tracking
	for _, sessionID := range []SessionID{match.player1Session.ID(), match.player2Session.ID()} {
		delete(c.sessionMatch, sessionID)
	}

	// Remove match
	delete(c.matches, matchID)

	// A cleanly finished match can be replayed while both sessions stay on
	// the results screen
	if result.Reason == MatchEndReasonCompleted {
		c.rematches[matchID] = &rematchOffer{
			gameID:    match.GameID(),
			code:      match.Code(),
			player1:   match.player1Session,
			player2:   match.player2Session,
			ready:     make(map[SessionID]bool),
			createdAt: time.Now(),
		}
	}

	// Notify players
	endEvent := MatchEndedEvent{
		MatchID: matchID,
		Reason:  result.Reason,
		Winner:  result.Winner,
		Score1:  result.Score1,
		Score2:  result.Score2,
	}
	match.player1Session.Send(endEvent)
	match.player2Session.Send(endEvent)
}

func (c *Coordinator) handleReadyForRematch(msg ReadyForRematchMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	offer, exists := c.rematches[msg.MatchID]
	if !exists {
		return
	}

	var side PlayerID
	var other SessionHandle
	switch msg.SessionID {
	case offer.player1.ID():
		side = Player1
		other = offer.player2
	case offer.player2.ID():
		side = Player2
		other = offer.player1
	default:
		return
	}

	if offer.ready[msg.SessionID] {
		return
	}
	offer.ready[msg.SessionID] = true

	if len(offer.ready) < 2 {
		other.Send(RematchReadyEvent{MatchID: msg.MatchID, Side: side})
		return
	}

	// Both ready: replay with a fresh seed
	delete(c.rematches, msg.MatchID)
	c.startMatch(offer.gameID, offer.code, offer.player1, offer.player2)
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists {
		return
	}

	// Only host can cancel
	if lobby.Host.ID() != msg.SessionID {
		return
	}

	// Notify joiner if present
	if lobby.Joiner != nil {
		lobby.Joiner.Send(MatchEndedEvent{
			Reason: MatchEndReasonHostLeft,
		})
		delete(c.sessionLobby, lobby.Joiner.ID())
	}

	delete(c.lobbies, msg.Code)
	delete(c.sessionLobby, msg.SessionID)
}

func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists {
		return
	}

	// If joiner is leaving
	if lobby.Joiner != nil && lobby.Joiner.ID() == msg.SessionID {
		lobby.Joiner = nil
		delete(c.sessionLobby, msg.SessionID)
		lobby.Host.Send(LobbyPlayerLeftEvent{Code: msg.Code})
		return
	}

	// If host is leaving, close lobby
	if lobby.Host.ID() == msg.SessionID {
		if lobby.Joiner != nil {
			lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
			delete(c.sessionLobby, lobby.Joiner.ID())
		}
		delete(c.lobbies, msg.Code)
		delete(c.sessionLobby, msg.SessionID)
	}
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.Lock()
	match, exists := c.matches[msg.MatchID]
	c.mu.Unlock()

	if !exists {
		return
	}

	// Signal disconnect to match
	match.PlayerDisconnected(msg.SessionID)
}

func (c *Coordinator) handleTurnCommand(msg TurnCommandMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if !exists {
		return
	}

	match.SendCommand(msg.Player, msg.Command)
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Check if in lobby
	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		if lobby, exists := c.lobbies[code]; exists {
			// If host disconnected
			if lobby.Host.ID() == msg.SessionID {
				if lobby.Joiner != nil {
					lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
					delete(c.sessionLobby, lobby.Joiner.ID())
				}
				delete(c.lobbies, code)
			} else if lobby.Joiner != nil && lobby.Joiner.ID() == msg.SessionID {
				// Joiner disconnected
				lobby.Joiner = nil
				lobby.Host.Send(LobbyPlayerLeftEvent{Code: code})
			}
		}
		delete(c.sessionLobby, msg.SessionID)
	}

	// Check if in match
	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}

	// Withdraw any rematch offers involving the session
	for matchID, offer := range c.rematches {
		if offer.player1.ID() != msg.SessionID && offer.player2.ID() != msg.SessionID {
			continue
		}
		other := offer.player1
		if offer.player1.ID() == msg.SessionID {
			other = offer.player2
		}
		other.Send(LobbyPlayerLeftEvent{Code: offer.code})
		delete(c.rematches, matchID)
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for code, lobby := range c.lobbies {
		// Only expire lobbies without joiners
		if lobby.Joiner == nil && now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
		}
	}

	for matchID, offer := range c.rematches {
		if now.Sub(offer.createdAt) > c.config.RematchWindow {
			delete(c.rematches, matchID)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character uppercase alphanumeric code.
func generateJoinCode() string {
	b := make([]byte, 4) // 4 bytes = 32 bits, base32 encodes to 8 chars, we take 6
	_, err := rand.Read(b)
	if err != nil {
		// Fallback to timestamp-based
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	// Use base32 encoding (A-Z, 2-7), take first 6 chars
	code := base32.StdEncoding.EncodeToString(b)[:6]
	return strings.ToUpper(code)
}

// GetLobby returns a lobby by code (for testing/debug).
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// GetMatch returns a match by ID (for testing/debug).
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of active lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of active matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}

// RematchCount returns the number of open rematch offers.
func (c *Coordinator) RematchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rematches)
}
