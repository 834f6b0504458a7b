package multiplayer

import (
	"testing"
	"time"
)

func newTestCoordinator(t *testing.T, cfg CoordinatorConfig) (*Coordinator, *SessionRegistry) {
	t.Helper()
	registry := NewSessionRegistry()
	factory := func(gameID string, seed int64) (TurnBasedGame, error) {
		return newScriptGame(2), nil
	}
	c := NewCoordinator(cfg, factory, registry)
	c.Start()
	t.Cleanup(c.Stop)
	return c, registry
}

func registerSession(registry *SessionRegistry, id SessionID) *ChannelSession {
	s := NewChannelSession(id, 256)
	registry.Register(s)
	return s
}

// awaitEvent reads from the session until an event of type E arrives,
// skipping snapshots and other interleaved traffic.
func awaitEvent[E SessionEvent](t *testing.T, s *ChannelSession) E {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if e, ok := evt.(E); ok {
				return e
			}
		case <-deadline:
			var zero E
			t.Fatalf("Timed out waiting for %T", zero)
			return zero
		}
	}
}

func TestCoordinatorCreateLobby(t *testing.T) {
	c, registry := newTestCoordinator(t, DefaultCoordinatorConfig())
	host := registerSession(registry, "host")

	c.Send(CreateLobbyMsg{SessionID: "host", GameID: "tilerun"})

	created := awaitEvent[LobbyCreatedEvent](t, host)
	if len(created.Code) != 6 {
		t.Errorf("Expected 6-character join code, got %q", created.Code)
	}
	if created.GameID != "tilerun" {
		t.Errorf("Expected game tilerun, got %s", created.GameID)
	}
	if c.LobbyCount() != 1 {
		t.Errorf("Expected 1 lobby, got %d", c.LobbyCount())
	}
}

func TestCoordinatorJoinUnknownLobby(t *testing.T) {
	c, registry := newTestCoordinator(t, DefaultCoordinatorConfig())
	joiner := registerSession(registry, "joiner")

	c.Send(JoinLobbyMsg{SessionID: "joiner", Code: "ZZZZZZ"})

	errEvt := awaitEvent[LobbyErrorEvent](t, joiner)
	if errEvt.Message != "Lobby not found" {
		t.Errorf("Expected lobby not found error, got %q", errEvt.Message)
	}
}

func TestCoordinatorCannotJoinOwnLobby(t *testing.T) {
	c, registry := newTestCoordinator(t, DefaultCoordinatorConfig())
	host := registerSession(registry, "host")

	c.Send(CreateLobbyMsg{SessionID: "host", GameID: "tilerun"})
	created := awaitEvent[LobbyCreatedEvent](t, host)

	c.Send(JoinLobbyMsg{SessionID: "host", Code: created.Code})

	errEvt := awaitEvent[LobbyErrorEvent](t, host)
	if errEvt.Message != "Cannot join your own lobby" {
		t.Errorf("Unexpected error message: %q", errEvt.Message)
	}
}

// pairUp creates a lobby, joins it, and returns both sessions plus the
// started match ID.
func pairUp(t *testing.T, c *Coordinator, registry *SessionRegistry) (*ChannelSession, *ChannelSession, MatchID) {
	t.Helper()
	host := registerSession(registry, "host")
	joiner := registerSession(registry, "joiner")

	c.Send(CreateLobbyMsg{SessionID: "host", GameID: "tilerun"})
	created := awaitEvent[LobbyCreatedEvent](t, host)

	c.Send(JoinLobbyMsg{SessionID: "joiner", Code: created.Code})

	hostJoined := awaitEvent[LobbyJoinedEvent](t, host)
	if hostJoined.Side != Player1 {
		t.Errorf("Host should be Player1, got %v", hostJoined.Side)
	}
	joinerJoined := awaitEvent[LobbyJoinedEvent](t, joiner)
	if joinerJoined.Side != Player2 {
		t.Errorf("Joiner should be Player2, got %v", joinerJoined.Side)
	}

	hostStarted := awaitEvent[MatchStartedEvent](t, host)
	joinerStarted := awaitEvent[MatchStartedEvent](t, joiner)
	if hostStarted.MatchID != joinerStarted.MatchID {
		t.Errorf("Sessions got different match IDs: %s vs %s", hostStarted.MatchID, joinerStarted.MatchID)
	}

	return host, joiner, hostStarted.MatchID
}

// playOut drives the two-turn script game to completion over the relay.
func playOut(c *Coordinator, matchID MatchID) {
	c.Send(TurnCommandMsg{MatchID: matchID, Player: Player1, Command: TurnCommand{Kind: CommandRoll}})
	c.Send(TurnCommandMsg{MatchID: matchID, Player: Player1, Command: TurnCommand{Kind: CommandContinue}})
	c.Send(TurnCommandMsg{MatchID: matchID, Player: Player2, Command: TurnCommand{Kind: CommandRoll}})
	c.Send(TurnCommandMsg{MatchID: matchID, Player: Player2, Command: TurnCommand{Kind: CommandContinue}})
}

func TestCoordinatorFullMatchFlow(t *testing.T) {
	c, registry := newTestCoordinator(t, DefaultCoordinatorConfig())
	host, joiner, matchID := pairUp(t, c, registry)

	if c.LobbyCount() != 0 {
		t.Errorf("Lobby should be consumed by the match, got %d", c.LobbyCount())
	}
	if c.MatchCount() != 1 {
		t.Errorf("Expected 1 active match, got %d", c.MatchCount())
	}

	playOut(c, matchID)

	hostEnd := awaitEvent[MatchEndedEvent](t, host)
	joinerEnd := awaitEvent[MatchEndedEvent](t, joiner)

	if hostEnd.Reason != MatchEndReasonCompleted {
		t.Errorf("Expected completed match, got %v", hostEnd.Reason)
	}
	if hostEnd.Winner != Player1 || joinerEnd.Winner != Player1 {
		t.Errorf("Expected Player1 as winner on both sides")
	}
	if hostEnd.Score1 != 3 || hostEnd.Score2 != 2 {
		t.Errorf("Expected final score 3:2, got %d:%d", hostEnd.Score1, hostEnd.Score2)
	}

	if c.MatchCount() != 0 {
		t.Errorf("Match should be removed after it ends, got %d", c.MatchCount())
	}
	if c.RematchCount() != 1 {
		t.Errorf("Completed match should leave a rematch offer, got %d", c.RematchCount())
	}
}

func TestCoordinatorRematch(t *testing.T) {
	c, registry := newTestCoordinator(t, DefaultCoordinatorConfig())
	host, joiner, matchID := pairUp(t, c, registry)

	playOut(c, matchID)
	awaitEvent[MatchEndedEvent](t, host)
	awaitEvent[MatchEndedEvent](t, joiner)

	// Host readies first, joiner gets notified
	c.Send(ReadyForRematchMsg{SessionID: "host", MatchID: matchID})
	ready := awaitEvent[RematchReadyEvent](t, joiner)
	if ready.Side != Player1 {
		t.Errorf("Expected Player1 to be ready, got %v", ready.Side)
	}

	// Joiner readies, a fresh match starts for both
	c.Send(ReadyForRematchMsg{SessionID: "joiner", MatchID: matchID})

	hostStarted := awaitEvent[MatchStartedEvent](t, host)
	joinerStarted := awaitEvent[MatchStartedEvent](t, joiner)

	if hostStarted.MatchID == matchID {
		t.Error("Rematch should get a new match ID")
	}
	if hostStarted.MatchID != joinerStarted.MatchID {
		t.Errorf("Rematch IDs differ: %s vs %s", hostStarted.MatchID, joinerStarted.MatchID)
	}
	if hostStarted.Side != Player1 || joinerStarted.Side != Player2 {
		t.Error("Rematch should keep the original sides")
	}
	if c.RematchCount() != 0 {
		t.Errorf("Offer should be consumed, got %d", c.RematchCount())
	}
}

func TestCoordinatorDisconnectWithdrawsRematch(t *testing.T) {
	c, registry := newTestCoordinator(t, DefaultCoordinatorConfig())
	host, joiner, matchID := pairUp(t, c, registry)

	playOut(c, matchID)
	awaitEvent[MatchEndedEvent](t, host)
	awaitEvent[MatchEndedEvent](t, joiner)

	c.Send(SessionDisconnectedMsg{SessionID: "joiner"})

	left := awaitEvent[LobbyPlayerLeftEvent](t, host)
	if left.Code == "" {
		t.Error("Expected the original join code in the withdrawal notice")
	}

	// The host's later ready must not start anything
	c.Send(ReadyForRematchMsg{SessionID: "host", MatchID: matchID})

	time.Sleep(50 * time.Millisecond)
	if c.MatchCount() != 0 {
		t.Errorf("No match should start after withdrawal, got %d", c.MatchCount())
	}
}

func TestCoordinatorLobbyExpiry(t *testing.T) {
	cfg := DefaultCoordinatorConfig()
	cfg.LobbyTimeout = 30 * time.Millisecond
	cfg.CleanupPeriod = 10 * time.Millisecond

	c, registry := newTestCoordinator(t, cfg)
	host := registerSession(registry, "host")

	c.Send(CreateLobbyMsg{SessionID: "host", GameID: "tilerun"})
	awaitEvent[LobbyCreatedEvent](t, host)

	errEvt := awaitEvent[LobbyErrorEvent](t, host)
	if errEvt.Message != "Lobby expired" {
		t.Errorf("Expected lobby expired error, got %q", errEvt.Message)
	}
	if c.LobbyCount() != 0 {
		t.Errorf("Expired lobby should be removed, got %d", c.LobbyCount())
	}
}

func TestGenerateJoinCode(t *testing.T) {
	code := generateJoinCode()
	if len(code) != 6 {
		t.Errorf("Expected 6-character code, got %q", code)
	}
	for _, r := range code {
		valid := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !valid {
			t.Errorf("Unexpected character %q in join code %q", r, code)
		}
	}
}
