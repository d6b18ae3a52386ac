package app

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordduel/internal/domain"
)

const testTurnDuration = 45 * time.Second

// newClassicFixture builds a started shared-turn room with both players
// seated and their connections captured.
func newClassicFixture(t *testing.T, clock clockwork.Clock, onTerminal func(string)) (*ClassicSession, *fakeConn, *fakeConn) {
	t.Helper()

	game := domain.NewClassicGame("ROOM", "en", 6)
	session := NewClassicSession(game, testTurnDuration, clock, zerolog.Nop(), onTerminal)
	t.Cleanup(session.Close)

	host := newFakeConn("p1")
	guest := newFakeConn("p2")

	session.RegisterClient(host.id, host)
	require.NoError(t, session.Join(host.id))

	session.RegisterClient(guest.id, guest)
	require.NoError(t, session.Join(guest.id))

	// Pin the secret so guesses in the tests below cannot win by accident.
	session.mu.Lock()
	session.game.Secret = "CRANE"
	session.mu.Unlock()

	return session, host, guest
}

func TestClassicSessionStartNotifications(t *testing.T) {
	_, host, guest := newClassicFixture(t, clockwork.NewFakeClock(), nil)

	event := host.waitForEvent(t, domain.EventRoomCreated)
	assert.Equal(t, "ROOM", event.Payload)

	host.waitForEvent(t, domain.EventLobbyMessage)
	host.waitForEvent(t, domain.EventStartGame)
	guest.waitForEvent(t, domain.EventStartGame)

	hostStatus := host.waitForEvent(t, domain.EventTurnStatus)
	payload, ok := hostStatus.Payload.(*domain.TurnStatusPayload)
	require.True(t, ok)
	assert.True(t, payload.IsTurn, "host has the first turn")
	assert.Equal(t, 45, payload.SecondsLeft)

	guestStatus := guest.waitForEvent(t, domain.EventTurnStatus)
	payload, ok = guestStatus.Payload.(*domain.TurnStatusPayload)
	require.True(t, ok)
	assert.False(t, payload.IsTurn)
}

func TestClassicSessionGuessBroadcastsState(t *testing.T) {
	session, host, guest := newClassicFixture(t, clockwork.NewFakeClock(), nil)

	require.NoError(t, session.SubmitGuess("p1", "SLATE"))

	for _, conn := range []*fakeConn{host, guest} {
		event := conn.waitForEvent(t, domain.EventGameState)
		payload, ok := event.Payload.(*domain.GameStatePayload)
		require.True(t, ok)
		assert.Equal(t, 1, payload.CurrentRow)
		assert.Equal(t, 6, payload.MaxRows)
		require.Len(t, payload.Grid, 1)
		assert.Equal(t, "SLATE", payload.Grid[0].Word)
	}

	assert.ErrorIs(t, session.SubmitGuess("p1", "BRICK"), domain.ErrNotYourTurn)
}

func TestClassicSessionTurnTimerExpiryPassesTurn(t *testing.T) {
	clock := clockwork.NewFakeClock()
	session, _, guest := newClassicFixture(t, clock, nil)

	// The countdown started when the guest joined; let it run out.
	clock.Advance(testTurnDuration)

	// The expiry is an implicit pass: the guest gets the turn without any
	// grid row having been added.
	require.Eventually(t, func() bool {
		event := guest.lastOfType(domain.EventTurnStatus)
		if event == nil {
			return false
		}
		payload, ok := event.Payload.(*domain.TurnStatusPayload)
		return ok && payload.IsTurn
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, session.SubmitGuess("p2", "SLATE"))

	event := guest.waitForEvent(t, domain.EventGameState)
	payload, ok := event.Payload.(*domain.GameStatePayload)
	require.True(t, ok)
	assert.Equal(t, 1, payload.CurrentRow, "the skipped turn added no row")
}

func TestClassicSessionGuessRestartsTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	session, host, _ := newClassicFixture(t, clock, nil)

	require.NoError(t, session.SubmitGuess("p1", "SLATE"))

	// A fresh countdown is running for the guest; when it expires the turn
	// comes back to the host.
	clock.Advance(testTurnDuration)

	require.Eventually(t, func() bool {
		return session.SubmitGuess("p1", "BRICK") == nil
	}, 2*time.Second, 5*time.Millisecond)

	host.waitForEventCount(t, domain.EventGameState, 2)
}

func TestClassicSessionPassTurn(t *testing.T) {
	session, _, guest := newClassicFixture(t, clockwork.NewFakeClock(), nil)

	assert.ErrorIs(t, session.PassTurn("p2"), domain.ErrNotYourTurn)
	require.NoError(t, session.PassTurn("p1"))

	require.Eventually(t, func() bool {
		event := guest.lastOfType(domain.EventTurnStatus)
		if event == nil {
			return false
		}
		payload, ok := event.Payload.(*domain.TurnStatusPayload)
		return ok && payload.IsTurn
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, session.SubmitGuess("p2", "SLATE"))
}

func TestClassicSessionWinEndsGame(t *testing.T) {
	session, host, guest := newClassicFixture(t, clockwork.NewFakeClock(), nil)

	secret := "CRANE"
	require.NoError(t, session.SubmitGuess("p1", secret))

	for _, conn := range []*fakeConn{host, guest} {
		event := conn.waitForEvent(t, domain.EventGameOver)
		payload, ok := event.Payload.(*domain.GameOverPayload)
		require.True(t, ok)
		assert.Equal(t, "p1", payload.Winner)
		assert.Equal(t, secret, payload.SecretWord)
	}

	assert.ErrorIs(t, session.SubmitGuess("p2", "SLATE"), domain.ErrInvalidState)
}

func TestClassicSessionRematch(t *testing.T) {
	session, host, guest := newClassicFixture(t, clockwork.NewFakeClock(), nil)

	require.NoError(t, session.SubmitGuess("p1", "CRANE"))
	host.waitForEvent(t, domain.EventGameOver)

	require.NoError(t, session.RequestRematch("p1"))
	guest.waitForEvent(t, domain.EventRematchRequested)
	assert.Zero(t, host.countType(domain.EventRematchRequested), "requester is not notified")

	require.NoError(t, session.RequestRematch("p2"))

	for _, conn := range []*fakeConn{host, guest} {
		conn.waitForEvent(t, domain.EventRematchStart)
		event := conn.waitForEvent(t, domain.EventGameState)
		payload, ok := event.Payload.(*domain.GameStatePayload)
		require.True(t, ok)
		assert.Equal(t, 0, payload.CurrentRow, "rematch starts with an empty grid")
	}

	assert.NotEqual(t, "CRANE", session.game.Secret, "rematch draws a fresh word")
}

func TestClassicSessionDisconnectAbandonsRoom(t *testing.T) {
	clock := clockwork.NewFakeClock()
	removed := make(chan string, 1)
	session, _, guest := newClassicFixture(t, clock, func(code string) {
		removed <- code
	})

	session.HandleDisconnect("p1")

	event := guest.waitForEvent(t, domain.EventOpponentDisconnected)
	assert.Equal(t, "p2", event.PlayerID)

	select {
	case code := <-removed:
		assert.Equal(t, "ROOM", code)
	case <-time.After(2 * time.Second):
		t.Fatal("terminal callback was not invoked")
	}

	assert.ErrorIs(t, session.SubmitGuess("p2", "SLATE"), domain.ErrInvalidState)

	// A second disconnect is a no-op; the survivor is told exactly once.
	session.HandleDisconnect("p2")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, guest.countType(domain.EventOpponentDisconnected))
}

func TestClassicSessionCancelledTimersNeverFire(t *testing.T) {
	clock := clockwork.NewFakeClock()
	session, _, guest := newClassicFixture(t, clock, nil)

	// Two guesses replace the countdown twice; the first two timers are
	// cancelled, only the third one is live when the clock advances.
	require.NoError(t, session.SubmitGuess("p1", "SLATE"))
	require.NoError(t, session.SubmitGuess("p2", "BRICK"))
	clock.Advance(testTurnDuration)

	// The live expiry passes the host's turn; had a dead timer fired too,
	// the turn would have flipped twice and this guess would be rejected.
	require.Eventually(t, func() bool {
		return session.SubmitGuess("p2", "GHOST") == nil
	}, 2*time.Second, 5*time.Millisecond)

	guest.waitForEventCount(t, domain.EventGameState, 3)
	event := guest.lastOfType(domain.EventGameState)
	payload, ok := event.Payload.(*domain.GameStatePayload)
	require.True(t, ok)
	assert.Equal(t, 3, payload.CurrentRow, "exactly the three real guesses landed")
}
