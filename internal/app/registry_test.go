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

func testRegistryConfig() RegistryConfig {
	return RegistryConfig{
		CodeLength:       4,
		TurnDuration:     45 * time.Second,
		MaxRows:          6,
		StaleRoomTimeout: 30 * time.Minute,
	}
}

func newTestRegistry(t *testing.T, cfg RegistryConfig, clock clockwork.Clock) *Registry {
	t.Helper()
	r := NewRegistry(cfg, clock, zerolog.Nop())
	t.Cleanup(r.Close)
	return r
}

func TestRegistryCreateAndJoinClassic(t *testing.T) {
	r := newTestRegistry(t, testRegistryConfig(), clockwork.NewFakeClock())

	host := newFakeConn("p1")
	session, err := r.CreateClassic("en", "p1", host)
	require.NoError(t, err)
	require.Len(t, session.Code(), 4)
	assert.Equal(t, 1, r.RoomCount())
	assert.Equal(t, 1, r.PlayerCount())

	guest := newFakeConn("p2")
	joined, err := r.JoinClassic(session.Code(), "p2", guest)
	require.NoError(t, err)
	assert.Same(t, session, joined)
	assert.Equal(t, 2, r.PlayerCount())
	assert.Equal(t, domain.PhaseActive, session.Phase())

	guest.waitForEvent(t, domain.EventStartGame)
}

func TestRegistryJoinUnknownCode(t *testing.T) {
	r := newTestRegistry(t, testRegistryConfig(), clockwork.NewFakeClock())

	_, err := r.JoinClassic("NOPE", "p1", newFakeConn("p1"))
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	_, err = r.JoinDuel("NOPE", "p1", newFakeConn("p1"))
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRegistryJoinFullRoom(t *testing.T) {
	r := newTestRegistry(t, testRegistryConfig(), clockwork.NewFakeClock())

	session, err := r.CreateClassic("en", "p1", newFakeConn("p1"))
	require.NoError(t, err)
	_, err = r.JoinClassic(session.Code(), "p2", newFakeConn("p2"))
	require.NoError(t, err)

	late := newFakeConn("p3")
	_, err = r.JoinClassic(session.Code(), "p3", late)
	assert.ErrorIs(t, err, domain.ErrRoomFull)
	assert.Equal(t, 2, r.PlayerCount(), "the room still has its two players")
}

func TestRegistryJoinWrongModeIsNotFound(t *testing.T) {
	r := newTestRegistry(t, testRegistryConfig(), clockwork.NewFakeClock())

	classic, err := r.CreateClassic("en", "p1", newFakeConn("p1"))
	require.NoError(t, err)
	duel, err := r.CreateDuel("p2", newFakeConn("p2"))
	require.NoError(t, err)

	_, err = r.JoinDuel(classic.Code(), "p3", newFakeConn("p3"))
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	_, err = r.JoinClassic(duel.Code(), "p3", newFakeConn("p3"))
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRegistryRoomCodesAreUnique(t *testing.T) {
	r := newTestRegistry(t, testRegistryConfig(), clockwork.NewFakeClock())

	codes := make(map[string]bool)
	for i := 0; i < 20; i++ {
		session, err := r.CreateDuel("p", newFakeConn("p"))
		require.NoError(t, err)
		assert.False(t, codes[session.Code()])
		codes[session.Code()] = true
	}
}

func TestRegistryRemoveIsIdempotent(t *testing.T) {
	r := newTestRegistry(t, testRegistryConfig(), clockwork.NewFakeClock())

	session, err := r.CreateDuel("p1", newFakeConn("p1"))
	require.NoError(t, err)

	r.Remove(session.Code())
	assert.Equal(t, 0, r.RoomCount())
	r.Remove(session.Code())

	_, err = r.Get(session.Code())
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRegistryDisconnectRemovesRoom(t *testing.T) {
	r := newTestRegistry(t, testRegistryConfig(), clockwork.NewFakeClock())

	session, err := r.CreateClassic("en", "p1", newFakeConn("p1"))
	require.NoError(t, err)
	guest := newFakeConn("p2")
	_, err = r.JoinClassic(session.Code(), "p2", guest)
	require.NoError(t, err)

	session.HandleDisconnect("p1")

	// Removal runs synchronously inside HandleDisconnect, and the room
	// drains its queue before tearing the clients down, so the survivor's
	// notification is already there when it returns.
	assert.Equal(t, 1, guest.countType(domain.EventOpponentDisconnected))
	assert.Equal(t, 0, r.RoomCount())
}

func TestRegistryCleansUpStaleAbandonedRooms(t *testing.T) {
	// Room creation stamps CreatedAt from the wall clock, so the fake
	// clock starts there too.
	clock := clockwork.NewFakeClockAt(time.Now())
	cfg := testRegistryConfig()
	cfg.StaleRoomTimeout = 30 * time.Minute
	cfg.CleanupInterval = 5 * time.Minute
	r := newTestRegistry(t, cfg, clock)

	// An abandoned room whose terminal hook never ran, parked directly in
	// the registry. The cleanup sweep is the backstop that reaps it.
	game := domain.NewClassicGame("STAL", "en", 6)
	session := NewClassicSession(game, cfg.TurnDuration, clock, zerolog.Nop(), nil)
	_, err := game.AddPlayer("p1")
	require.NoError(t, err)
	session.HandleDisconnect("p1")

	r.mu.Lock()
	r.rooms["STAL"] = session
	r.mu.Unlock()

	// Wait for the cleanup ticker to be armed before advancing.
	clock.BlockUntil(1)
	clock.Advance(36 * time.Minute)

	require.Eventually(t, func() bool {
		return r.RoomCount() == 0
	}, 2*time.Second, 5*time.Millisecond)
}

func TestRandomCodeUsesAllowedAlphabet(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := randomCode(4)
		require.NoError(t, err)
		require.Len(t, code, 4)
		for _, ch := range code {
			assert.Contains(t, RoomCodeChars, string(ch))
		}
	}
}
