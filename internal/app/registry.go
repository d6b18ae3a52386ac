package app

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"wordduel/internal/domain"
)

const (
	// DefaultRoomCodeLength matches the 4-character codes the clients
	// expect.
	DefaultRoomCodeLength = 4

	// codeAttempts bounds the collision-retry loop before reporting the
	// code space as exhausted.
	codeAttempts = 10
)

// RoomCodeChars are the characters used for room codes (no ambiguous ones).
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ"

// RegistryConfig carries the room parameters the registry hands to new
// sessions.
type RegistryConfig struct {
	CodeLength       int
	TurnDuration     time.Duration
	MaxRows          int
	StaleRoomTimeout time.Duration
	CleanupInterval  time.Duration
}

// Registry is the process-wide mapping from room codes to live sessions.
// It is created at startup and injected into the gateway; rooms are
// inserted on create and removed on terminal lifecycle events.
type Registry struct {
	rooms map[string]Session
	mu    sync.RWMutex

	cfg    RegistryConfig
	clock  clockwork.Clock
	logger zerolog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// NewRegistry creates a registry and starts its stale-room cleanup loop.
func NewRegistry(cfg RegistryConfig, clock clockwork.Clock, logger zerolog.Logger) *Registry {
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = DefaultRoomCodeLength
	}
	r := &Registry{
		rooms:  make(map[string]Session),
		cfg:    cfg,
		clock:  clock,
		logger: logger,
		done:   make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		go r.cleanupLoop()
	}

	return r
}

// CreateClassic creates a shared-turn room for the given language, with the
// creator registered and seated as host.
func (r *Registry) CreateClassic(language, playerID string, client ClientConn) (*ClassicSession, error) {
	r.mu.Lock()
	code, err := r.generateCodeLocked()
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}

	game := domain.NewClassicGame(code, language, r.cfg.MaxRows)
	session := NewClassicSession(game, r.cfg.TurnDuration, r.clock, r.logger, r.Remove)
	r.rooms[code] = session
	r.mu.Unlock()

	session.RegisterClient(playerID, client)
	if err := session.Join(playerID); err != nil {
		r.Remove(code)
		return nil, err
	}

	r.logger.Info().Str("room", code).Str("language", language).Msg("classic room created")
	return session, nil
}

// CreateDuel creates a duel room with the creator registered and seated as
// host.
func (r *Registry) CreateDuel(playerID string, client ClientConn) (*DuelSession, error) {
	r.mu.Lock()
	code, err := r.generateCodeLocked()
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}

	game := domain.NewDuelGame(code)
	session := NewDuelSession(game, r.logger, r.Remove)
	r.rooms[code] = session
	r.mu.Unlock()

	session.RegisterClient(playerID, client)
	if err := session.Join(playerID); err != nil {
		r.Remove(code)
		return nil, err
	}

	r.logger.Info().Str("room", code).Msg("duel room created")
	return session, nil
}

// JoinClassic seats a player as guest in an existing shared-turn room.
// Joining an unknown code, or a duel room through this intent, reports
// ErrRoomNotFound; a full room or one past setup rejects the join.
func (r *Registry) JoinClassic(code, playerID string, client ClientConn) (*ClassicSession, error) {
	session, err := r.Get(code)
	if err != nil {
		return nil, err
	}

	classic, ok := session.(*ClassicSession)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	classic.RegisterClient(playerID, client)
	if err := classic.Join(playerID); err != nil {
		classic.UnregisterClient(playerID)
		return nil, err
	}

	return classic, nil
}

// JoinDuel seats a player as guest in an existing duel room.
func (r *Registry) JoinDuel(code, playerID string, client ClientConn) (*DuelSession, error) {
	session, err := r.Get(code)
	if err != nil {
		return nil, err
	}

	duel, ok := session.(*DuelSession)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	duel.RegisterClient(playerID, client)
	if err := duel.Join(playerID); err != nil {
		duel.UnregisterClient(playerID)
		return nil, err
	}

	return duel, nil
}

// Get returns the session for a room code.
func (r *Registry) Get(code string) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.rooms[code]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return session, nil
}

// Remove deletes a registry entry and closes its session. Idempotent.
func (r *Registry) Remove(code string) {
	r.mu.Lock()
	session, ok := r.rooms[code]
	if ok {
		delete(r.rooms, code)
	}
	r.mu.Unlock()

	if ok {
		session.Close()
		r.logger.Info().Str("room", code).Msg("room removed")
	}
}

// RoomCount returns the number of active rooms.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// PlayerCount returns the total number of seated players.
func (r *Registry) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, session := range r.rooms {
		total += session.PlayerCount()
	}
	return total
}

// Close shuts down the registry and every session.
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})

	r.mu.Lock()
	defer r.mu.Unlock()

	for code, session := range r.rooms {
		session.Close()
		delete(r.rooms, code)
	}
}

// generateCodeLocked draws codes until one is unused. The code space is
// small by design (short shareable codes), so exhaustion is reported
// rather than looped on forever.
func (r *Registry) generateCodeLocked() (string, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := randomCode(r.cfg.CodeLength)
		if err != nil {
			return "", fmt.Errorf("generating room code: %w", err)
		}
		if _, exists := r.rooms[code]; !exists {
			return code, nil
		}
	}
	return "", domain.ErrCodeSpaceExhausted
}

// randomCode generates a random room code.
func randomCode(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	code := make([]byte, length)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}
	return string(code), nil
}

// cleanupLoop periodically drops rooms that never got a second player and
// went quiet.
func (r *Registry) cleanupLoop() {
	ticker := r.clock.NewTicker(r.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.Chan():
			r.cleanupStaleRooms()
		}
	}
}

// cleanupStaleRooms removes empty or abandoned rooms older than the stale
// timeout.
func (r *Registry) cleanupStaleRooms() {
	now := r.clock.Now()

	r.mu.Lock()
	stale := make([]Session, 0)
	for code, session := range r.rooms {
		old := now.Sub(session.CreatedAt()) > r.cfg.StaleRoomTimeout
		if old && (session.PlayerCount() == 0 || session.Phase() == domain.PhaseAbandoned) {
			delete(r.rooms, code)
			stale = append(stale, session)
		}
	}
	r.mu.Unlock()

	for _, session := range stale {
		session.Close()
		r.logger.Info().Str("room", session.Code()).Msg("stale room cleaned up")
	}
}
