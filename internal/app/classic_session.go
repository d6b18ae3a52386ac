package app

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"wordduel/internal/domain"
)

// ClassicSession wraps a shared-turn game with concurrency control, the
// turn timer and outbound notifications. Every operation, including a timer
// expiry, runs to completion under mu before the next one is admitted.
type ClassicSession struct {
	*room

	game *domain.ClassicGame
	mu   sync.Mutex

	clock        clockwork.Clock
	turnDuration time.Duration
	turnTimer    clockwork.Timer
	timerCancel  chan struct{}
	timerGen     uint64

	// onTerminal is invoked (outside mu) when the room dies with a
	// disconnect; the registry uses it to drop the entry.
	onTerminal func(code string)
}

// NewClassicSession creates a session around a shared-turn game.
func NewClassicSession(game *domain.ClassicGame, turnDuration time.Duration, clock clockwork.Clock, logger zerolog.Logger, onTerminal func(code string)) *ClassicSession {
	return &ClassicSession{
		room:         newRoom(game.Code, logger.With().Str("room", game.Code).Str("mode", ModeClassic).Logger()),
		game:         game,
		clock:        clock,
		turnDuration: turnDuration,
		onTerminal:   onTerminal,
	}
}

// Mode returns the room mode.
func (s *ClassicSession) Mode() string {
	return ModeClassic
}

// Phase returns the current lifecycle phase.
func (s *ClassicSession) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Phase
}

// PlayerCount returns the number of occupied slots.
func (s *ClassicSession) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	if s.game.Host != nil {
		count++
	}
	if s.game.Guest != nil {
		count++
	}
	return count
}

// CreatedAt returns when the room was created.
func (s *ClassicSession) CreatedAt() time.Time {
	return s.game.CreatedAt
}

// CanJoin reports whether a new player may still join.
func (s *ClassicSession) CanJoin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Phase == domain.PhaseWaiting && !s.game.Full()
}

// Join adds a player to the room. The first player becomes the host and is
// told the room code; the second join starts the game: a secret word is
// drawn for the room language, the host gets the first turn and the
// countdown begins.
func (s *ClassicSession) Join(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.game.AddPlayer(playerID)
	if err != nil {
		return err
	}

	if player.IsHost() {
		s.queueEvent(domain.NewPlayerEvent(domain.EventRoomCreated, s.code, playerID, s.code))
		return nil
	}

	s.queueEvent(domain.NewPlayerEvent(domain.EventLobbyMessage, s.code, s.game.Host.ID, "An opponent joined! The game is starting."))

	if err := s.game.Start(RandomWord(s.game.Language)); err != nil {
		return err
	}

	s.logger.Info().Str("language", s.game.Language).Msg("classic game started")

	s.queueEvent(domain.NewEvent(domain.EventStartGame, s.code, &domain.StartGamePayload{
		RoomCode: s.code,
		Players:  []string{s.game.Host.ID, s.game.Guest.ID},
	}))
	s.pushGameState()
	s.pushTurnStatus("It's your turn! Insert your word.", "Waiting for your opponent's turn.")
	s.startTurnTimerLocked()

	return nil
}

// SubmitGuess applies a guess from the given player. On success both
// clients receive the new grid; the game either finishes or the turn flips
// and the countdown restarts.
func (s *ClassicSession) SubmitGuess(playerID, word string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.game.SubmitGuess(playerID, word); err != nil {
		return err
	}

	s.pushGameState()

	if s.game.Phase == domain.PhaseFinished {
		s.finishLocked()
		return nil
	}

	s.pushTurnStatus("It's your turn! Insert your word.", "Waiting for your opponent's turn.")
	s.startTurnTimerLocked()
	return nil
}

// PassTurn is the explicit pass intent. Only the current-turn player may
// pass; the turn flips without a grid row and the countdown restarts.
func (s *ClassicSession) PassTurn(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.PassTurn(playerID); err != nil {
		return err
	}

	s.pushTurnStatus("Your opponent passed. It's your turn!", "Turn passed.")
	s.startTurnTimerLocked()
	return nil
}

// RequestRematch records one side of the rematch handshake. The second
// request restarts the game with a fresh secret word and the turn back on
// the host.
func (s *ClassicSession) RequestRematch(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	both, err := s.game.RequestRematch(playerID)
	if err != nil {
		return err
	}

	if !both {
		if opponent := s.game.Opponent(playerID); opponent != nil {
			s.queueEvent(domain.NewPlayerEvent(domain.EventRematchRequested, s.code, opponent.ID, "Your opponent wants a rematch!"))
		}
		return nil
	}

	if err := s.game.Start(RandomWordExcluding(s.game.Language, s.game.Secret)); err != nil {
		return err
	}

	s.logger.Info().Msg("rematch started")

	s.queueEvent(domain.NewEvent(domain.EventRematchStart, s.code, nil))
	s.pushGameState()
	s.pushTurnStatus("Rematch! It's your turn.", "Rematch! Waiting for your opponent.")
	s.startTurnTimerLocked()
	return nil
}

// HandleDisconnect terminates the room after a permanent connection loss.
// The timer is cancelled, the survivor is notified exactly once and the
// registry entry is dropped. No further guesses are accepted.
func (s *ClassicSession) HandleDisconnect(playerID string) {
	s.mu.Lock()

	player, err := s.game.GetPlayer(playerID)
	if err != nil || s.game.Phase == domain.PhaseAbandoned {
		s.mu.Unlock()
		return
	}

	player.Disconnect()
	s.stopTurnTimerLocked()
	s.game.Abandon()

	if opponent := s.game.Opponent(playerID); opponent != nil && opponent.Connected {
		s.queueEvent(domain.NewPlayerEvent(domain.EventOpponentDisconnected, s.code, opponent.ID, "Your opponent left the game."))
	}

	s.logger.Info().Str("playerID", playerID).Msg("player disconnected, room abandoned")
	s.mu.Unlock()

	if s.onTerminal != nil {
		s.onTerminal(s.code)
	}
}

// Close shuts down the session.
func (s *ClassicSession) Close() {
	s.mu.Lock()
	s.stopTurnTimerLocked()
	s.mu.Unlock()
	s.closeRoom()
}

// finishLocked ends the game: the timer stops and both players get the
// revealed word. An empty winner id means the rows ran out with no win.
func (s *ClassicSession) finishLocked() {
	s.stopTurnTimerLocked()
	s.queueEvent(domain.NewEvent(domain.EventGameOver, s.code, &domain.GameOverPayload{
		Winner:     s.game.Winner,
		SecretWord: s.game.Secret,
	}))
	s.logger.Info().Str("winner", s.game.Winner).Msg("classic game over")
}

// pushGameState sends the shared grid snapshot to both players.
func (s *ClassicSession) pushGameState() {
	s.queueEvent(domain.NewEvent(domain.EventGameState, s.code, &domain.GameStatePayload{
		Grid:       snapshotGrid(s.game.Grid),
		CurrentRow: s.game.CurrentRow(),
		MaxRows:    s.game.MaxRows,
	}))
}

// pushTurnStatus tells each player whose turn it is.
func (s *ClassicSession) pushTurnStatus(turnMsg, waitMsg string) {
	seconds := int(s.turnDuration.Seconds())
	for _, player := range []*domain.Player{s.game.Host, s.game.Guest} {
		if player == nil {
			continue
		}
		payload := &domain.TurnStatusPayload{
			IsTurn:      player.ID == s.game.Turn,
			SecondsLeft: seconds,
		}
		if payload.IsTurn {
			payload.Message = turnMsg
		} else {
			payload.Message = waitMsg
		}
		s.queueEvent(domain.NewPlayerEvent(domain.EventTurnStatus, s.code, player.ID, payload))
	}
}

// startTurnTimerLocked replaces any running countdown with a fresh one. The
// generation counter makes a timer that already fired but lost the race for
// mu a no-op.
func (s *ClassicSession) startTurnTimerLocked() {
	s.stopTurnTimerLocked()

	s.timerGen++
	gen := s.timerGen
	cancel := make(chan struct{})
	timer := s.clock.NewTimer(s.turnDuration)
	s.turnTimer = timer
	s.timerCancel = cancel

	go func() {
		select {
		case <-timer.Chan():
			s.handleTurnExpired(gen)
		case <-cancel:
			stopAndDrainTimer(timer)
		case <-s.done:
			stopAndDrainTimer(timer)
		}
	}()
}

// stopTurnTimerLocked cancels the running countdown, if any.
func (s *ClassicSession) stopTurnTimerLocked() {
	s.timerGen++
	if s.timerCancel != nil {
		close(s.timerCancel)
		s.timerCancel = nil
	}
	s.turnTimer = nil
}

// handleTurnExpired is the timer expiry intent: an implicit pass on behalf
// of the current player. It is serialized against guesses through mu; a
// guess that won the race has already bumped the generation, so the stale
// expiry does nothing.
func (s *ClassicSession) handleTurnExpired(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.timerGen || s.game.Phase != domain.PhaseActive {
		return
	}

	if err := s.game.PassTurn(s.game.Turn); err != nil {
		return
	}

	s.logger.Debug().Msg("turn timer expired, turn skipped")
	s.pushTurnStatus("Time's up for your opponent! Your turn.", "Time's up! Turn skipped.")
	s.startTurnTimerLocked()
}

// stopAndDrainTimer stops a timer and drains its channel so the goroutine
// that owns it cannot leak a pending tick.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
