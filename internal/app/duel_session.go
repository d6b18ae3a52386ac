package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wordduel/internal/domain"
)

// DuelSession wraps a duel game with concurrency control and outbound
// notifications. There is no turn timer; both players guess freely. The
// hard-mode masking rule is applied here, at the emit boundary, so the
// domain always works with true feedback.
type DuelSession struct {
	*room

	game *domain.DuelGame
	mu   sync.Mutex

	onTerminal func(code string)
}

// NewDuelSession creates a session around a duel game.
func NewDuelSession(game *domain.DuelGame, logger zerolog.Logger, onTerminal func(code string)) *DuelSession {
	return &DuelSession{
		room:       newRoom(game.Code, logger.With().Str("room", game.Code).Str("mode", ModeDuello).Logger()),
		game:       game,
		onTerminal: onTerminal,
	}
}

// Mode returns the room mode.
func (s *DuelSession) Mode() string {
	return ModeDuello
}

// Phase returns the current lifecycle phase.
func (s *DuelSession) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Phase
}

// PlayerCount returns the number of occupied slots.
func (s *DuelSession) PlayerCount() int {
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
func (s *DuelSession) CreatedAt() time.Time {
	return s.game.CreatedAt
}

// CanJoin reports whether a new player may still join.
func (s *DuelSession) CanJoin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Phase == domain.PhaseWaiting && !s.game.Full()
}

// Join adds a player to the room. The guest's arrival moves the room into
// setup and notifies both sides.
func (s *DuelSession) Join(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.game.AddPlayer(playerID)
	if err != nil {
		return err
	}

	if player.IsHost() {
		s.queueEvent(domain.NewPlayerEvent(domain.EventDuelRoomCreated, s.code, playerID, s.code))
		return nil
	}

	s.queueEvent(domain.NewPlayerEvent(domain.EventDuelRoomJoined, s.code, playerID, s.code))
	s.queueEvent(domain.NewPlayerEvent(domain.EventDuelPlayerJoined, s.code, s.game.Host.ID, &domain.PlayerJoinedPayload{
		Message: "An opponent joined! Choose your secret word.",
	}))

	s.logger.Info().Msg("duel setup started")
	return nil
}

// SetSecretWord stores a player's secret word and hint. Only the host's
// hintsEnabled choice is honored.
func (s *DuelSession) SetSecretWord(playerID, word, hint string, hintsEnabled *bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.SetSecret(playerID, word, hint, hintsEnabled); err != nil {
		return err
	}

	s.queueEvent(domain.NewPlayerEvent(domain.EventSecretWordSet, s.code, playerID, "Secret word set!"))
	return nil
}

// PlayerReady flags a player as ready. When both players are ready the duel
// starts: each side receives the opponent's hint and the resolved
// hintsEnabled value, never the opponent's word.
func (s *DuelSession) PlayerReady(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.MarkReady(playerID); err != nil {
		return err
	}

	if !s.game.BothReady() {
		s.queueEvent(domain.NewPlayerEvent(domain.EventWaitingForOpponent, s.code, playerID, "Waiting for your opponent..."))
		return nil
	}

	if err := s.game.Start(); err != nil {
		return err
	}

	s.logger.Info().Bool("hintsEnabled", s.game.HintsEnabled).Msg("duel started")
	s.pushGameStart()
	return nil
}

// SubmitGuess scores a guess against the opponent's word. The submitter
// gets their updated grid back (masked in hard mode unless the guess won);
// the opponent gets a progress update of the submitter's grid. A winning
// guess ends the duel on the spot.
func (s *DuelSession) SubmitGuess(playerID, word string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.game.SubmitGuess(playerID, word)
	if err != nil {
		return err
	}

	player, _ := s.game.GetPlayer(playerID)
	opponent := s.game.Opponent(playerID)

	feedback := attempt.Feedback
	ownGrid := snapshotGrid(player.Grid)
	if !s.game.HintsEnabled && !attempt.IsWinning() {
		feedback = domain.NeutralFeedback(len(attempt.Feedback))
		ownGrid = domain.MaskAttempts(player.Grid)
	}

	s.queueEvent(domain.NewPlayerEvent(domain.EventDuelGuessResult, s.code, playerID, &domain.DuelGuessResultPayload{
		Word:     attempt.Word,
		Feedback: feedback,
		OwnGrid:  ownGrid,
	}))
	s.queueEvent(domain.NewPlayerEvent(domain.EventOpponentGuessUpdate, s.code, opponent.ID, &domain.OpponentUpdatePayload{
		OpponentGrid: snapshotGrid(player.Grid),
	}))

	if s.game.Phase == domain.PhaseFinished {
		s.finishLocked(player, opponent)
	}

	return nil
}

// RequestRematch records one side of the rematch handshake. The second
// request returns the room to setup so fresh words can be collected.
func (s *DuelSession) RequestRematch(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	both, err := s.game.RequestRematch(playerID)
	if err != nil {
		return err
	}

	if !both {
		if opponent := s.game.Opponent(playerID); opponent != nil {
			s.queueEvent(domain.NewPlayerEvent(domain.EventDuelRematchRequested, s.code, opponent.ID, "Your opponent wants a rematch!"))
		}
		return nil
	}

	if err := s.game.ResetForRematch(); err != nil {
		return err
	}

	s.logger.Info().Msg("duel rematch, back to setup")
	s.queueEvent(domain.NewEvent(domain.EventDuelRematchStart, s.code, "Rematch accepted! Choose a new secret word."))
	return nil
}

// HandleDisconnect terminates the room after a permanent connection loss:
// the survivor is notified exactly once and the registry entry is dropped.
func (s *DuelSession) HandleDisconnect(playerID string) {
	s.mu.Lock()

	player, err := s.game.GetPlayer(playerID)
	if err != nil || s.game.Phase == domain.PhaseAbandoned {
		s.mu.Unlock()
		return
	}

	player.Disconnect()
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
func (s *DuelSession) Close() {
	s.closeRoom()
}

// pushGameStart sends each player the opponent's hint and the resolved
// hints setting.
func (s *DuelSession) pushGameStart() {
	pairs := []struct {
		player   *domain.Player
		opponent *domain.Player
	}{
		{s.game.Host, s.game.Guest},
		{s.game.Guest, s.game.Host},
	}
	for _, pair := range pairs {
		s.queueEvent(domain.NewPlayerEvent(domain.EventDuelGameStart, s.code, pair.player.ID, &domain.DuelStartPayload{
			OpponentHint: pair.opponent.Hint,
			HintsEnabled: s.game.HintsEnabled,
		}))
	}
}

// finishLocked ends the duel and reveals the words: each side gets the word
// its own view should display plus the opponent's secret.
func (s *DuelSession) finishLocked(winner, loser *domain.Player) {
	s.queueEvent(domain.NewPlayerEvent(domain.EventDuelGameOver, s.code, winner.ID, &domain.DuelGameOverPayload{
		Won:          true,
		Message:      "You guessed the word! You win!",
		SecretWord:   loser.SecretWord,
		OpponentWord: loser.SecretWord,
	}))
	s.queueEvent(domain.NewPlayerEvent(domain.EventDuelGameOver, s.code, loser.ID, &domain.DuelGameOverPayload{
		Won:          false,
		Message:      "Your opponent guessed your word!",
		SecretWord:   loser.SecretWord,
		OpponentWord: winner.SecretWord,
	}))
	s.logger.Info().Str("winner", winner.ID).Msg("duel over")
}
