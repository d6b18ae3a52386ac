package domain

import "time"

// DuelGame is the duel variant: each player picks a secret word and a hint
// during setup, then both guess concurrently against the opponent's word on
// independent grids. There is no turn and no row limit; the game ends the
// instant either player's guess comes back all correct.
type DuelGame struct {
	Code         string
	Host         *Player
	Guest        *Player
	HintsEnabled bool // host-controlled; false enables hard-mode masking
	Phase        Phase
	Winner       string
	CreatedAt    time.Time

	rematchVotes map[string]bool
}

// NewDuelGame creates an empty duel room. Hints are on unless the host
// disables them during setup.
func NewDuelGame(code string) *DuelGame {
	return &DuelGame{
		Code:         code,
		HintsEnabled: true,
		Phase:        PhaseWaiting,
		CreatedAt:    time.Now(),
		rematchVotes: make(map[string]bool),
	}
}

// AddPlayer fills the next free slot. When the second player joins the room
// moves to the setup phase. Fullness is checked before the phase so a third
// joiner gets the room-full error, not a generic state error.
func (g *DuelGame) AddPlayer(playerID string) (*Player, error) {
	if g.Full() {
		return nil, ErrRoomFull
	}
	if g.Phase != PhaseWaiting {
		return nil, ErrInvalidState
	}
	if g.Host == nil {
		g.Host = NewPlayer(playerID, RoleHost)
		return g.Host, nil
	}
	g.Guest = NewPlayer(playerID, RoleGuest)
	g.Phase = PhaseSetup
	return g.Guest, nil
}

// Full reports whether both slots are taken.
func (g *DuelGame) Full() bool {
	return g.Host != nil && g.Guest != nil
}

// GetPlayer returns the player with the given id.
func (g *DuelGame) GetPlayer(playerID string) (*Player, error) {
	switch {
	case g.Host != nil && g.Host.ID == playerID:
		return g.Host, nil
	case g.Guest != nil && g.Guest.ID == playerID:
		return g.Guest, nil
	}
	return nil, ErrPlayerNotFound
}

// Opponent returns the other player, or nil if the room is not full.
func (g *DuelGame) Opponent(playerID string) *Player {
	if g.Host != nil && g.Host.ID == playerID {
		return g.Guest
	}
	if g.Guest != nil && g.Guest.ID == playerID {
		return g.Host
	}
	return nil
}

// SetSecret stores a player's secret word and hint. The host may create the
// room and pick a word before the guest arrives, so this is valid both
// while waiting and during setup. Only the host's hintsEnabled value is
// honored; the guest's is ignored.
func (g *DuelGame) SetSecret(playerID, word, hint string, hintsEnabled *bool) error {
	if g.Phase != PhaseWaiting && g.Phase != PhaseSetup {
		return ErrInvalidState
	}

	player, err := g.GetPlayer(playerID)
	if err != nil {
		return err
	}

	normalized, err := NormalizeWord(word)
	if err != nil {
		return err
	}

	player.SecretWord = normalized
	player.Hint = hint

	if hintsEnabled != nil && player.IsHost() {
		g.HintsEnabled = *hintsEnabled
	}

	return nil
}

// MarkReady flags a player as ready. A player is only ready after
// submitting a valid secret word.
func (g *DuelGame) MarkReady(playerID string) error {
	if g.Phase != PhaseWaiting && g.Phase != PhaseSetup {
		return ErrInvalidState
	}

	player, err := g.GetPlayer(playerID)
	if err != nil {
		return err
	}
	if player.SecretWord == "" {
		return ErrInvalidState
	}

	player.Ready = true
	return nil
}

// BothReady reports whether both players have submitted words and readied.
func (g *DuelGame) BothReady() bool {
	return g.Full() && g.Host.Ready && g.Guest.Ready
}

// Start activates the duel once both players are ready.
func (g *DuelGame) Start() error {
	if !g.BothReady() {
		return ErrInvalidState
	}
	if !g.Phase.CanTransitionTo(PhaseActive) {
		return ErrInvalidState
	}
	g.Phase = PhaseActive
	return nil
}

// SubmitGuess scores a guess against the opponent's secret word and appends
// it to the submitter's own grid. Feedback returned here is always the true
// feedback; hard-mode masking is an emit-boundary policy applied by the
// session before transmission.
func (g *DuelGame) SubmitGuess(playerID, word string) (Attempt, error) {
	if g.Phase != PhaseActive {
		return Attempt{}, ErrInvalidState
	}

	player, err := g.GetPlayer(playerID)
	if err != nil {
		return Attempt{}, err
	}

	normalized, err := NormalizeWord(word)
	if err != nil {
		return Attempt{}, err
	}

	opponent := g.Opponent(playerID)
	attempt := Attempt{
		Word:     normalized,
		Feedback: ComputeFeedback(opponent.SecretWord, normalized),
	}
	player.Grid = append(player.Grid, attempt)

	if attempt.IsWinning() {
		g.Winner = playerID
		g.Phase = PhaseFinished
	}

	return attempt, nil
}

// RequestRematch records one side of the rematch handshake. It returns true
// when both players have asked, at which point the caller resets the room
// to setup so fresh words can be collected.
func (g *DuelGame) RequestRematch(playerID string) (bool, error) {
	if g.Phase != PhaseFinished {
		return false, ErrInvalidState
	}
	if _, err := g.GetPlayer(playerID); err != nil {
		return false, err
	}

	g.rematchVotes[playerID] = true
	return len(g.rematchVotes) == 2, nil
}

// ResetForRematch returns the room to the setup phase with both grids,
// words and ready flags cleared. The room code and player slots survive.
func (g *DuelGame) ResetForRematch() error {
	if !g.Phase.CanTransitionTo(PhaseSetup) {
		return ErrInvalidState
	}

	g.Host.ResetForRematch()
	g.Guest.ResetForRematch()
	g.Winner = ""
	g.HintsEnabled = true
	g.Phase = PhaseSetup
	g.rematchVotes = make(map[string]bool)

	return nil
}

// Abandon marks the room as terminally abandoned after a disconnect.
func (g *DuelGame) Abandon() {
	g.Phase = PhaseAbandoned
}
