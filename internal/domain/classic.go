package domain

import "time"

// ClassicGame is the shared-turn variant: one secret word, one shared grid,
// players alternate guesses starting from the host. The struct is a pure
// state machine; all synchronization and notification lives in the app
// layer.
type ClassicGame struct {
	Code      string
	Language  string
	Secret    string
	Grid      []Attempt
	MaxRows   int
	Host      *Player
	Guest     *Player
	Turn      string // player id whose turn it is
	Phase     Phase
	Winner    string // empty until a win; stays empty on a row-exhaustion draw
	CreatedAt time.Time

	rematchVotes map[string]bool
}

// NewClassicGame creates an empty shared-turn room.
func NewClassicGame(code, language string, maxRows int) *ClassicGame {
	return &ClassicGame{
		Code:         code,
		Language:     language,
		MaxRows:      maxRows,
		Phase:        PhaseWaiting,
		CreatedAt:    time.Now(),
		rematchVotes: make(map[string]bool),
	}
}

// AddPlayer fills the next free slot. The first player becomes the host.
// Fullness is checked before the phase: once both slots are taken the room
// has left the waiting phase, and a third joiner must still be told the
// room is full rather than getting a generic state error.
func (g *ClassicGame) AddPlayer(playerID string) (*Player, error) {
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
	return g.Guest, nil
}

// Full reports whether both slots are taken.
func (g *ClassicGame) Full() bool {
	return g.Host != nil && g.Guest != nil
}

// GetPlayer returns the player with the given id.
func (g *ClassicGame) GetPlayer(playerID string) (*Player, error) {
	switch {
	case g.Host != nil && g.Host.ID == playerID:
		return g.Host, nil
	case g.Guest != nil && g.Guest.ID == playerID:
		return g.Guest, nil
	}
	return nil, ErrPlayerNotFound
}

// Opponent returns the other player, or nil if the room is not full.
func (g *ClassicGame) Opponent(playerID string) *Player {
	if g.Host != nil && g.Host.ID == playerID {
		return g.Guest
	}
	if g.Guest != nil && g.Guest.ID == playerID {
		return g.Host
	}
	return nil
}

// Start activates the game with the given secret word. Used both for the
// initial start (when the second player joins) and for a rematch restart.
// The grid is cleared and the turn goes to the host.
func (g *ClassicGame) Start(secret string) error {
	if !g.Full() {
		return ErrInvalidState
	}
	if !g.Phase.CanTransitionTo(PhaseActive) {
		return ErrInvalidState
	}

	word, err := NormalizeWord(secret)
	if err != nil {
		return err
	}

	g.Secret = word
	g.Grid = nil
	g.Winner = ""
	g.Turn = g.Host.ID
	g.Phase = PhaseActive
	g.rematchVotes = make(map[string]bool)

	return nil
}

// SubmitGuess validates and applies a guess from the given player. On
// success the attempt is appended to the shared grid; the game either ends
// (win or exhausted rows) or the turn flips to the other player.
func (g *ClassicGame) SubmitGuess(playerID, word string) (Attempt, error) {
	if g.Phase != PhaseActive {
		return Attempt{}, ErrInvalidState
	}
	if playerID != g.Turn {
		return Attempt{}, ErrNotYourTurn
	}

	normalized, err := NormalizeWord(word)
	if err != nil {
		return Attempt{}, err
	}

	attempt := Attempt{
		Word:     normalized,
		Feedback: ComputeFeedback(g.Secret, normalized),
	}
	g.Grid = append(g.Grid, attempt)

	switch {
	case attempt.IsWinning():
		g.Winner = playerID
		g.Phase = PhaseFinished
	case len(g.Grid) >= g.MaxRows:
		g.Phase = PhaseFinished
	default:
		g.Turn = g.Opponent(playerID).ID
	}

	return attempt, nil
}

// PassTurn flips the turn without appending a grid row. Only the player
// whose turn it is may pass; a timer expiry is applied as a pass on behalf
// of the current player.
func (g *ClassicGame) PassTurn(playerID string) error {
	if g.Phase != PhaseActive {
		return ErrInvalidState
	}
	if playerID != g.Turn {
		return ErrNotYourTurn
	}
	g.Turn = g.Opponent(playerID).ID
	return nil
}

// CurrentRow is the index of the next grid row to be filled.
func (g *ClassicGame) CurrentRow() int {
	return len(g.Grid)
}

// RequestRematch records one side of the rematch handshake. It returns true
// when both players have asked, at which point the caller restarts the game
// with a fresh secret via Start.
func (g *ClassicGame) RequestRematch(playerID string) (bool, error) {
	if g.Phase != PhaseFinished {
		return false, ErrInvalidState
	}
	if _, err := g.GetPlayer(playerID); err != nil {
		return false, err
	}

	g.rematchVotes[playerID] = true
	return len(g.rematchVotes) == 2, nil
}

// Abandon marks the room as terminally abandoned after a disconnect.
func (g *ClassicGame) Abandon() {
	g.Phase = PhaseAbandoned
}
