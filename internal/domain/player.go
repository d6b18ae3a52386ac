package domain

import "time"

// Role identifies a player's slot in the room.
type Role string

const (
	RoleHost  Role = "HOST"
	RoleGuest Role = "GUEST"
)

// Player is one of the two slots in a room, identified by its stable
// connection id. SecretWord, Hint, Ready and Grid are used by duel rooms;
// shared-turn rooms keep a single grid on the game itself.
type Player struct {
	ID         string    `json:"id"`
	Role       Role      `json:"role"`
	Connected  bool      `json:"connected"`
	SecretWord string    `json:"-"`
	Hint       string    `json:"-"`
	Ready      bool      `json:"ready"`
	Grid       []Attempt `json:"grid"`
	JoinedAt   time.Time `json:"joinedAt"`
}

// NewPlayer creates a connected player in the given slot.
func NewPlayer(id string, role Role) *Player {
	return &Player{
		ID:        id,
		Role:      role,
		Connected: true,
		JoinedAt:  time.Now(),
	}
}

// IsHost returns true for the host slot.
func (p *Player) IsHost() bool {
	return p.Role == RoleHost
}

// Disconnect marks the player as permanently gone.
func (p *Player) Disconnect() {
	p.Connected = false
}

// ResetForRematch clears all per-match state while keeping the slot.
func (p *Player) ResetForRematch() {
	p.SecretWord = ""
	p.Hint = ""
	p.Ready = false
	p.Grid = nil
}
