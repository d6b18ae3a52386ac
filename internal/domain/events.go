package domain

import "time"

// EventType names an outbound notification. The values are the wire-level
// message types the clients listen for.
type EventType string

// Shared-turn events
const (
	EventRoomCreated          EventType = "roomCreated"
	EventLobbyMessage         EventType = "lobbyMessage"
	EventLobbyError           EventType = "lobbyError"
	EventStartGame            EventType = "startGame"
	EventTurnStatus           EventType = "updateTurnStatus"
	EventGameState            EventType = "updateGameState"
	EventGameOver             EventType = "gameOver"
	EventRematchRequested     EventType = "rematchRequested"
	EventRematchStart         EventType = "rematchStart"
	EventOpponentDisconnected EventType = "opponentDisconnected"
	EventGameError            EventType = "gameError"
)

// Duel events
const (
	EventDuelRoomCreated      EventType = "duelloRoomCreated"
	EventDuelRoomJoined       EventType = "duelloRoomJoined"
	EventDuelPlayerJoined     EventType = "duelloPlayerJoined"
	EventSecretWordSet        EventType = "secretWordSet"
	EventWaitingForOpponent   EventType = "waitingForOpponent"
	EventDuelGameStart        EventType = "duelloGameStart"
	EventDuelGuessResult      EventType = "duelloGuessResult"
	EventOpponentGuessUpdate  EventType = "opponentGuessUpdate"
	EventDuelGameOver         EventType = "duelloGameOver"
	EventDuelRematchRequested EventType = "duelloRematchRequested"
	EventDuelRematchStart     EventType = "duelloRematchStart"
	EventDuelError            EventType = "duelloError"
)

// GameEvent is one outbound notification. PlayerID targets a single player;
// when empty the event goes to both connected players.
type GameEvent struct {
	Type      EventType   `json:"type"`
	RoomCode  string      `json:"roomCode"`
	PlayerID  string      `json:"playerId,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates an event addressed to both players.
func NewEvent(eventType EventType, roomCode string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		RoomCode:  roomCode,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates an event addressed to a single player.
func NewPlayerEvent(eventType EventType, roomCode, playerID string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		RoomCode:  roomCode,
		PlayerID:  playerID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for the events above.

// PlayerJoinedPayload announces the opponent's arrival.
type PlayerJoinedPayload struct {
	Message string `json:"message"`
}

// StartGamePayload starts the shared-turn match on both clients.
type StartGamePayload struct {
	RoomCode string   `json:"roomCode"`
	Players  []string `json:"players"`
}

// TurnStatusPayload tells one player whether it is their turn.
type TurnStatusPayload struct {
	IsTurn      bool   `json:"isTurn"`
	Message     string `json:"message"`
	SecondsLeft int    `json:"secondsLeft"`
}

// GameStatePayload is the shared grid snapshot after every accepted guess.
type GameStatePayload struct {
	Grid       []Attempt `json:"grid"`
	CurrentRow int       `json:"currentRow"`
	MaxRows    int       `json:"maxRows"`
}

// GameOverPayload ends the shared-turn match. Winner is empty on a draw.
type GameOverPayload struct {
	Winner     string `json:"winner"`
	SecretWord string `json:"secretWord"`
}

// DuelStartPayload moves a duel client from setup to the active game. Each
// player receives the opponent's hint, never the opponent's word.
type DuelStartPayload struct {
	OpponentHint string `json:"opponentHint"`
	HintsEnabled bool   `json:"hintsEnabled"`
}

// DuelGuessResultPayload carries the submitter's updated grid. Feedback and
// grid are masked per the hard-mode rule before transmission.
type DuelGuessResultPayload struct {
	Word     string     `json:"word"`
	Feedback []Feedback `json:"feedback"`
	OwnGrid  []Attempt  `json:"ownGrid"`
}

// OpponentUpdatePayload mirrors the submitter's grid to the other player's
// progress panel.
type OpponentUpdatePayload struct {
	OpponentGrid []Attempt `json:"opponentGrid"`
}

// DuelGameOverPayload ends the duel for one player. SecretWord is the word
// the match ended on; OpponentWord reveals the other side's secret.
type DuelGameOverPayload struct {
	Won          bool   `json:"won"`
	Message      string `json:"message"`
	SecretWord   string `json:"secretWord"`
	OpponentWord string `json:"opponentWord"`
}
