package ws

import "time"

// MessageType is the type tag on a WebSocket message. The values are the
// intent and notification names the clients already speak.
type MessageType string

// Client → server intents
const (
	MsgCreateRoom       MessageType = "createRoom"
	MsgJoinRoom         MessageType = "joinRoom"
	MsgCreateDuelloRoom MessageType = "createDuelloRoom"
	MsgJoinDuelloRoom   MessageType = "joinDuelloRoom"
	MsgSetSecretWord    MessageType = "setSecretWord"
	MsgPlayerReady      MessageType = "playerReady"
	MsgSubmitWord       MessageType = "submitWord"
	MsgSubmitDuelGuess  MessageType = "submitDuelloGuess"
	MsgPassTurn         MessageType = "passTurn"
	MsgRequestRematch   MessageType = "requestRematch"
	MsgDuelloRematch    MessageType = "duelloRematch"
	MsgPing             MessageType = "ping"
)

// Server → client (besides game events, which carry their own type)
const (
	MsgPong MessageType = "pong"
)

// ClientMessage is a message from client to server.
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ServerMessage is a message from server to client.
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a server message with the current timestamp.
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// SetSecretWordPayload is the payload of the setSecretWord intent. The
// hintsEnabled flag is only meaningful from the host; guests send null.
type SetSecretWordPayload struct {
	Word         string `json:"word"`
	Hint         string `json:"hint"`
	HintsEnabled *bool  `json:"hintsEnabled"`
}
