package ws

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wordduel/internal/app"
	"wordduel/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client is one player's WebSocket connection and the gateway for their
// intents. A client starts unattached; the create/join intents bind it to a
// room of one variant, after which the remaining intents are routed to that
// room's serialized session. The classic/duel fields are only touched from
// the read pump, so they need no extra locking.
type Client struct {
	conn     *websocket.Conn
	registry *app.Registry
	playerID string
	send     chan []byte
	done     chan struct{}
	logger   zerolog.Logger
	mu       sync.Mutex
	closed   bool

	classic *app.ClassicSession
	duel    *app.DuelSession
}

// NewClient creates a WebSocket client for a new player connection.
func NewClient(conn *websocket.Conn, registry *app.Registry, playerID string, logger zerolog.Logger) *Client {
	return &Client{
		conn:     conn,
		registry: registry,
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger.With().Str("playerID", playerID).Logger(),
	}
}

// PlayerID implements app.ClientConn.
func (c *Client) PlayerID() string {
	return c.playerID
}

// Send implements app.ClientConn.
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn().Msg("send buffer full, message dropped")
		return nil
	}
}

// Close implements app.ClientConn.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// session returns the attached session regardless of variant, or nil.
func (c *Client) session() app.Session {
	if c.classic != nil {
		return c.classic
	}
	if c.duel != nil {
		return c.duel
	}
	return nil
}

// readPump pumps messages from the WebSocket connection. When it exits the
// player is gone for good: the room is told and tears itself down.
func (c *Client) readPump() {
	defer func() {
		if session := c.session(); session != nil {
			session.UnregisterClient(c.playerID)
			session.HandleDisconnect(c.playerID)
		}
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug().Err(err).Msg("websocket read error")
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket
// connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage decodes and routes one inbound intent.
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendNotify(domain.EventLobbyError, "Invalid message format.")
		return
	}

	switch msg.Type {
	case MsgCreateRoom:
		c.handleCreateRoom(msg.Payload)
	case MsgJoinRoom:
		c.handleJoinRoom(msg.Payload)
	case MsgCreateDuelloRoom:
		c.handleCreateDuelRoom()
	case MsgJoinDuelloRoom:
		c.handleJoinDuelRoom(msg.Payload)
	case MsgSetSecretWord:
		c.handleSetSecretWord(msg.Payload)
	case MsgPlayerReady:
		c.handlePlayerReady()
	case MsgSubmitWord:
		c.handleSubmitWord(msg.Payload)
	case MsgSubmitDuelGuess:
		c.handleSubmitDuelGuess(msg.Payload)
	case MsgPassTurn:
		c.handlePassTurn()
	case MsgRequestRematch:
		c.handleRequestRematch()
	case MsgDuelloRematch:
		c.handleDuelRematch()
	case MsgPing:
		c.Send(NewServerMessage(MsgPong, nil))
	default:
		c.sendNotify(domain.EventLobbyError, "Unknown message type.")
	}
}

// handleCreateRoom handles the createRoom intent; the payload is the room
// language.
func (c *Client) handleCreateRoom(payload interface{}) {
	if c.session() != nil {
		c.sendNotify(domain.EventLobbyError, "You are already in a room.")
		return
	}

	language, _ := payload.(string)
	if language == "" {
		language = app.DefaultLanguage
	}

	session, err := c.registry.CreateClassic(language, c.playerID, c)
	if err != nil {
		c.sendNotify(domain.EventLobbyError, errorMessage(err))
		return
	}
	c.classic = session
}

// handleJoinRoom handles the joinRoom intent; the payload is the room code.
func (c *Client) handleJoinRoom(payload interface{}) {
	if c.session() != nil {
		c.sendNotify(domain.EventLobbyError, "You are already in a room.")
		return
	}

	code, ok := payload.(string)
	if !ok || code == "" {
		c.sendNotify(domain.EventLobbyError, "A room code is required.")
		return
	}

	session, err := c.registry.JoinClassic(normalizeCode(code), c.playerID, c)
	if err != nil {
		c.sendNotify(domain.EventLobbyError, errorMessage(err))
		return
	}
	c.classic = session
}

// handleCreateDuelRoom handles the createDuelloRoom intent.
func (c *Client) handleCreateDuelRoom() {
	if c.session() != nil {
		c.sendNotify(domain.EventDuelError, "You are already in a room.")
		return
	}

	session, err := c.registry.CreateDuel(c.playerID, c)
	if err != nil {
		c.sendNotify(domain.EventDuelError, errorMessage(err))
		return
	}
	c.duel = session
}

// handleJoinDuelRoom handles the joinDuelloRoom intent.
func (c *Client) handleJoinDuelRoom(payload interface{}) {
	if c.session() != nil {
		c.sendNotify(domain.EventDuelError, "You are already in a room.")
		return
	}

	code, ok := payload.(string)
	if !ok || code == "" {
		c.sendNotify(domain.EventDuelError, "A room code is required.")
		return
	}

	session, err := c.registry.JoinDuel(normalizeCode(code), c.playerID, c)
	if err != nil {
		c.sendNotify(domain.EventDuelError, errorMessage(err))
		return
	}
	c.duel = session
}

// handleSetSecretWord handles the setSecretWord intent.
func (c *Client) handleSetSecretWord(payload interface{}) {
	if c.duel == nil {
		c.sendNotify(domain.EventDuelError, "Join a duel room first.")
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		c.sendNotify(domain.EventDuelError, "Invalid payload.")
		return
	}
	var p SetSecretWordPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.sendNotify(domain.EventDuelError, "Invalid payload.")
		return
	}

	if err := c.duel.SetSecretWord(c.playerID, p.Word, p.Hint, p.HintsEnabled); err != nil {
		c.sendNotify(domain.EventDuelError, errorMessage(err))
	}
}

// handlePlayerReady handles the playerReady intent.
func (c *Client) handlePlayerReady() {
	if c.duel == nil {
		c.sendNotify(domain.EventDuelError, "Join a duel room first.")
		return
	}

	if err := c.duel.PlayerReady(c.playerID); err != nil {
		c.sendNotify(domain.EventDuelError, errorMessage(err))
	}
}

// handleSubmitWord handles the shared-turn guess intent.
func (c *Client) handleSubmitWord(payload interface{}) {
	if c.classic == nil {
		c.sendNotify(domain.EventGameError, "Join a room first.")
		return
	}

	word, ok := payload.(string)
	if !ok {
		c.sendNotify(domain.EventGameError, "A word is required.")
		return
	}

	if err := c.classic.SubmitGuess(c.playerID, word); err != nil {
		c.sendNotify(domain.EventGameError, errorMessage(err))
	}
}

// handleSubmitDuelGuess handles the duel guess intent.
func (c *Client) handleSubmitDuelGuess(payload interface{}) {
	if c.duel == nil {
		c.sendNotify(domain.EventDuelError, "Join a duel room first.")
		return
	}

	word, ok := payload.(string)
	if !ok {
		c.sendNotify(domain.EventDuelError, "A word is required.")
		return
	}

	if err := c.duel.SubmitGuess(c.playerID, word); err != nil {
		c.sendNotify(domain.EventDuelError, errorMessage(err))
	}
}

// handlePassTurn handles the passTurn intent.
func (c *Client) handlePassTurn() {
	if c.classic == nil {
		c.sendNotify(domain.EventGameError, "Join a room first.")
		return
	}

	if err := c.classic.PassTurn(c.playerID); err != nil {
		c.sendNotify(domain.EventGameError, errorMessage(err))
	}
}

// handleRequestRematch handles the shared-turn rematch intent.
func (c *Client) handleRequestRematch() {
	if c.classic == nil {
		c.sendNotify(domain.EventGameError, "Join a room first.")
		return
	}

	if err := c.classic.RequestRematch(c.playerID); err != nil {
		c.sendNotify(domain.EventGameError, errorMessage(err))
	}
}

// handleDuelRematch handles the duel rematch intent.
func (c *Client) handleDuelRematch() {
	if c.duel == nil {
		c.sendNotify(domain.EventDuelError, "Join a duel room first.")
		return
	}

	if err := c.duel.RequestRematch(c.playerID); err != nil {
		c.sendNotify(domain.EventDuelError, errorMessage(err))
	}
}

// sendNotify pushes a plain-text notification straight to this client,
// outside any room queue. Errors only ever reach the player who caused
// them.
func (c *Client) sendNotify(eventType domain.EventType, message string) {
	c.Send(NewServerMessage(MessageType(eventType), message))
}

// normalizeCode uppercases a submitted room code.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// errorMessage maps domain errors to the player-facing text.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidLength):
		return "The word must be exactly 5 letters!"
	case errors.Is(err, domain.ErrInvalidWord):
		return "The word may only contain letters!"
	case errors.Is(err, domain.ErrNotYourTurn):
		return "It's not your turn!"
	case errors.Is(err, domain.ErrInvalidState):
		return "You can't do that right now."
	case errors.Is(err, domain.ErrRoomFull):
		return "The room is already full."
	case errors.Is(err, domain.ErrRoomNotFound):
		return "Room not found. Check the code."
	case errors.Is(err, domain.ErrCodeSpaceExhausted):
		return "No room codes available right now, try again."
	default:
		return err.Error()
	}
}
