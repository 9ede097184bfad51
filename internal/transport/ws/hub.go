package ws

import (
	"ceezaa-sessions/internal/model"
	"encoding/json"

	"sync"

	"github.com/rs/zerolog"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgSessionUpdated MessageType = "session_updated"
	MsgVotingClosed   MessageType = "voting_closed"
	MsgInvited        MessageType = "invited"
	MsgError          MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans session events out to connected participant devices. It
// implements service.Notifier; delivery is best effort and messages
// are dropped when a client's buffer is full.
type Hub struct {
	// sessionID -> userID -> connection
	conns map[string]map[string]*Connection

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *broadcastMessage

	log zerolog.Logger
}

// Connection represents one participant device's WebSocket connection
type Connection struct {
	SessionID string
	UserID    string
	Send      chan []byte
	Hub       *Hub
}

type broadcastMessage struct {
	SessionID string
	ToUser    string // empty means every connected participant
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub(log zerolog.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *broadcastMessage, 256),
		log:        log.With().Str("component", "ws").Logger(),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.SessionID] == nil {
				h.conns[conn.SessionID] = make(map[string]*Connection)
			}
			if existing, ok := h.conns[conn.SessionID][conn.UserID]; ok {
				close(existing.Send)
			}
			h.conns[conn.SessionID][conn.UserID] = conn
			h.mu.Unlock()
			h.log.Debug().Str("session", conn.SessionID).Str("user", conn.UserID).Msg("connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if users, ok := h.conns[conn.SessionID]; ok {
				if existing, ok := users[conn.UserID]; ok && existing == conn {
					delete(users, conn.UserID)
					close(conn.Send)
					if len(users) == 0 {
						delete(h.conns, conn.SessionID)
					}
				}
			}
			h.mu.Unlock()
			h.log.Debug().Str("session", conn.SessionID).Str("user", conn.UserID).Msg("disconnected")

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			users := h.conns[msg.SessionID]
			for userID, conn := range users {
				if msg.ToUser != "" && msg.ToUser != userID {
					continue
				}
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// SessionUpdated pushes a fresh snapshot to everyone in the session
// (implements service.Notifier)
func (h *Hub) SessionUpdated(session *model.Session) {
	h.send(session.ID, "", MsgSessionUpdated, session)
}

// VotingClosed announces the decided winner to everyone in the session
// (implements service.Notifier)
func (h *Hub) VotingClosed(session *model.Session) {
	h.send(session.ID, "", MsgVotingClosed, session)
}

// Invited nudges a single user about a new invitation (implements
// service.Notifier). The invitee is usually not connected to the
// session feed yet, so this reaches them only if they already are.
func (h *Hub) Invited(sessionID, inviteeID string) {
	h.send(sessionID, inviteeID, MsgInvited, map[string]string{"sessionId": sessionID})
}

func (h *Hub) send(sessionID, toUser string, msgType MessageType, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn().Err(err).Str("session", sessionID).Msg("marshal payload")
		return
	}
	h.broadcast <- &broadcastMessage{
		SessionID: sessionID,
		ToUser:    toUser,
		Message: &Message{
			Type:    msgType,
			Payload: data,
		},
	}
}
