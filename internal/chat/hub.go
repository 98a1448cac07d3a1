package chat

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const defaultHistorySize = 50

// Message is one discussion event in an Original's room. Type is one of
// "user_join", "user_leave" or "message".
type Message struct {
	Type       string    `json:"type"`
	OriginalID string    `json:"original_id"`
	User       string    `json:"user"`
	Text       string    `json:"text,omitempty"`
	At         time.Time `json:"at"`
}

type room struct {
	connections map[*websocket.Conn]string
	history     []Message
}

// Hub hosts one discussion room per Original, so reviewers can argue about
// borderline candidates while voting. History is kept in memory only.
type Hub struct {
	mu          sync.Mutex
	rooms       map[string]*room
	historySize int
}

func NewHub(historySize int) *Hub {
	if historySize <= 0 {
		historySize = defaultHistorySize
	}
	return &Hub{
		rooms:       make(map[string]*room),
		historySize: historySize,
	}
}

// Join attaches a reviewer to an Original's room and returns the room
// history for replay.
func (h *Hub) Join(originalID string, ws *websocket.Conn, user string) []Message {
	var history []Message
	h.mu.Lock()
	r := h.roomLocked(originalID)
	r.connections[ws] = user
	history = append(history, r.history...)
	h.mu.Unlock()

	h.Broadcast(Message{
		Type:       "user_join",
		OriginalID: originalID,
		User:       user,
		At:         time.Now().UTC(),
	})

	return history
}

func (h *Hub) Leave(originalID string, ws *websocket.Conn) {
	var user string
	h.mu.Lock()
	if r, ok := h.rooms[originalID]; ok {
		if u, exists := r.connections[ws]; exists {
			user = u
		}
		delete(r.connections, ws)
	}
	h.mu.Unlock()

	_ = ws.Close()

	if user != "" {
		h.Broadcast(Message{
			Type:       "user_leave",
			OriginalID: originalID,
			User:       user,
			At:         time.Now().UTC(),
		})
	}
}

func (h *Hub) Broadcast(msg Message) {
	if msg.At.IsZero() {
		msg.At = time.Now().UTC()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[msg.OriginalID]
	if !ok {
		return
	}

	if msg.Type == "message" {
		r.history = append(r.history, msg)
		if len(r.history) > h.historySize {
			r.history = r.history[len(r.history)-h.historySize:]
		}
	}

	for ws := range r.connections {
		if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
			_ = ws.Close()
			delete(r.connections, ws)
		}
	}
}

func (h *Hub) History(originalID string) []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[originalID]; ok {
		return append([]Message(nil), r.history...)
	}
	return nil
}

func (h *Hub) User(originalID string, ws *websocket.Conn) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[originalID]; ok {
		return r.connections[ws]
	}
	return ""
}

func (h *Hub) roomLocked(originalID string) *room {
	r, ok := h.rooms[originalID]
	if !ok {
		r = &room{connections: make(map[*websocket.Conn]string)}
		h.rooms[originalID] = r
	}
	return r
}
