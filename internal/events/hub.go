package events

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub fans validation events out to TCP line subscribers and WebSocket
// clients. Dead connections are dropped on the first failed write.
type Hub struct {
	mu        sync.Mutex
	tcpConns  map[net.Conn]struct{}
	wsClients map[*websocket.Conn]struct{}
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

func NewHub() *Hub {
	return &Hub{
		tcpConns:  make(map[net.Conn]struct{}),
		wsClients: make(map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) Subscribe(conn net.Conn) {
	h.mu.Lock()
	h.tcpConns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unsubscribe(conn net.Conn) {
	h.mu.Lock()
	delete(h.tcpConns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *Hub) SubscribeWS(ws *websocket.Conn) {
	h.mu.Lock()
	h.wsClients[ws] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) UnsubscribeWS(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.wsClients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// BroadcastJSON sends one event, as a single JSON line, to every subscriber.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.tcpConns {
		_ = conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		w := bufio.NewWriter(conn)
		if _, err := w.Write(b); err != nil {
			_ = conn.Close()
			delete(h.tcpConns, conn)
			continue
		}
		if err := w.Flush(); err != nil {
			_ = conn.Close()
			delete(h.tcpConns, conn)
		}
	}

	for ws := range h.wsClients {
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			_ = ws.Close()
			delete(h.wsClients, ws)
		}
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		TCPClients: len(h.tcpConns),
		WSClients:  len(h.wsClients),
	}
}

func (h *Hub) welcome(conn net.Conn) {
	h.mu.Lock()
	n := len(h.tcpConns)
	h.mu.Unlock()
	msg := fmt.Sprintf("{\"type\":\"welcome\",\"message\":\"connected\",\"clients\":%d}\n", n)
	_, _ = conn.Write([]byte(msg))
}
