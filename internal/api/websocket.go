package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local ops dashboard only; not a gameplay endpoint
	},
}

// TickSummary is the payload broadcast to the debug tick stream after
// every think() call, strictly additive, ops-only telemetry, never
// part of the client gameplay contract.
type TickSummary struct {
	Tick         int64 `json:"tick"`
	ElapsedMs    int64 `json:"elapsedMs"`
	RetiredCount int   `json:"retiredCount"`
	SessionCount int   `json:"sessionCount"`
}

// Hub fans tick summaries out to every connected websocket client. A
// disabled dashboard (no subscriber ever connects) changes no
// client-visible gameplay behavior.
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	mutex     sync.Mutex
	tick      atomic.Int64
}

// NewHub creates an idle hub; Run must be started in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		broadcast: make(chan []byte, 256),
		clients:   make(map[*websocket.Conn]bool),
	}
}

// Run drains the broadcast channel until it is closed (never, in
// practice, the hub lives for the process lifetime).
func (h *Hub) Run() {
	for message := range h.broadcast {
		h.mutex.Lock()
		for client := range h.clients {
			_ = client.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
				client.Close()
				delete(h.clients, client)
			}
		}
		h.mutex.Unlock()
	}
}

// Subscribe upgrades a request to a websocket connection and adds it to
// the fan-out set.
func (h *Hub) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("tick stream: upgrade failed: %v", err)
		return
	}

	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()

	go func() {
		defer func() {
			h.mutex.Lock()
			delete(h.clients, conn)
			h.mutex.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// BroadcastTick stamps summary with the next tick number, encodes it,
// and fans it out to every subscriber. Safe to call with zero
// subscribers; the message is simply dropped.
func (h *Hub) BroadcastTick(summary TickSummary) {
	summary.Tick = h.tick.Add(1)
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
		// A stalled Run loop (or an unbuffered burst) drops the summary
		// rather than blocking the strand's tick callback.
	}
}
