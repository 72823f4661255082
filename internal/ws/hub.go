package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	broadcastBuffer = 256
	writeTimeout    = 5 * time.Second
)

// Subscription binds a websocket connection to the store whose events it
// receives.
type Subscription struct {
	StoreID uuid.UUID
	Conn    *websocket.Conn
}

type message struct {
	storeID uuid.UUID
	data    []byte
}

// Hub fans events out to the connections of a single store. Publish never
// blocks; events are dropped when the buffer is full.
type Hub struct {
	clients    map[uuid.UUID]map[*websocket.Conn]bool
	Register   chan Subscription
	Unregister chan Subscription
	broadcast  chan message
	mutex      sync.Mutex
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*websocket.Conn]bool),
		Register:   make(chan Subscription),
		Unregister: make(chan Subscription),
		broadcast:  make(chan message, broadcastBuffer),
		log:        log.With().Str("component", "ws_hub").Logger(),
	}
}

// Run processes registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case sub := <-h.Register:
			h.mutex.Lock()
			conns, ok := h.clients[sub.StoreID]
			if !ok {
				conns = make(map[*websocket.Conn]bool)
				h.clients[sub.StoreID] = conns
			}
			conns[sub.Conn] = true
			h.mutex.Unlock()
			h.log.Debug().Str("store_id", sub.StoreID.String()).Msg("ws client connected")

		case sub := <-h.Unregister:
			h.mutex.Lock()
			h.remove(sub.StoreID, sub.Conn)
			h.mutex.Unlock()

		case msg := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients[msg.storeID] {
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, msg.data); err != nil {
					h.remove(msg.storeID, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// remove must be called with the mutex held.
func (h *Hub) remove(storeID uuid.UUID, conn *websocket.Conn) {
	conns, ok := h.clients[storeID]
	if !ok {
		return
	}
	if _, ok := conns[conn]; ok {
		delete(conns, conn)
		conn.Close()
	}
	if len(conns) == 0 {
		delete(h.clients, storeID)
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for storeID, conns := range h.clients {
		for conn := range conns {
			conn.Close()
		}
		delete(h.clients, storeID)
	}
}

// Clients returns the number of connections subscribed to storeID.
func (h *Hub) Clients(storeID uuid.UUID) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients[storeID])
}

// Publish encodes payload as JSON and queues it for the store's connections.
func (h *Hub) Publish(storeID uuid.UUID, payload map[string]interface{}) {
	if h == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Msg("encode ws event")
		return
	}
	select {
	case h.broadcast <- message{storeID: storeID, data: data}:
	default:
		h.log.Warn().Str("store_id", storeID.String()).Interface("type", payload["type"]).Msg("ws broadcast buffer full, event dropped")
	}
}
