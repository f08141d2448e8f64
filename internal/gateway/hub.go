package gateway

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/infosegura/loteria-server/internal/logger"
	"github.com/infosegura/loteria-server/internal/models"
	"github.com/infosegura/loteria-server/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// targeted is a message routed to the subscribers of one room. An empty
// roomID addresses every connected client.
type targeted struct {
	roomID string
	msg    models.WSMessage
}

// Hub maintains the set of active clients, their room subscriptions, and
// routes room-scoped messages to them. It implements services.Broadcaster
// so the room service and the card caller can push updates without knowing
// about connections.
type Hub struct {
	log        logger.Logger
	rooms      services.RoomServicer
	caller     services.CallerServicer
	clients    map[*Client]bool
	byRoom     map[string]map[*Client]bool
	roomOf     map[*Client]string
	broadcast  chan targeted
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

// Client is a middleman between the websocket connection and the hub. Once
// a joinRoom succeeds the client carries its room and player binding; every
// later event uses it.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan models.WSMessage

	mu         sync.Mutex
	roomID     string
	playerName string
}

func (c *Client) binding() (roomID, playerName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID, c.playerName
}

func (c *Client) bind(roomID, playerName string) {
	c.mu.Lock()
	c.roomID = roomID
	c.playerName = playerName
	c.mu.Unlock()
}

// New creates a new Hub instance with injected dependencies
func New(log logger.Logger, rooms services.RoomServicer, caller services.CallerServicer) *Hub {
	return &Hub{
		log:        log,
		rooms:      rooms,
		caller:     caller,
		clients:    make(map[*Client]bool),
		byRoom:     make(map[string]map[*Client]bool),
		roomOf:     make(map[*Client]string),
		broadcast:  make(chan targeted),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Start begins the hub's main loop in a goroutine
func (h *Hub) Start() {
	go h.run()
}

// run handles client registration/unregistration and message routing
func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client connected", "total_clients", total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.dropSubscription(client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client disconnected", "total_clients", total)

		case t := <-h.broadcast:
			h.mutex.RLock()
			targets := h.clients
			if t.roomID != "" {
				targets = h.byRoom[t.roomID]
			}
			for client := range targets {
				select {
				case client.send <- t.msg:
				default:
					// Client's send channel is full, unregister
					go func(c *Client) {
						h.unregister <- c
					}(client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// subscribe adds the client to a room's routing set, moving it out of any
// previous room first
func (h *Hub) subscribe(client *Client, roomID string) {
	h.mutex.Lock()
	h.dropSubscription(client)
	set, ok := h.byRoom[roomID]
	if !ok {
		set = make(map[*Client]bool)
		h.byRoom[roomID] = set
	}
	set[client] = true
	h.roomOf[client] = roomID
	h.mutex.Unlock()
}

// unsubscribe removes the client from its room's routing set
func (h *Hub) unsubscribe(client *Client) {
	h.mutex.Lock()
	h.dropSubscription(client)
	h.mutex.Unlock()
}

// dropSubscription removes the client from byRoom. The subscribed room is
// tracked hub-side in roomOf: the client's binding may already point at a
// new room by the time this runs. Caller holds h.mutex.
func (h *Hub) dropSubscription(client *Client) {
	roomID, ok := h.roomOf[client]
	if !ok {
		return
	}
	delete(h.roomOf, client)
	if set, ok := h.byRoom[roomID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.byRoom, roomID)
		}
	}
}

// BroadcastToRoom sends a message to every client subscribed to roomID
func (h *Hub) BroadcastToRoom(roomID, msgType string, payload interface{}) {
	h.broadcast <- targeted{
		roomID: roomID,
		msg:    models.WSMessage{Type: msgType, Payload: payload},
	}
}

// RoomUpdated implements services.Broadcaster
func (h *Hub) RoomUpdated(roomID string, room *models.Room) {
	h.BroadcastToRoom(roomID, "roomUpdated", map[string]interface{}{
		"room": room,
	})
}

// GameUpdated implements services.Broadcaster
func (h *Hub) GameUpdated(roomID string, state *models.GameState) {
	h.BroadcastToRoom(roomID, "gameUpdated", map[string]interface{}{
		"gameState": state,
	})
}

// PlayerLeft implements services.Broadcaster
func (h *Hub) PlayerLeft(roomID, playerName string) {
	h.BroadcastToRoom(roomID, "playerLeft", map[string]interface{}{
		"playerName": playerName,
	})
}

// RoomClosed implements services.Broadcaster. Subscribers are told and
// their bindings cleared; the connections stay open for a fresh join.
func (h *Hub) RoomClosed(roomID string) {
	h.BroadcastToRoom(roomID, "roomClosed", map[string]interface{}{
		"roomId": roomID,
	})

	h.mutex.Lock()
	for client := range h.byRoom[roomID] {
		client.bind("", "")
		delete(h.roomOf, client)
	}
	delete(h.byRoom, roomID)
	h.mutex.Unlock()
}

// sendTo queues a message for a single client, dropping it if the client
// cannot keep up
func (h *Hub) sendTo(client *Client, msgType string, payload interface{}) {
	select {
	case client.send <- models.WSMessage{Type: msgType, Payload: payload}:
	default:
		go func() {
			h.unregister <- client
		}()
	}
}

// readPump pumps messages from the websocket connection to the dispatcher
func (c *Client) readPump() {
	defer func() {
		c.hub.handleDisconnect(c)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		var msg inboundMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.hub.log.Debug("Dropping unparseable message", "error", err)
			continue
		}
		c.hub.dispatch(c, msg)
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			msgBytes, _ := json.Marshal(message)
			w.Write(msgBytes)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs handles websocket requests from clients
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan models.WSMessage, 256),
	}
	h.register <- client

	// Allow collection of memory referenced by the caller by doing all work in new goroutines
	go client.writePump()
	go client.readPump()
}
