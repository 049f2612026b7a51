package handlers

import (
	"net/http"
	"strings"
	"sync"
	"time"

	jwtutil "github.com/Dias221467/Habit_Manager/pkg/jwt"
	"github.com/Dias221467/Habit_Manager/pkg/logger"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	EventAchievementUnlocked = "achievement_unlocked"
	EventCycleCompleted      = "cycle_completed"

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Event is pushed to every open connection of a user.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type client struct {
	id     string
	userID string
	conn   *websocket.Conn
	send   chan Event
}

// EventHub keeps the open WebSocket connections per user.
type EventHub struct {
	JWTSecret string
	JWTIssuer string

	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[string]map[*client]bool
}

func NewEventHub(jwtSecret, jwtIssuer string, allowedOrigins []string) *EventHub {
	h := &EventHub{
		JWTSecret: jwtSecret,
		JWTIssuer: jwtIssuer,
		clients:   make(map[string]map[*client]bool),
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
	return h
}

// Publish queues ev for every connection of userID. Slow connections drop events.
func (h *EventHub) Publish(userID string, ev Event) {
	if h == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients[userID] {
		select {
		case c.send <- ev:
		default:
			logger.Log.WithField("client_id", c.id).Warn("Dropping event for slow WebSocket client")
		}
	}
}

// Connections returns how many connections userID has open.
func (h *EventHub) Connections(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

func (h *EventHub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]bool)
	}
	h.clients[c.userID][c] = true
}

func (h *EventHub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[c.userID]; ok && conns[c] {
		delete(conns, c)
		close(c.send)
		if len(conns) == 0 {
			delete(h.clients, c.userID)
		}
	}
}

// EventsWebSocketHandler upgrades GET /ws. Browsers cannot set headers on a
// WebSocket handshake, so the token may also come from ?token=.
func (h *EventHub) EventsWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	claims, err := jwtutil.ValidateToken(token, h.JWTSecret, h.JWTIssuer)
	if err != nil {
		logger.Log.WithError(err).Warn("WebSocket auth failed")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		logger.Log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	c := &client{
		id:     uuid.NewString(),
		userID: claims.UserID,
		conn:   conn,
		send:   make(chan Event, sendBuffer),
	}
	h.register(c)

	fields := logrus.Fields{"user_id": c.userID, "client_id": c.id}
	logger.Log.WithFields(fields).Info("WebSocket connected")

	go c.writePump()
	c.readPump()

	h.unregister(c)
	logger.Log.WithFields(fields).Info("WebSocket disconnected")
}

// readPump discards client messages and returns when the connection closes.
func (c *client) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
