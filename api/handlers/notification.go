package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/crime-report-api/api"
	"github.com/linesmerrill/crime-report-api/models"
	"github.com/linesmerrill/crime-report-api/services"
)

// newNotificationEvent is the event name clients listen for
const newNotificationEvent = "new_notification"

// wsClient serializes writes to one connection
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// NotificationHub tracks the live websocket connections of signed in users and implements
// services.Pusher. A user may hold several connections, one per open tab.
type NotificationHub struct {
	Auth     *api.Authenticator
	upgrader websocket.Upgrader
	clients  map[string]map[*wsClient]struct{}
	mutex    sync.Mutex
}

// NewNotificationHub creates a hub accepting connections from allowedOrigins. An origin of
// "*" accepts any.
func NewNotificationHub(auth *api.Authenticator, allowedOrigins []string) *NotificationHub {
	h := &NotificationHub{
		Auth:    auth,
		clients: make(map[string]map[*wsClient]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// not a browser
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// ServeWS upgrades an authenticated request. Browsers cannot set headers on a websocket
// handshake so the session token comes in the token query param.
func (h *NotificationHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	p, err := h.Auth.PrincipalFromToken(r, r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, "unauthorized", err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade failed", "userId", p.ID.Hex(), "error", err)
		return
	}

	userID := p.ID.Hex()
	c := &wsClient{conn: conn}
	h.register(userID, c)
	zap.S().Infow("websocket connected", "userId", userID)

	// the client only ever reads, so this loop just waits for the close
	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}
	h.unregister(userID, c)
	conn.Close()
	zap.S().Infow("websocket disconnected", "userId", userID)
}

func (h *NotificationHub) register(userID string, c *wsClient) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*wsClient]struct{})
	}
	h.clients[userID][c] = struct{}{}
}

func (h *NotificationHub) unregister(userID string, c *wsClient) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients[userID], c)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// Connections returns the number of live connections of a user
func (h *NotificationHub) Connections(userID string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients[userID])
}

// Push sends n to every connection of the user. Failed connections are dropped.
func (h *NotificationHub) Push(userID primitive.ObjectID, n models.Notification) {
	id := userID.Hex()
	h.mutex.Lock()
	targets := make([]*wsClient, 0, len(h.clients[id]))
	for c := range h.clients[id] {
		targets = append(targets, c)
	}
	h.mutex.Unlock()

	for _, c := range targets {
		err := c.writeJSON(map[string]interface{}{
			"event": newNotificationEvent,
			"data":  n,
		})
		if err != nil {
			zap.S().Warnw("failed to push notification", "userId", id, "error", err)
			h.unregister(id, c)
			c.conn.Close()
		}
	}
}

// Notification exposes the notifications of the caller
type Notification struct {
	Service *services.Notifier
}

// NotificationsHandler lists the caller's notifications, newest first
func (n Notification) NotificationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	notifications, err := n.Service.List(ctx, queryInt(r, "limit"), queryInt(r, "page"))
	if err != nil {
		writeError(w, "failed to list notifications", err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

// MarkReadHandler marks one of the caller's notifications as read
func (n Notification) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := n.Service.MarkRead(ctx, mux.Vars(r)["notification_id"]); err != nil {
		writeError(w, "failed to mark notification as read", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
