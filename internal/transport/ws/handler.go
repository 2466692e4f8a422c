package ws

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"hrportal/internal/domain/notifications"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
)

const maxInboundMessageBytes = 4096

type Options struct {
	PingInterval time.Duration
	WriteTimeout time.Duration
	// AllowedOrigins lists exact Origin values accepted on the handshake. Empty
	// means same host only.
	AllowedOrigins []string
}

// Handler upgrades authenticated requests and keeps each socket registered for
// as long as it stays open. Inbound frames are read only to detect closure.
type Handler struct {
	registry *notifications.Registry
	opts     Options
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHandler(registry *notifications.Registry, opts Options) *Handler {
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	h := &Handler{registry: registry, opts: opts, clients: map[*client]struct{}{}}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if strings.EqualFold(strings.TrimSpace(allowed), origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Unauthorized(w, middleware.GetRequestID(r.Context()))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "userId", user.UserID, "err", err)
		return
	}

	c := newClient(conn, user.UserID, user.DepartmentID, h.opts.WriteTimeout)
	h.track(c)
	h.registry.Register(c, c.userID, c.departmentID)
	slog.Info("websocket connected", "clientId", c.id, "userId", c.userID, "departmentId", c.departmentID)

	defer func() {
		h.registry.Unregister(c, c.userID, c.departmentID)
		h.untrack(c)
		c.close()
		slog.Info("websocket disconnected", "clientId", c.id, "userId", c.userID)
	}()

	go h.heartbeat(c)
	h.readLoop(c)
}

func (h *Handler) readLoop(c *client) {
	pongWait := 2 * h.opts.PingInterval
	c.conn.SetReadLimit(maxInboundMessageBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket read failed", "clientId", c.id, "err", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (h *Handler) heartbeat(c *client) {
	ticker := time.NewTicker(h.opts.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				slog.Warn("websocket ping failed", "clientId", c.id, "err", err)
				_ = c.conn.Close()
				return
			}
		}
	}
}

func (h *Handler) track(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Handler) untrack(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// CloseAll closes every open socket. Hijacked connections are not covered by
// http.Server.Shutdown.
func (h *Handler) CloseAll() {
	h.mu.Lock()
	open := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		open = append(open, c)
	}
	h.mu.Unlock()
	for _, c := range open {
		c.close()
	}
}
