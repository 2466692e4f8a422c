package ws

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"hrportal/internal/domain/notifications"
)

var errClientClosed = errors.New("websocket client closed")

// client is one upgraded connection. It satisfies notifications.Conn; writes
// are serialized because gorilla allows a single concurrent writer.
type client struct {
	id           string
	userID       string
	departmentID string
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu        sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, userID, departmentID string, writeTimeout time.Duration) *client {
	return &client{
		id:           uuid.NewString(),
		userID:       userID,
		departmentID: departmentID,
		conn:         conn,
		writeTimeout: writeTimeout,
		done:         make(chan struct{}),
	}
}

func (c *client) Send(ctx context.Context, msg notifications.Message) error {
	select {
	case <-c.done:
		return errClientClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(c.deadline(ctx)); err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

func (c *client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		return d
	}
	return deadline
}

func (c *client) ping() error {
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout))
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.writeTimeout),
		)
		_ = c.conn.Close()
	})
}
