package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	PingPeriod = (pongWait * 9) / 10

	maxReadSize = 4096
)

var ErrConnClosed = errors.New("connection closed")

// Conn serializes writes to a single websocket connection.
// gorilla/websocket allows one concurrent writer and one concurrent reader.
type Conn struct {
	conn    *websocket.Conn
	ownerID string
	doneCtx context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	once    sync.Once
}

func NewConn(ctx context.Context, ownerID string, conn *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(ctx)

	return &Conn{
		conn:    conn,
		ownerID: ownerID,
		doneCtx: ctx,
		cancel:  cancel,
	}
}

func (c *Conn) OwnerID() string {
	return c.ownerID
}

// Done is closed once the connection is closed by either side.
func (c *Conn) Done() <-chan struct{} {
	return c.doneCtx.Done()
}

func (c *Conn) Health() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ping()
}

func (c *Conn) Ping() error {
	return c.Health()
}

// ping expects c.mu to be held.
func (c *Conn) ping() error {
	if c.conn == nil {
		return errors.New("connection is nil")
	}

	select {
	case <-c.doneCtx.Done():
		return ErrConnClosed
	default:
	}

	if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// Send writes v as a JSON text frame.
func (c *Conn) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.doneCtx.Done():
		return ErrConnClosed
	default:
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	if err := c.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	return nil
}

// Listen reads frames until the peer goes away, passing each to handler.
// A nil handler discards client frames. The connection is closed on return.
func (c *Conn) Listen(handler func(msg []byte) error) error {
	defer c.Close()

	c.conn.SetReadLimit(maxReadSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read failed: %w", err)
		}
		if handler == nil {
			continue
		}
		if err := handler(data); err != nil {
			return fmt.Errorf("handler failed: %w", err)
		}
	}
}

// Close is safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()

		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		err = c.conn.Close()
	})
	return err
}
