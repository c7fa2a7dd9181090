package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"sketchguess/internal/app"
	"sketchguess/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Router is what a client needs from the event router
type Router interface {
	Register(conn app.Connection)
	Dispatch(connID string, msgType domain.EventType, raw json.RawMessage)
	Disconnect(connID string)
}

// Client represents a WebSocket client connection
type Client struct {
	id      string
	conn    *websocket.Conn
	router  Router
	creates *rate.Limiter
	send    chan []byte
	done    chan struct{}
	logger  *slog.Logger
	mu      sync.Mutex
	closed  bool
}

// NewClient creates a new WebSocket client
func NewClient(id string, conn *websocket.Conn, router Router, creates *rate.Limiter, logger *slog.Logger) *Client {
	return &Client{
		id:      id,
		conn:    conn,
		router:  router,
		creates: creates,
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
		logger:  logger.With("connID", id),
	}
}

// ID implements app.Connection
func (c *Client) ID() string {
	return c.id
}

// ErrSendBufferFull is returned when a peer falls so far behind that its
// buffer fills. The connection is closed rather than left with a partial
// drawing or a missing round:start.
var ErrSendBufferFull = errors.New("send buffer full")

// Send implements app.Connection. It never blocks.
func (c *Client) Send(msg *app.OutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, closing slow connection", "type", msg.Type)
		c.closeLocked()
		return ErrSendBufferFull
	}
}

// Close implements app.Connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run registers the client and runs its pumps until the connection ends
func (c *Client) Run() {
	c.router.Register(c)
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection. Messages are
// dispatched one at a time, so a connection's events are applied in the
// order it sent them.
func (c *Client) readPump() {
	defer func() {
		c.router.Disconnect(c.id)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection.
// Each message is written as its own text frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug("websocket write error", "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage decodes the envelope and hands the event to the router
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.logger.Debug("dropping message", "error", fmt.Errorf("%w: %v", domain.ErrInvalidMessage, err))
		c.sendError(app.MsgInvalidMessage)
		return
	}

	switch msg.Type {
	case MsgPing:
		c.Send(app.NewOutboundMessage(MsgPong, nil))
		return
	case domain.EventRoomCreate:
		if c.creates != nil && !c.creates.Allow() {
			c.logger.Warn("dropping message", "type", msg.Type, "error", domain.ErrRateLimited)
			c.sendError(app.MsgRateLimited)
			return
		}
	}

	c.router.Dispatch(c.id, msg.Type, msg.Payload)
}

// sendError sends a room:error to this client only
func (c *Client) sendError(message string) {
	c.Send(app.NewOutboundMessage(domain.EventRoomError, &domain.ErrorPayload{Message: message}))
}
