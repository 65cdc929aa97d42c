package ws

import (
	"time"

	"github.com/gorilla/websocket"

	"minesweeper/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	sendBuffer = 256
)

var readyMsg = []byte(`{"type":"ready"}`)

// Client is one websocket subscriber. The stream is one-way; anything the
// peer sends is read only to keep the connection alive.
type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	hub    *Hub
	remote string
}

func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		hub:    hub,
		remote: conn.RemoteAddr().String(),
	}
}

// Run registers the client and blocks until the peer goes away. On a closed
// hub the peer gets the ready message followed by a close frame.
func (c *Client) Run() {
	c.Send <- readyMsg
	c.hub.register(c)
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws read error", "remote", c.remote, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write error", "remote", c.remote, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
