package ws

import (
	"sync"
	"time"

	"ride-booking/internal/ride-service/core/domain/model"
	websocketdto "ride-booking/internal/ride-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	egressSize = 16
)

type Client struct {
	conn      *websocket.Conn
	dis       *Dispatcher
	egress    chan websocketdto.Event
	principal model.Principal
	done      chan struct{}
	once      sync.Once
}

func NewClient(conn *websocket.Conn, dis *Dispatcher, p model.Principal) *Client {
	return &Client{
		conn:      conn,
		dis:       dis,
		egress:    make(chan websocketdto.Event, egressSize),
		principal: p,
		done:      make(chan struct{}),
	}
}

// send queues an event without blocking; a client that cannot keep up loses it.
func (c *Client) send(e websocketdto.Event) {
	select {
	case c.egress <- e:
	case <-c.done:
	default:
		c.dis.log.Action("wsSend").Warn("client queue full, dropping event", "user-id", c.principal.UserId, "type", e.Type)
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
	})
}

// ReadMessage drains incoming frames so pongs and close frames are handled.
func (c *Client) ReadMessage() {
	defer c.dis.RemoveClient(c)

	c.conn.SetReadLimit(1024)
	pongWait := c.dis.pingPeriod * 2
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.dis.log.Action("wsRead").Warn("websocket closed unexpectedly", "user-id", c.principal.UserId, "error", err.Error())
			}
			return
		}
	}
}

func (c *Client) WriteMessage() {
	ticker := time.NewTicker(c.dis.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case event := <-c.egress:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				c.dis.RemoveClient(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.dis.RemoveClient(c)
				return
			}
		}
	}
}
