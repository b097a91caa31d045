package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/core/domain/model"
	websocketdto "ride-booking/internal/ride-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
)

var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ITokenParser turns the token of the auth frame into the caller's identity.
type ITokenParser interface {
	ParseToken(token string) (model.Principal, error)
}

// ClientList is a map used to help manage a map of clients
type ClientList map[*Client]bool

// Dispatcher keeps the authenticated websocket clients and pushes ride
// events to them. It is a ride event sink.
type Dispatcher struct {
	clients ClientList
	sync.RWMutex
	log         mylogger.Logger
	tokens      ITokenParser
	authTimeout time.Duration
	pingPeriod  time.Duration
}

func NewDispatcher(log mylogger.Logger, tokens ITokenParser, authTimeout, pingPeriod time.Duration) *Dispatcher {
	if authTimeout <= 0 {
		authTimeout = 5 * time.Second
	}
	if pingPeriod <= 0 {
		pingPeriod = 30 * time.Second
	}
	return &Dispatcher{
		clients:     make(ClientList),
		log:         log,
		tokens:      tokens,
		authTimeout: authTimeout,
		pingPeriod:  pingPeriod,
	}
}

// WsHandler upgrades GET /ws/users/{user_id}. The first frame must be
// {"type":"auth","data":{"token":"..."}} for that user, sent within the auth
// timeout; otherwise the connection is closed.
func (d *Dispatcher) WsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := d.log.Action("wsHandler")

		userId, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
		if err != nil || userId <= 0 {
			http.Error(w, "invalid user_id", http.StatusBadRequest)
			return
		}

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		p, err := d.authenticate(conn, userId)
		if err != nil {
			log.Warn("websocket auth failed", "user-id", userId, "reason", err.Error())
			writeEvent(conn, websocketdto.TypeError, websocketdto.ErrorMessage{Message: err.Error()})
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "authentication failed"),
				time.Now().Add(time.Second))
			conn.Close()
			return
		}

		client := NewClient(conn, d, p)
		d.AddClient(client)
		client.send(websocketdto.Event{Type: websocketdto.TypeAuthOK})
		log.Info("websocket client connected", "user-id", p.UserId, "driver-id", p.DriverId)

		go client.WriteMessage()
		go client.ReadMessage()
	}
}

func (d *Dispatcher) authenticate(conn *websocket.Conn, userId int64) (model.Principal, error) {
	conn.SetReadDeadline(time.Now().Add(d.authTimeout))
	defer conn.SetReadDeadline(time.Time{})

	var e websocketdto.Event
	if err := conn.ReadJSON(&e); err != nil {
		return model.Principal{}, errors.New("expected an auth message")
	}
	if e.Type != websocketdto.TypeAuth {
		return model.Principal{}, errors.New("first message must be auth")
	}

	var msg websocketdto.AuthMessage
	if err := json.Unmarshal(e.Data, &msg); err != nil {
		return model.Principal{}, errors.New("malformed auth message")
	}
	p, err := d.tokens.ParseToken(strings.TrimPrefix(msg.Token, "Bearer "))
	if err != nil {
		return model.Principal{}, err
	}
	if p.UserId != userId {
		return model.Principal{}, errors.New("token does not belong to this user")
	}
	return p, nil
}

func (d *Dispatcher) AddClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	d.clients[client] = true
}

func (d *Dispatcher) RemoveClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	if _, ok := d.clients[client]; ok {
		delete(d.clients, client)
		client.close()
	}
}

// Publish pushes a ride status update to the rider and the assigned driver.
// A new ride is also offered to every connected driver.
func (d *Dispatcher) Publish(ctx context.Context, event model.RideEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	update := websocketdto.Event{Type: websocketdto.TypeRideUpdate, Data: data}
	offer := websocketdto.Event{Type: websocketdto.TypeRideOffer, Data: data}

	d.RLock()
	defer d.RUnlock()

	for c := range d.clients {
		switch {
		case c.principal.UserId == event.UserId:
			c.send(update)
		case c.principal.IsDriver() && event.DriverId != nil && *event.DriverId == c.principal.DriverId:
			c.send(update)
		case c.principal.IsDriver() && event.Type == model.EventRideCreated:
			c.send(offer)
		}
	}
	return nil
}

// Count returns the number of authenticated clients.
func (d *Dispatcher) Count() int {
	d.RLock()
	defer d.RUnlock()
	return len(d.clients)
}

// CloseAll disconnects every client.
func (d *Dispatcher) CloseAll() {
	d.Lock()
	defer d.Unlock()

	for c := range d.clients {
		delete(d.clients, c)
		c.close()
	}
}

func writeEvent(conn *websocket.Conn, kind string, payload any) {
	data, _ := json.Marshal(payload)
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteJSON(websocketdto.Event{Type: kind, Data: data})
}
