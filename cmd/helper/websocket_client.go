package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"ride-booking/internal/mylogger"
	websocketdto "ride-booking/internal/ride-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
)

type WebSocketClient struct {
	conn   *websocket.Conn
	ctx    context.Context
	logger mylogger.Logger
}

func NewWebSocketClient(ctx context.Context, logger mylogger.Logger) *WebSocketClient {
	return &WebSocketClient{
		ctx:    ctx,
		logger: logger,
	}
}

// wsURL turns the http base URL into the websocket URL for path.
func wsURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = path
	return u.String(), nil
}

// Connect dials the server and sends the auth frame. It returns once the
// server has answered auth_ok.
func (w *WebSocketClient) Connect(url, token string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(w.ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connecting to websocket: %w", err)
	}
	w.conn = conn

	data, _ := json.Marshal(websocketdto.AuthMessage{Token: token})
	if err := conn.WriteJSON(websocketdto.Event{Type: websocketdto.TypeAuth, Data: data}); err != nil {
		conn.Close()
		return fmt.Errorf("sending auth: %w", err)
	}

	var reply websocketdto.Event
	if err := conn.ReadJSON(&reply); err != nil {
		conn.Close()
		return fmt.Errorf("reading auth reply: %w", err)
	}
	if reply.Type != websocketdto.TypeAuthOK {
		var msg websocketdto.ErrorMessage
		_ = json.Unmarshal(reply.Data, &msg)
		conn.Close()
		return fmt.Errorf("auth rejected: %s", msg.Message)
	}

	w.logger.Info("WebSocket connected", "url", url)
	return nil
}

func (w *WebSocketClient) Close() error {
	if w.conn != nil {
		return w.conn.Close()
	}
	return nil
}

// ReadEvents calls handler for every event until the connection fails or
// the context is cancelled.
func (w *WebSocketClient) ReadEvents(handler func(websocketdto.Event) error) error {
	go func() {
		<-w.ctx.Done()
		w.conn.Close()
	}()

	for {
		var e websocketdto.Event
		if err := w.conn.ReadJSON(&e); err != nil {
			if w.ctx.Err() != nil {
				w.logger.Info("Read loop stopped: context cancelled")
				return nil
			}
			return fmt.Errorf("reading message: %w", err)
		}

		if err := handler(e); err != nil {
			w.logger.Error("Error handling message", err, "type", e.Type)
		}
	}
}
