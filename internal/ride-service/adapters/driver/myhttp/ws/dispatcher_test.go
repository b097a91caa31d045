package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/core/domain/model"
	websocketdto "ride-booking/internal/ride-service/core/domain/websocket_dto"
	"ride-booking/internal/ride-service/testutil"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, authTimeout time.Duration) (*Dispatcher, string) {
	t.Helper()
	d := NewDispatcher(mylogger.Discard(), &testutil.Authenticator{}, authTimeout, time.Minute)
	mux := http.NewServeMux()
	mux.Handle("GET /ws/users/{user_id}", d.WsHandler())
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		d.CloseAll()
		srv.Close()
	})
	return d, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendAuth(t *testing.T, conn *websocket.Conn, token string) {
	t.Helper()
	data, _ := json.Marshal(websocketdto.AuthMessage{Token: token})
	if err := conn.WriteJSON(websocketdto.Event{Type: websocketdto.TypeAuth, Data: data}); err != nil {
		t.Fatal(err)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) websocketdto.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var e websocketdto.Event
	if err := conn.ReadJSON(&e); err != nil {
		t.Fatalf("read: %v", err)
	}
	return e
}

func TestRiderReceivesRideUpdates(t *testing.T) {
	d, base := newTestServer(t, time.Second)
	conn := dial(t, base+"/ws/users/5")

	sendAuth(t, conn, "Bearer "+testutil.RiderToken(5))
	if e := readEvent(t, conn); e.Type != websocketdto.TypeAuthOK {
		t.Fatalf("first event = %+v", e)
	}

	driverId := int64(7)
	err := d.Publish(context.Background(), model.RideEvent{
		Type: model.EventRideAccepted, RideId: 11, UserId: 5, DriverId: &driverId, Status: model.StatusAccepted,
	})
	if err != nil {
		t.Fatal(err)
	}
	// not for this rider
	d.Publish(context.Background(), model.RideEvent{Type: model.EventRideCreated, RideId: 12, UserId: 6, Status: model.StatusPending})
	d.Publish(context.Background(), model.RideEvent{Type: model.EventRideStatusChanged, RideId: 11, UserId: 5, DriverId: &driverId, Status: model.StatusStarted})

	first := readEvent(t, conn)
	second := readEvent(t, conn)
	for i, e := range []websocketdto.Event{first, second} {
		if e.Type != websocketdto.TypeRideUpdate {
			t.Fatalf("event %d type = %s", i, e.Type)
		}
	}
	var ev model.RideEvent
	if err := json.Unmarshal(second.Data, &ev); err != nil {
		t.Fatal(err)
	}
	if ev.RideId != 11 || ev.Status != model.StatusStarted {
		t.Errorf("second event = %+v", ev)
	}
}

func TestDriverReceivesOffers(t *testing.T) {
	d, base := newTestServer(t, time.Second)
	conn := dial(t, base+"/ws/users/8")

	sendAuth(t, conn, testutil.DriverToken(8, 3))
	if e := readEvent(t, conn); e.Type != websocketdto.TypeAuthOK {
		t.Fatalf("first event = %+v", e)
	}

	d.Publish(context.Background(), model.RideEvent{Type: model.EventRideCreated, RideId: 20, UserId: 1, Status: model.StatusPending})
	if e := readEvent(t, conn); e.Type != websocketdto.TypeRideOffer {
		t.Fatalf("offer = %+v", e)
	}
}

func TestAuthRejected(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"garbage token", "nope"},
		{"other user", testutil.RiderToken(99)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, base := newTestServer(t, time.Second)
			conn := dial(t, base+"/ws/users/5")

			sendAuth(t, conn, tt.token)
			if e := readEvent(t, conn); e.Type != websocketdto.TypeError {
				t.Fatalf("event = %+v", e)
			}
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			if _, _, err := conn.ReadMessage(); err == nil {
				t.Error("connection still open")
			}
			if d.Count() != 0 {
				t.Errorf("clients = %d", d.Count())
			}
		})
	}
}

func TestAuthTimeout(t *testing.T) {
	_, base := newTestServer(t, 50*time.Millisecond)
	conn := dial(t, base+"/ws/users/5")

	if e := readEvent(t, conn); e.Type != websocketdto.TypeError {
		t.Fatalf("event = %+v", e)
	}
}
