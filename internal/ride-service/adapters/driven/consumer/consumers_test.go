package consumer

import (
	"context"
	"sync"
	"testing"
	"time"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/testutil"

	"github.com/rabbitmq/amqp091-go"
)

type fakeSource struct {
	mu    sync.Mutex
	calls int
	ch    chan amqp091.Delivery
}

func (f *fakeSource) ConsumeRideEvents(ctx context.Context) (<-chan amqp091.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.ch, nil
}

func TestRelayForwardsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &fakeSource{ch: make(chan amqp091.Delivery, 3)}
	sink := &testutil.EventRecorder{}
	wg := &sync.WaitGroup{}

	r := New(ctx, wg, mylogger.Discard(), src, sink)
	r.retry = 10 * time.Millisecond
	r.Run()

	src.ch <- amqp091.Delivery{Body: []byte(`{"type":"ride.created","rideId":5,"userId":1,"status":"Pending"}`)}
	src.ch <- amqp091.Delivery{Body: []byte(`garbage`)}
	src.ch <- amqp091.Delivery{Body: []byte(`{"type":"ride.accepted","rideId":5,"userId":1,"status":"Accepted"}`)}

	deadline := time.Now().Add(2 * time.Second)
	for len(sink.Events()) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	wg.Wait()

	events := sink.Events()
	if len(events) != 2 || events[0].Type != "ride.created" || events[1].Status != "Accepted" {
		t.Fatalf("events = %+v", events)
	}
}
