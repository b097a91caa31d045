package myhttp

import (
	"context"
	"testing"
	"time"

	"ride-booking/internal/config"
	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/adapters/driven/consumer"
	"ride-booking/internal/ride-service/testutil"

	"github.com/rabbitmq/amqp091-go"
)

type idleSource struct{}

func (idleSource) ConsumeRideEvents(ctx context.Context) (<-chan amqp091.Delivery, error) {
	return make(chan amqp091.Delivery), nil
}

func TestStopEndsRelayOnLiveContext(t *testing.T) {
	s := NewServer(context.Background(), context.Background(), mylogger.Discard(), &config.Config{})
	consumer.New(s.ctx, &s.wg, s.mylog, idleSource{}, &testutil.EventRecorder{}).Run()

	done := make(chan error, 1)
	go func() {
		done <- s.Stop(context.Background())
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return while the relay was running")
	}
}
