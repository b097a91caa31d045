package notification

import (
	"context"
	"errors"
	"testing"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/core/domain/model"
	"ride-booking/internal/ride-service/testutil"
)

func TestFanOut(t *testing.T) {
	broken := &testutil.EventRecorder{Err: errors.New("down")}
	ok := &testutil.EventRecorder{}
	n := New(mylogger.Discard(), broken, nil, ok)

	err := n.Publish(context.Background(), model.RideEvent{RideId: 1, Type: model.EventRideCreated})
	if err == nil || !errors.Is(err, broken.Err) {
		t.Fatalf("err = %v", err)
	}
	if len(ok.Events()) != 1 || len(broken.Events()) != 1 {
		t.Errorf("deliveries: ok=%d broken=%d", len(ok.Events()), len(broken.Events()))
	}
}

func TestNoSinks(t *testing.T) {
	if err := New(mylogger.Discard()).Publish(context.Background(), model.RideEvent{RideId: 1}); err != nil {
		t.Fatal(err)
	}
}
