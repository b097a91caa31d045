package ports

import (
	"context"

	"ride-booking/internal/ride-service/core/domain/model"
)

// IRideEventSink receives committed ride events: a message broker, the
// websocket hub, or a fan-out of several.
type IRideEventSink interface {
	Publish(ctx context.Context, event model.RideEvent) error
}

type IRidesBroker interface {
	IRideEventSink
	IsAlive() bool
	Close() error
}
