package notification

import (
	"context"
	"errors"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/core/domain/model"
	"ride-booking/internal/ride-service/core/ports"
)

// Notification fans a ride event out to every sink. A failing sink does not
// stop delivery to the others.
type Notification struct {
	log   mylogger.Logger
	sinks []ports.IRideEventSink
}

func New(log mylogger.Logger, sinks ...ports.IRideEventSink) *Notification {
	n := &Notification{log: log}
	for _, s := range sinks {
		if s != nil {
			n.sinks = append(n.sinks, s)
		}
	}
	return n
}

func (n *Notification) Publish(ctx context.Context, event model.RideEvent) error {
	var errs []error
	for _, s := range n.sinks {
		if err := s.Publish(ctx, event); err != nil {
			n.log.Action("notify").Warn("sink rejected ride event", "ride-id", event.RideId, "type", event.Type, "error", err.Error())
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
