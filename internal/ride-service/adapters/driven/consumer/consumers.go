package consumer

import (
	"context"
	"sync"
	"time"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/adapters/driven/bm"
	"ride-booking/internal/ride-service/core/ports"

	"github.com/rabbitmq/amqp091-go"
)

const retryInterval = 5 * time.Second

// IRideEventSource yields broker deliveries carrying ride events.
type IRideEventSource interface {
	ConsumeRideEvents(ctx context.Context) (<-chan amqp091.Delivery, error)
}

// Relay forwards ride events read from the broker to a local sink, so every
// instance pushes every ride change to its own websocket clients.
type Relay struct {
	ctx    context.Context
	wg     *sync.WaitGroup
	log    mylogger.Logger
	source IRideEventSource
	sink   ports.IRideEventSink
	retry  time.Duration
}

func New(
	ctx context.Context,
	wg *sync.WaitGroup,
	log mylogger.Logger,
	source IRideEventSource,
	sink ports.IRideEventSink,
) *Relay {
	return &Relay{
		ctx:    ctx,
		wg:     wg,
		log:    log,
		source: source,
		sink:   sink,
		retry:  retryInterval,
	}
}

// Run starts the relay in the background. It resubscribes whenever the
// delivery channel closes and stops with the context.
func (r *Relay) Run() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			deliveries, err := r.source.ConsumeRideEvents(r.ctx)
			if err != nil {
				r.log.Action("relay_subscribe").Error("cannot consume ride events", err)
			} else {
				r.work(deliveries)
			}

			select {
			case <-r.ctx.Done():
				return
			case <-time.After(r.retry):
			}
		}
	}()
}

func (r *Relay) work(deliveries <-chan amqp091.Delivery) {
	for {
		select {
		case <-r.ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				r.log.Action("relay").Warn("ride events channel closed")
				return
			}
			event, err := bm.DecodeEvent(d.Body)
			if err != nil {
				r.log.Action("relay").Error("dropping malformed ride event", err, "message-id", d.MessageId)
				continue
			}
			if err := r.sink.Publish(r.ctx, event); err != nil {
				r.log.Action("relay").Warn("cannot deliver ride event", "ride-id", event.RideId, "error", err.Error())
			}
		}
	}
}
