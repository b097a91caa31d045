package bm

import (
	"context"
	"strconv"
	"strings"
	"time"

	"ride-booking/internal/config"
	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/core/domain/model"

	"github.com/segmentio/kafka-go"
)

// Kafka publishes ride events to one topic, keyed by ride id so the events
// of a ride stay in order on one partition.
type Kafka struct {
	mylog   mylogger.Logger
	brokers []string
	writer  *kafka.Writer
}

func NewKafka(cfg config.Kafkaconfig, mylog mylogger.Logger) *Kafka {
	brokers := splitBrokers(cfg.Brokers)
	return &Kafka{
		mylog:   mylog,
		brokers: brokers,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (k *Kafka) Publish(ctx context.Context, event model.RideEvent) error {
	body, err := encodeEvent(event)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.RideId, 10)),
		Value: body,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
			{Key: "routing_key", Value: []byte(RoutingKey(event))},
		},
	})
}

// IsAlive dials the first reachable broker.
func (k *Kafka) IsAlive() bool {
	dialer := &kafka.Dialer{Timeout: 2 * time.Second}
	for _, b := range k.brokers {
		conn, err := dialer.Dial("tcp", b)
		if err != nil {
			continue
		}
		conn.Close()
		return true
	}
	return false
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

func splitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
