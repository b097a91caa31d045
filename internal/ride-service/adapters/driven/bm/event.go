package bm

import (
	"encoding/json"
	"fmt"
	"strings"

	"ride-booking/internal/ride-service/core/domain/model"
)

// RoutingKey is "ride.status.<status>", e.g. "ride.status.accepted".
func RoutingKey(event model.RideEvent) string {
	return "ride.status." + strings.ToLower(event.Status.String())
}

func encodeEvent(event model.RideEvent) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode ride event: %w", err)
	}
	return body, nil
}

// DecodeEvent parses a message body produced by either publisher.
func DecodeEvent(body []byte) (model.RideEvent, error) {
	var event model.RideEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return model.RideEvent{}, fmt.Errorf("decode ride event: %w", err)
	}
	if event.RideId == 0 || event.Type == "" {
		return model.RideEvent{}, fmt.Errorf("decode ride event: missing ride id or type")
	}
	return event, nil
}
