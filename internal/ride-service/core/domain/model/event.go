package model

import "time"

const (
	EventRideCreated       = "ride.created"
	EventRideAccepted      = "ride.accepted"
	EventRideStatusChanged = "ride.status_changed"
)

// RideEvent is published after a lifecycle change has been committed.
type RideEvent struct {
	EventId    string     `json:"eventId"`
	Type       string     `json:"type"`
	RideId     int64      `json:"rideId"`
	UserId     int64      `json:"userId"`
	DriverId   *int64     `json:"driverId,omitempty"`
	Status     RideStatus `json:"status"`
	PrevStatus RideStatus `json:"prevStatus,omitempty"`
	OccurredAt time.Time  `json:"occurredAt"`
}
