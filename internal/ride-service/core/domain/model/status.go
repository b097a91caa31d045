package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type RideStatus string

const (
	StatusPending   RideStatus = "Pending"
	StatusAccepted  RideStatus = "Accepted"
	StatusStarted   RideStatus = "Started"
	StatusCompleted RideStatus = "Completed"
	StatusCancelled RideStatus = "Cancelled"
)

var rideStatuses = []RideStatus{
	StatusPending,
	StatusAccepted,
	StatusStarted,
	StatusCompleted,
	StatusCancelled,
}

// lifecycle lists the edges a ride may follow through SetStatus.
// Pending -> Accepted is only reachable through a claim.
var lifecycle = map[RideStatus][]RideStatus{
	StatusPending:  {StatusCancelled},
	StatusAccepted: {StatusStarted, StatusCancelled},
	StatusStarted:  {StatusCompleted, StatusCancelled},
}

func RideStatuses() []RideStatus {
	out := make([]RideStatus, len(rideStatuses))
	copy(out, rideStatuses)
	return out
}

// NormalizeStatus capitalizes the first letter and lowercases the rest,
// so "completed", "COMPLETED" and " Completed " all become "Completed".
func NormalizeStatus(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// ParseRideStatus normalizes s and checks it against the known statuses.
func ParseRideStatus(s string) (RideStatus, bool) {
	n := RideStatus(NormalizeStatus(s))
	for _, st := range rideStatuses {
		if st == n {
			return st, true
		}
	}
	return "", false
}

func (s RideStatus) String() string {
	return string(s)
}

func (s RideStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// HoldsDriver reports whether a driver attached to a ride in this status is busy.
func (s RideStatus) HoldsDriver() bool {
	return s == StatusAccepted || s == StatusStarted
}

// CanTransitionTo reports whether next is a lifecycle edge from s.
func (s RideStatus) CanTransitionTo(next RideStatus) bool {
	for _, st := range lifecycle[s] {
		if st == next {
			return true
		}
	}
	return false
}
