package dto

import "ride-booking/internal/ride-service/core/domain/model"

// API Transfer data

type CreateRideRequest struct {
	UserId      int64       `json:"userId"`
	Pickup      string      `json:"pickup"`
	Destination string      `json:"destination"`
	Fare        *model.Fare `json:"fare"`
	Status      *string     `json:"status"`
	RideStatus  *string     `json:"rideStatus"`
}

// RequestedStatus returns the optional initial status, whichever key carried it.
func (r CreateRideRequest) RequestedStatus() *string {
	if r.Status != nil {
		return r.Status
	}
	return r.RideStatus
}

type CreateRideResponse struct {
	Message string `json:"message"`
	RideId  int64  `json:"rideId"`
}

type AcceptRideRequest struct {
	DriverId int64 `json:"driverId"`
}

type UpdateStatusRequest struct {
	Status     string `json:"status"`
	RideStatus string `json:"rideStatus"`
}

func (r UpdateStatusRequest) Requested() string {
	if r.Status != "" {
		return r.Status
	}
	return r.RideStatus
}

type RideResponse struct {
	Ride model.RideDetails `json:"ride"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// RideActionResponse answers accept and status changes with the ride as stored.
type RideActionResponse struct {
	Message string     `json:"message"`
	Ride    model.Ride `json:"ride"`
}
