package model

import "time"

type Ride struct {
	RideId      int64      `json:"rideId"`
	UserId      int64      `json:"userId"`
	DriverId    *int64     `json:"driverId"`
	Pickup      string     `json:"pickup"`
	Destination string     `json:"destination"`
	Fare        Fare       `json:"fare"`
	Status      RideStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// HasDriver reports whether the ride has been claimed.
func (r Ride) HasDriver() bool {
	return r.DriverId != nil
}

// RideDetails is a ride with the projection of the driver holding it.
type RideDetails struct {
	Ride
	DriverDetails *DriverDetails `json:"driverDetails"`
}

type DriverDetails struct {
	DriverId  int64       `json:"driverId"`
	CarModel  string      `json:"carModel"`
	LicenseNo string      `json:"licenseNo"`
	User      *DriverUser `json:"user"`
}

type DriverUser struct {
	UserId   int64  `json:"userId"`
	FullName string `json:"fullName"`
	MobileNo string `json:"mobileNo"`
}

// RideSummary is a list row joined with rider and driver display names.
type RideSummary struct {
	RideId      int64      `json:"rideId"`
	UserId      int64      `json:"userId"`
	DriverId    *int64     `json:"driverId"`
	Pickup      string     `json:"pickup"`
	Destination string     `json:"destination"`
	Fare        Fare       `json:"fare"`
	Status      RideStatus `json:"status"`
	UserName    string     `json:"userName"`
	DriverName  *string    `json:"driverName"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// RideFilter narrows a ride listing; zero fields are ignored.
type RideFilter struct {
	UserId   int64
	DriverId int64
}
