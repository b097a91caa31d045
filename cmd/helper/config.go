package main

import "time"

// Pacing of the simulated driver.
const (
	DefaultDriveTime    = 5 * time.Second
	HTTPRequestDelay    = 200 * time.Millisecond
	InitialConnectDelay = 1 * time.Second
	ReconnectDelay      = 3 * time.Second
)

// API endpoints
const (
	DefaultBaseURL = "http://localhost:5000"
	LoginPath      = "/drivers/login"
	AcceptPath     = "/rides/%d/accept"
	StatusPath     = "/rides/%d/status"
	AvailablePath  = "/drivers/%d/availability"
	WSUserPath     = "/ws/users/%d"
)

type Config struct {
	BaseURL   string
	Login     string
	Password  string
	DriveTime time.Duration
}
