package myhttp

import (
	"net/http"

	"ride-booking/internal/ride-service/adapters/driver/myhttp/handle"
	"ride-booking/internal/ride-service/adapters/driver/myhttp/middleware"
)

type Handlers struct {
	Rides   *handle.RidesHandler
	Users   *handle.UsersHandler
	Drivers *handle.DriversHandler
	Health  http.HandlerFunc
	Ws      http.HandlerFunc
	Auth    *middleware.AuthMiddleware
}

// Routes registers the REST and websocket endpoints on mux.
func Routes(mux *http.ServeMux, h Handlers) {
	// rides
	mux.Handle("POST /rides", h.Auth.Wrap(h.Rides.CreateRide()))
	mux.Handle("GET /rides", h.Rides.ListRides())
	mux.Handle("GET /rides/unassigned", h.Rides.ListUnassigned())
	mux.Handle("GET /rides/{ride_id}", h.Rides.GetRide())
	mux.Handle("POST /rides/{ride_id}/accept", h.Auth.Wrap(h.Rides.AcceptRide()))
	mux.Handle("PUT /rides/{ride_id}/status", h.Auth.Wrap(h.Rides.UpdateStatus()))

	// accounts
	mux.Handle("POST /users/register", h.Users.Register())
	mux.Handle("POST /users/login", h.Users.Login())
	mux.Handle("POST /drivers/register", h.Drivers.Register())
	mux.Handle("POST /drivers/login", h.Drivers.Login())
	mux.Handle("GET /drivers", h.Drivers.List(false))
	mux.Handle("GET /drivers/available", h.Drivers.List(true))
	mux.Handle("PUT /drivers/{driver_id}/availability", h.Auth.Wrap(h.Drivers.SetAvailability()))

	mux.Handle("GET /health", h.Health)

	// websocket routes
	mux.Handle("GET /ws/users/{user_id}", h.Ws)
}
