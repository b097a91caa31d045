package myhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/adapters/driver/myhttp/handle"
	"ride-booking/internal/ride-service/adapters/driver/myhttp/middleware"
	"ride-booking/internal/ride-service/adapters/driver/myhttp/ws"
	"ride-booking/internal/ride-service/core/domain/dto"
	"ride-booking/internal/ride-service/core/domain/model"
	"ride-booking/internal/ride-service/core/services"
	"ride-booking/internal/ride-service/testutil"
)

type testApi struct {
	store   *testutil.Store
	events  *testutil.EventRecorder
	handler http.Handler
}

func newTestApi(t *testing.T) *testApi {
	t.Helper()
	log := mylogger.Discard()
	store := testutil.NewStore()
	events := &testutil.EventRecorder{}
	auth := &testutil.Authenticator{Users: store}

	assignment := services.NewAssignmentService(log, store, store, events)
	rides := services.NewRidesService(log, store)
	accounts := services.NewAccountService(log, store, store, auth)

	mux := http.NewServeMux()
	Routes(mux, Handlers{
		Rides:   handle.NewRidesHandler(assignment, rides, log),
		Users:   handle.NewUsersHandler(accounts, log),
		Drivers: handle.NewDriversHandler(accounts, assignment, log),
		Health:  handle.Health(serviceName, store, nil),
		Ws:      ws.NewDispatcher(log, auth, 0, 0).WsHandler(),
		Auth:    middleware.NewAuthMiddleware(auth),
	})
	return &testApi{
		store:   store,
		events:  events,
		handler: middleware.RequestLogger(log)(mux),
	}
}

func (a *testApi) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApi) driverToken(t *testing.T, driverId int64) string {
	t.Helper()
	d, ok := a.store.Driver(driverId)
	if !ok {
		t.Fatalf("driver %d not seeded", driverId)
	}
	return testutil.DriverToken(d.UserId, driverId)
}

func (a *testApi) bookRide(t *testing.T, riderId int64) int64 {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/rides", testutil.RiderToken(riderId), map[string]any{
		"pickup":      "MG Road",
		"destination": "Airport",
		"fare":        349,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("book ride: status %d body %s", rec.Code, rec.Body)
	}
	var res dto.CreateRideResponse
	decode(t, rec, &res)
	return res.RideId
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var res struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	decode(t, rec, &res)
	if res.Code != rec.Code {
		t.Errorf("body code %d, status %d", res.Code, rec.Code)
	}
	return res.Error
}

func TestRegisterLoginAndBook(t *testing.T) {
	api := newTestApi(t)

	rec := api.do(t, http.MethodPost, "/users/register", "", dto.UserRegistrationRequest{
		FullName: "Asha Rider",
		Email:    "Asha@Example.com",
		MobileNo: "9876543210",
		Password: "secret1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body)
	}

	rec = api.do(t, http.MethodPost, "/users/login", "", dto.LoginRequest{
		EmailOrPhone: "asha@example.com",
		Password:     "secret1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", rec.Code, rec.Body)
	}
	var login dto.LoginResponse
	decode(t, rec, &login)
	if login.Token == "" {
		t.Fatal("login returned no token")
	}

	rec = api.do(t, http.MethodPost, "/rides", login.Token, map[string]any{
		"pickup":      "MG Road",
		"destination": "Airport",
		"fare":        "349.50",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("book: status %d body %s", rec.Code, rec.Body)
	}
	var booked dto.CreateRideResponse
	decode(t, rec, &booked)

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/rides/%d", booked.RideId), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d body %s", rec.Code, rec.Body)
	}
	var got dto.RideResponse
	decode(t, rec, &got)
	if got.Ride.UserId != login.User.Id || got.Ride.Status != model.StatusPending {
		t.Errorf("ride = %+v", got.Ride.Ride)
	}
	if got.Ride.Fare.String() != "349.50" {
		t.Errorf("fare = %s", got.Ride.Fare)
	}
	if got.Ride.DriverDetails != nil {
		t.Errorf("pending ride has driver details %+v", got.Ride.DriverDetails)
	}
}

func TestSecondAcceptIsRejected(t *testing.T) {
	api := newTestApi(t)
	rider := api.store.SeedUser("Asha Rider")
	d1 := api.store.SeedDriver("First Driver", true)
	d2 := api.store.SeedDriver("Second Driver", true)
	rideId := api.bookRide(t, rider)
	path := fmt.Sprintf("/rides/%d/accept", rideId)

	rec := api.do(t, http.MethodPost, path, api.driverToken(t, d1), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("first accept: status %d body %s", rec.Code, rec.Body)
	}
	var accepted dto.RideActionResponse
	decode(t, rec, &accepted)
	if accepted.Ride.Status != model.StatusAccepted || accepted.Ride.DriverId == nil || *accepted.Ride.DriverId != d1 {
		t.Fatalf("accepted ride = %+v", accepted.Ride)
	}

	rec = api.do(t, http.MethodPost, path, api.driverToken(t, d2), map[string]any{"driverId": d2})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("second accept: status %d body %s", rec.Code, rec.Body)
	}
	if msg := errorMessage(t, rec); msg != "Ride already taken by another driver" {
		t.Errorf("message = %q", msg)
	}

	if d, _ := api.store.Driver(d2); !d.IsAvailable {
		t.Error("losing driver lost availability")
	}
}

func TestBusyDriverCannotAcceptAgain(t *testing.T) {
	api := newTestApi(t)
	rider := api.store.SeedUser("Asha Rider")
	driver := api.store.SeedDriver("Only Driver", true)
	first := api.bookRide(t, rider)
	second := api.bookRide(t, rider)
	token := api.driverToken(t, driver)

	if rec := api.do(t, http.MethodPost, fmt.Sprintf("/rides/%d/accept", first), token, nil); rec.Code != http.StatusOK {
		t.Fatalf("accept: status %d body %s", rec.Code, rec.Body)
	}
	rec := api.do(t, http.MethodPost, fmt.Sprintf("/rides/%d/accept", second), token, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("accept while busy: status %d body %s", rec.Code, rec.Body)
	}
	if r, _ := api.store.Ride(second); r.Status != model.StatusPending || r.HasDriver() {
		t.Errorf("second ride changed: %+v", r)
	}
}

func TestAuthErrors(t *testing.T) {
	api := newTestApi(t)
	rider := api.store.SeedUser("Asha Rider")
	driver := api.store.SeedDriver("Only Driver", true)
	rideId := api.bookRide(t, rider)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{"book without token", http.MethodPost, "/rides", "", map[string]any{"pickup": "A", "destination": "B", "fare": 10}, http.StatusUnauthorized},
		{"book with garbage token", http.MethodPost, "/rides", "nope", map[string]any{"pickup": "A", "destination": "B", "fare": 10}, http.StatusUnauthorized},
		{"book for someone else", http.MethodPost, "/rides", testutil.RiderToken(rider), map[string]any{"userId": rider + 100, "pickup": "A", "destination": "B", "fare": 10}, http.StatusForbidden},
		{"rider accepts", http.MethodPost, fmt.Sprintf("/rides/%d/accept", rideId), testutil.RiderToken(rider), nil, http.StatusForbidden},
		{"driver accepts for another", http.MethodPost, fmt.Sprintf("/rides/%d/accept", rideId), api.driverToken(t, driver), map[string]any{"driverId": driver + 1}, http.StatusForbidden},
		{"status without token", http.MethodPut, fmt.Sprintf("/rides/%d/status", rideId), "", map[string]any{"status": "Cancelled"}, http.StatusUnauthorized},
		{"availability of another driver", http.MethodPut, fmt.Sprintf("/drivers/%d/availability", driver+1), api.driverToken(t, driver), map[string]any{"isAvailable": false}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, tt.method, tt.path, tt.token, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status %d, want %d, body %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestRideStatusFlow(t *testing.T) {
	api := newTestApi(t)
	rider := api.store.SeedUser("Asha Rider")
	driver := api.store.SeedDriver("Only Driver", true)
	rideId := api.bookRide(t, rider)
	token := api.driverToken(t, driver)
	statusPath := fmt.Sprintf("/rides/%d/status", rideId)

	if rec := api.do(t, http.MethodPost, fmt.Sprintf("/rides/%d/accept", rideId), token, nil); rec.Code != http.StatusOK {
		t.Fatalf("accept: status %d body %s", rec.Code, rec.Body)
	}

	rec := api.do(t, http.MethodPut, statusPath, token, map[string]any{"status": "flying"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad status: %d body %s", rec.Code, rec.Body)
	}

	for _, step := range []string{"started", "Completed"} {
		rec = api.do(t, http.MethodPut, statusPath, token, map[string]any{"rideStatus": step})
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d body %s", step, rec.Code, rec.Body)
		}
	}
	var res dto.RideActionResponse
	decode(t, rec, &res)
	if res.Ride.Status != model.StatusCompleted {
		t.Errorf("status = %s", res.Ride.Status)
	}
	if d, _ := api.store.Driver(driver); !d.IsAvailable {
		t.Error("driver not released after completion")
	}

	rec = api.do(t, http.MethodPut, statusPath, token, map[string]any{"status": "Cancelled"})
	if rec.Code != http.StatusConflict {
		t.Errorf("cancel after completion: status %d body %s", rec.Code, rec.Body)
	}

	if got := len(api.events.Events()); got != 4 {
		t.Errorf("published %d events, want 4", got)
	}
}

func TestListingRoutes(t *testing.T) {
	api := newTestApi(t)
	rider := api.store.SeedUser("Asha Rider")
	api.store.SeedDriver("Idle Driver", true)
	api.store.SeedDriver("Off Driver", false)
	api.bookRide(t, rider)
	api.bookRide(t, rider)

	rec := api.do(t, http.MethodGet, "/rides/unassigned", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unassigned: status %d body %s", rec.Code, rec.Body)
	}
	var open []model.RideSummary
	decode(t, rec, &open)
	if len(open) != 2 || open[0].UserName != "Asha Rider" {
		t.Errorf("unassigned = %+v", open)
	}

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/rides?user=%d", rider+1), "", nil)
	var none []model.RideSummary
	decode(t, rec, &none)
	if rec.Code != http.StatusOK || none == nil || len(none) != 0 {
		t.Errorf("filtered list: status %d body %s", rec.Code, rec.Body)
	}

	if rec = api.do(t, http.MethodGet, "/rides?user=abc", "", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad filter: status %d", rec.Code)
	}

	rec = api.do(t, http.MethodGet, "/drivers/available", "", nil)
	var drivers []model.Driver
	decode(t, rec, &drivers)
	if len(drivers) != 1 || drivers[0].FullName != "Idle Driver" {
		t.Errorf("available drivers = %+v", drivers)
	}
}

func TestRideLookupErrors(t *testing.T) {
	api := newTestApi(t)

	if rec := api.do(t, http.MethodGet, "/rides/999", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing ride: status %d", rec.Code)
	} else if msg := errorMessage(t, rec); msg != "Ride not found" {
		t.Errorf("message = %q", msg)
	}
	if rec := api.do(t, http.MethodGet, "/rides/0", "", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("zero id: status %d", rec.Code)
	}
}

func TestHealthAndRequestId(t *testing.T) {
	api := newTestApi(t)

	rec := api.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: status %d body %s", rec.Code, rec.Body)
	}
	if rec.Header().Get(middleware.RequestIdHeader) == "" {
		t.Error("request id header missing")
	}

	api.store.Err = context.DeadlineExceeded
	if rec = api.do(t, http.MethodGet, "/health", "", nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("health with db down: status %d", rec.Code)
	}
}
