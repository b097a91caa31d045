package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/core/domain/dto"
	"ride-booking/internal/ride-service/core/domain/model"
	websocketdto "ride-booking/internal/ride-service/core/domain/websocket_dto"

	"github.com/golang-jwt/jwt"
)

// DriverService logs in as a driver, grabs offered rides and drives them to
// completion.
type DriverService struct {
	cfg        Config
	userId     int64
	driverId   int64
	httpClient *HTTPClient
	logger     mylogger.Logger
	ctx        context.Context

	mu   sync.Mutex
	busy bool
}

func NewDriverService(ctx context.Context, cfg Config, logger mylogger.Logger) *DriverService {
	return &DriverService{
		cfg:        cfg,
		httpClient: NewHTTPClient(cfg.BaseURL, logger),
		logger:     logger,
		ctx:        ctx,
	}
}

func (d *DriverService) Login() error {
	var res dto.LoginResponse
	err := d.httpClient.Do(d.ctx, http.MethodPost, LoginPath, dto.LoginRequest{
		EmailOrPhone: d.cfg.Login,
		Password:     d.cfg.Password,
	}, &res)
	if err != nil {
		return fmt.Errorf("driver login: %w", err)
	}

	userId, err := userIdFromToken(res.Token)
	if err != nil {
		return err
	}
	d.httpClient.token = res.Token
	d.userId = userId
	d.driverId = res.User.Id

	d.logger.Info("Logged in", "user_id", d.userId, "driver_id", d.driverId, "name", res.User.FullName)
	return nil
}

// userIdFromToken reads the user_id claim. The server verifies the token,
// the simulator only needs the id for the websocket path.
func userIdFromToken(token string) (int64, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("reading token: %w", err)
	}
	raw, _ := claims["user_id"].(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("token has no user_id")
	}
	return id, nil
}

func (d *DriverService) GoOnline() error {
	return d.httpClient.Do(d.ctx, http.MethodPut, fmt.Sprintf(AvailablePath, d.driverId),
		map[string]bool{"isAvailable": true}, nil)
}

// Watch keeps a websocket open and reconnects until the context ends.
func (d *DriverService) Watch() {
	for {
		url, err := wsURL(d.cfg.BaseURL, fmt.Sprintf(WSUserPath, d.userId))
		if err != nil {
			d.logger.Error("Bad base url", err)
			return
		}

		ws := NewWebSocketClient(d.ctx, d.logger)
		if err := ws.Connect(url, d.httpClient.token); err != nil {
			d.logger.Error("WebSocket connect failed", err)
		} else if err := ws.ReadEvents(d.handleEvent); err != nil {
			d.logger.Error("WebSocket closed", err)
		}
		ws.Close()

		select {
		case <-d.ctx.Done():
			return
		case <-time.After(ReconnectDelay):
		}
	}
}

func (d *DriverService) handleEvent(e websocketdto.Event) error {
	var event model.RideEvent
	if err := json.Unmarshal(e.Data, &event); err != nil {
		return fmt.Errorf("decoding %s: %w", e.Type, err)
	}

	switch e.Type {
	case websocketdto.TypeRideOffer:
		d.logger.Info("Ride offered", "ride_id", event.RideId)
		if !d.reserve() {
			return nil
		}
		go d.processRide(event.RideId)
	case websocketdto.TypeRideUpdate:
		d.logger.Info("Ride update", "ride_id", event.RideId, "status", event.Status, "prev_status", event.PrevStatus)
	}
	return nil
}

func (d *DriverService) reserve() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.busy {
		return false
	}
	d.busy = true
	return true
}

func (d *DriverService) release() {
	d.mu.Lock()
	d.busy = false
	d.mu.Unlock()
}

func (d *DriverService) processRide(rideId int64) {
	defer d.release()

	if err := d.httpClient.Do(d.ctx, http.MethodPost, fmt.Sprintf(AcceptPath, rideId), nil, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
			d.logger.Info("Ride went to another driver", "ride_id", rideId)
			return
		}
		d.logger.Error("Failed to accept ride", err, "ride_id", rideId)
		return
	}
	d.logger.Info("Ride accepted", "ride_id", rideId)

	for _, status := range []model.RideStatus{model.StatusStarted, model.StatusCompleted} {
		select {
		case <-d.ctx.Done():
			return
		case <-time.After(d.cfg.DriveTime):
		}
		if err := d.setStatus(rideId, status); err != nil {
			d.logger.Error("Failed to update ride", err, "ride_id", rideId, "status", status)
			return
		}
	}
}

func (d *DriverService) setStatus(rideId int64, status model.RideStatus) error {
	var res dto.RideActionResponse
	err := d.httpClient.Do(d.ctx, http.MethodPut, fmt.Sprintf(StatusPath, rideId),
		dto.UpdateStatusRequest{Status: status.String()}, &res)
	if err != nil {
		return err
	}
	d.logger.Info("Ride status set", "ride_id", rideId, "status", res.Ride.Status, "fare", res.Ride.Fare.String())
	return nil
}
