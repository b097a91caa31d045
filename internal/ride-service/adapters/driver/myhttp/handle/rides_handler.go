package handle

import (
	"context"
	"net/http"
	"time"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/core/domain/dto"
	"ride-booking/internal/ride-service/core/domain/model"
	"ride-booking/internal/ride-service/core/myerrors"
	"ride-booking/internal/ride-service/core/ports"
)

type RidesHandler struct {
	assignment ports.IAssignmentService
	rides      ports.IRidesService
	log        mylogger.Logger
}

func NewRidesHandler(as ports.IAssignmentService, rs ports.IRidesService, log mylogger.Logger) *RidesHandler {
	return &RidesHandler{
		assignment: as,
		rides:      rs,
		log:        log,
	}
}

// CreateRide books a ride for the caller. userId may be omitted; when given
// it must be the caller's own id.
func (rh *RidesHandler) CreateRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerFrom(r.Context(), rh.log).Action("CreateRide")
		req := dto.CreateRideRequest{}

		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, log, err)
			return
		}
		if p, ok := PrincipalFrom(r.Context()); ok {
			if req.UserId == 0 {
				req.UserId = p.UserId
			}
			if req.UserId != p.UserId {
				writeError(w, log, myerrors.ErrActingForOther)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		rideId, err := rh.assignment.CreateRide(ctx, req)
		if err != nil {
			writeError(w, log, err)
			return
		}

		jsonResponse(w, http.StatusCreated, dto.CreateRideResponse{
			Message: "Ride booked successfully",
			RideId:  rideId,
		})
	}
}

// ListRides lists every ride, or those of ?user= or ?driver=, newest first.
func (rh *RidesHandler) ListRides() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerFrom(r.Context(), rh.log).Action("ListRides")

		userId, err := queryId(r, "user")
		if err != nil {
			writeError(w, log, err)
			return
		}
		driverId, err := queryId(r, "driver")
		if err != nil {
			writeError(w, log, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		rides, err := rh.rides.ListRides(ctx, model.RideFilter{UserId: userId, DriverId: driverId})
		if err != nil {
			writeError(w, log, err)
			return
		}
		jsonResponse(w, http.StatusOK, rides)
	}
}

func (rh *RidesHandler) ListUnassigned() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerFrom(r.Context(), rh.log).Action("ListUnassigned")

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		rides, err := rh.rides.ListUnassigned(ctx)
		if err != nil {
			writeError(w, log, err)
			return
		}
		jsonResponse(w, http.StatusOK, rides)
	}
}

func (rh *RidesHandler) GetRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerFrom(r.Context(), rh.log).Action("GetRide")

		rideId, err := pathId(r, "ride_id")
		if err != nil {
			writeError(w, log, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		ride, err := rh.rides.GetRide(ctx, rideId)
		if err != nil {
			writeError(w, log, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.RideResponse{Ride: ride})
	}
}

// AcceptRide claims the ride for the calling driver.
func (rh *RidesHandler) AcceptRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerFrom(r.Context(), rh.log).Action("AcceptRide")

		rideId, err := pathId(r, "ride_id")
		if err != nil {
			writeError(w, log, err)
			return
		}

		p, ok := PrincipalFrom(r.Context())
		if !ok || !p.IsDriver() {
			writeError(w, log, myerrors.ErrNotADriver)
			return
		}

		req := dto.AcceptRideRequest{}
		if r.ContentLength != 0 {
			if err := decodeBody(w, r, &req); err != nil {
				writeError(w, log, err)
				return
			}
		}
		if req.DriverId == 0 {
			req.DriverId = p.DriverId
		}
		if req.DriverId != p.DriverId {
			writeError(w, log, myerrors.ErrActingForOther)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		ride, err := rh.assignment.AcceptRide(ctx, rideId, req.DriverId)
		if err != nil {
			writeError(w, log, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.RideActionResponse{
			Message: "Ride accepted successfully",
			Ride:    ride,
		})
	}
}

func (rh *RidesHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerFrom(r.Context(), rh.log).Action("UpdateStatus")

		rideId, err := pathId(r, "ride_id")
		if err != nil {
			writeError(w, log, err)
			return
		}

		req := dto.UpdateStatusRequest{}
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, log, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		ride, err := rh.assignment.SetStatus(ctx, rideId, req.Requested())
		if err != nil {
			writeError(w, log, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.RideActionResponse{
			Message: "Ride status updated successfully",
			Ride:    ride,
		})
	}
}
