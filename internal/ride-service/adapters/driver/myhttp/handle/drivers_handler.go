package handle

import (
	"context"
	"net/http"
	"time"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/core/domain/dto"
	"ride-booking/internal/ride-service/core/myerrors"
	"ride-booking/internal/ride-service/core/ports"
)

type DriversHandler struct {
	accounts   ports.IAccountService
	assignment ports.IAssignmentService
	log        mylogger.Logger
}

func NewDriversHandler(accounts ports.IAccountService, as ports.IAssignmentService, log mylogger.Logger) *DriversHandler {
	return &DriversHandler{
		accounts:   accounts,
		assignment: as,
		log:        log,
	}
}

func (dh *DriversHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerFrom(r.Context(), dh.log).Action("RegisterDriver")
		req := dto.DriverRegistrationRequest{}

		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, log, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		id, err := dh.accounts.RegisterDriver(ctx, req)
		if err != nil {
			writeError(w, log, err)
			return
		}
		jsonResponse(w, http.StatusCreated, dto.RegistrationResponse{
			Message: "Driver registered successfully",
			Id:      id,
		})
	}
}

func (dh *DriversHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerFrom(r.Context(), dh.log).Action("LoginDriver")
		req := dto.LoginRequest{}

		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, log, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := dh.accounts.LoginDriver(ctx, req)
		if err != nil {
			writeError(w, log, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

// List returns all drivers, or only the available ones.
func (dh *DriversHandler) List(onlyAvailable bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerFrom(r.Context(), dh.log).Action("ListDrivers")

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		drivers, err := dh.accounts.ListDrivers(ctx, onlyAvailable)
		if err != nil {
			writeError(w, log, err)
			return
		}
		jsonResponse(w, http.StatusOK, drivers)
	}
}

func (dh *DriversHandler) SetAvailability() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerFrom(r.Context(), dh.log).Action("SetAvailability")

		driverId, err := pathId(r, "driver_id")
		if err != nil {
			writeError(w, log, err)
			return
		}
		p, ok := PrincipalFrom(r.Context())
		if !ok || !p.IsDriver() {
			writeError(w, log, myerrors.ErrNotADriver)
			return
		}
		if p.DriverId != driverId {
			writeError(w, log, myerrors.ErrActingForOther)
			return
		}

		req := dto.AvailabilityRequest{}
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, log, err)
			return
		}
		if req.IsAvailable == nil {
			writeError(w, log, myerrors.Validation("isAvailable is required"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		if err := dh.assignment.SetDriverAvailability(ctx, driverId, *req.IsAvailable); err != nil {
			writeError(w, log, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.MessageResponse{Message: "Availability updated successfully"})
	}
}
