package services

import (
	"context"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/core/domain/model"
	"ride-booking/internal/ride-service/core/myerrors"
	"ride-booking/internal/ride-service/core/ports"
)

// RidesService is the read side of the ride store. Every call goes to the
// database; nothing is cached.
type RidesService struct {
	mylog     mylogger.Logger
	RidesRepo ports.IRidesRepo
}

func NewRidesService(log mylogger.Logger, ridesRepo ports.IRidesRepo) *RidesService {
	return &RidesService{
		mylog:     log,
		RidesRepo: ridesRepo,
	}
}

func (rs *RidesService) GetRide(ctx context.Context, rideId int64) (model.RideDetails, error) {
	if rideId <= 0 {
		return model.RideDetails{}, myerrors.ErrInvalidId
	}
	ride, err := rs.RidesRepo.GetRideDetails(ctx, rideId)
	if err != nil {
		if !isDomainError(err) {
			rs.mylog.Action("GetRide").Error("cannot get ride", err, "ride-id", rideId)
		}
		return model.RideDetails{}, err
	}
	return ride, nil
}

// ListRides returns rides newest first, narrowed by filter.
func (rs *RidesService) ListRides(ctx context.Context, filter model.RideFilter) ([]model.RideSummary, error) {
	if filter.UserId < 0 || filter.DriverId < 0 {
		return nil, myerrors.ErrInvalidId
	}
	rides, err := rs.RidesRepo.ListRides(ctx, filter)
	if err != nil {
		rs.mylog.Action("ListRides").Error("cannot list rides", err, "user-id", filter.UserId, "driver-id", filter.DriverId)
		return nil, err
	}
	if rides == nil {
		rides = []model.RideSummary{}
	}
	return rides, nil
}

// ListUnassigned returns Pending rides without a driver, oldest first.
func (rs *RidesService) ListUnassigned(ctx context.Context) ([]model.RideSummary, error) {
	rides, err := rs.RidesRepo.ListUnassigned(ctx)
	if err != nil {
		rs.mylog.Action("ListUnassigned").Error("cannot list unassigned rides", err)
		return nil, err
	}
	if rides == nil {
		rides = []model.RideSummary{}
	}
	return rides, nil
}
