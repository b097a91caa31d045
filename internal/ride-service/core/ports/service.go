package ports

import (
	"context"

	"ride-booking/internal/ride-service/core/domain/dto"
	"ride-booking/internal/ride-service/core/domain/model"
)

type IAssignmentService interface {
	CreateRide(ctx context.Context, req dto.CreateRideRequest) (int64, error)
	AcceptRide(ctx context.Context, rideId, driverId int64) (model.Ride, error)
	SetStatus(ctx context.Context, rideId int64, status string) (model.Ride, error)
	SetDriverAvailability(ctx context.Context, driverId int64, available bool) error
}

type IRidesService interface {
	GetRide(ctx context.Context, rideId int64) (model.RideDetails, error)
	ListRides(ctx context.Context, filter model.RideFilter) ([]model.RideSummary, error)
	ListUnassigned(ctx context.Context) ([]model.RideSummary, error)
}

type IAccountService interface {
	RegisterUser(ctx context.Context, req dto.UserRegistrationRequest) (int64, error)
	RegisterDriver(ctx context.Context, req dto.DriverRegistrationRequest) (int64, error)
	LoginUser(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	LoginDriver(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	ListDrivers(ctx context.Context, onlyAvailable bool) ([]model.Driver, error)
}
