package ports

import (
	"context"

	"ride-booking/internal/ride-service/core/domain/model"
)

type IDB interface {
	IsAlive(ctx context.Context) error
	Close() error
}

// IRidesRepo is the ride store: plain reads and creation, plus a unit of
// work for lifecycle changes that must be applied atomically.
type IRidesRepo interface {
	CreateRide(ctx context.Context, ride model.Ride) (int64, error)
	GetRideDetails(ctx context.Context, rideId int64) (model.RideDetails, error)
	ListRides(ctx context.Context, filter model.RideFilter) ([]model.RideSummary, error)
	ListUnassigned(ctx context.Context) ([]model.RideSummary, error)

	// InTx runs fn inside one transaction. The transaction is committed when
	// fn returns nil and rolled back otherwise.
	InTx(ctx context.Context, fn func(tx IRideTx) error) error
}

// IRideTx is the set of writes the assignment engine composes in a transaction.
// Lock order is always ride first, then driver.
type IRideTx interface {
	// ClaimRide assigns driverId and sets Accepted only if the ride is still
	// Pending without a driver. ok is false when no row matched.
	ClaimRide(ctx context.Context, rideId, driverId int64) (ride model.Ride, ok bool, err error)
	// LockRide reads the ride and holds its row lock until the end of the transaction.
	LockRide(ctx context.Context, rideId int64) (model.Ride, error)
	UpdateRideStatus(ctx context.Context, rideId int64, status model.RideStatus) error
	// LockDriver reads the driver and holds its row lock.
	LockDriver(ctx context.Context, driverId int64) (model.Driver, error)
	SetDriverAvailability(ctx context.Context, driverId int64, available bool) error
	CountActiveRides(ctx context.Context, driverId int64) (int, error)
}

type IUsersRepo interface {
	CreateUser(ctx context.Context, user model.User) (int64, error)
	Exists(ctx context.Context, userId int64) (bool, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByMobile(ctx context.Context, mobileNo string) (model.User, error)
}

type IDriversRepo interface {
	// CreateDriver inserts the owning user and the driver row together.
	CreateDriver(ctx context.Context, user model.User, driver model.Driver) (userId, driverId int64, err error)
	GetByUserId(ctx context.Context, userId int64) (model.Driver, error)
	ListDrivers(ctx context.Context, onlyAvailable bool) ([]model.Driver, error)
}
