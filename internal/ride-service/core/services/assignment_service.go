package services

import (
	"context"
	"errors"
	"time"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/core/domain/dto"
	"ride-booking/internal/ride-service/core/domain/model"
	"ride-booking/internal/ride-service/core/myerrors"
	"ride-booking/internal/ride-service/core/ports"

	"github.com/google/uuid"
)

// AssignmentService owns the ride state machine and the driver availability
// that follows from it. All lifecycle writes go through here.
type AssignmentService struct {
	mylog      mylogger.Logger
	RidesRepo  ports.IRidesRepo
	UsersRepo  ports.IUsersRepo
	EventSink  ports.IRideEventSink
	permissive bool
	now        func() time.Time
}

type AssignmentOption func(*AssignmentService)

// WithPermissiveStatus lets SetStatus move a ride to any status, not only
// along the lifecycle edges. Finished rides stay final either way.
func WithPermissiveStatus(on bool) AssignmentOption {
	return func(as *AssignmentService) {
		as.permissive = on
	}
}

func WithClock(now func() time.Time) AssignmentOption {
	return func(as *AssignmentService) {
		as.now = now
	}
}

func NewAssignmentService(
	log mylogger.Logger,
	ridesRepo ports.IRidesRepo,
	usersRepo ports.IUsersRepo,
	eventSink ports.IRideEventSink,
	opts ...AssignmentOption,
) *AssignmentService {
	as := &AssignmentService{
		mylog:     log,
		RidesRepo: ridesRepo,
		UsersRepo: usersRepo,
		EventSink: eventSink,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(as)
	}
	return as
}

func (as *AssignmentService) CreateRide(ctx context.Context, req dto.CreateRideRequest) (int64, error) {
	log := as.mylog.Action("CreateRide")

	if err := validateRideRequest(req); err != nil {
		return 0, err
	}
	if s := req.RequestedStatus(); s != nil {
		st, ok := model.ParseRideStatus(*s)
		if !ok {
			return 0, myerrors.ErrInvalidStatus
		}
		if st != model.StatusPending {
			return 0, myerrors.Validation("a new ride must be Pending")
		}
	}

	exists, err := as.UsersRepo.Exists(ctx, req.UserId)
	if err != nil {
		log.Error("cannot check user", err, "user-id", req.UserId)
		return 0, err
	}
	if !exists {
		return 0, myerrors.ErrUserNotFound
	}

	ride := model.Ride{
		UserId:      req.UserId,
		Pickup:      req.Pickup,
		Destination: req.Destination,
		Fare:        *req.Fare,
		Status:      model.StatusPending,
	}
	rideId, err := as.RidesRepo.CreateRide(ctx, ride)
	if err != nil {
		if !isDomainError(err) {
			log.Error("cannot create ride", err, "user-id", req.UserId)
		}
		return 0, err
	}
	ride.RideId = rideId

	log.Info("ride created", "ride-id", rideId, "user-id", req.UserId, "fare", ride.Fare.String())
	as.publish(ctx, model.EventRideCreated, ride, "")
	return rideId, nil
}

// AcceptRide claims a Pending ride for driverId. Exactly one of any number of
// concurrent claims on the same ride succeeds; the others get
// myerrors.ErrRideAlreadyClaimed.
func (as *AssignmentService) AcceptRide(ctx context.Context, rideId, driverId int64) (model.Ride, error) {
	log := as.mylog.Action("AcceptRide").With("ride-id", rideId, "driver-id", driverId)

	if rideId <= 0 || driverId <= 0 {
		return model.Ride{}, myerrors.ErrInvalidId
	}

	var accepted model.Ride
	err := as.RidesRepo.InTx(ctx, func(tx ports.IRideTx) error {
		ride, ok, err := tx.ClaimRide(ctx, rideId, driverId)
		if err != nil {
			return err
		}
		if !ok {
			if _, err := tx.LockRide(ctx, rideId); err != nil {
				return err
			}
			return myerrors.ErrRideAlreadyClaimed
		}

		driver, err := tx.LockDriver(ctx, driverId)
		if err != nil {
			return err
		}
		if !driver.IsAvailable {
			active, err := tx.CountActiveRides(ctx, driverId)
			if err != nil {
				return err
			}
			// the ride claimed above is already counted
			if active > 1 {
				return myerrors.ErrDriverBusy
			}
			return myerrors.ErrDriverOffline
		}
		if err := tx.SetDriverAvailability(ctx, driverId, false); err != nil {
			return err
		}
		accepted = ride
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			log.Warn("ride not accepted", "reason", err.Error())
		} else {
			log.Error("cannot accept ride", err)
		}
		return model.Ride{}, err
	}

	log.Info("ride accepted")
	as.publish(ctx, model.EventRideAccepted, accepted, model.StatusPending)
	return accepted, nil
}

// SetStatus moves a ride to status. The input is normalized first, so
// "completed" and "COMPLETED" both mean Completed. Finishing a ride with a
// driver makes the driver available again.
func (as *AssignmentService) SetStatus(ctx context.Context, rideId int64, status string) (model.Ride, error) {
	log := as.mylog.Action("SetStatus").With("ride-id", rideId)

	next, ok := model.ParseRideStatus(status)
	if !ok {
		return model.Ride{}, myerrors.ErrInvalidStatus
	}
	if rideId <= 0 {
		return model.Ride{}, myerrors.ErrInvalidId
	}

	var (
		updated model.Ride
		prev    model.RideStatus
		changed bool
	)
	err := as.RidesRepo.InTx(ctx, func(tx ports.IRideTx) error {
		ride, err := tx.LockRide(ctx, rideId)
		if err != nil {
			return err
		}
		prev = ride.Status
		if ride.Status.IsTerminal() {
			return myerrors.ErrRideFinished
		}
		if ride.Status == next {
			updated = ride
			return nil
		}
		if err := as.checkTransition(ride, next); err != nil {
			return err
		}

		if err := tx.UpdateRideStatus(ctx, rideId, next); err != nil {
			return err
		}
		if next.IsTerminal() && ride.HasDriver() {
			if err := tx.SetDriverAvailability(ctx, *ride.DriverId, true); err != nil {
				return err
			}
		}
		ride.Status = next
		updated = ride
		changed = true
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			log.Warn("status not changed", "status", next, "reason", err.Error())
		} else {
			log.Error("cannot change ride status", err, "status", next)
		}
		return model.Ride{}, err
	}

	if changed {
		log.Info("ride status changed", "from", prev, "to", next)
		as.publish(ctx, model.EventRideStatusChanged, updated, prev)
	}
	return updated, nil
}

func (as *AssignmentService) checkTransition(ride model.Ride, next model.RideStatus) error {
	if !as.permissive {
		if !ride.Status.CanTransitionTo(next) {
			return myerrors.ErrInvalidTransition
		}
		return nil
	}
	// a driver is held exactly while Accepted or Started
	if next.HoldsDriver() && !ride.HasDriver() {
		return myerrors.ErrInvalidTransition
	}
	if next == model.StatusPending && ride.HasDriver() {
		return myerrors.ErrInvalidTransition
	}
	return nil
}

// SetDriverAvailability lets a driver go offline at any time. Going available
// is refused while the driver still holds an Accepted or Started ride.
func (as *AssignmentService) SetDriverAvailability(ctx context.Context, driverId int64, available bool) error {
	log := as.mylog.Action("SetDriverAvailability").With("driver-id", driverId)

	if driverId <= 0 {
		return myerrors.ErrInvalidId
	}

	err := as.RidesRepo.InTx(ctx, func(tx ports.IRideTx) error {
		driver, err := tx.LockDriver(ctx, driverId)
		if err != nil {
			return err
		}
		if driver.IsAvailable == available {
			return nil
		}
		if available {
			active, err := tx.CountActiveRides(ctx, driverId)
			if err != nil {
				return err
			}
			if active > 0 {
				return myerrors.ErrDriverBusy
			}
		}
		return tx.SetDriverAvailability(ctx, driverId, available)
	})
	if err != nil {
		if isDomainError(err) {
			log.Warn("availability not changed", "reason", err.Error())
		} else {
			log.Error("cannot change availability", err)
		}
		return err
	}

	log.Info("driver availability set", "is-available", available)
	return nil
}

func (as *AssignmentService) publish(ctx context.Context, kind string, ride model.Ride, prev model.RideStatus) {
	if as.EventSink == nil {
		return
	}
	event := model.RideEvent{
		EventId:    uuid.NewString(),
		Type:       kind,
		RideId:     ride.RideId,
		UserId:     ride.UserId,
		DriverId:   ride.DriverId,
		Status:     ride.Status,
		PrevStatus: prev,
		OccurredAt: as.now().UTC(),
	}
	if err := as.EventSink.Publish(ctx, event); err != nil {
		as.mylog.Action("PublishRideEvent").Error("cannot publish ride event", err, "ride-id", ride.RideId, "type", kind)
	}
}

func isDomainError(err error) bool {
	var e *myerrors.Error
	return errors.As(err, &e)
}
