package db

import (
	"context"
	"errors"
	"fmt"

	"ride-booking/internal/ride-service/core/domain/model"
	"ride-booking/internal/ride-service/core/myerrors"
	"ride-booking/internal/ride-service/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const rideColumns = `r.ride_id, r.user_id, r.driver_id, r.pickup, r.destination, r.fare, r.ride_status, r.created_at`

type RidesRepo struct {
	db *DB
}

func NewRidesRepo(db *DB) *RidesRepo {
	return &RidesRepo{
		db: db,
	}
}

func (rr *RidesRepo) CreateRide(ctx context.Context, ride model.Ride) (int64, error) {
	q := `
	INSERT INTO rides (
		user_id,
		pickup,
		destination,
		fare,
		ride_status
	) VALUES ($1, $2, $3, $4, $5) RETURNING ride_id`

	var rideId int64
	row := rr.db.pool.QueryRow(ctx, q, ride.UserId, ride.Pickup, ride.Destination, fareToNumeric(ride.Fare), ride.Status.String())
	if err := row.Scan(&rideId); err != nil {
		if pgCode(err) == foreignKeyViolation {
			return 0, myerrors.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to insert ride: %w", err)
	}
	return rideId, nil
}

func (rr *RidesRepo) GetRideDetails(ctx context.Context, rideId int64) (model.RideDetails, error) {
	q := `
	SELECT
		` + rideColumns + `,
		d.driver_id,
		d.car_model,
		d.license_no,
		u.user_id,
		u.full_name,
		u.mobile_no
	FROM
		rides r
	LEFT JOIN drivers d ON d.driver_id = r.driver_id
	LEFT JOIN users u ON u.user_id = d.user_id
	WHERE
		r.ride_id = $1`

	var (
		details   model.RideDetails
		fare      pgtype.Numeric
		status    string
		dDriverId *int64
		dCarModel *string
		dLicense  *string
		uUserId   *int64
		uFullName *string
		uMobileNo *string
	)
	r := &details.Ride
	err := rr.db.pool.QueryRow(ctx, q, rideId).Scan(
		&r.RideId, &r.UserId, &r.DriverId, &r.Pickup, &r.Destination, &fare, &status, &r.CreatedAt,
		&dDriverId, &dCarModel, &dLicense, &uUserId, &uFullName, &uMobileNo,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RideDetails{}, myerrors.ErrRideNotFound
		}
		return model.RideDetails{}, fmt.Errorf("failed to get ride: %w", err)
	}
	if r.Fare, err = numericToFare(fare); err != nil {
		return model.RideDetails{}, err
	}
	r.Status = model.RideStatus(status)

	if dDriverId != nil {
		details.DriverDetails = &model.DriverDetails{
			DriverId:  *dDriverId,
			CarModel:  deref(dCarModel),
			LicenseNo: deref(dLicense),
		}
		if uUserId != nil {
			details.DriverDetails.User = &model.DriverUser{
				UserId:   *uUserId,
				FullName: deref(uFullName),
				MobileNo: deref(uMobileNo),
			}
		}
	}
	return details, nil
}

func (rr *RidesRepo) ListRides(ctx context.Context, filter model.RideFilter) ([]model.RideSummary, error) {
	q := summarySelect + `
	WHERE
		($1::bigint = 0 OR r.user_id = $1)
		AND ($2::bigint = 0 OR r.driver_id = $2)
	ORDER BY
		r.created_at DESC, r.ride_id DESC`

	rows, err := rr.db.pool.Query(ctx, q, filter.UserId, filter.DriverId)
	if err != nil {
		return nil, fmt.Errorf("failed to list rides: %w", err)
	}
	return collectSummaries(rows)
}

func (rr *RidesRepo) ListUnassigned(ctx context.Context) ([]model.RideSummary, error) {
	q := summarySelect + `
	WHERE
		r.driver_id IS NULL
		AND r.ride_status = 'Pending'
	ORDER BY
		r.created_at ASC, r.ride_id ASC`

	rows, err := rr.db.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned rides: %w", err)
	}
	return collectSummaries(rows)
}

const summarySelect = `
	SELECT
		` + rideColumns + `,
		ru.full_name,
		du.full_name
	FROM
		rides r
	JOIN users ru ON ru.user_id = r.user_id
	LEFT JOIN drivers d ON d.driver_id = r.driver_id
	LEFT JOIN users du ON du.user_id = d.user_id`

func collectSummaries(rows pgx.Rows) ([]model.RideSummary, error) {
	defer rows.Close()

	out := []model.RideSummary{}
	for rows.Next() {
		var (
			s      model.RideSummary
			fare   pgtype.Numeric
			status string
		)
		err := rows.Scan(
			&s.RideId, &s.UserId, &s.DriverId, &s.Pickup, &s.Destination, &fare, &status, &s.CreatedAt,
			&s.UserName, &s.DriverName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ride: %w", err)
		}
		if s.Fare, err = numericToFare(fare); err != nil {
			return nil, err
		}
		s.Status = model.RideStatus(status)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// InTx runs fn in a read-committed transaction.
func (rr *RidesRepo) InTx(ctx context.Context, fn func(tx ports.IRideTx) error) error {
	tx, err := rr.db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	if err := fn(&rideTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type rideTx struct {
	tx pgx.Tx
}

func (t *rideTx) ClaimRide(ctx context.Context, rideId, driverId int64) (model.Ride, bool, error) {
	q := `
	UPDATE
		rides r
	SET
		driver_id = $2,
		ride_status = 'Accepted'
	WHERE
		r.ride_id = $1
		AND r.driver_id IS NULL
		AND r.ride_status = 'Pending'
	RETURNING ` + rideColumns

	ride, err := scanRide(t.tx.QueryRow(ctx, q, rideId, driverId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Ride{}, false, nil
		}
		if pgCode(err) == foreignKeyViolation {
			return model.Ride{}, false, myerrors.ErrDriverNotFound
		}
		return model.Ride{}, false, fmt.Errorf("failed to claim ride: %w", err)
	}
	return ride, true, nil
}

func (t *rideTx) LockRide(ctx context.Context, rideId int64) (model.Ride, error) {
	q := `SELECT ` + rideColumns + ` FROM rides r WHERE r.ride_id = $1 FOR UPDATE`

	ride, err := scanRide(t.tx.QueryRow(ctx, q, rideId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Ride{}, myerrors.ErrRideNotFound
		}
		return model.Ride{}, fmt.Errorf("failed to lock ride: %w", err)
	}
	return ride, nil
}

func (t *rideTx) UpdateRideStatus(ctx context.Context, rideId int64, status model.RideStatus) error {
	q := `UPDATE rides SET ride_status = $2 WHERE ride_id = $1`

	tag, err := t.tx.Exec(ctx, q, rideId, status.String())
	if err != nil {
		return fmt.Errorf("failed to update ride status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrRideNotFound
	}
	return nil
}

func (t *rideTx) LockDriver(ctx context.Context, driverId int64) (model.Driver, error) {
	q := driverSelect + ` WHERE d.driver_id = $1 FOR UPDATE OF d`

	driver, err := scanDriver(t.tx.QueryRow(ctx, q, driverId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Driver{}, myerrors.ErrDriverNotFound
		}
		return model.Driver{}, fmt.Errorf("failed to lock driver: %w", err)
	}
	return driver, nil
}

func (t *rideTx) SetDriverAvailability(ctx context.Context, driverId int64, available bool) error {
	q := `UPDATE drivers SET is_available = $2 WHERE driver_id = $1`

	tag, err := t.tx.Exec(ctx, q, driverId, available)
	if err != nil {
		return fmt.Errorf("failed to update driver availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrDriverNotFound
	}
	return nil
}

func (t *rideTx) CountActiveRides(ctx context.Context, driverId int64) (int, error) {
	q := `SELECT COUNT(*) FROM rides WHERE driver_id = $1 AND ride_status IN ('Accepted', 'Started')`

	var count int
	if err := t.tx.QueryRow(ctx, q, driverId).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active rides: %w", err)
	}
	return count, nil
}

func scanRide(row pgx.Row) (model.Ride, error) {
	var (
		r      model.Ride
		fare   pgtype.Numeric
		status string
	)
	if err := row.Scan(&r.RideId, &r.UserId, &r.DriverId, &r.Pickup, &r.Destination, &fare, &status, &r.CreatedAt); err != nil {
		return model.Ride{}, err
	}
	f, err := numericToFare(fare)
	if err != nil {
		return model.Ride{}, err
	}
	r.Fare = f
	r.Status = model.RideStatus(status)
	return r, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
