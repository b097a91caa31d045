package db

import (
	"context"
	"errors"
	"fmt"

	"ride-booking/internal/ride-service/core/domain/model"
	"ride-booking/internal/ride-service/core/myerrors"

	"github.com/jackc/pgx/v5"
)

const driverSelect = `
	SELECT
		d.driver_id,
		d.user_id,
		u.full_name,
		u.email,
		u.mobile_no,
		d.license_no,
		d.car_model,
		d.is_available
	FROM
		drivers d
	JOIN users u ON u.user_id = d.user_id`

type DriversRepo struct {
	db *DB
}

func NewDriversRepo(db *DB) *DriversRepo {
	return &DriversRepo{
		db: db,
	}
}

// CreateDriver inserts the user and the driver profile in one transaction.
func (dr *DriversRepo) CreateDriver(ctx context.Context, user model.User, driver model.Driver) (int64, int64, error) {
	tx, err := dr.db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	userId, err := insertUser(ctx, tx, user)
	if err != nil {
		return 0, 0, err
	}

	q := `
	INSERT INTO drivers (
		user_id,
		license_no,
		car_model,
		is_available
	) VALUES ($1, $2, $3, $4) RETURNING driver_id`

	var driverId int64
	if err := tx.QueryRow(ctx, q, userId, driver.LicenseNo, driver.CarModel, driver.IsAvailable).Scan(&driverId); err != nil {
		if pgCode(err) == uniqueViolation {
			return 0, 0, myerrors.ErrLicenseRegistered
		}
		return 0, 0, fmt.Errorf("failed to insert driver: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return userId, driverId, nil
}

func (dr *DriversRepo) GetByUserId(ctx context.Context, userId int64) (model.Driver, error) {
	q := driverSelect + ` WHERE d.user_id = $1`

	driver, err := scanDriver(dr.db.pool.QueryRow(ctx, q, userId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Driver{}, myerrors.ErrDriverNotFound
		}
		return model.Driver{}, fmt.Errorf("failed to get driver: %w", err)
	}
	return driver, nil
}

func (dr *DriversRepo) ListDrivers(ctx context.Context, onlyAvailable bool) ([]model.Driver, error) {
	q := driverSelect + `
	WHERE
		NOT $1::boolean OR d.is_available
	ORDER BY
		d.driver_id`

	rows, err := dr.db.pool.Query(ctx, q, onlyAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	defer rows.Close()

	out := []model.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanDriver(row pgx.Row) (model.Driver, error) {
	var d model.Driver
	err := row.Scan(&d.DriverId, &d.UserId, &d.FullName, &d.Email, &d.MobileNo, &d.LicenseNo, &d.CarModel, &d.IsAvailable)
	return d, err
}
