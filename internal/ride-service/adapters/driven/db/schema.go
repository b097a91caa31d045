package db

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id       BIGSERIAL PRIMARY KEY,
	full_name     VARCHAR(100) NOT NULL,
	email         VARCHAR(100) NOT NULL UNIQUE,
	mobile_no     VARCHAR(16)  NOT NULL,
	password_hash BYTEA        NOT NULL,
	person_role   VARCHAR(10)  NOT NULL DEFAULT 'rider',
	created_at    TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_users_mobile_no ON users (mobile_no);

CREATE TABLE IF NOT EXISTS drivers (
	driver_id    BIGSERIAL PRIMARY KEY,
	user_id      BIGINT      NOT NULL UNIQUE REFERENCES users (user_id),
	license_no   VARCHAR(50) NOT NULL UNIQUE,
	car_model    VARCHAR(50) NOT NULL,
	is_available BOOLEAN     NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS rides (
	ride_id     BIGSERIAL PRIMARY KEY,
	user_id     BIGINT         NOT NULL REFERENCES users (user_id),
	driver_id   BIGINT         REFERENCES drivers (driver_id),
	pickup      VARCHAR(255)   NOT NULL,
	destination VARCHAR(255)   NOT NULL,
	fare        NUMERIC(10, 2) NOT NULL,
	ride_status VARCHAR(20)    NOT NULL DEFAULT 'Pending',
	created_at  TIMESTAMPTZ    NOT NULL DEFAULT clock_timestamp()
);

CREATE INDEX IF NOT EXISTS idx_rides_user_id ON rides (user_id);
CREATE INDEX IF NOT EXISTS idx_rides_driver_id ON rides (driver_id);
CREATE INDEX IF NOT EXISTS idx_rides_unassigned ON rides (created_at, ride_id)
	WHERE driver_id IS NULL AND ride_status = 'Pending';
`

// CreateSchema creates the tables and indexes that do not exist yet.
func (d *DB) CreateSchema(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
