package db

import (
	"context"
	"fmt"
	"time"

	"ride-booking/internal/config"
	"ride-booking/internal/mylogger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	cfg   *config.DBconfig
	mylog mylogger.Logger
	pool  *pgxpool.Pool
}

// New opens a connection pool, retrying up to cfg.MaxRetries times.
func New(ctx context.Context, dbCfg *config.DBconfig, mylog mylogger.Logger) (*DB, error) {
	d := &DB{
		cfg:   dbCfg,
		mylog: mylog,
	}

	if err := d.connect(ctx, dbCfg.DSN()); err != nil {
		return nil, err
	}

	return d, nil
}

// NewFromURL opens a pool for a full connection string. Used by integration tests.
func NewFromURL(ctx context.Context, url string, mylog mylogger.Logger) (*DB, error) {
	d := &DB{
		cfg:   &config.DBconfig{MaxRetries: 1},
		mylog: mylog,
	}
	if err := d.connect(ctx, url); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Close closes the pool
func (d *DB) Close() error {
	if d.pool != nil {
		d.pool.Close()
	}
	return nil
}

// IsAlive pings the DB to verify it's responsive
func (d *DB) IsAlive(ctx context.Context) error {
	if d.pool == nil {
		return fmt.Errorf("DB is not initialized")
	}
	if err := d.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func (d *DB) connect(ctx context.Context, dsn string) error {
	retries := max(d.cfg.MaxRetries, 1)

	var lastErr error
	for i := 0; i < retries; i++ {
		pool, err := pgxpool.New(ctx, dsn)
		if err == nil {
			err = pool.Ping(ctx)
			if err != nil {
				pool.Close()
			}
		}
		if err != nil {
			lastErr = fmt.Errorf("failed to connect to database: %w", err)
			d.mylog.Error(fmt.Sprintf("DB connection attempt %d failed", i+1), err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second * time.Duration(i+1)):
			}
			continue
		}

		d.pool = pool
		d.mylog.Info("Successfully connected to the database")
		return nil
	}

	return fmt.Errorf("failed to connect to the database after %d attempts: %w", retries, lastErr)
}
