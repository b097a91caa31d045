package db

import (
	"context"
	"errors"
	"fmt"

	"ride-booking/internal/ride-service/core/domain/model"
	"ride-booking/internal/ride-service/core/myerrors"

	"github.com/jackc/pgx/v5"
)

const userColumns = `user_id, full_name, email, mobile_no, password_hash, person_role, created_at`

type UsersRepo struct {
	db *DB
}

func NewUsersRepo(db *DB) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

func (ur *UsersRepo) CreateUser(ctx context.Context, user model.User) (int64, error) {
	return insertUser(ctx, ur.db.pool, user)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertUser(ctx context.Context, q queryRower, user model.User) (int64, error) {
	sql := `
	INSERT INTO users (
		full_name,
		email,
		mobile_no,
		password_hash,
		person_role
	) VALUES ($1, $2, $3, $4, $5) RETURNING user_id`

	var id int64
	row := q.QueryRow(ctx, sql, user.FullName, user.Email, user.MobileNo, user.PasswordHash, string(user.Role))
	if err := row.Scan(&id); err != nil {
		if pgCode(err) == uniqueViolation {
			return 0, myerrors.ErrEmailRegistered
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (ur *UsersRepo) Exists(ctx context.Context, userId int64) (bool, error) {
	q := `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`

	var exists bool
	if err := ur.db.pool.QueryRow(ctx, q, userId).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

func (ur *UsersRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return ur.getOne(ctx, q, email)
}

// GetByMobile returns the oldest account registered with mobileNo.
func (ur *UsersRepo) GetByMobile(ctx context.Context, mobileNo string) (model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE mobile_no = $1 ORDER BY user_id LIMIT 1`
	return ur.getOne(ctx, q, mobileNo)
}

func (ur *UsersRepo) getOne(ctx context.Context, q string, arg any) (model.User, error) {
	var (
		u    model.User
		role string
	)
	err := ur.db.pool.QueryRow(ctx, q, arg).Scan(&u.UserId, &u.FullName, &u.Email, &u.MobileNo, &u.PasswordHash, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, myerrors.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	u.Role = model.Role(role)
	return u, nil
}
