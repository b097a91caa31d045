package testutil

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"ride-booking/internal/ride-service/core/domain/model"
	"ride-booking/internal/ride-service/core/myerrors"
	"ride-booking/internal/ride-service/core/ports"
)

// EventRecorder is an event sink that keeps everything it is given.
type EventRecorder struct {
	mu     sync.Mutex
	events []model.RideEvent

	// Err, when set, is returned from Publish after recording.
	Err error
}

func (r *EventRecorder) Publish(ctx context.Context, event model.RideEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.Err
}

func (r *EventRecorder) Events() []model.RideEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.RideEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Authenticator is a plaintext stand-in for the bcrypt/JWT credentials
// adapter. Tokens look like "user:<id>:<role>:<driverId>".
type Authenticator struct {
	Users ports.IUsersRepo
}

var _ ports.IAuthenticator = (*Authenticator)(nil)

func (a *Authenticator) HashPassword(password string) ([]byte, error) {
	return []byte("plain:" + password), nil
}

func (a *Authenticator) Verify(ctx context.Context, creds ports.Credentials) (model.User, error) {
	var (
		user model.User
		err  error
	)
	if strings.Contains(creds.Login, "@") {
		user, err = a.Users.GetByEmail(ctx, creds.Login)
	} else {
		user, err = a.Users.GetByMobile(ctx, creds.Login)
	}
	if err != nil {
		if errors.Is(err, myerrors.ErrNotFound) {
			return model.User{}, myerrors.ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if string(user.PasswordHash) != "plain:"+creds.Password {
		return model.User{}, myerrors.ErrInvalidCredentials
	}
	return user, nil
}

func (a *Authenticator) IssueToken(p model.Principal) (string, error) {
	return fmt.Sprintf("user:%d:%s:%d", p.UserId, p.Role, p.DriverId), nil
}

func (a *Authenticator) ParseToken(token string) (model.Principal, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 4 || parts[0] != "user" {
		return model.Principal{}, myerrors.ErrInvalidToken
	}
	userId, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return model.Principal{}, myerrors.ErrInvalidToken
	}
	driverId, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return model.Principal{}, myerrors.ErrInvalidToken
	}
	return model.Principal{UserId: userId, Role: model.Role(parts[2]), DriverId: driverId}, nil
}

// RiderToken and DriverToken build tokens Authenticator accepts.
func RiderToken(userId int64) string {
	return fmt.Sprintf("user:%d:%s:0", userId, model.RoleRider)
}

func DriverToken(userId, driverId int64) string {
	return fmt.Sprintf("user:%d:%s:%d", userId, model.RoleDriver, driverId)
}
