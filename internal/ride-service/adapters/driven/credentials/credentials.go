package credentials

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ride-booking/internal/ride-service/core/domain/model"
	"ride-booking/internal/ride-service/core/myerrors"
	"ride-booking/internal/ride-service/core/ports"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

const HashFactor = 10

// Authenticator checks passwords with bcrypt and issues HS256 access tokens.
type Authenticator struct {
	users  ports.IUsersRepo
	secret []byte
	ttl    time.Duration
	cost   int
}

func New(users ports.IUsersRepo, secret string, ttl time.Duration, cost int) *Authenticator {
	if cost == 0 {
		cost = HashFactor
	}
	return &Authenticator{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		cost:   cost,
	}
}

func (a *Authenticator) HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), a.cost)
}

// Verify looks the account up by email when the login contains "@" and by
// mobile number otherwise. An unknown login and a wrong password give the
// same error.
func (a *Authenticator) Verify(ctx context.Context, creds ports.Credentials) (model.User, error) {
	var (
		user model.User
		err  error
	)
	if strings.Contains(creds.Login, "@") {
		user, err = a.users.GetByEmail(ctx, strings.ToLower(creds.Login))
	} else {
		user, err = a.users.GetByMobile(ctx, creds.Login)
	}
	if err != nil {
		if errors.Is(err, myerrors.ErrNotFound) {
			return model.User{}, myerrors.ErrInvalidCredentials
		}
		return model.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return model.User{}, myerrors.ErrInvalidCredentials
	}
	return user, nil
}

func (a *Authenticator) IssueToken(p model.Principal) (string, error) {
	claims := jwt.MapClaims{
		"user_id": strconv.FormatInt(p.UserId, 10),
		"role":    string(p.Role),
		"email":   p.Email,
		"exp":     time.Now().Add(a.ttl).Unix(),
	}
	if p.DriverId != 0 {
		claims["driver_id"] = strconv.FormatInt(p.DriverId, 10)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (a *Authenticator) ParseToken(tokenString string) (model.Principal, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return model.Principal{}, myerrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.Principal{}, myerrors.ErrInvalidToken
	}

	var p model.Principal
	rawUserId, _ := claims["user_id"].(string)
	if p.UserId, err = strconv.ParseInt(rawUserId, 10, 64); err != nil {
		return model.Principal{}, myerrors.ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	p.Role = model.Role(role)
	if p.Role != model.RoleRider && p.Role != model.RoleDriver {
		return model.Principal{}, myerrors.ErrInvalidToken
	}
	p.Email, _ = claims["email"].(string)
	if rawDriverId, ok := claims["driver_id"].(string); ok {
		if p.DriverId, err = strconv.ParseInt(rawDriverId, 10, 64); err != nil {
			return model.Principal{}, myerrors.ErrInvalidToken
		}
	}
	return p, nil
}
