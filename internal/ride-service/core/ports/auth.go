package ports

import (
	"context"

	"ride-booking/internal/ride-service/core/domain/model"
)

type Credentials struct {
	Login    string
	Password string
}

// IAuthenticator hashes passwords, checks credentials and issues tokens.
type IAuthenticator interface {
	HashPassword(password string) ([]byte, error)
	Verify(ctx context.Context, creds Credentials) (model.User, error)
	IssueToken(p model.Principal) (string, error)
	ParseToken(token string) (model.Principal, error)
}
