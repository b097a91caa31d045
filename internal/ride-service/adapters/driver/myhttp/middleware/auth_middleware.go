package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"ride-booking/internal/ride-service/adapters/driver/myhttp/handle"
	"ride-booking/internal/ride-service/core/domain/model"
	"ride-booking/internal/ride-service/core/myerrors"
)

// ITokenParser turns a bearer token into the caller's identity.
type ITokenParser interface {
	ParseToken(token string) (model.Principal, error)
}

type AuthMiddleware struct {
	tokens ITokenParser
}

func NewAuthMiddleware(tokens ITokenParser) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

// Wrap rejects requests without a valid bearer token and puts the caller
// into the request context.
func (am *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			handle.JsonError(w, http.StatusUnauthorized, myerrors.New(myerrors.ErrUnauthorized, "Empty JWT-Token"))
			return
		}
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			handle.JsonError(w, http.StatusUnauthorized, myerrors.New(myerrors.ErrUnauthorized, "Authorization header must be Bearer <token>"))
			return
		}

		p, err := am.tokens.ParseToken(strings.TrimSpace(tokenString))
		if err != nil {
			handle.JsonError(w, http.StatusUnauthorized, myerrors.ErrInvalidToken)
			return
		}

		r.Header.Set("X-UserId", strconv.FormatInt(p.UserId, 10))
		next.ServeHTTP(w, r.WithContext(handle.WithPrincipal(r.Context(), p)))
	})
}
