package handle

import (
	"context"
	"net/http"
	"time"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/core/domain/dto"
	"ride-booking/internal/ride-service/core/ports"
)

type UsersHandler struct {
	accounts ports.IAccountService
	log      mylogger.Logger
}

func NewUsersHandler(accounts ports.IAccountService, log mylogger.Logger) *UsersHandler {
	return &UsersHandler{
		accounts: accounts,
		log:      log,
	}
}

func (uh *UsersHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerFrom(r.Context(), uh.log).Action("RegisterUser")
		req := dto.UserRegistrationRequest{}

		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, log, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		id, err := uh.accounts.RegisterUser(ctx, req)
		if err != nil {
			writeError(w, log, err)
			return
		}
		jsonResponse(w, http.StatusCreated, dto.RegistrationResponse{
			Message: "User registered successfully",
			Id:      id,
		})
	}
}

func (uh *UsersHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerFrom(r.Context(), uh.log).Action("LoginUser")
		req := dto.LoginRequest{}

		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, log, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := uh.accounts.LoginUser(ctx, req)
		if err != nil {
			writeError(w, log, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}
