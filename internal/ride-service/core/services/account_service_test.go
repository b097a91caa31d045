package services

import (
	"context"
	"errors"
	"testing"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/core/domain/dto"
	"ride-booking/internal/ride-service/core/domain/model"
	"ride-booking/internal/ride-service/core/myerrors"
	"ride-booking/internal/ride-service/testutil"
)

func newAccounts(t *testing.T) (*AccountService, *testutil.Authenticator) {
	t.Helper()
	store := testutil.NewStore()
	auth := &testutil.Authenticator{Users: store}
	return NewAccountService(mylogger.Discard(), store, store, auth), auth
}

func TestRegisterAndLoginUser(t *testing.T) {
	svc, auth := newAccounts(t)
	ctx := context.Background()

	id, err := svc.RegisterUser(ctx, dto.UserRegistrationRequest{
		FullName: "Asha Rao",
		Email:    " Asha@Example.com ",
		MobileNo: "9876543210",
		Password: "secret1",
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, login := range []string{"asha@example.com", "9876543210"} {
		resp, err := svc.LoginUser(ctx, dto.LoginRequest{EmailOrPhone: login, Password: "secret1"})
		if err != nil {
			t.Fatalf("login %q: %v", login, err)
		}
		if resp.User.Id != id || resp.User.Role != string(model.RoleRider) {
			t.Errorf("user = %+v", resp.User)
		}
		p, err := auth.ParseToken(resp.Token)
		if err != nil || p.UserId != id {
			t.Errorf("token principal = %+v %v", p, err)
		}
	}

	_, err = svc.LoginUser(ctx, dto.LoginRequest{EmailOrPhone: "asha@example.com", Password: "wrong1"})
	if !errors.Is(err, myerrors.ErrUnauthorized) {
		t.Errorf("bad password err = %v", err)
	}
	_, err = svc.LoginUser(ctx, dto.LoginRequest{EmailOrPhone: "nobody@example.com", Password: "secret1"})
	if !errors.Is(err, myerrors.ErrUnauthorized) {
		t.Errorf("unknown login err = %v", err)
	}

	_, err = svc.RegisterUser(ctx, dto.UserRegistrationRequest{
		FullName: "Other", Email: "asha@example.com", MobileNo: "9876543211", Password: "secret1",
	})
	if !errors.Is(err, myerrors.ErrEmailRegistered) {
		t.Errorf("duplicate email err = %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAccounts(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.UserRegistrationRequest
	}{
		{"empty name", dto.UserRegistrationRequest{Email: "a@b.io", MobileNo: "9876543210", Password: "secret1"}},
		{"two at signs", dto.UserRegistrationRequest{FullName: "A", Email: "a@@b.io", MobileNo: "9876543210", Password: "secret1"}},
		{"letters in mobile", dto.UserRegistrationRequest{FullName: "A", Email: "a@b.io", MobileNo: "98765abc10", Password: "secret1"}},
		{"short password", dto.UserRegistrationRequest{FullName: "A", Email: "a@b.io", MobileNo: "9876543210", Password: "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.RegisterUser(ctx, tt.req); !errors.Is(err, myerrors.ErrValidation) {
				t.Errorf("err = %v", err)
			}
		})
	}
}

func TestRegisterAndLoginDriver(t *testing.T) {
	svc, auth := newAccounts(t)
	ctx := context.Background()

	driverId, err := svc.RegisterDriver(ctx, dto.DriverRegistrationRequest{
		FullName:  "Ravi Kumar",
		Email:     "ravi@example.com",
		MobileNo:  "9123456780",
		Password:  "drive1",
		LicenseNo: "KA01-2020",
		CarModel:  "Swift",
	})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := svc.LoginDriver(ctx, dto.LoginRequest{EmailOrPhone: "ravi@example.com", Password: "drive1"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.User.Id != driverId || resp.User.Role != string(model.RoleDriver) {
		t.Errorf("driver login user = %+v", resp.User)
	}
	p, err := auth.ParseToken(resp.Token)
	if err != nil || !p.IsDriver() || p.DriverId != driverId {
		t.Errorf("principal = %+v %v", p, err)
	}

	drivers, err := svc.ListDrivers(ctx, true)
	if err != nil || len(drivers) != 1 || drivers[0].FullName != "Ravi Kumar" || !drivers[0].IsAvailable {
		t.Errorf("available drivers = %+v %v", drivers, err)
	}

	_, err = svc.RegisterDriver(ctx, dto.DriverRegistrationRequest{
		FullName: "Copy", Email: "copy@example.com", MobileNo: "9123456781", Password: "drive1",
		LicenseNo: "KA01-2020", CarModel: "Swift",
	})
	if !errors.Is(err, myerrors.ErrLicenseRegistered) {
		t.Errorf("duplicate licence err = %v", err)
	}
}

func TestLoginDriverRejectsRiders(t *testing.T) {
	svc, _ := newAccounts(t)
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, dto.UserRegistrationRequest{
		FullName: "Asha", Email: "asha@example.com", MobileNo: "9876543210", Password: "secret1",
	}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.LoginDriver(ctx, dto.LoginRequest{EmailOrPhone: "asha@example.com", Password: "secret1"})
	if !errors.Is(err, myerrors.ErrInvalidCredentials) {
		t.Errorf("err = %v", err)
	}
}
