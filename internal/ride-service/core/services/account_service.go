package services

import (
	"context"
	"errors"
	"strings"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/core/domain/dto"
	"ride-booking/internal/ride-service/core/domain/model"
	"ride-booking/internal/ride-service/core/myerrors"
	"ride-booking/internal/ride-service/core/ports"
)

type AccountService struct {
	mylog       mylogger.Logger
	UsersRepo   ports.IUsersRepo
	DriversRepo ports.IDriversRepo
	Auth        ports.IAuthenticator
}

func NewAccountService(
	log mylogger.Logger,
	usersRepo ports.IUsersRepo,
	driversRepo ports.IDriversRepo,
	auth ports.IAuthenticator,
) *AccountService {
	return &AccountService{
		mylog:       log,
		UsersRepo:   usersRepo,
		DriversRepo: driversRepo,
		Auth:        auth,
	}
}

func (s *AccountService) RegisterUser(ctx context.Context, req dto.UserRegistrationRequest) (int64, error) {
	log := s.mylog.Action("RegisterUser")

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	req.MobileNo = strings.TrimSpace(req.MobileNo)
	if err := validateUserRegistration(req); err != nil {
		return 0, err
	}

	hash, err := s.Auth.HashPassword(req.Password)
	if err != nil {
		log.Error("cannot hash password", err)
		return 0, err
	}

	userId, err := s.UsersRepo.CreateUser(ctx, model.User{
		FullName:     req.FullName,
		Email:        req.Email,
		MobileNo:     req.MobileNo,
		PasswordHash: hash,
		Role:         model.RoleRider,
	})
	if err != nil {
		if !isDomainError(err) {
			log.Error("cannot create user", err)
		}
		return 0, err
	}

	log.Info("user registered", "user-id", userId)
	return userId, nil
}

// RegisterDriver creates the driver's user account and driver profile
// together and returns the driver id.
func (s *AccountService) RegisterDriver(ctx context.Context, req dto.DriverRegistrationRequest) (int64, error) {
	log := s.mylog.Action("RegisterDriver")

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	req.MobileNo = strings.TrimSpace(req.MobileNo)
	req.LicenseNo = strings.TrimSpace(req.LicenseNo)
	req.CarModel = strings.TrimSpace(req.CarModel)
	if err := validateDriverRegistration(req); err != nil {
		return 0, err
	}

	hash, err := s.Auth.HashPassword(req.Password)
	if err != nil {
		log.Error("cannot hash password", err)
		return 0, err
	}

	user := model.User{
		FullName:     req.FullName,
		Email:        req.Email,
		MobileNo:     req.MobileNo,
		PasswordHash: hash,
		Role:         model.RoleDriver,
	}
	driver := model.Driver{
		LicenseNo:   req.LicenseNo,
		CarModel:    req.CarModel,
		IsAvailable: true,
	}
	userId, driverId, err := s.DriversRepo.CreateDriver(ctx, user, driver)
	if err != nil {
		if !isDomainError(err) {
			log.Error("cannot create driver", err)
		}
		return 0, err
	}

	log.Info("driver registered", "user-id", userId, "driver-id", driverId)
	return driverId, nil
}

func (s *AccountService) LoginUser(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	return s.login(ctx, s.mylog.Action("LoginUser"), req, false)
}

// LoginDriver only accepts driver accounts; the returned user id is the driver id.
func (s *AccountService) LoginDriver(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	return s.login(ctx, s.mylog.Action("LoginDriver"), req, true)
}

func (s *AccountService) login(ctx context.Context, log mylogger.Logger, req dto.LoginRequest, asDriver bool) (dto.LoginResponse, error) {
	if err := validateLogin(req); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.Auth.Verify(ctx, ports.Credentials{
		Login:    strings.TrimSpace(req.EmailOrPhone),
		Password: req.Password,
	})
	if err != nil {
		if !isDomainError(err) {
			log.Error("cannot verify credentials", err)
		}
		return dto.LoginResponse{}, err
	}
	if asDriver && user.Role != model.RoleDriver {
		return dto.LoginResponse{}, myerrors.ErrInvalidCredentials
	}

	principal := model.Principal{
		UserId: user.UserId,
		Role:   user.Role,
		Email:  user.Email,
	}
	if user.Role == model.RoleDriver {
		driver, err := s.DriversRepo.GetByUserId(ctx, user.UserId)
		if err != nil {
			if errors.Is(err, myerrors.ErrNotFound) {
				return dto.LoginResponse{}, myerrors.ErrInvalidCredentials
			}
			log.Error("cannot load driver profile", err, "user-id", user.UserId)
			return dto.LoginResponse{}, err
		}
		principal.DriverId = driver.DriverId
	}

	token, err := s.Auth.IssueToken(principal)
	if err != nil {
		log.Error("cannot issue token", err, "user-id", user.UserId)
		return dto.LoginResponse{}, err
	}

	id := user.UserId
	if asDriver {
		id = principal.DriverId
	}
	log.Info("login succeeded", "user-id", user.UserId, "role", user.Role)
	return dto.LoginResponse{
		Message: "Login successful",
		Token:   token,
		User: dto.LoginUser{
			Id:       id,
			FullName: user.FullName,
			Email:    user.Email,
			MobileNo: user.MobileNo,
			Role:     string(user.Role),
		},
	}, nil
}

func (s *AccountService) ListDrivers(ctx context.Context, onlyAvailable bool) ([]model.Driver, error) {
	drivers, err := s.DriversRepo.ListDrivers(ctx, onlyAvailable)
	if err != nil {
		s.mylog.Action("ListDrivers").Error("cannot list drivers", err)
		return nil, err
	}
	if drivers == nil {
		drivers = []model.Driver{}
	}
	return drivers, nil
}
