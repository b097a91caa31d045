package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ride-booking/internal/ride-service/core/domain/dto"
	"ride-booking/internal/ride-service/core/myerrors"
)

const (
	MinNameLen = 1
	MaxNameLen = 100

	MinEmailLen = 5
	MaxEmailLen = 100

	MinPasswordLen = 5
	MaxPasswordLen = 50

	MinMobileLen = 7
	MaxMobileLen = 15

	MaxAddressLen  = 255
	MaxCarFieldLen = 50
)

func validateRideRequest(req dto.CreateRideRequest) error {
	if req.UserId <= 0 {
		return myerrors.Validation("userId is required")
	}
	if err := validateAddress("pickup", req.Pickup); err != nil {
		return err
	}
	if err := validateAddress("destination", req.Destination); err != nil {
		return err
	}
	if req.Fare == nil || *req.Fare <= 0 {
		return myerrors.ErrInvalidFare
	}
	return nil
}

func validateAddress(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return myerrors.Validation(field + " is required")
	}
	if utf8.RuneCountInString(value) > MaxAddressLen {
		return myerrors.Validation(fmt.Sprintf("%s must be at most %d characters", field, MaxAddressLen))
	}
	return nil
}

func validateUserRegistration(req dto.UserRegistrationRequest) error {
	if err := validateName(req.FullName); err != nil {
		return myerrors.Validation(fmt.Sprintf("invalid name: %v", err))
	}
	if err := validateEmail(req.Email); err != nil {
		return myerrors.Validation(fmt.Sprintf("invalid email: %v", err))
	}
	if err := validateMobile(req.MobileNo); err != nil {
		return myerrors.Validation(fmt.Sprintf("invalid mobile number: %v", err))
	}
	if err := validatePassword(req.Password); err != nil {
		return myerrors.Validation(fmt.Sprintf("invalid password: %v", err))
	}
	return nil
}

func validateDriverRegistration(req dto.DriverRegistrationRequest) error {
	err := validateUserRegistration(dto.UserRegistrationRequest{
		FullName: req.FullName,
		Email:    req.Email,
		MobileNo: req.MobileNo,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	if err := validateCarField(req.LicenseNo); err != nil {
		return myerrors.Validation(fmt.Sprintf("invalid licence number: %v", err))
	}
	if err := validateCarField(req.CarModel); err != nil {
		return myerrors.Validation(fmt.Sprintf("invalid car model: %v", err))
	}
	return nil
}

func validateLogin(req dto.LoginRequest) error {
	if strings.TrimSpace(req.EmailOrPhone) == "" || req.Password == "" {
		return myerrors.Validation("emailOrPhone and password are required")
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return myerrors.ErrFieldIsEmpty
	}

	nameLen := utf8.RuneCountInString(name)
	if nameLen < MinNameLen || nameLen > MaxNameLen {
		return fmt.Errorf("must be in range [%d, %d]", MinNameLen, MaxNameLen)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return myerrors.ErrFieldIsEmpty
	}

	emailLen := len(email)
	if emailLen < MinEmailLen || emailLen > MaxEmailLen {
		return fmt.Errorf("must be in range [%d, %d]", MinEmailLen, MaxEmailLen)
	}

	if strings.Count(email, "@") != 1 {
		return fmt.Errorf("must contain only one @: %s", email)
	}
	return nil
}

func validateMobile(mobile string) error {
	if mobile == "" {
		return myerrors.ErrFieldIsEmpty
	}

	digits := strings.TrimPrefix(mobile, "+")
	if len(digits) < MinMobileLen || len(digits) > MaxMobileLen {
		return fmt.Errorf("must have between %d and %d digits", MinMobileLen, MaxMobileLen)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return myerrors.ErrInvalidPhoneNumber
		}
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return myerrors.ErrFieldIsEmpty
	}

	passwordLen := len(password)
	if passwordLen < MinPasswordLen || passwordLen > MaxPasswordLen {
		return fmt.Errorf("must be in range [%d, %d]", MinPasswordLen, MaxPasswordLen)
	}
	return nil
}

func validateCarField(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return myerrors.ErrFieldIsEmpty
	}
	if len(value) > MaxCarFieldLen {
		return fmt.Errorf("must be at most %d characters", MaxCarFieldLen)
	}
	return nil
}
