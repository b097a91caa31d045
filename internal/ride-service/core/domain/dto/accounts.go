package dto

type UserRegistrationRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	MobileNo string `json:"mobileNo"`
	Password string `json:"password"`
}

type DriverRegistrationRequest struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	MobileNo  string `json:"mobileNo"`
	Password  string `json:"password"`
	LicenseNo string `json:"licenseNo"`
	CarModel  string `json:"carModel"`
}

// LoginRequest accepts either an email or a mobile number in EmailOrPhone.
type LoginRequest struct {
	EmailOrPhone string `json:"emailOrPhone"`
	Password     string `json:"password"`
}

type RegistrationResponse struct {
	Message string `json:"message"`
	Id      int64  `json:"id"`
}

type LoginResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    LoginUser `json:"user"`
}

// LoginUser.Id is the user id for riders and the driver id for drivers.
type LoginUser struct {
	Id       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	MobileNo string `json:"mobileNo"`
	Role     string `json:"role"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable"`
}
