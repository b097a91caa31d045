package model

type Driver struct {
	DriverId    int64  `json:"driverId"`
	UserId      int64  `json:"userId"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	MobileNo    string `json:"mobileNo"`
	LicenseNo   string `json:"licenseNo"`
	CarModel    string `json:"carModel"`
	IsAvailable bool   `json:"isAvailable"`
}
