package model

import "time"

type Role string

const (
	RoleRider  Role = "rider"
	RoleDriver Role = "driver"
)

type User struct {
	UserId       int64     `json:"userId"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	MobileNo     string    `json:"mobileNo"`
	PasswordHash []byte    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Principal is the identity carried by an access token.
type Principal struct {
	UserId   int64
	Role     Role
	DriverId int64
	Email    string
}

func (p Principal) IsDriver() bool {
	return p.Role == RoleDriver && p.DriverId != 0
}
