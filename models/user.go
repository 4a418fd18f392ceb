package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleDriver   UserRole = "driver"
	RoleAdmin    UserRole = "admin"
)

// Valid reports whether r is one of the known roles
func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// UserStatus is the account standing; drivers move through pending/approved/rejected
type UserStatus string

const (
	UserPending  UserStatus = "pending"
	UserApproved UserStatus = "approved"
	UserRejected UserStatus = "rejected"
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// Valid reports whether s is one of the known account statuses
func (s UserStatus) Valid() bool {
	switch s {
	case UserPending, UserApproved, UserRejected, UserActive, UserInactive:
		return true
	}
	return false
}

// CanDeliver reports whether a driver in this status may take orders
func (s UserStatus) CanDeliver() bool {
	return s == UserApproved || s == UserActive
}

type User struct {
	ID           string     `json:"_id" gorm:"primaryKey;size:36" bson:"_id"`
	Name         string     `json:"name" gorm:"not null" bson:"name"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null" bson:"email"`
	PasswordHash string     `json:"-" gorm:"column:password;not null" bson:"password"`
	Phone        string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Role         UserRole   `json:"role" gorm:"not null;default:'customer';index" bson:"role"`
	Status       UserStatus `json:"status" gorm:"not null;default:'active';index" bson:"status"`
	StatusNote   string     `json:"statusNote,omitempty" bson:"status_note,omitempty"`

	// Driver-only details
	LicenseNumber string `json:"licenseNumber,omitempty" bson:"license_number,omitempty"`
	VehicleNumber string `json:"vehicleNumber,omitempty" bson:"vehicle_number,omitempty"`
	VehicleType   string `json:"vehicleType,omitempty" bson:"vehicle_type,omitempty"`
	Address       string `json:"address,omitempty" bson:"address,omitempty"`
	City          string `json:"city,omitempty" bson:"city,omitempty"`
	State         string `json:"state,omitempty" bson:"state,omitempty"`

	ProfilePicture *string   `json:"profilePicture" bson:"profile_picture"`
	CreatedAt      time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updated_at"`
}

// DriverDetails groups the optional fields a driver supplies at sign-up or profile edit
type DriverDetails struct {
	LicenseNumber string `json:"licenseNumber"`
	VehicleNumber string `json:"vehicleNumber"`
	VehicleType   string `json:"vehicleType"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
}

// ApplyDriverDetails copies the non-empty fields of d onto the user
func (u *User) ApplyDriverDetails(d DriverDetails) {
	if d.LicenseNumber != "" {
		u.LicenseNumber = d.LicenseNumber
	}
	if d.VehicleNumber != "" {
		u.VehicleNumber = d.VehicleNumber
	}
	if d.VehicleType != "" {
		u.VehicleType = d.VehicleType
	}
	if d.Address != "" {
		u.Address = d.Address
	}
	if d.City != "" {
		u.City = d.City
	}
	if d.State != "" {
		u.State = d.State
	}
}
