package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

type UserRole string

const (
	UserRoleCustomer UserRole = "CUSTOMER"
	UserRoleManager  UserRole = "MANAGER"
	UserRoleAdmin    UserRole = "ADMIN"
)

type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Name      string
	Status    UserStatus
	Role      UserRole
	CreatedAt time.Time
	UpdatedAt time.Time
}
