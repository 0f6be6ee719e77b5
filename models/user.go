package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Role IDs as seeded in the roles reference table.
const (
	RoleLecturer    = 1
	RoleCoordinator = 2
	RoleManager     = 3
	RoleHR          = 4
)

type User struct {
	UserID     int             `gorm:"primaryKey;column:user_id" json:"user_id"`
	FirstName  string          `gorm:"column:first_name" json:"first_name"`
	LastName   string          `gorm:"column:last_name" json:"last_name"`
	Email      string          `gorm:"column:email;unique" json:"email"`
	Password   string          `gorm:"column:password" json:"-"`
	RoleID     int             `gorm:"column:role_id" json:"role_id"`
	HourlyRate decimal.Decimal `gorm:"column:hourly_rate" json:"hourly_rate"`
	CreateAt   *time.Time      `gorm:"column:create_at" json:"create_at,omitempty"`
	UpdateAt   *time.Time      `gorm:"column:update_at" json:"update_at,omitempty"`
	DeleteAt   *time.Time      `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

// FullName returns the display name used in reports and notifications.
func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}
