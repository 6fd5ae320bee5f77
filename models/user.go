package models

import (
	"time"
)

// Role is the global role carried by every user identity.
type Role string

const (
	RoleReviewer  Role = "reviewer"
	RoleSubmitter Role = "submitter"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleReviewer || r == RoleSubmitter
}

type User struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"column:name;size:255;not null" json:"name"`
	Email     string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:password;size:255;not null" json:"-"`
	Role      Role      `gorm:"column:role;size:20;not null;index" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}
