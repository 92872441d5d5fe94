package model

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleOwner    Role = "Owner"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleEmployee:
		return true
	}
	return false
}

type SessionState string

const (
	SessionActive   SessionState = "active"
	SessionInactive SessionState = "inactive"
)

type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Name     string `json:"name"`
	Email    string `json:"email" gorm:"uniqueIndex;size:191;not null"`
	Password string `json:"-"`
	Role     Role   `json:"role" gorm:"type:varchar(20);not null;default:Employee"`
	Category string `json:"category"` // HR/Developer/DevOps

	// Only the session coordinator writes these two.
	SessionState SessionState `json:"session_state" gorm:"type:varchar(10);not null;default:inactive"`
	SessionID    string       `json:"-" gorm:"size:36"`
}
