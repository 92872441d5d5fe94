package model

import "time"

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half-day"
	StatusLeave   Status = "leave"
)

var Statuses = []Status{StatusPresent, StatusLate, StatusAbsent, StatusHalfDay, StatusLeave}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Where a record was opened from.
const (
	SourceSession = "session"
	SourcePunch   = "punch"
	SourceManual  = "manual"
)

// DateLayout is the format of Attendance.Date.
const DateLayout = "2006-01-02"

// Attendance is one ledger entry per user per calendar day. There is no soft delete:
// a tombstone would keep occupying the (user_id, date) slot.
type Attendance struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"user_id" gorm:"not null;uniqueIndex:uq_attendance_user_date,priority:1"`
	Date        string     `json:"date" gorm:"size:10;not null;uniqueIndex:uq_attendance_user_date,priority:2;index"`
	LoginTime   *time.Time `json:"login_time"`
	LogoutTime  *time.Time `json:"logout_time"`
	Status      Status     `json:"status" gorm:"type:varchar(10);not null;default:present;index"`
	WorkedHours float64    `json:"worked_hours" gorm:"not null;default:0"`
	Notes       string     `json:"notes"`
	Source      string     `json:"source" gorm:"size:10;not null;default:session"`
	CreatedBy   uint       `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
