package leave

import (
	"time"

	"go-leavelink/internal/leavetype"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveRequest struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	// RequestNumber is the human-facing reference, e.g. LR-2026-00042.
	RequestNumber string    `gorm:"size:30;not null;uniqueIndex:uq_leave_requests_number"`
	ApplicantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	DepartmentID  uuid.UUID `gorm:"type:uuid;not null;index"`
	LeaveTypeID   uuid.UUID `gorm:"type:uuid;not null"`
	StartDate     time.Time `gorm:"type:date;not null"`
	EndDate       time.Time `gorm:"type:date;not null"`
	TotalDays     int       `gorm:"not null"`
	Reason        string    `gorm:"type:text;not null"`
	Status        string    `gorm:"size:20;not null;index"`

	CheckedBy *uuid.UUID `gorm:"type:uuid"`
	CheckedAt *time.Time
	DecidedBy *uuid.UUID `gorm:"type:uuid"`
	DecidedAt *time.Time

	LeaveType *leavetype.LeaveType `gorm:"foreignKey:LeaveTypeID"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
