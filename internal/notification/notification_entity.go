package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusUnread = "UNREAD"
	StatusRead   = "READ"
)

type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	// LeaveID dedups delivery: a request is decided once, so re-consumed
	// events hit uq_notifications_leave instead of a second row.
	LeaveID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_notifications_leave"`
	Title   string    `gorm:"size:120;not null"`
	Message string    `gorm:"type:text;not null"`
	Status  string    `gorm:"size:20;not null;index"`
	ReadAt  *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
