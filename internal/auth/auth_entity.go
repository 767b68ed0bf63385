package auth

import (
	"time"

	"go-leavelink/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Email        string      `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email"`
	Name         string      `gorm:"type:varchar(255);not null"`
	Password     string      `gorm:"type:varchar(255);not null"`
	Role         domain.Role `gorm:"type:varchar(50);not null"`
	DepartmentID *uuid.UUID  `gorm:"type:uuid;index"`
	// ActsAsHOD marks an academic who additionally heads their department.
	ActsAsHOD bool `gorm:"not null;default:false"`
	IsActive  bool `gorm:"not null;default:true"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) Identity() domain.Identity {
	id := domain.Identity{
		UserID:    u.ID.String(),
		Role:      u.Role,
		ActsAsHOD: u.ActsAsHOD,
	}
	if u.DepartmentID != nil {
		id.DepartmentID = u.DepartmentID.String()
	}
	return id
}
