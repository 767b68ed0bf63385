package department

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Department struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name        string     `gorm:"size:255;not null;uniqueIndex:uq_departments_name"`
	Code        string     `gorm:"size:20;not null;uniqueIndex:uq_departments_code"`
	Description string     `gorm:"type:text"`
	HeadID      *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
