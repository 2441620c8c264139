package cadet

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

type Cadet struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CadetNumber string         `gorm:"column:cadet_number;type:varchar(30);not null;uniqueIndex:uq_cadet_number"`
	FullName    string         `gorm:"column:full_name;type:varchar(150);not null"`
	UnitID      string         `gorm:"column:unit_id;type:varchar(50);not null;index"`
	Status      string         `gorm:"column:status;type:varchar(20);not null;default:ACTIVE"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Cadet) TableName() string {
	return "cadets"
}

func (c Cadet) IsActive() bool {
	return c.Status == StatusActive
}
