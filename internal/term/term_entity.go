package term

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Term struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string         `gorm:"column:name;type:varchar(100);not null"`
	AcademicYear string         `gorm:"column:academic_year;type:varchar(20);not null;index"`
	StartDate    time.Time      `gorm:"column:start_date;type:date;not null"`
	EndDate      time.Time      `gorm:"column:end_date;type:date;not null"`
	IsActive     bool           `gorm:"column:is_active;not null;default:false"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Term) TableName() string {
	return "terms"
}

// Bounds returns the half-open instant range [start, end) covering the term's calendar
// dates in loc. Both dates are inclusive.
func (t Term) Bounds(loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(t.StartDate.Year(), t.StartDate.Month(), t.StartDate.Day(), 0, 0, 0, 0, loc)
	end := time.Date(t.EndDate.Year(), t.EndDate.Month(), t.EndDate.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return start, end
}
