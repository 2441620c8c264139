package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"
	StatusAbsent  = "ABSENT"
)

// Record is one check-in outcome. Rows are never updated after insert.
type Record struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID      uuid.UUID `gorm:"column:session_id;type:uuid;not null;uniqueIndex:uq_attendance_session_cadet,priority:1"`
	CadetID        uuid.UUID `gorm:"column:cadet_id;type:uuid;not null;uniqueIndex:uq_attendance_session_cadet,priority:2;index"`
	SubmittedAt    time.Time `gorm:"column:submitted_at;type:timestamptz;not null"`
	Latitude       *float64  `gorm:"column:latitude"`
	Longitude      *float64  `gorm:"column:longitude"`
	DistanceMeters *float64  `gorm:"column:distance_meters"`
	Status         string    `gorm:"column:status;type:varchar(10);not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (Record) TableName() string {
	return "attendance_records"
}

// CountsToward reports whether the record adds a day to the aggregate.
func (r Record) CountsToward(countLate bool) bool {
	switch r.Status {
	case StatusPresent:
		return true
	case StatusLate:
		return countLate
	default:
		return false
	}
}
