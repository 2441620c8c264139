package session

import (
	"time"

	"go-rotc/internal/attendance"
	"go-rotc/internal/geofence"

	"github.com/google/uuid"
)

const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"

	// SystemActor completes sessions whose window has passed.
	SystemActor = "system"
)

type AttendanceSession struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Code             string     `gorm:"column:code;type:varchar(20);not null;uniqueIndex:uq_session_unit_code,priority:2"`
	UnitID           string     `gorm:"column:unit_id;type:varchar(50);not null;uniqueIndex:uq_session_unit_code,priority:1;index:idx_session_unit_status,priority:1"`
	Title            string     `gorm:"column:title;type:varchar(150)"`
	CenterLatitude   float64    `gorm:"column:center_latitude;not null"`
	CenterLongitude  float64    `gorm:"column:center_longitude;not null"`
	RadiusMeters     float64    `gorm:"column:radius_meters;not null"`
	StartTime        time.Time  `gorm:"column:start_time;type:timestamptz;not null;index"`
	EndTime          time.Time  `gorm:"column:end_time;type:timestamptz;not null"`
	TimeLimitMinutes int        `gorm:"column:time_limit_minutes;not null"`
	Status           string     `gorm:"column:status;type:varchar(20);not null;default:ACTIVE;index:idx_session_unit_status,priority:2"`
	CreatedBy        string     `gorm:"column:created_by;type:varchar(100);not null"`
	CompletedAt      *time.Time `gorm:"column:completed_at;type:timestamptz"`
	CompletedBy      *string    `gorm:"column:completed_by;type:varchar(100)"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (AttendanceSession) TableName() string {
	return "attendance_sessions"
}

func (s AttendanceSession) Center() geofence.Point {
	return geofence.Point{Latitude: s.CenterLatitude, Longitude: s.CenterLongitude}
}

func (s AttendanceSession) IsActive() bool {
	return s.Status == StatusActive
}

// Expired reports whether now is past end_time. end_time itself is still open.
func (s AttendanceSession) Expired(now time.Time) bool {
	return now.After(s.EndTime)
}

// Accepts reports whether a submission at t falls inside [start_time, end_time].
func (s AttendanceSession) Accepts(t time.Time) bool {
	return !t.Before(s.StartTime) && !t.After(s.EndTime)
}

// Classify returns PRESENT within the first graceFraction of the window and LATE after it.
func (s AttendanceSession) Classify(t time.Time, graceFraction float64) string {
	window := s.EndTime.Sub(s.StartTime)
	cutoff := s.StartTime.Add(time.Duration(float64(window) * graceFraction))
	if t.After(cutoff) {
		return attendance.StatusLate
	}
	return attendance.StatusPresent
}
