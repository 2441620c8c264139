package events

import "time"

const (
	GradeComputedTopic     = "rotc.grade.computed.v1"
	GradeComputedEventType = "grade_computed"
)

type GradeComputedEvent struct {
	EventType    string    `json:"event_type"`
	GradeID      string    `json:"grade_id"`
	CadetID      string    `json:"cadet_id"`
	TermID       string    `json:"term_id"`
	OverallGrade float64   `json:"overall_grade"`
	Equivalent   float64   `json:"equivalent"`
	Status       string    `json:"status"`
	Version      int       `json:"version"`
	Source       string    `json:"source"`
	OccurredAt   time.Time `json:"occurred_at"`
}
