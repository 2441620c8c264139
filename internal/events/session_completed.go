package events

import "time"

const (
	SessionLifecycleTopic     = "rotc.attendance.session.v1"
	SessionCompletedEventType = "session_completed"
)

const (
	TriggerCoordinator = "coordinator"
	TriggerExpiry      = "expiry"
)

type SessionCompletedEvent struct {
	EventType   string    `json:"event_type"`
	SessionID   string    `json:"session_id"`
	UnitID      string    `json:"unit_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CompletedAt time.Time `json:"completed_at"`
	CompletedBy string    `json:"completed_by"`
	Trigger     string    `json:"trigger"`
	OccurredAt  time.Time `json:"occurred_at"`
}
