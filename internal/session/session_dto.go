package session

import (
	"time"

	"go-rotc/internal/geofence"
)

type CreateSessionRequest struct {
	UnitID           string     `json:"unit_id" binding:"required"`
	Title            string     `json:"title" binding:"max=150"`
	Latitude         *float64   `json:"latitude" binding:"required"`
	Longitude        *float64   `json:"longitude" binding:"required"`
	RadiusMeters     float64    `json:"radius_meters"`
	TimeLimitMinutes int        `json:"time_limit_minutes"`
	StartTime        *time.Time `json:"start_time"`
}

type CheckInRequest struct {
	CadetID   string   `json:"cadet_id" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

type SessionResponse struct {
	ID               string  `json:"id"`
	Code             string  `json:"code"`
	UnitID           string  `json:"unit_id"`
	Title            string  `json:"title,omitempty"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	RadiusMeters     float64 `json:"radius_meters"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	TimeLimitMinutes int     `json:"time_limit_minutes"`
	Status           string  `json:"status"`
	CreatedBy        string  `json:"created_by"`
	CompletedAt      *string `json:"completed_at,omitempty"`
	CompletedBy      *string `json:"completed_by,omitempty"`
}

type GeofenceResponse struct {
	SessionID    string           `json:"session_id"`
	Center       geofence.Point   `json:"center"`
	RadiusMeters float64          `json:"radius_meters"`
	Polygon      []geofence.Point `json:"polygon"`
}
