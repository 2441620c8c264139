package attendance

type RecordResponse struct {
	ID             string   `json:"id"`
	SessionID      string   `json:"session_id"`
	CadetID        string   `json:"cadet_id"`
	SubmittedAt    string   `json:"submitted_at"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
	Status         string   `json:"status"`
}

type AggregateResponse struct {
	CadetID     string `json:"cadet_id"`
	TermID      string `json:"term_id"`
	DaysPresent int    `json:"days_present"`
	CountsLate  bool   `json:"counts_late"`
}
