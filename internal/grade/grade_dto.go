package grade

// ComputeGradeRequest leaves merit and demerit optional; they default to 100 and 0.
// With from_ledger set, attendance days come from the attendance aggregate instead.
type ComputeGradeRequest struct {
	AttendanceDaysPresent *int     `json:"attendance_days_present"`
	Merit                 *float64 `json:"merit"`
	Demerit               *float64 `json:"demerit"`
	ExamScoreRaw          *float64 `json:"exam_score_raw"`
	FromLedger            bool     `json:"from_ledger"`
}

type GradeResultResponse struct {
	AttendanceScore float64 `json:"attendance_score"`
	AptitudeScore   float64 `json:"aptitude_score"`
	FinalGrade      float64 `json:"final_grade"`
	ExamGrade       float64 `json:"exam_grade"`
	OverallGrade    float64 `json:"overall_grade"`
	Equivalent      float64 `json:"equivalent"`
	Status          string  `json:"status"`
}

type GradeResponse struct {
	ID                    string              `json:"id"`
	CadetID               string              `json:"cadet_id"`
	TermID                string              `json:"term_id"`
	AttendanceDaysPresent int                 `json:"attendance_days_present"`
	Merit                 float64             `json:"merit"`
	Demerit               float64             `json:"demerit"`
	ExamScoreRaw          float64             `json:"exam_score_raw"`
	Result                GradeResultResponse `json:"result"`
	Version               int                 `json:"version"`
	ComputedBy            string              `json:"computed_by"`
	ComputedAt            string              `json:"computed_at"`
}
