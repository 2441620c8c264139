package term

type CreateTermRequest struct {
	Name         string `json:"name" binding:"required"`
	AcademicYear string `json:"academic_year" binding:"required"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
	IsActive     bool   `json:"is_active"`
}

type TermResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AcademicYear string `json:"academic_year"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	IsActive     bool   `json:"is_active"`
}
