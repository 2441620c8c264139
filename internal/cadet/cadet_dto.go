package cadet

type CreateCadetRequest struct {
	CadetNumber string `json:"cadet_number"`
	FullName    string `json:"full_name" binding:"required"`
	UnitID      string `json:"unit_id" binding:"required"`
}

type CadetResponse struct {
	ID          string `json:"id"`
	CadetNumber string `json:"cadet_number"`
	FullName    string `json:"full_name"`
	UnitID      string `json:"unit_id"`
	Status      string `json:"status"`
}
