package termerrors

import (
	"net/http"

	"go-rotc/internal/shared/apperror"
)

var (
	ErrTermNotFound = apperror.New(
		apperror.CodeNotFound,
		"term not found",
		http.StatusNotFound,
	)
	ErrInvalidTermID = apperror.New(
		apperror.CodeInvalidParameter,
		"invalid term id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidParameter,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidParameter,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
)
