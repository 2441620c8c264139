package gradeerrors

import (
	"net/http"

	"go-rotc/internal/shared/apperror"
)

var (
	ErrInvalidGradeInput = apperror.New(
		apperror.CodeInvalidGradeInput,
		"grade input outside declared domain",
		http.StatusBadRequest,
	)
	ErrGradeNotFound = apperror.New(
		apperror.CodeNotFound,
		"grade not found",
		http.StatusNotFound,
	)
	ErrInvalidCadetID = apperror.New(
		apperror.CodeInvalidParameter,
		"invalid cadet id",
		http.StatusBadRequest,
	)
	ErrActorRequired = apperror.New(
		apperror.CodeInvalidParameter,
		"computed_by is required",
		http.StatusBadRequest,
	)
	ErrInvalidTermID = apperror.New(
		apperror.CodeInvalidParameter,
		"invalid term id",
		http.StatusBadRequest,
	)
)
