package cadeterrors

import (
	"net/http"

	"go-rotc/internal/shared/apperror"
)

var (
	ErrCadetNotFound = apperror.New(
		apperror.CodeNotFound,
		"cadet not found",
		http.StatusNotFound,
	)
	ErrInvalidCadetID = apperror.New(
		apperror.CodeInvalidParameter,
		"invalid cadet id",
		http.StatusBadRequest,
	)
	ErrCadetNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"cadet number already exists",
		http.StatusConflict,
	)
	ErrCadetInactive = apperror.New(
		apperror.CodeInvalidParameter,
		"cadet is not active",
		http.StatusBadRequest,
	)
)
