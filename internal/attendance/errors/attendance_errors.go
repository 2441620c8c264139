package attendanceerrors

import (
	"net/http"

	"go-rotc/internal/shared/apperror"
)

var (
	ErrInvalidSessionID = apperror.New(
		apperror.CodeInvalidParameter,
		"invalid session id",
		http.StatusBadRequest,
	)
	ErrInvalidCadetID = apperror.New(
		apperror.CodeInvalidParameter,
		"invalid cadet id",
		http.StatusBadRequest,
	)
	ErrTermRequired = apperror.New(
		apperror.CodeInvalidParameter,
		"term_id is required",
		http.StatusBadRequest,
	)
	ErrDuplicateCheckIn = apperror.New(
		apperror.CodeDuplicateCheckIn,
		"cadet has already checked in to this session",
		http.StatusConflict,
	)
)
