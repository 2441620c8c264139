package sessionerrors

import (
	"net/http"

	"go-rotc/internal/shared/apperror"
)

var (
	ErrSessionNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance session not found",
		http.StatusNotFound,
	)
	ErrInvalidSessionID = apperror.New(
		apperror.CodeInvalidParameter,
		"invalid session id",
		http.StatusBadRequest,
	)
	ErrInvalidRadius = apperror.New(
		apperror.CodeInvalidParameter,
		"radius_meters must be greater than 0 and at most 1000",
		http.StatusBadRequest,
	)
	ErrInvalidTimeLimit = apperror.New(
		apperror.CodeInvalidParameter,
		"time_limit_minutes must be greater than 0 and at most 180",
		http.StatusBadRequest,
	)
	ErrInvalidSegments = apperror.New(
		apperror.CodeInvalidParameter,
		"segments must be at most 360",
		http.StatusBadRequest,
	)
	ErrInvalidCenter = apperror.New(
		apperror.CodeInvalidParameter,
		"invalid session center coordinates",
		http.StatusBadRequest,
	)
	ErrInvalidLocation = apperror.New(
		apperror.CodeInvalidParameter,
		"invalid check-in coordinates",
		http.StatusBadRequest,
	)
	ErrUnitRequired = apperror.New(
		apperror.CodeInvalidParameter,
		"unit_id is required",
		http.StatusBadRequest,
	)
	ErrActorRequired = apperror.New(
		apperror.CodeInvalidParameter,
		"coordinator id is required",
		http.StatusBadRequest,
	)
	ErrSessionOverlap = apperror.New(
		apperror.CodeConflict,
		"another active session overlaps this time window for the unit",
		http.StatusConflict,
	)
	ErrSessionNotActive = apperror.New(
		apperror.CodeSessionNotActive,
		"attendance session is not accepting check-ins",
		http.StatusConflict,
	)
	ErrOutOfRange = apperror.New(
		apperror.CodeOutOfRange,
		"check-in location is outside the session geofence",
		http.StatusUnprocessableEntity,
	)
)
