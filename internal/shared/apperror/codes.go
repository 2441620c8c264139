package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidParameter  = "INVALID_PARAMETER"
	CodeInvalidGradeInput = "INVALID_GRADE_INPUT"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInvalidState      = "INVALID_STATE"
	CodeSessionNotActive  = "SESSION_NOT_ACTIVE"
	CodeOutOfRange        = "OUT_OF_RANGE"
	CodeDuplicateCheckIn  = "DUPLICATE_CHECK_IN"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
