package attendance

import (
	"errors"
	"strings"

	attendanceerrors "go-rotc/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueSessionCadet = "uq_attendance_session_cadet"

// MapRepositoryError turns a unique violation on (session, cadet) into ErrDuplicateCheckIn.
func MapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == uniqueSessionCadet {
		return attendanceerrors.ErrDuplicateCheckIn
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key value") && strings.Contains(msg, uniqueSessionCadet) {
		return attendanceerrors.ErrDuplicateCheckIn
	}
	return err
}
