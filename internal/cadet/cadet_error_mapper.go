package cadet

import (
	"errors"
	"strings"

	cadeterrors "go-rotc/internal/cadet/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cadeterrors.ErrCadetNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_cadet_number" {
		return cadeterrors.ErrCadetNumberAlreadyExists
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_cadet_number") {
		return cadeterrors.ErrCadetNumberAlreadyExists
	}

	return err
}
