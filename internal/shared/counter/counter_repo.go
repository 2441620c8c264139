package counter

import (
	"context"
	"database/sql"

	"go-rotc/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	// WithTx scopes the increment to tx so a rollback also releases the value.
	WithTx(tx *sql.Tx) Repository
	GetNextValue(ctx context.Context, scopeID string, counterType string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// GetNextValue atomically increments the counter for (scope, type), creating it at 1.
func (r *repository) GetNextValue(ctx context.Context, scopeID string, counterType string) (int64, error) {
	var nextValue int64

	err := connection.Scoped(ctx, r.db, r.tx).Raw(`
		INSERT INTO unit_counters (unit_id, counter_type, last_value, updated_at)
		VALUES (?, ?, 1, now())
		ON CONFLICT (unit_id, counter_type) DO UPDATE
		SET last_value = unit_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, scopeID, counterType).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}
