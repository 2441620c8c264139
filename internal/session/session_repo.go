package session

import (
	"context"
	"database/sql"
	"time"

	"go-rotc/internal/shared/connection"
	"go-rotc/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=session_repo.go -destination=mock/session_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *AttendanceSession) error
	FindByID(ctx context.Context, id string) (*AttendanceSession, error)
	FindAll(ctx context.Context, unitID string) ([]AttendanceSession, error)
	HasOverlappingActive(ctx context.Context, unitID string, start, end time.Time) (bool, error)
	// CompleteIfActive flips ACTIVE to COMPLETED and reports whether this call made the change.
	CompleteIfActive(ctx context.Context, id string, at time.Time, by string) (bool, error)
	FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]AttendanceSession, error)
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

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Scoped(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, s *AttendanceSession) error {
	return r.conn(ctx).Create(s).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*AttendanceSession, error) {
	var s AttendanceSession
	err := r.conn(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) FindAll(ctx context.Context, unitID string) ([]AttendanceSession, error) {
	var rows []AttendanceSession
	err := r.conn(ctx).
		Scopes(tenant.UnitScope(unitID)).
		Order("start_time DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) HasOverlappingActive(ctx context.Context, unitID string, start, end time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&AttendanceSession{}).
		Where("unit_id = ? AND status = ?", unitID, StatusActive).
		Where("start_time < ? AND end_time > ?", end, start).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CompleteIfActive(ctx context.Context, id string, at time.Time, by string) (bool, error) {
	res := r.conn(ctx).
		Model(&AttendanceSession{}).
		Where("id = ? AND status = ?", id, StatusActive).
		Updates(map[string]any{
			"status":       StatusCompleted,
			"completed_at": at,
			"completed_by": by,
			"updated_at":   at,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]AttendanceSession, error) {
	var rows []AttendanceSession
	err := r.conn(ctx).
		Where("status = ? AND end_time < ?", StatusActive, now).
		Order("end_time ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
