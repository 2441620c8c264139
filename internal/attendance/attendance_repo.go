package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-rotc/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Record) error
	// CreateMissing inserts rows, skipping any (session, cadet) pair that already exists.
	CreateMissing(ctx context.Context, rows []Record) (int64, error)
	ExistsForSessionAndCadet(ctx context.Context, sessionID, cadetID string) (bool, error)
	ListBySession(ctx context.Context, sessionID string) ([]Record, error)
	ListByCadetInRange(ctx context.Context, cadetID string, from, to time.Time) ([]Record, error)
	CountByCadetInRange(ctx context.Context, cadetID string, statuses []string, from, to time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, rec *Record) error {
	return r.conn(ctx).Create(rec).Error
}

func (r *repository) CreateMissing(ctx context.Context, rows []Record) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "cadet_id"}},
			DoNothing: true,
		}).
		CreateInBatches(rows, 200)
	return res.RowsAffected, res.Error
}

func (r *repository) ExistsForSessionAndCadet(ctx context.Context, sessionID, cadetID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Record{}).
		Where("session_id = ? AND cadet_id = ?", sessionID, cadetID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListBySession(ctx context.Context, sessionID string) ([]Record, error) {
	var rows []Record
	err := r.conn(ctx).
		Where("session_id = ?", sessionID).
		Order("submitted_at ASC").
		Find(&rows).Error
	return rows, err
}

// Range filters on the owning session's start_time, half-open [from, to).
func (r *repository) ListByCadetInRange(ctx context.Context, cadetID string, from, to time.Time) ([]Record, error) {
	var rows []Record
	err := r.conn(ctx).
		Joins("JOIN attendance_sessions s ON s.id = attendance_records.session_id").
		Where("attendance_records.cadet_id = ?", cadetID).
		Where("s.start_time >= ? AND s.start_time < ?", from, to).
		Order("s.start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountByCadetInRange(ctx context.Context, cadetID string, statuses []string, from, to time.Time) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Record{}).
		Joins("JOIN attendance_sessions s ON s.id = attendance_records.session_id").
		Where("attendance_records.cadet_id = ?", cadetID).
		Where("attendance_records.status IN ?", statuses).
		Where("s.start_time >= ? AND s.start_time < ?", from, to).
		Count(&count).Error
	return count, err
}
