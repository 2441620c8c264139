package grade

import (
	"context"
	"database/sql"

	"go-rotc/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=grade_repo.go -destination=mock/grade_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Upsert writes g keyed by (cadet_id, term_id); an existing row is overwritten and its
	// version incremented. g is refreshed with the stored id and version.
	Upsert(ctx context.Context, g *GradeRecord) error
	FindByCadetAndTerm(ctx context.Context, cadetID, termID string) (*GradeRecord, error)
	FindAllByTerm(ctx context.Context, termID string) ([]GradeRecord, error)
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

var upsertColumns = []string{
	"attendance_days_present", "merit", "demerit", "exam_score_raw",
	"attendance_score", "aptitude_score", "final_grade", "exam_grade",
	"overall_grade", "equivalent", "status", "computed_by", "computed_at", "updated_at",
}

func (r *repository) Upsert(ctx context.Context, g *GradeRecord) error {
	updates := append(clause.AssignmentColumns(upsertColumns), clause.Assignment{
		Column: clause.Column{Name: "version"},
		Value:  gorm.Expr("grade_records.version + 1"),
	})
	return r.conn(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "cadet_id"}, {Name: "term_id"}},
				DoUpdates: updates,
			},
			clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "version"}, {Name: "created_at"}}},
		).
		Create(g).Error
}

func (r *repository) FindByCadetAndTerm(ctx context.Context, cadetID, termID string) (*GradeRecord, error) {
	var g GradeRecord
	err := r.conn(ctx).
		Where("cadet_id = ? AND term_id = ?", cadetID, termID).
		First(&g).Error
	return &g, err
}

func (r *repository) FindAllByTerm(ctx context.Context, termID string) ([]GradeRecord, error) {
	var rows []GradeRecord
	err := r.conn(ctx).
		Where("term_id = ?", termID).
		Order("overall_grade DESC").
		Find(&rows).Error
	return rows, err
}
