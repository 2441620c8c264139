package term

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, t *Term) error
	FindAll(ctx context.Context) ([]Term, error)
	FindByID(ctx context.Context, id string) (*Term, error)
	// FindCovering returns the most recently started term whose dates include day (YYYY-MM-DD).
	FindCovering(ctx context.Context, day string) (*Term, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *Term) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Term, error) {
	var terms []Term
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&terms).Error
	return terms, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Term, error) {
	var t Term
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) FindCovering(ctx context.Context, day string) (*Term, error) {
	var t Term
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Order("start_date DESC").
		First(&t).Error
	return &t, err
}
