package cadet

import (
	"context"

	"go-rotc/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=cadet_repo.go -destination=mock/cadet_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, c *Cadet) error
	FindAllByUnit(ctx context.Context, unitID string) ([]Cadet, error)
	FindByID(ctx context.Context, id string) (*Cadet, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Cadet) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindAllByUnit(ctx context.Context, unitID string) ([]Cadet, error) {
	var cadets []Cadet
	err := r.db.WithContext(ctx).
		Scopes(tenant.UnitScope(unitID)).
		Order("cadet_number ASC").
		Find(&cadets).Error
	return cadets, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Cadet, error) {
	var c Cadet
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}
