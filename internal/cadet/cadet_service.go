package cadet

import (
	"context"
	"fmt"

	cadeterrors "go-rotc/internal/cadet/errors"
	"go-rotc/internal/shared/contextutil"
	"go-rotc/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const cadetNumberCounter = "cadet_number"

//go:generate mockgen -source=cadet_service.go -destination=mock/cadet_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateCadetRequest) (CadetResponse, error)
	GetAll(ctx context.Context, unitID string) ([]CadetResponse, error)
	GetByID(ctx context.Context, id string) (CadetResponse, error)
	// Find returns the stored cadet or ErrCadetNotFound.
	Find(ctx context.Context, id string) (*Cadet, error)
}

type service struct {
	repo    Repository
	counter counter.Repository
	logger  *zap.Logger
}

func NewService(repo Repository, counter counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("cadet.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cadet.service")
	}
	return &service{repo: repo, counter: counter, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateCadetRequest) (CadetResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create cadet requested",
		zap.String("request_id", rid),
		zap.String("unit_id", req.UnitID),
	)

	if req.CadetNumber == "" {
		next, err := s.counter.GetNextValue(ctx, req.UnitID, cadetNumberCounter)
		if err != nil {
			s.logger.Error("create cadet generate number failed", zap.String("request_id", rid), zap.Error(err))
			return CadetResponse{}, err
		}
		req.CadetNumber = fmt.Sprintf("CDT-%06d", next)
	}

	c := &Cadet{
		ID:          uuid.New(),
		CadetNumber: req.CadetNumber,
		FullName:    req.FullName,
		UnitID:      req.UnitID,
		Status:      StatusActive,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("create cadet persist failed", zap.String("request_id", rid), zap.Error(err))
		return CadetResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create cadet success",
		zap.String("request_id", rid),
		zap.String("cadet_id", c.ID.String()),
		zap.String("cadet_number", c.CadetNumber),
	)
	return mapToResponse(*c), nil
}

func (s *service) GetAll(ctx context.Context, unitID string) ([]CadetResponse, error) {
	cadets, err := s.repo.FindAllByUnit(ctx, unitID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	resp := make([]CadetResponse, len(cadets))
	for i, c := range cadets {
		resp[i] = mapToResponse(c)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (CadetResponse, error) {
	c, err := s.Find(ctx, id)
	if err != nil {
		return CadetResponse{}, err
	}
	return mapToResponse(*c), nil
}

func (s *service) Find(ctx context.Context, id string) (*Cadet, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, cadeterrors.ErrInvalidCadetID
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return c, nil
}

func mapToResponse(c Cadet) CadetResponse {
	return CadetResponse{
		ID:          c.ID.String(),
		CadetNumber: c.CadetNumber,
		FullName:    c.FullName,
		UnitID:      c.UnitID,
		Status:      c.Status,
	}
}
