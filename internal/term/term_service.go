package term

import (
	"context"
	"errors"
	"time"

	termerrors "go-rotc/internal/term/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=term_service.go -destination=mock/term_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateTermRequest) (TermResponse, error)
	GetAll(ctx context.Context) ([]TermResponse, error)
	GetByID(ctx context.Context, id string) (TermResponse, error)
	// Find returns the stored entity; other modules use it to scope queries by date range.
	Find(ctx context.Context, id string) (*Term, error)
	// FindCovering resolves the term containing the calendar day of at in loc.
	FindCovering(ctx context.Context, at time.Time, loc *time.Location) (*Term, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("term.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("term.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateTermRequest) (TermResponse, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return TermResponse{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return TermResponse{}, err
	}
	if start.After(end) {
		return TermResponse{}, termerrors.ErrInvalidDateRange
	}

	t := &Term{
		ID:           uuid.New(),
		Name:         req.Name,
		AcademicYear: req.AcademicYear,
		StartDate:    start,
		EndDate:      end,
		IsActive:     req.IsActive,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("create term persist failed", zap.Error(err))
		return TermResponse{}, err
	}

	s.logger.Info("create term success",
		zap.String("term_id", t.ID.String()),
		zap.String("academic_year", t.AcademicYear),
	)
	return mapToResponse(*t), nil
}

func (s *service) GetAll(ctx context.Context) ([]TermResponse, error) {
	terms, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]TermResponse, len(terms))
	for i, t := range terms {
		resp[i] = mapToResponse(t)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (TermResponse, error) {
	t, err := s.Find(ctx, id)
	if err != nil {
		return TermResponse{}, err
	}
	return mapToResponse(*t), nil
}

func (s *service) Find(ctx context.Context, id string) (*Term, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, termerrors.ErrInvalidTermID
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, termerrors.ErrTermNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *service) FindCovering(ctx context.Context, at time.Time, loc *time.Location) (*Term, error) {
	if loc == nil {
		loc = time.UTC
	}
	day := at.In(loc).Format(dateLayout)
	t, err := s.repo.FindCovering(ctx, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, termerrors.ErrTermNotFound
		}
		return nil, err
	}
	return t, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, termerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(t Term) TermResponse {
	return TermResponse{
		ID:           t.ID.String(),
		Name:         t.Name,
		AcademicYear: t.AcademicYear,
		StartDate:    t.StartDate.Format(dateLayout),
		EndDate:      t.EndDate.Format(dateLayout),
		IsActive:     t.IsActive,
	}
}
