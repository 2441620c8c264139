package grade

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-rotc/internal/cadet"
	"go-rotc/internal/events"
	gradeerrors "go-rotc/internal/grade/errors"
	"go-rotc/internal/messaging/kafka"
	"go-rotc/internal/shared/clock"
	"go-rotc/internal/shared/contextutil"
	"go-rotc/internal/shared/metrics"
	"go-rotc/internal/term"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	SystemActor   = "system"
	aggregateType = "grade_record"

	SourceManual            = "manual"
	SourceAttendanceRefresh = "attendance_refresh"
)

type CadetFinder interface {
	Find(ctx context.Context, id string) (*cadet.Cadet, error)
}

type TermFinder interface {
	Find(ctx context.Context, id string) (*term.Term, error)
}

type AttendanceLedger interface {
	Aggregate(ctx context.Context, cadetID, termID string) (int, error)
}

type Deps struct {
	Cadets  CadetFinder
	Terms   TermFinder
	Ledger  AttendanceLedger
	Outbox  kafka.OutboxRepository
	Clock   clock.Clock
	Metrics *metrics.Registry
}

//go:generate mockgen -source=grade_service.go -destination=mock/grade_service_mock.go -package=mock
type Service interface {
	Compute(ctx context.Context, actorID, cadetID, termID string, req ComputeGradeRequest) (GradeResponse, error)
	// Preview runs the calculator without touching storage.
	Preview(req ComputeGradeRequest) (GradeResultResponse, error)
	Get(ctx context.Context, cadetID, termID string) (GradeResponse, error)
	ListByTerm(ctx context.Context, termID string) ([]GradeResponse, error)
	// RefreshAttendance recomputes an existing row from the attendance aggregate.
	// It reports whether a new version was written; a missing row is not an error.
	RefreshAttendance(ctx context.Context, cadetID, termID string) (bool, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	cadets  CadetFinder
	terms   TermFinder
	ledger  AttendanceLedger
	outbox  kafka.OutboxRepository
	clock   clock.Clock
	metrics *metrics.Registry
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deps Deps, logger ...*zap.Logger) Service {
	l := zap.L().Named("grade.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("grade.service")
	}
	if deps.Clock == nil {
		deps.Clock = clock.System()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop()
	}
	return &service{
		db:      db,
		repo:    repo,
		cadets:  deps.Cadets,
		terms:   deps.Terms,
		ledger:  deps.Ledger,
		outbox:  deps.Outbox,
		clock:   deps.Clock,
		metrics: deps.Metrics,
		logger:  l,
	}
}

func (s *service) Compute(ctx context.Context, actorID, cadetID, termID string, req ComputeGradeRequest) (GradeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("cadet_id", cadetID),
		zap.String("term_id", termID),
	)

	if strings.TrimSpace(actorID) == "" {
		return GradeResponse{}, gradeerrors.ErrActorRequired
	}
	if err := validateIDs(cadetID, termID); err != nil {
		return GradeResponse{}, err
	}
	c, err := s.cadets.Find(ctx, cadetID)
	if err != nil {
		return GradeResponse{}, err
	}
	t, err := s.terms.Find(ctx, termID)
	if err != nil {
		return GradeResponse{}, err
	}

	if req.FromLedger {
		days, err := s.ledgerDays(ctx, cadetID, termID)
		if err != nil {
			return GradeResponse{}, err
		}
		req.AttendanceDaysPresent = &days
	}
	in, err := inputsFromRequest(req)
	if err != nil {
		log.Info("compute grade rejected", zap.Error(err))
		return GradeResponse{}, err
	}
	res, err := Compute(in)
	if err != nil {
		log.Info("compute grade rejected", zap.Error(err))
		return GradeResponse{}, err
	}

	rec := &GradeRecord{
		ID:         uuid.New(),
		CadetID:    c.ID,
		TermID:     t.ID,
		Version:    1,
		ComputedBy: actorID,
		ComputedAt: s.clock.Now(),
	}
	rec.apply(in, res)
	if err := s.persist(ctx, rec, SourceManual); err != nil {
		log.Error("compute grade persist failed", zap.Error(err))
		return GradeResponse{}, err
	}

	log.Info("grade computed",
		zap.Float64("overall_grade", rec.OverallGrade),
		zap.Float64("equivalent", rec.Equivalent),
		zap.String("status", rec.Status),
		zap.Int("version", rec.Version),
	)
	return mapToResponse(*rec), nil
}

func (s *service) Preview(req ComputeGradeRequest) (GradeResultResponse, error) {
	in, err := inputsFromRequest(req)
	if err != nil {
		return GradeResultResponse{}, err
	}
	res, err := Compute(in)
	if err != nil {
		return GradeResultResponse{}, err
	}
	return mapResult(res), nil
}

func (s *service) Get(ctx context.Context, cadetID, termID string) (GradeResponse, error) {
	if err := validateIDs(cadetID, termID); err != nil {
		return GradeResponse{}, err
	}
	g, err := s.repo.FindByCadetAndTerm(ctx, cadetID, termID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GradeResponse{}, gradeerrors.ErrGradeNotFound
		}
		return GradeResponse{}, err
	}
	return mapToResponse(*g), nil
}

func (s *service) ListByTerm(ctx context.Context, termID string) ([]GradeResponse, error) {
	if _, err := uuid.Parse(termID); err != nil {
		return nil, gradeerrors.ErrInvalidTermID
	}
	if _, err := s.terms.Find(ctx, termID); err != nil {
		return nil, err
	}
	rows, err := s.repo.FindAllByTerm(ctx, termID)
	if err != nil {
		return nil, err
	}
	resp := make([]GradeResponse, len(rows))
	for i, g := range rows {
		resp[i] = mapToResponse(g)
	}
	return resp, nil
}

func (s *service) RefreshAttendance(ctx context.Context, cadetID, termID string) (bool, error) {
	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("cadet_id", cadetID),
		zap.String("term_id", termID),
	)

	existing, err := s.repo.FindByCadetAndTerm(ctx, cadetID, termID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Debug("refresh skipped: no grade row")
			return false, nil
		}
		return false, err
	}

	days, err := s.ledgerDays(ctx, cadetID, termID)
	if err != nil {
		return false, err
	}
	if days == existing.AttendanceDaysPresent {
		return false, nil
	}

	in := existing.Inputs()
	in.AttendanceDaysPresent = days
	res, err := Compute(in)
	if err != nil {
		return false, err
	}

	rec := *existing
	rec.apply(in, res)
	rec.ComputedBy = SystemActor
	rec.ComputedAt = s.clock.Now()
	if err := s.persist(ctx, &rec, SourceAttendanceRefresh); err != nil {
		return false, err
	}

	log.Info("grade refreshed from attendance",
		zap.Int("attendance_days_present", days),
		zap.Float64("overall_grade", rec.OverallGrade),
		zap.Int("version", rec.Version),
	)
	return true, nil
}

// ledgerDays caps the aggregate at MaxAttendanceDays; extra sessions cannot raise the score.
func (s *service) ledgerDays(ctx context.Context, cadetID, termID string) (int, error) {
	days, err := s.ledger.Aggregate(ctx, cadetID, termID)
	if err != nil {
		return 0, err
	}
	if days > MaxAttendanceDays {
		s.logger.Warn("attendance aggregate above training days, capping",
			zap.String("cadet_id", cadetID),
			zap.String("term_id", termID),
			zap.Int("aggregate", days),
		)
		days = MaxAttendanceDays
	}
	return days, nil
}

func (s *service) persist(ctx context.Context, rec *GradeRecord, source string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Upsert(ctx, rec); err != nil {
		return err
	}

	event, err := kafka.NewOutboxEvent(ctx, aggregateType, rec.ID.String(), events.GradeComputedEventType, events.GradeComputedTopic,
		events.GradeComputedEvent{
			EventType:    events.GradeComputedEventType,
			GradeID:      rec.ID.String(),
			CadetID:      rec.CadetID.String(),
			TermID:       rec.TermID.String(),
			OverallGrade: rec.OverallGrade,
			Equivalent:   rec.Equivalent,
			Status:       rec.Status,
			Version:      rec.Version,
			Source:       source,
			OccurredAt:   rec.ComputedAt,
		})
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.metrics.GradesComputed.WithLabelValues(rec.Status).Inc()
	return nil
}

func inputsFromRequest(req ComputeGradeRequest) (GradeInputs, error) {
	if req.AttendanceDaysPresent == nil {
		return GradeInputs{}, gradeerrors.ErrInvalidGradeInput.WithDetail("attendance_days_present is required")
	}
	if req.ExamScoreRaw == nil {
		return GradeInputs{}, gradeerrors.ErrInvalidGradeInput.WithDetail("exam_score_raw is required")
	}
	in := GradeInputs{
		AttendanceDaysPresent: *req.AttendanceDaysPresent,
		Merit:                 DefaultMerit,
		Demerit:               DefaultDemerit,
		ExamScoreRaw:          *req.ExamScoreRaw,
	}
	if req.Merit != nil {
		in.Merit = *req.Merit
	}
	if req.Demerit != nil {
		in.Demerit = *req.Demerit
	}
	return in, nil
}

func validateIDs(cadetID, termID string) error {
	if _, err := uuid.Parse(cadetID); err != nil {
		return gradeerrors.ErrInvalidCadetID
	}
	if _, err := uuid.Parse(termID); err != nil {
		return gradeerrors.ErrInvalidTermID
	}
	return nil
}

func mapResult(r GradeResult) GradeResultResponse {
	return GradeResultResponse{
		AttendanceScore: r.AttendanceScore,
		AptitudeScore:   r.AptitudeScore,
		FinalGrade:      r.FinalGrade,
		ExamGrade:       r.ExamGrade,
		OverallGrade:    r.OverallGrade,
		Equivalent:      r.Equivalent,
		Status:          r.Status,
	}
}

func mapToResponse(g GradeRecord) GradeResponse {
	return GradeResponse{
		ID:                    g.ID.String(),
		CadetID:               g.CadetID.String(),
		TermID:                g.TermID.String(),
		AttendanceDaysPresent: g.AttendanceDaysPresent,
		Merit:                 g.Merit,
		Demerit:               g.Demerit,
		ExamScoreRaw:          g.ExamScoreRaw,
		Result: mapResult(GradeResult{
			AttendanceScore: g.AttendanceScore,
			AptitudeScore:   g.AptitudeScore,
			FinalGrade:      g.FinalGrade,
			ExamGrade:       g.ExamGrade,
			OverallGrade:    g.OverallGrade,
			Equivalent:      g.Equivalent,
			Status:          g.Status,
		}),
		Version:    g.Version,
		ComputedBy: g.ComputedBy,
		ComputedAt: g.ComputedAt.UTC().Format(time.RFC3339),
	}
}
