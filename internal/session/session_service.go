package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-rotc/internal/attendance"
	attendanceerrors "go-rotc/internal/attendance/errors"
	"go-rotc/internal/cadet"
	cadeterrors "go-rotc/internal/cadet/errors"
	"go-rotc/internal/events"
	"go-rotc/internal/geofence"
	"go-rotc/internal/messaging/kafka"
	sessionerrors "go-rotc/internal/session/errors"
	"go-rotc/internal/shared/clock"
	"go-rotc/internal/shared/contextutil"
	"go-rotc/internal/shared/counter"
	"go-rotc/internal/shared/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MaxRadiusMeters     = 1000
	MaxTimeLimitMinutes = 180

	DefaultGraceFraction = 0.5

	sessionCodeCounter = "session_code"
	sweepBatchSize     = 100
	aggregateType      = "attendance_session"
)

type CadetFinder interface {
	Find(ctx context.Context, id string) (*cadet.Cadet, error)
}

type AggregateInvalidator interface {
	InvalidateAggregate(ctx context.Context, cadetID string) error
}

// Deps groups the collaborators of the session service.
type Deps struct {
	Records attendance.Repository
	Ledger  AggregateInvalidator
	Cadets  CadetFinder
	Counter counter.Repository
	Outbox  kafka.OutboxRepository
	Clock   clock.Clock
	Metrics *metrics.Registry
}

type Options struct {
	GraceFraction float64
}

//go:generate mockgen -source=session_service.go -destination=mock/session_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateSessionRequest) (SessionResponse, error)
	// CheckIn validates and records one cadet submission. A zero submittedAt means now.
	CheckIn(ctx context.Context, sessionID, cadetID string, point geofence.Point, submittedAt time.Time) (attendance.RecordResponse, error)
	End(ctx context.Context, sessionID, actorID string) (SessionResponse, error)
	Get(ctx context.Context, sessionID string) (SessionResponse, error)
	List(ctx context.Context, unitID string) ([]SessionResponse, error)
	Geofence(ctx context.Context, sessionID string, segments int) (GeofenceResponse, error)
	ExpireDue(ctx context.Context) (int, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	records attendance.Repository
	ledger  AggregateInvalidator
	cadets  CadetFinder
	counter counter.Repository
	outbox  kafka.OutboxRepository
	clock   clock.Clock
	metrics *metrics.Registry
	grace   float64
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deps Deps, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("session.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.service")
	}
	if deps.Clock == nil {
		deps.Clock = clock.System()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop()
	}
	grace := opts.GraceFraction
	if grace <= 0 || grace > 1 {
		grace = DefaultGraceFraction
	}
	return &service{
		db:      db,
		repo:    repo,
		records: deps.Records,
		ledger:  deps.Ledger,
		cadets:  deps.Cadets,
		counter: deps.Counter,
		outbox:  deps.Outbox,
		clock:   deps.Clock,
		metrics: deps.Metrics,
		grace:   grace,
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateSessionRequest) (SessionResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if strings.TrimSpace(actorID) == "" {
		return SessionResponse{}, sessionerrors.ErrActorRequired
	}
	if strings.TrimSpace(req.UnitID) == "" {
		return SessionResponse{}, sessionerrors.ErrUnitRequired
	}
	if req.Latitude == nil || req.Longitude == nil {
		return SessionResponse{}, sessionerrors.ErrInvalidCenter
	}
	center := geofence.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if err := center.Validate(); err != nil {
		return SessionResponse{}, sessionerrors.ErrInvalidCenter.WithDetail("%v", err)
	}
	if !(req.RadiusMeters > 0 && req.RadiusMeters <= MaxRadiusMeters) {
		return SessionResponse{}, sessionerrors.ErrInvalidRadius
	}
	if req.TimeLimitMinutes <= 0 || req.TimeLimitMinutes > MaxTimeLimitMinutes {
		return SessionResponse{}, sessionerrors.ErrInvalidTimeLimit
	}

	start := s.clock.Now()
	if req.StartTime != nil {
		start = *req.StartTime
	}
	start = start.UTC()
	end := start.Add(time.Duration(req.TimeLimitMinutes) * time.Minute)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SessionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlaps, err := qtx.HasOverlappingActive(ctx, req.UnitID, start, end)
	if err != nil {
		return SessionResponse{}, err
	}
	if overlaps {
		log.Warn("create session rejected: overlap",
			zap.String("unit_id", req.UnitID),
			zap.Time("start_time", start),
			zap.Time("end_time", end),
		)
		return SessionResponse{}, sessionerrors.ErrSessionOverlap
	}

	next, err := s.counter.WithTx(tx).GetNextValue(ctx, req.UnitID, sessionCodeCounter)
	if err != nil {
		return SessionResponse{}, err
	}

	sess := &AttendanceSession{
		ID:               uuid.New(),
		Code:             fmt.Sprintf("SES-%06d", next),
		UnitID:           req.UnitID,
		Title:            req.Title,
		CenterLatitude:   center.Latitude,
		CenterLongitude:  center.Longitude,
		RadiusMeters:     req.RadiusMeters,
		StartTime:        start,
		EndTime:          end,
		TimeLimitMinutes: req.TimeLimitMinutes,
		Status:           StatusActive,
		CreatedBy:        actorID,
	}
	if err := qtx.Create(ctx, sess); err != nil {
		return SessionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return SessionResponse{}, err
	}

	log.Info("session created",
		zap.String("session_id", sess.ID.String()),
		zap.String("code", sess.Code),
		zap.String("unit_id", sess.UnitID),
		zap.Float64("radius_meters", sess.RadiusMeters),
		zap.Time("end_time", sess.EndTime),
	)
	return mapToResponse(*sess), nil
}

func (s *service) CheckIn(ctx context.Context, sessionID, cadetID string, point geofence.Point, submittedAt time.Time) (attendance.RecordResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("session_id", sessionID),
		zap.String("cadet_id", cadetID),
	)

	if err := point.Validate(); err != nil {
		return attendance.RecordResponse{}, sessionerrors.ErrInvalidLocation.WithDetail("%v", err)
	}

	now := s.clock.Now()
	if submittedAt.IsZero() {
		submittedAt = now
	}

	sess, err := s.find(ctx, sessionID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	c, err := s.cadets.Find(ctx, cadetID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if !c.IsActive() {
		return attendance.RecordResponse{}, cadeterrors.ErrCadetInactive
	}

	if sess.IsActive() && sess.Expired(now) {
		if sess, _, err = s.complete(ctx, sess, SystemActor, events.TriggerExpiry); err != nil {
			return attendance.RecordResponse{}, err
		}
	}
	if !sess.IsActive() || !sess.Accepts(submittedAt) {
		s.metrics.CheckIns.WithLabelValues("not_active").Inc()
		log.Info("check-in rejected: session not active",
			zap.String("status", sess.Status),
			zap.Time("submitted_at", submittedAt),
		)
		return attendance.RecordResponse{}, sessionerrors.ErrSessionNotActive
	}

	distance := geofence.Distance(point, sess.Center())
	s.metrics.CheckInDistance.Observe(distance)
	if distance > sess.RadiusMeters {
		s.metrics.CheckIns.WithLabelValues("out_of_range").Inc()
		log.Info("check-in rejected: out of range",
			zap.Float64("distance_meters", distance),
			zap.Float64("radius_meters", sess.RadiusMeters),
		)
		return attendance.RecordResponse{}, sessionerrors.ErrOutOfRange.WithDetail(
			"distance %.1fm exceeds radius %.1fm", distance, sess.RadiusMeters)
	}

	rec := &attendance.Record{
		ID:             uuid.New(),
		SessionID:      sess.ID,
		CadetID:        c.ID,
		SubmittedAt:    submittedAt.UTC(),
		Latitude:       &point.Latitude,
		Longitude:      &point.Longitude,
		DistanceMeters: &distance,
		Status:         sess.Classify(submittedAt, s.grace),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	defer tx.Rollback()

	qrec := s.records.WithTx(tx)
	exists, err := qrec.ExistsForSessionAndCadet(ctx, sess.ID.String(), c.ID.String())
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if exists {
		s.metrics.CheckIns.WithLabelValues("duplicate").Inc()
		return attendance.RecordResponse{}, attendanceerrors.ErrDuplicateCheckIn
	}
	if err := qrec.Create(ctx, rec); err != nil {
		mapped := attendance.MapRepositoryError(err)
		if mapped != err {
			s.metrics.CheckIns.WithLabelValues("duplicate").Inc()
		}
		return attendance.RecordResponse{}, mapped
	}
	if err := tx.Commit(); err != nil {
		return attendance.RecordResponse{}, err
	}

	if s.ledger != nil {
		if err := s.ledger.InvalidateAggregate(ctx, c.ID.String()); err != nil {
			log.Warn("aggregate invalidation failed after check-in", zap.Error(err))
		}
	}

	s.metrics.CheckIns.WithLabelValues(strings.ToLower(rec.Status)).Inc()
	log.Info("check-in recorded",
		zap.String("status", rec.Status),
		zap.Float64("distance_meters", distance),
	)
	return attendance.MapToResponse(*rec), nil
}

func (s *service) End(ctx context.Context, sessionID, actorID string) (SessionResponse, error) {
	if strings.TrimSpace(actorID) == "" {
		return SessionResponse{}, sessionerrors.ErrActorRequired
	}
	sess, err := s.find(ctx, sessionID)
	if err != nil {
		return SessionResponse{}, err
	}
	if !sess.IsActive() {
		return mapToResponse(*sess), nil
	}

	sess, _, err = s.complete(ctx, sess, actorID, events.TriggerCoordinator)
	if err != nil {
		return SessionResponse{}, err
	}
	return mapToResponse(*sess), nil
}

func (s *service) Get(ctx context.Context, sessionID string) (SessionResponse, error) {
	sess, err := s.find(ctx, sessionID)
	if err != nil {
		return SessionResponse{}, err
	}
	if sess, err = s.expireIfDue(ctx, sess); err != nil {
		return SessionResponse{}, err
	}
	return mapToResponse(*sess), nil
}

func (s *service) List(ctx context.Context, unitID string) ([]SessionResponse, error) {
	rows, err := s.repo.FindAll(ctx, unitID)
	if err != nil {
		return nil, err
	}
	resp := make([]SessionResponse, len(rows))
	for i := range rows {
		sess, err := s.expireIfDue(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		resp[i] = mapToResponse(*sess)
	}
	return resp, nil
}

func (s *service) Geofence(ctx context.Context, sessionID string, segments int) (GeofenceResponse, error) {
	if segments > geofence.MaxSegments {
		return GeofenceResponse{}, sessionerrors.ErrInvalidSegments.WithDetail("segments %d", segments)
	}
	sess, err := s.find(ctx, sessionID)
	if err != nil {
		return GeofenceResponse{}, err
	}
	if segments <= 0 {
		segments = geofence.DefaultSegments
	}
	return GeofenceResponse{
		SessionID:    sess.ID.String(),
		Center:       sess.Center(),
		RadiusMeters: sess.RadiusMeters,
		Polygon:      geofence.CirclePolygon(sess.Center(), sess.RadiusMeters, segments),
	}, nil
}

func (s *service) ExpireDue(ctx context.Context) (int, error) {
	now := s.clock.Now()
	due, err := s.repo.FindExpiredActive(ctx, now, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range due {
		_, changed, err := s.complete(ctx, &due[i], SystemActor, events.TriggerExpiry)
		if err != nil {
			s.logger.Error("expire session failed", zap.String("session_id", due[i].ID.String()), zap.Error(err))
			continue
		}
		if changed {
			completed++
		}
	}
	if completed > 0 {
		s.logger.Info("expired sessions completed", zap.Int("count", completed))
	}
	return completed, nil
}

func (s *service) find(ctx context.Context, sessionID string) (*AttendanceSession, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, sessionerrors.ErrInvalidSessionID
	}
	sess, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sessionerrors.ErrSessionNotFound
		}
		return nil, err
	}
	return sess, nil
}

func (s *service) expireIfDue(ctx context.Context, sess *AttendanceSession) (*AttendanceSession, error) {
	if sess.IsActive() && sess.Expired(s.clock.Now()) {
		done, _, err := s.complete(ctx, sess, SystemActor, events.TriggerExpiry)
		return done, err
	}
	return sess, nil
}

// complete moves sess to COMPLETED and enqueues session_completed in the same transaction.
// When another caller completed it first, the stored row is returned and nothing is emitted.
func (s *service) complete(ctx context.Context, sess *AttendanceSession, actorID, trigger string) (*AttendanceSession, bool, error) {
	now := s.clock.Now()
	at := now
	if trigger == events.TriggerExpiry {
		at = sess.EndTime
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	changed, err := qtx.CompleteIfActive(ctx, sess.ID.String(), at, actorID)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		stored, err := s.find(ctx, sess.ID.String())
		return stored, false, err
	}

	event, err := kafka.NewOutboxEvent(ctx, aggregateType, sess.ID.String(), events.SessionCompletedEventType, events.SessionLifecycleTopic,
		events.SessionCompletedEvent{
			EventType:   events.SessionCompletedEventType,
			SessionID:   sess.ID.String(),
			UnitID:      sess.UnitID,
			StartTime:   sess.StartTime,
			EndTime:     sess.EndTime,
			CompletedAt: at,
			CompletedBy: actorID,
			Trigger:     trigger,
			OccurredAt:  now,
		})
	if err != nil {
		return nil, false, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	s.metrics.SessionsClosed.WithLabelValues(trigger).Inc()
	s.logger.Info("session completed",
		zap.String("session_id", sess.ID.String()),
		zap.String("trigger", trigger),
		zap.String("completed_by", actorID),
	)

	done := *sess
	done.Status = StatusCompleted
	done.CompletedAt = &at
	done.CompletedBy = &actorID
	return &done, true, nil
}

func mapToResponse(s AttendanceSession) SessionResponse {
	resp := SessionResponse{
		ID:               s.ID.String(),
		Code:             s.Code,
		UnitID:           s.UnitID,
		Title:            s.Title,
		Latitude:         s.CenterLatitude,
		Longitude:        s.CenterLongitude,
		RadiusMeters:     s.RadiusMeters,
		StartTime:        s.StartTime.UTC().Format(time.RFC3339),
		EndTime:          s.EndTime.UTC().Format(time.RFC3339),
		TimeLimitMinutes: s.TimeLimitMinutes,
		Status:           s.Status,
		CreatedBy:        s.CreatedBy,
		CompletedBy:      s.CompletedBy,
	}
	if s.CompletedAt != nil {
		v := s.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	return resp
}
