package attendance

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	attendanceerrors "go-rotc/internal/attendance/errors"
	"go-rotc/internal/cadet"
	"go-rotc/internal/shared/contextutil"
	"go-rotc/internal/term"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultCacheTTL = 10 * time.Minute

// TermFinder resolves a term's date range.
type TermFinder interface {
	Find(ctx context.Context, id string) (*term.Term, error)
}

// CadetFinder confirms a cadet exists before the ledger is read.
type CadetFinder interface {
	Find(ctx context.Context, id string) (*cadet.Cadet, error)
}

type Options struct {
	Location  *time.Location
	CountLate bool
	CacheTTL  time.Duration
}

func DefaultOptions() Options {
	return Options{Location: time.UTC, CountLate: true, CacheTTL: DefaultCacheTTL}
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ListBySession(ctx context.Context, sessionID string) ([]RecordResponse, error)
	ListByCadetAndTerm(ctx context.Context, cadetID, termID string) ([]RecordResponse, error)
	// Aggregate returns the number of days that count toward the attendance score.
	Aggregate(ctx context.Context, cadetID, termID string) (int, error)
	InvalidateAggregate(ctx context.Context, cadetID string) error
	// RecordAbsences writes ABSENT rows for cadets without a record in the session.
	RecordAbsences(ctx context.Context, sessionID string, cadetIDs []string, at time.Time) (int64, error)
	CountsLate() bool
}

type service struct {
	repo   Repository
	terms  TermFinder
	cadets CadetFinder
	rdb    *redis.Client
	opts   Options
	group  singleflight.Group
	logger *zap.Logger
}

// NewService builds the ledger service. A nil rdb disables aggregate caching.
func NewService(repo Repository, terms TermFinder, cadets CadetFinder, rdb *redis.Client, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	return &service{repo: repo, terms: terms, cadets: cadets, rdb: rdb, opts: opts, logger: l}
}

func aggregateKey(cadetID string) string {
	return "attendance:aggregate:" + cadetID
}

func (s *service) CountsLate() bool {
	return s.opts.CountLate
}

func (s *service) countedStatuses() []string {
	if s.opts.CountLate {
		return []string{StatusPresent, StatusLate}
	}
	return []string{StatusPresent}
}

func (s *service) ListBySession(ctx context.Context, sessionID string) ([]RecordResponse, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, attendanceerrors.ErrInvalidSessionID
	}
	rows, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return mapToResponses(rows), nil
}

func (s *service) ListByCadetAndTerm(ctx context.Context, cadetID, termID string) ([]RecordResponse, error) {
	from, to, err := s.termRange(ctx, cadetID, termID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByCadetInRange(ctx, cadetID, from, to)
	if err != nil {
		return nil, err
	}
	return mapToResponses(rows), nil
}

func (s *service) Aggregate(ctx context.Context, cadetID, termID string) (int, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(cadetID); err != nil {
		return 0, attendanceerrors.ErrInvalidCadetID
	}
	if termID == "" {
		return 0, attendanceerrors.ErrTermRequired
	}

	if n, ok := s.cachedAggregate(ctx, cadetID, termID); ok {
		log.Debug("attendance aggregate cache hit", zap.String("cadet_id", cadetID), zap.String("term_id", termID))
		return n, nil
	}

	v, err, _ := s.group.Do(cadetID+":"+termID, func() (any, error) {
		from, to, err := s.termRange(ctx, cadetID, termID)
		if err != nil {
			return 0, err
		}
		count, err := s.repo.CountByCadetInRange(ctx, cadetID, s.countedStatuses(), from, to)
		if err != nil {
			return 0, err
		}
		s.storeAggregate(ctx, cadetID, termID, int(count))
		return int(count), nil
	})
	if err != nil {
		log.Error("attendance aggregate failed", zap.String("cadet_id", cadetID), zap.String("term_id", termID), zap.Error(err))
		return 0, err
	}
	return v.(int), nil
}

func (s *service) InvalidateAggregate(ctx context.Context, cadetID string) error {
	if s.rdb == nil {
		return nil
	}
	if err := s.rdb.Del(ctx, aggregateKey(cadetID)).Err(); err != nil {
		s.logger.Warn("attendance aggregate invalidation failed", zap.String("cadet_id", cadetID), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) RecordAbsences(ctx context.Context, sessionID string, cadetIDs []string, at time.Time) (int64, error) {
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return 0, attendanceerrors.ErrInvalidSessionID
	}

	rows := make([]Record, 0, len(cadetIDs))
	for _, id := range cadetIDs {
		cid, err := uuid.Parse(id)
		if err != nil {
			return 0, fmt.Errorf("cadet %q: %w", id, attendanceerrors.ErrInvalidCadetID)
		}
		rows = append(rows, Record{
			ID:          uuid.New(),
			SessionID:   sid,
			CadetID:     cid,
			SubmittedAt: at,
			Status:      StatusAbsent,
		})
	}

	n, err := s.repo.CreateMissing(ctx, rows)
	if err != nil {
		return 0, err
	}
	s.logger.Info("absences recorded",
		zap.String("session_id", sessionID),
		zap.Int("candidates", len(rows)),
		zap.Int64("inserted", n),
	)
	return n, nil
}

func (s *service) termRange(ctx context.Context, cadetID, termID string) (time.Time, time.Time, error) {
	if _, err := uuid.Parse(cadetID); err != nil {
		return time.Time{}, time.Time{}, attendanceerrors.ErrInvalidCadetID
	}
	if termID == "" {
		return time.Time{}, time.Time{}, attendanceerrors.ErrTermRequired
	}
	if _, err := s.cadets.Find(ctx, cadetID); err != nil {
		return time.Time{}, time.Time{}, err
	}
	t, err := s.terms.Find(ctx, termID)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from, to := t.Bounds(s.opts.Location)
	return from, to, nil
}

func (s *service) cachedAggregate(ctx context.Context, cadetID, termID string) (int, bool) {
	if s.rdb == nil {
		return 0, false
	}
	val, err := s.rdb.HGet(ctx, aggregateKey(cadetID), s.cacheField(termID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("attendance aggregate cache read failed", zap.Error(err))
		}
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *service) storeAggregate(ctx context.Context, cadetID, termID string, n int) {
	if s.rdb == nil {
		return
	}
	key := aggregateKey(cadetID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, s.cacheField(termID), n)
	pipe.Expire(ctx, key, s.opts.CacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("attendance aggregate cache write failed", zap.Error(err))
	}
}

// cacheField keys the count by term and counting policy.
func (s *service) cacheField(termID string) string {
	if s.opts.CountLate {
		return termID + ":late"
	}
	return termID
}

func MapToResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:             r.ID.String(),
		SessionID:      r.SessionID.String(),
		CadetID:        r.CadetID.String(),
		SubmittedAt:    r.SubmittedAt.UTC().Format(time.RFC3339),
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		DistanceMeters: r.DistanceMeters,
		Status:         r.Status,
	}
}

func mapToResponses(rows []Record) []RecordResponse {
	res := make([]RecordResponse, len(rows))
	for i, r := range rows {
		res[i] = MapToResponse(r)
	}
	return res
}
