package session_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"go-rotc/internal/attendance"
	"go-rotc/internal/cadet"
	cadeterrors "go-rotc/internal/cadet/errors"
	"go-rotc/internal/messaging/kafka"
	"go-rotc/internal/session"
	"go-rotc/internal/shared/clock"
	"go-rotc/internal/shared/counter"
	"go-rotc/internal/shared/metrics"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*session.AttendanceSession
	overlap  bool
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*session.AttendanceSession{}}
}

func (f *fakeSessionRepo) put(s session.AttendanceSession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.ID.String()] = &s
}

func (f *fakeSessionRepo) get(id uuid.UUID) session.AttendanceSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.sessions[id.String()]
}

func (f *fakeSessionRepo) WithTx(tx *sql.Tx) session.Repository { return f }

func (f *fakeSessionRepo) Create(ctx context.Context, s *session.AttendanceSession) error {
	f.put(*s)
	return nil
}

func (f *fakeSessionRepo) FindByID(ctx context.Context, id string) (*session.AttendanceSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionRepo) FindAll(ctx context.Context, unitID string) ([]session.AttendanceSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []session.AttendanceSession
	for _, s := range f.sessions {
		if unitID == "" || s.UnitID == unitID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) HasOverlappingActive(ctx context.Context, unitID string, start, end time.Time) (bool, error) {
	return f.overlap, nil
}

func (f *fakeSessionRepo) CompleteIfActive(ctx context.Context, id string, at time.Time, by string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.Status != session.StatusActive {
		return false, nil
	}
	s.Status = session.StatusCompleted
	s.CompletedAt = &at
	s.CompletedBy = &by
	return true, nil
}

func (f *fakeSessionRepo) FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]session.AttendanceSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []session.AttendanceSession
	for _, s := range f.sessions {
		if s.Status == session.StatusActive && s.EndTime.Before(now) {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeRecordRepo struct {
	mu        sync.Mutex
	records   []attendance.Record
	createErr error
}

func (f *fakeRecordRepo) WithTx(tx *sql.Tx) attendance.Repository { return f }

func (f *fakeRecordRepo) Create(ctx context.Context, r *attendance.Record) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *r)
	return nil
}

func (f *fakeRecordRepo) CreateMissing(ctx context.Context, rows []attendance.Record) (int64, error) {
	return 0, nil
}

func (f *fakeRecordRepo) ExistsForSessionAndCadet(ctx context.Context, sessionID, cadetID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.SessionID.String() == sessionID && r.CadetID.String() == cadetID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRecordRepo) ListBySession(ctx context.Context, sessionID string) ([]attendance.Record, error) {
	return nil, nil
}

func (f *fakeRecordRepo) ListByCadetInRange(ctx context.Context, cadetID string, from, to time.Time) ([]attendance.Record, error) {
	return nil, nil
}

func (f *fakeRecordRepo) CountByCadetInRange(ctx context.Context, cadetID string, statuses []string, from, to time.Time) (int64, error) {
	return 0, nil
}

type fakeLedger struct {
	invalidated []string
}

func (f *fakeLedger) InvalidateAggregate(ctx context.Context, cadetID string) error {
	f.invalidated = append(f.invalidated, cadetID)
	return nil
}

type fakeCadets struct {
	cadets map[string]cadet.Cadet
}

func (f *fakeCadets) Find(ctx context.Context, id string) (*cadet.Cadet, error) {
	c, ok := f.cadets[id]
	if !ok {
		return nil, cadeterrors.ErrCadetNotFound
	}
	return &c, nil
}

// fakeCounter only hands out values through WithTx; bare calls are counted as misuse.
type fakeCounter struct {
	next      int64
	txCalls   int
	bareCalls int
}

type txCounter struct {
	parent *fakeCounter
}

func (f *fakeCounter) WithTx(tx *sql.Tx) counter.Repository { return &txCounter{parent: f} }
func (f *fakeCounter) GetNextValue(ctx context.Context, scopeID, counterType string) (int64, error) {
	f.bareCalls++
	f.next++
	return f.next, nil
}

func (c *txCounter) WithTx(tx *sql.Tx) counter.Repository { return c }
func (c *txCounter) GetNextValue(ctx context.Context, scopeID, counterType string) (int64, error) {
	c.parent.txCalls++
	c.parent.next++
	return c.parent.next, nil
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, e kafka.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error             { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, r string) error { return nil }

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service session.Service
	repo    *fakeSessionRepo
	records *fakeRecordRepo
	ledger  *fakeLedger
	cadets  *fakeCadets
	outbox  *fakeOutbox
	counter *fakeCounter
	clock   *clock.Manual
	metrics *metrics.Registry
}

func setupServiceTest(t *testing.T, now time.Time) *serviceDeps {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	d := &serviceDeps{
		db:      db,
		sqlMock: mock,
		repo:    newFakeSessionRepo(),
		records: &fakeRecordRepo{},
		ledger:  &fakeLedger{},
		cadets:  &fakeCadets{cadets: map[string]cadet.Cadet{}},
		outbox:  &fakeOutbox{},
		counter: &fakeCounter{},
		clock:   clock.Fixed(now),
		metrics: metrics.NewRegistry(prometheus.NewRegistry()),
	}
	d.service = session.NewService(db, d.repo, session.Deps{
		Records: d.records,
		Ledger:  d.ledger,
		Cadets:  d.cadets,
		Counter: d.counter,
		Outbox:  d.outbox,
		Clock:   d.clock,
		Metrics: d.metrics,
	}, session.Options{GraceFraction: 0.5})
	return d
}

func (d *serviceDeps) addCadet(status string) uuid.UUID {
	id := uuid.New()
	d.cadets.cadets[id.String()] = cadet.Cadet{ID: id, FullName: "Cadet " + id.String()[:4], UnitID: "BN-ALPHA", Status: status}
	return id
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}
