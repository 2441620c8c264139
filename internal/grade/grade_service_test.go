package grade_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-rotc/internal/cadet"
	cadeterrors "go-rotc/internal/cadet/errors"
	"go-rotc/internal/events"
	"go-rotc/internal/grade"
	gradeerrors "go-rotc/internal/grade/errors"
	"go-rotc/internal/grade/mock"
	"go-rotc/internal/messaging/kafka"
	kafkamock "go-rotc/internal/messaging/kafka/mock"
	"go-rotc/internal/shared/clock"
	"go-rotc/internal/shared/metrics"
	"go-rotc/internal/term"
	termerrors "go-rotc/internal/term/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeCadetFinder struct {
	FindFn func(ctx context.Context, id string) (*cadet.Cadet, error)
}

func (f *fakeCadetFinder) Find(ctx context.Context, id string) (*cadet.Cadet, error) {
	return f.FindFn(ctx, id)
}

type fakeTermFinder struct {
	FindFn func(ctx context.Context, id string) (*term.Term, error)
}

func (f *fakeTermFinder) Find(ctx context.Context, id string) (*term.Term, error) {
	return f.FindFn(ctx, id)
}

type fakeLedger struct {
	days  int
	err   error
	calls int
}

func (f *fakeLedger) Aggregate(ctx context.Context, cadetID, termID string) (int, error) {
	f.calls++
	return f.days, f.err
}

type gradeDeps struct {
	service  grade.Service
	repo     *mock.MockRepository
	outbox   *kafkamock.MockOutboxRepository
	sqlMock  sqlmock.Sqlmock
	ledger   *fakeLedger
	metrics  *metrics.Registry
	cadetID  uuid.UUID
	termID   uuid.UUID
	computed time.Time
}

func setupGradeTest(t *testing.T) *gradeDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	d := &gradeDeps{
		repo:     mock.NewMockRepository(ctrl),
		outbox:   kafkamock.NewMockOutboxRepository(ctrl),
		sqlMock:  sqlMock,
		ledger:   &fakeLedger{},
		metrics:  metrics.NewRegistry(prometheus.NewRegistry()),
		cadetID:  uuid.New(),
		termID:   uuid.New(),
		computed: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	}
	cadets := &fakeCadetFinder{FindFn: func(ctx context.Context, id string) (*cadet.Cadet, error) {
		if id != d.cadetID.String() {
			return nil, cadeterrors.ErrCadetNotFound
		}
		return &cadet.Cadet{ID: d.cadetID, Status: cadet.StatusActive}, nil
	}}
	terms := &fakeTermFinder{FindFn: func(ctx context.Context, id string) (*term.Term, error) {
		if id != d.termID.String() {
			return nil, termerrors.ErrTermNotFound
		}
		return &term.Term{ID: d.termID}, nil
	}}
	d.service = grade.NewService(db, d.repo, grade.Deps{
		Cadets:  cadets,
		Terms:   terms,
		Ledger:  d.ledger,
		Outbox:  d.outbox,
		Clock:   clock.Fixed(d.computed),
		Metrics: d.metrics,
	})
	return d
}

// expectPersist wires the upsert and outbox write of one successful transaction.
func (d *gradeDeps) expectPersist(version int, captured *kafka.OutboxEvent) {
	d.sqlMock.ExpectBegin()
	d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
	d.repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, g *grade.GradeRecord) error {
		g.Version = version
		return nil
	})
	d.outbox.EXPECT().WithTx(gomock.Any()).Return(d.outbox)
	d.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, e kafka.OutboxEvent) error {
		if captured != nil {
			*captured = e
		}
		return nil
	})
	d.sqlMock.ExpectCommit()
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestGradeService_Compute(t *testing.T) {
	ctx := context.Background()

	t.Run("scenario with defaults", func(t *testing.T) {
		d := setupGradeTest(t)
		var event kafka.OutboxEvent
		d.expectPersist(1, &event)

		resp, err := d.service.Compute(ctx, "registrar-1", d.cadetID.String(), d.termID.String(), grade.ComputeGradeRequest{
			AttendanceDaysPresent: intPtr(15),
			ExamScoreRaw:          floatPtr(80),
		})

		require.NoError(t, err)
		assert.Equal(t, 100.0, resp.Merit)
		assert.Equal(t, 0.0, resp.Demerit)
		assert.Equal(t, 62.0, resp.Result.OverallGrade)
		assert.Equal(t, 5.0, resp.Result.Equivalent)
		assert.Equal(t, grade.StatusFailed, resp.Result.Status)
		assert.Equal(t, 1, resp.Version)
		assert.Equal(t, "registrar-1", resp.ComputedBy)
		assert.Equal(t, "2026-10-01T09:00:00Z", resp.ComputedAt)

		assert.Equal(t, events.GradeComputedTopic, event.Topic)
		var payload events.GradeComputedEvent
		require.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, grade.SourceManual, payload.Source)
		assert.Equal(t, d.cadetID.String(), payload.CadetID)
		assert.Equal(t, float64(1), testutil.ToFloat64(d.metrics.GradesComputed.WithLabelValues(grade.StatusFailed)))
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("recompute returns the bumped version", func(t *testing.T) {
		d := setupGradeTest(t)
		d.expectPersist(3, nil)

		resp, err := d.service.Compute(ctx, "registrar-1", d.cadetID.String(), d.termID.String(), grade.ComputeGradeRequest{
			AttendanceDaysPresent: intPtr(14),
			Merit:                 floatPtr(95),
			Demerit:               floatPtr(5),
			ExamScoreRaw:          floatPtr(90),
		})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.Version)
		assert.Equal(t, 28.0, resp.Result.AttendanceScore)
		assert.Equal(t, 27.0, resp.Result.AptitudeScore)
		assert.Equal(t, 65.5, resp.Result.OverallGrade)
	})

	t.Run("from ledger caps the aggregate", func(t *testing.T) {
		d := setupGradeTest(t)
		d.ledger.days = 18
		d.expectPersist(1, nil)

		resp, err := d.service.Compute(ctx, "registrar-1", d.cadetID.String(), d.termID.String(), grade.ComputeGradeRequest{
			FromLedger:   true,
			ExamScoreRaw: floatPtr(100),
		})

		require.NoError(t, err)
		assert.Equal(t, grade.MaxAttendanceDays, resp.AttendanceDaysPresent)
		assert.Equal(t, 30.0, resp.Result.AttendanceScore)
	})

	t.Run("missing exam score", func(t *testing.T) {
		d := setupGradeTest(t)

		_, err := d.service.Compute(ctx, "registrar-1", d.cadetID.String(), d.termID.String(), grade.ComputeGradeRequest{
			AttendanceDaysPresent: intPtr(10),
		})

		assert.ErrorIs(t, err, gradeerrors.ErrInvalidGradeInput)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("out of domain input", func(t *testing.T) {
		d := setupGradeTest(t)

		_, err := d.service.Compute(ctx, "registrar-1", d.cadetID.String(), d.termID.String(), grade.ComputeGradeRequest{
			AttendanceDaysPresent: intPtr(20),
			ExamScoreRaw:          floatPtr(80),
		})

		assert.ErrorIs(t, err, gradeerrors.ErrInvalidGradeInput)
	})

	t.Run("unknown cadet", func(t *testing.T) {
		d := setupGradeTest(t)
		_, err := d.service.Compute(ctx, "registrar-1", uuid.NewString(), d.termID.String(), grade.ComputeGradeRequest{})
		assert.ErrorIs(t, err, cadeterrors.ErrCadetNotFound)
	})

	t.Run("unknown term", func(t *testing.T) {
		d := setupGradeTest(t)
		_, err := d.service.Compute(ctx, "registrar-1", d.cadetID.String(), uuid.NewString(), grade.ComputeGradeRequest{})
		assert.ErrorIs(t, err, termerrors.ErrTermNotFound)
	})

	t.Run("malformed ids", func(t *testing.T) {
		d := setupGradeTest(t)
		_, err := d.service.Compute(ctx, "registrar-1", "x", d.termID.String(), grade.ComputeGradeRequest{})
		assert.ErrorIs(t, err, gradeerrors.ErrInvalidCadetID)
		_, err = d.service.Compute(ctx, "registrar-1", d.cadetID.String(), "y", grade.ComputeGradeRequest{})
		assert.ErrorIs(t, err, gradeerrors.ErrInvalidTermID)
	})

	t.Run("upsert failure rolls back", func(t *testing.T) {
		d := setupGradeTest(t)
		d.sqlMock.ExpectBegin()
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
		d.sqlMock.ExpectRollback()

		_, err := d.service.Compute(ctx, "registrar-1", d.cadetID.String(), d.termID.String(), grade.ComputeGradeRequest{
			AttendanceDaysPresent: intPtr(10),
			ExamScoreRaw:          floatPtr(80),
		})

		assert.EqualError(t, err, "db down")
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})
}

func TestGradeService_Preview(t *testing.T) {
	d := setupGradeTest(t)

	res, err := d.service.Preview(grade.ComputeGradeRequest{AttendanceDaysPresent: intPtr(15), ExamScoreRaw: floatPtr(80)})

	require.NoError(t, err)
	assert.Equal(t, 60.0, res.FinalGrade)
	assert.Equal(t, 32.0, res.ExamGrade)

	_, err = d.service.Preview(grade.ComputeGradeRequest{ExamScoreRaw: floatPtr(80)})
	assert.ErrorIs(t, err, gradeerrors.ErrInvalidGradeInput)
}

func TestGradeService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		d := setupGradeTest(t)
		d.repo.EXPECT().FindByCadetAndTerm(gomock.Any(), d.cadetID.String(), d.termID.String()).Return(nil, gorm.ErrRecordNotFound)

		_, err := d.service.Get(ctx, d.cadetID.String(), d.termID.String())

		assert.ErrorIs(t, err, gradeerrors.ErrGradeNotFound)
	})

	t.Run("found", func(t *testing.T) {
		d := setupGradeTest(t)
		d.repo.EXPECT().FindByCadetAndTerm(gomock.Any(), d.cadetID.String(), d.termID.String()).
			Return(&grade.GradeRecord{ID: uuid.New(), CadetID: d.cadetID, TermID: d.termID, OverallGrade: 88, Equivalent: 1.75, Status: grade.StatusPassed, Version: 2}, nil)

		resp, err := d.service.Get(ctx, d.cadetID.String(), d.termID.String())

		require.NoError(t, err)
		assert.Equal(t, 1.75, resp.Result.Equivalent)
		assert.Equal(t, 2, resp.Version)
	})
}

func TestGradeService_ListByTerm(t *testing.T) {
	d := setupGradeTest(t)
	d.repo.EXPECT().FindAllByTerm(gomock.Any(), d.termID.String()).Return([]grade.GradeRecord{
		{ID: uuid.New(), CadetID: uuid.New(), TermID: d.termID, Status: grade.StatusPassed},
		{ID: uuid.New(), CadetID: uuid.New(), TermID: d.termID, Status: grade.StatusFailed},
	}, nil)

	resp, err := d.service.ListByTerm(context.Background(), d.termID.String())

	require.NoError(t, err)
	assert.Len(t, resp, 2)

	_, err = d.service.ListByTerm(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, termerrors.ErrTermNotFound)
}

func TestGradeService_RefreshAttendance(t *testing.T) {
	ctx := context.Background()
	existing := func(d *gradeDeps, days int) *grade.GradeRecord {
		return &grade.GradeRecord{
			ID: uuid.New(), CadetID: d.cadetID, TermID: d.termID,
			AttendanceDaysPresent: days, Merit: 100, Demerit: 0, ExamScoreRaw: 80,
			Version: 1, ComputedBy: "registrar-1",
		}
	}

	t.Run("no row is a no-op", func(t *testing.T) {
		d := setupGradeTest(t)
		d.repo.EXPECT().FindByCadetAndTerm(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, gorm.ErrRecordNotFound)

		changed, err := d.service.RefreshAttendance(ctx, d.cadetID.String(), d.termID.String())

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Zero(t, d.ledger.calls)
	})

	t.Run("unchanged count writes nothing", func(t *testing.T) {
		d := setupGradeTest(t)
		d.ledger.days = 10
		d.repo.EXPECT().FindByCadetAndTerm(gomock.Any(), gomock.Any(), gomock.Any()).Return(existing(d, 10), nil)

		changed, err := d.service.RefreshAttendance(ctx, d.cadetID.String(), d.termID.String())

		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("new count is recomputed as system", func(t *testing.T) {
		d := setupGradeTest(t)
		d.ledger.days = 11
		d.repo.EXPECT().FindByCadetAndTerm(gomock.Any(), gomock.Any(), gomock.Any()).Return(existing(d, 10), nil)
		var event kafka.OutboxEvent
		d.expectPersist(2, &event)

		changed, err := d.service.RefreshAttendance(ctx, d.cadetID.String(), d.termID.String())

		require.NoError(t, err)
		assert.True(t, changed)
		var payload events.GradeComputedEvent
		require.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, grade.SourceAttendanceRefresh, payload.Source)
		assert.Equal(t, 2, payload.Version)
		assert.Equal(t, 54.0, payload.OverallGrade)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("ledger error propagates", func(t *testing.T) {
		d := setupGradeTest(t)
		d.ledger.err = errors.New("redis down")
		d.repo.EXPECT().FindByCadetAndTerm(gomock.Any(), gomock.Any(), gomock.Any()).Return(existing(d, 10), nil)

		_, err := d.service.RefreshAttendance(ctx, d.cadetID.String(), d.termID.String())

		assert.EqualError(t, err, "redis down")
	})
}
