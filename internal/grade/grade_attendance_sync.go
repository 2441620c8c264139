package grade

import (
	"context"
	"errors"
	"time"

	"go-rotc/internal/attendance"
	"go-rotc/internal/cadet"
	"go-rotc/internal/events"
	"go-rotc/internal/term"
	termerrors "go-rotc/internal/term/errors"

	"go.uber.org/zap"
)

type RosterLister interface {
	GetAll(ctx context.Context, unitID string) ([]cadet.CadetResponse, error)
}

type SessionLedger interface {
	ListBySession(ctx context.Context, sessionID string) ([]attendance.RecordResponse, error)
	RecordAbsences(ctx context.Context, sessionID string, cadetIDs []string, at time.Time) (int64, error)
	CountsLate() bool
}

type TermResolver interface {
	FindCovering(ctx context.Context, at time.Time, loc *time.Location) (*term.Term, error)
}

// AttendanceSync reacts to completed sessions: it fills in ABSENT rows for the unit's
// active cadets and refreshes the grades of everyone whose attendance count moved.
type AttendanceSync struct {
	grades Service
	roster RosterLister
	ledger SessionLedger
	terms  TermResolver
	loc    *time.Location
	logger *zap.Logger
}

func NewAttendanceSync(grades Service, roster RosterLister, ledger SessionLedger, terms TermResolver, loc *time.Location, logger ...*zap.Logger) *AttendanceSync {
	l := zap.L().Named("grade.attendance_sync")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("grade.attendance_sync")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceSync{grades: grades, roster: roster, ledger: ledger, terms: terms, loc: loc, logger: l}
}

func (s *AttendanceSync) HandleSessionCompleted(ctx context.Context, evt events.SessionCompletedEvent) error {
	log := s.logger.With(
		zap.String("session_id", evt.SessionID),
		zap.String("unit_id", evt.UnitID),
	)

	roster, err := s.roster.GetAll(ctx, evt.UnitID)
	if err != nil {
		return err
	}
	active := make([]string, 0, len(roster))
	for _, c := range roster {
		if c.Status == cadet.StatusActive {
			active = append(active, c.ID)
		}
	}
	if _, err := s.ledger.RecordAbsences(ctx, evt.SessionID, active, evt.CompletedAt); err != nil {
		return err
	}

	t, err := s.terms.FindCovering(ctx, evt.StartTime, s.loc)
	if err != nil {
		if errors.Is(err, termerrors.ErrTermNotFound) {
			log.Warn("no term covers session start; grades not refreshed", zap.Time("start_time", evt.StartTime))
			return nil
		}
		return err
	}

	records, err := s.ledger.ListBySession(ctx, evt.SessionID)
	if err != nil {
		return err
	}

	countLate := s.ledger.CountsLate()
	refreshed := 0
	for _, r := range records {
		if !counts(r.Status, countLate) {
			continue
		}
		changed, err := s.grades.RefreshAttendance(ctx, r.CadetID, t.ID.String())
		if err != nil {
			return err
		}
		if changed {
			refreshed++
		}
	}

	log.Info("session attendance synced",
		zap.String("term_id", t.ID.String()),
		zap.Int("records", len(records)),
		zap.Int("grades_refreshed", refreshed),
	)
	return nil
}

func counts(status string, countLate bool) bool {
	return attendance.Record{Status: status}.CountsToward(countLate)
}
