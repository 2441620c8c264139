package app

import (
	"context"
	"database/sql"

	"go-rotc/internal/attendance"
	"go-rotc/internal/cadet"
	"go-rotc/internal/grade"
	"go-rotc/internal/messaging/kafka"
	"go-rotc/internal/session"
	"go-rotc/internal/shared/counter"
	"go-rotc/internal/term"

	"gorm.io/gorm"
)

func migrate(ctx context.Context, gormDB *gorm.DB, db *sql.DB) error {
	if err := gormDB.WithContext(ctx).AutoMigrate(
		&term.Term{},
		&cadet.Cadet{},
		&counter.UnitCounter{},
		&session.AttendanceSession{},
		&attendance.Record{},
		&grade.GradeRecord{},
	); err != nil {
		return err
	}
	return kafka.EnsureOutboxSchema(ctx, db)
}
