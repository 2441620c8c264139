package app

import (
	"database/sql"

	"go-rotc/internal/attendance"
	"go-rotc/internal/cadet"
	"go-rotc/internal/config"
	"go-rotc/internal/grade"
	"go-rotc/internal/messaging/kafka"
	"go-rotc/internal/session"
	"go-rotc/internal/shared/clock"
	"go-rotc/internal/shared/counter"
	"go-rotc/internal/shared/metrics"
	"go-rotc/internal/term"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Modules holds the wired services shared by the api, worker and consumer processes.
type Modules struct {
	Terms          term.Service
	Cadets         cadet.Service
	Attendance     attendance.Service
	Sessions       session.Service
	Grades         grade.Service
	AttendanceSync *grade.AttendanceSync
	Outbox         kafka.OutboxRepository
}

func buildModules(
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	reg *metrics.Registry,
	logger *zap.Logger,
) *Modules {
	// --- Repositories ---
	termRepo := term.NewRepository(gormDB)
	cadetRepo := cadet.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	sessionRepo := session.NewRepository(gormDB)
	gradeRepo := grade.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	termService := term.NewService(termRepo, logger)
	cadetService := cadet.NewService(cadetRepo, counterRepo, logger)
	attendanceService := attendance.NewService(attendanceRepo, termService, cadetService, rdb, attendance.Options{
		Location:  cfg.Location(),
		CountLate: cfg.CountLate,
		CacheTTL:  cfg.AggregateCacheTTL,
	}, logger)
	sessionService := session.NewService(db, sessionRepo, session.Deps{
		Records: attendanceRepo,
		Ledger:  attendanceService,
		Cadets:  cadetService,
		Counter: counterRepo,
		Outbox:  outboxRepo,
		Clock:   clock.System(),
		Metrics: reg,
	}, session.Options{GraceFraction: cfg.GraceFraction}, logger)
	gradeService := grade.NewService(db, gradeRepo, grade.Deps{
		Cadets:  cadetService,
		Terms:   termService,
		Ledger:  attendanceService,
		Outbox:  outboxRepo,
		Clock:   clock.System(),
		Metrics: reg,
	}, logger)

	return &Modules{
		Terms:          termService,
		Cadets:         cadetService,
		Attendance:     attendanceService,
		Sessions:       sessionService,
		Grades:         gradeService,
		AttendanceSync: grade.NewAttendanceSync(gradeService, cadetService, attendanceService, termService, cfg.Location(), logger),
		Outbox:         outboxRepo,
	}
}

func registerRoutes(router *gin.Engine, m *Modules, rdb *redis.Client, logger *zap.Logger) {
	api := router.Group("/api/v1")
	{
		term.RegisterRoutes(api, term.NewHandler(m.Terms, logger))
		cadet.RegisterRoutes(api, cadet.NewHandler(m.Cadets, logger))
		session.RegisterRoutes(api, session.NewHandler(m.Sessions, logger), rdb, logger)
		attendance.RegisterRoutes(api, attendance.NewHandler(m.Attendance, logger))
		grade.RegisterRoutes(api, grade.NewHandler(m.Grades, logger))
	}
}
