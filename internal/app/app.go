package app

import (
	"context"
	"database/sql"
	"net/http"

	"go-rotc/internal/config"
	"go-rotc/internal/middleware"
	"go-rotc/internal/shared/connection"
	"go-rotc/internal/shared/apperror"
	"go-rotc/internal/shared/metrics"
	"go-rotc/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type infra struct {
	gorm  *gorm.DB
	sql   *sql.DB
	redis *redis.Client
}

func (i *infra) Close() {
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.sql != nil {
		_ = i.sql.Close()
	}
}

// connect opens Postgres and, when an address is configured, Redis.
func connect(cfg *config.Config, logger *zap.Logger) (*infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, cfg.DBRetry)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established", zap.String("host", cfg.Database.Host))

	in := &infra{gorm: gormDB, sql: sqlDB}
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set; aggregate cache and idempotency disabled")
		return in, nil
	}
	in.redis, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.DBRetry)
	if err != nil {
		in.Close()
		return nil, err
	}
	logger.Info("redis connection established", zap.String("addr", cfg.RedisAddr))
	return in, nil
}

// BuildApp connects the stores, migrates the schema and mounts every route on router.
// The returned cleanup closes the connections.
func BuildApp(ctx context.Context, router *gin.Engine, cfg *config.Config, logger *zap.Logger) (func(), error) {
	in, err := connect(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, in.gorm, in.sql); err != nil {
		in.Close()
		return nil, err
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	reg := metrics.NewRegistry(promReg)

	router.Use(
		middleware.ContextLogger(logger),
		middleware.HTTPMetrics(reg.HTTPRequests, reg.HTTPLatency),
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	)

	router.GET("/healthz", healthHandler(in))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	modules := buildModules(cfg, in.sql, in.gorm, in.redis, reg, logger)
	registerRoutes(router, modules, in.redis, logger)

	return in.Close, nil
}

func healthHandler(in *infra) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{"database": "ok"}
		code := http.StatusOK
		if err := in.sql.PingContext(c.Request.Context()); err != nil {
			status["database"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		if in.redis != nil {
			status["redis"] = "ok"
			if err := in.redis.Ping(c.Request.Context()).Err(); err != nil {
				status["redis"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		if code != http.StatusOK {
			response.Error(c, code, apperror.CodeServiceUnavailable, "dependency unavailable", status)
			return
		}
		response.Success(c, code, status, nil)
	}
}
