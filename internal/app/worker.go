package app

import (
	"context"
	"errors"
	"time"

	"go-rotc/internal/config"
	"go-rotc/internal/messaging/kafka/producer"
	"go-rotc/internal/session"
	"go-rotc/internal/shared/connection"
	"go-rotc/internal/shared/metrics"

	"go.uber.org/zap"
)

// RunWorker publishes outbox events to Kafka and sweeps expired sessions until ctx is done.
func RunWorker(ctx context.Context, cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	in, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	defer in.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.DBRetry)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	modules := buildModules(cfg, in.sql, in.gorm, in.redis, metrics.Nop(), logger)

	go producer.ProcessOutboxEvents(ctx, modules.Outbox, kafkaWriter, logger, cfg.OutboxPollPeriod)
	go sweepSessions(ctx, modules.Sessions, cfg.SessionSweepPeriod, logger)

	<-ctx.Done()
	logger.Info("worker shutting down")
	return nil
}

// sweepSessions completes expired sessions on a ticker; reads already expire lazily.
func sweepSessions(ctx context.Context, sessions session.Service, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = time.Minute
	}
	log := logger.Named("session.sweeper")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("session sweeper started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			log.Info("session sweeper stopped")
			return
		case <-ticker.C:
			n, err := sessions.ExpireDue(ctx)
			if err != nil {
				log.Error("session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("expired sessions swept", zap.Int("count", n))
			}
		}
	}
}
