package app

import (
	"context"
	"errors"

	"go-rotc/internal/config"
	"go-rotc/internal/events"
	"go-rotc/internal/messaging/kafka/consumer"
	"go-rotc/internal/shared/metrics"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const sessionConsumerGroup = "go-rotc-grade-refresh"

// RunConsumer applies session_completed events to the attendance ledger and grades.
func RunConsumer(ctx context.Context, cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	in, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	defer in.Close()

	modules := buildModules(cfg, in.sql, in.gorm, in.redis, metrics.Nop(), logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.SessionLifecycleTopic,
		GroupID:        sessionConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	consumer.ConsumeSessionCompleted(ctx, reader, modules.AttendanceSync, logger)
	logger.Info("consumer shutting down")
	return nil
}
