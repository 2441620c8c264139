package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-rotc/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type SessionCompletedHandler interface {
	HandleSessionCompleted(ctx context.Context, event events.SessionCompletedEvent) error
}

// Handler failures are retried on the same message; committing a later offset would skip it.
// After maxHandleAttempts the message is logged with its payload and committed so the
// partition keeps moving; the grade for that session can be recomputed on demand.
var (
	retryInitialBackoff = time.Second
	retryMaxBackoff     = 30 * time.Second
	maxHandleAttempts   = 10
	fetchErrorBackoff   = time.Second
)

// ConsumeSessionCompleted runs until ctx is cancelled. A message is committed only once
// the handler accepts it or it is undecodable.
func ConsumeSessionCompleted(
	ctx context.Context,
	reader MessageReader,
	handler SessionCompletedHandler,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.session_completed")
	log.Info("session completed consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("session completed consumer stopped")
				return
			}
			log.Error("fetch session message failed", zap.Error(err))
			select {
			case <-ctx.Done():
				log.Info("session completed consumer stopped")
				return
			case <-time.After(fetchErrorBackoff):
			}
			continue
		}

		if !handleWithRetry(ctx, msg, handler, log) {
			log.Info("session completed consumer stopped")
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit session message failed", zap.Error(err))
		}
	}
}

// handleWithRetry blocks until msg is handled or given up on; it returns false only when ctx is done.
func handleWithRetry(ctx context.Context, msg kafkago.Message, handler SessionCompletedHandler, log *zap.Logger) bool {
	backoff := retryInitialBackoff
	for attempt := 1; !handleMessage(ctx, msg, handler, log); attempt++ {
		if attempt >= maxHandleAttempts {
			log.Error("giving up on session message",
				zap.Int64("offset", msg.Offset),
				zap.Int("attempts", attempt),
				zap.ByteString("value", msg.Value),
			)
			return true
		}
		log.Warn("retrying session message",
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
		)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > retryMaxBackoff {
			backoff = retryMaxBackoff
		}
	}
	return true
}

// handleMessage reports whether msg may be committed.
func handleMessage(ctx context.Context, msg kafkago.Message, handler SessionCompletedHandler, log *zap.Logger) bool {
	var event events.SessionCompletedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode session event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		return true
	}

	if event.EventType != events.SessionCompletedEventType {
		log.Debug("skipping session event", zap.String("event_type", event.EventType))
		return true
	}

	if err := handler.HandleSessionCompleted(ctx, event); err != nil {
		log.Error("handle session_completed failed",
			zap.String("session_id", event.SessionID),
			zap.Error(err),
		)
		return false
	}

	log.Info("session_completed handled",
		zap.String("session_id", event.SessionID),
		zap.String("trigger", event.Trigger),
	)
	return true
}
