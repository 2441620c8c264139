package producer_test

import (
	"context"
	"errors"
	"testing"

	"go-rotc/internal/messaging/kafka"
	kafkaMock "go-rotc/internal/messaging/kafka/mock"
	"go-rotc/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	written []kafkago.Message
	failFor map[string]bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if f.failFor[string(m.Key)] {
			return errors.New("broker unavailable")
		}
		f.written = append(f.written, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)
	writer := &fakeWriter{failFor: map[string]bool{"session-2": true}}
	ctx := context.Background()

	pending := []kafka.OutboxEvent{
		{ID: "o1", AggregateType: "attendance_session", AggregateID: "session-1", EventType: "session_completed", Topic: "rotc.attendance.session.v1", Payload: []byte(`{}`), RequestID: "rid-1"},
		{ID: "o2", AggregateType: "attendance_session", AggregateID: "session-2", EventType: "session_completed", Topic: "rotc.attendance.session.v1", Payload: []byte(`{}`)},
	}

	repo.EXPECT().ListPending(ctx, 50).Return(pending, nil)
	repo.EXPECT().MarkSent(ctx, "o1").Return(nil)
	repo.EXPECT().MarkFailed(ctx, "o2", "broker unavailable").Return(nil)

	sent, err := producer.ProcessPendingEvents(ctx, repo, writer, zap.NewNop())

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Len(t, writer.written, 1)
	msg := writer.written[0]
	assert.Equal(t, "rotc.attendance.session.v1", msg.Topic)
	assert.Equal(t, "session-1", string(msg.Key))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "session_completed", headers["event_type"])
	assert.Equal(t, "rid-1", headers["request_id"])
	assert.Equal(t, "o1", headers["outbox_id"])
}

func TestProcessPendingEvents_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)
	repo.EXPECT().ListPending(gomock.Any(), 50).Return(nil, errors.New("db down"))

	sent, err := producer.ProcessPendingEvents(context.Background(), repo, &fakeWriter{}, zap.NewNop())

	assert.EqualError(t, err, "db down")
	assert.Zero(t, sent)
}
