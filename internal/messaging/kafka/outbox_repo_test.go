package kafka_test

import (
	"context"
	"encoding/json"
	"testing"

	"go-rotc/internal/messaging/kafka"
	"go-rotc/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestNewOutboxEvent(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "rid-9")

	event, err := kafka.NewOutboxEvent(ctx, "grade_record", "g1", "grade_computed", "rotc.grade.computed.v1", map[string]any{"overall": 62.0})

	assert.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "rid-9", event.RequestID)
	assert.Equal(t, kafka.OutboxStatusPending, event.Status)
	var body map[string]any
	assert.NoError(t, json.Unmarshal(event.Payload, &body))
	assert.Equal(t, 62.0, body["overall"])
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{ID: "1", Topic: "t", Payload: []byte("{}"), Status: kafka.OutboxStatusPending}
	assert.NoError(t, kafka.ValidateOutboxEvent(valid))

	noTopic := valid
	noTopic.Topic = ""
	assert.Error(t, kafka.ValidateOutboxEvent(noTopic))

	badStatus := valid
	badStatus.Status = "queued"
	assert.Error(t, kafka.ValidateOutboxEvent(badStatus))
}

func TestOutboxRepository_CreateUsesTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs("o1", "rid", "attendance_session", "s1", "session_completed", "rotc.attendance.session.v1", []byte(`{}`), kafka.OutboxStatusPending).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)

	repo := kafka.NewOutboxRepository(db).WithTx(tx)
	err = repo.Create(context.Background(), kafka.OutboxEvent{
		ID: "o1", RequestID: "rid", AggregateType: "attendance_session", AggregateID: "s1",
		EventType: "session_completed", Topic: "rotc.attendance.session.v1", Payload: []byte(`{}`),
		Status: kafka.OutboxStatusPending,
	})
	assert.NoError(t, err)
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("o1", kafka.OutboxStatusFailed, "boom", kafka.MaxOutboxRetries, kafka.OutboxStatusDead).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, kafka.NewOutboxRepository(db).MarkFailed(context.Background(), "o1", "boom"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
