package kafka_test

import (
	"context"
	"testing"
	"time"

	"go-leavelink/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stagedEvent() kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     uuid.NewString(),
		AggregateType: "leave_request",
		AggregateID:   uuid.NewString(),
		EventType:     "leave.approved",
		Topic:         "leave-events",
		Payload:       []byte(`{"status":"APPROVED"}`),
		Status:        kafka.OutboxStatusPending,
	}
}

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("positive joins the caller's transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO outbox_events`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		tx, err := db.Begin()
		require.NoError(t, err)

		repo := kafka.NewOutboxRepository(db).WithTx(tx)
		require.NoError(t, repo.Create(ctx, stagedEvent()))

		require.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative undeliverable rows are rejected before hitting the database", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		for name, mutate := range map[string]func(*kafka.OutboxEvent){
			"missing id":     func(e *kafka.OutboxEvent) { e.ID = "" },
			"missing topic":  func(e *kafka.OutboxEvent) { e.Topic = "" },
			"empty payload":  func(e *kafka.OutboxEvent) { e.Payload = nil },
			"unknown status": func(e *kafka.OutboxEvent) { e.Status = "queued" },
		} {
			event := stagedEvent()
			mutate(&event)
			assert.Error(t, kafka.NewOutboxRepository(db).Create(ctx, event), name)
		}

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.NewString()
	mock.ExpectExec(`UPDATE outbox_events`).
		WithArgs(id, kafka.OutboxStatusFailed, "broker unreachable").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := kafka.NewOutboxRepository(db)
	require.NoError(t, repo.MarkFailed(context.Background(), id, "broker unreachable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	event := stagedEvent()
	rows := sqlmock.NewRows([]string{
		"id", "aggregate_type", "aggregate_id", "event_type",
		"topic", "payload", "status", "retry_count", "next_retry_at",
	}).AddRow(
		event.ID, event.AggregateType, event.AggregateID, event.EventType,
		event.Topic, event.Payload, event.Status, 0, time.Now(),
	)

	mock.ExpectQuery(`FROM outbox_events`).
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50).
		WillReturnRows(rows)

	repo := kafka.NewOutboxRepository(db)
	events, err := repo.ListPending(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)
	assert.Equal(t, "leave.approved", events[0].EventType)
	assert.NoError(t, mock.ExpectationsWereMet())
}
