package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-leavelink/internal/events"
	notificationerrors "go-leavelink/internal/notification/errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// LeaveDecidedConsumer materializes decision events into applicant
// notifications. Delivery is at-least-once; duplicates are absorbed by
// the leave-id unique constraint.
type LeaveDecidedConsumer struct {
	reader  *kafka.Reader
	service Service
	logger  *zap.Logger
}

func NewLeaveDecidedConsumer(
	broker string,
	groupID string,
	service Service,
	logger ...*zap.Logger,
) *LeaveDecidedConsumer {
	l := zap.L().Named("notification.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.consumer")
	}

	return &LeaveDecidedConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{broker},
			Topic:          events.LeaveDecidedTopic,
			GroupID:        groupID,
			CommitInterval: time.Second,
			StartOffset:    kafka.FirstOffset,
		}),
		service: service,
		logger:  l,
	}
}

func (c *LeaveDecidedConsumer) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *LeaveDecidedConsumer) Close() error {
	return c.reader.Close()
}

func (c *LeaveDecidedConsumer) run(ctx context.Context) {
	c.logger.Info("leave decided consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("leave decided consumer stopped")
				return
			}
			c.logger.Error("fetch leave_decided message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Error("decode leave_decided event failed", zap.Error(err))
			if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
				c.logger.Error("commit invalid leave_decided event failed", zap.Error(commitErr))
			}
			continue
		}

		_, err = c.service.CreateFromDecision(ctx, event)
		if err != nil {
			// Duplicate event is safe to skip.
			if errors.Is(err, notificationerrors.ErrDuplicateNotification) {
				c.logger.Warn("notification already exists for event, skipping",
					zap.String("leave_id", event.LeaveID),
					zap.String("applicant_id", event.ApplicantID),
				)
				if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
					c.logger.Error("commit duplicate leave_decided event failed", zap.Error(commitErr))
				}
				continue
			}

			c.logger.Error("create notification from leave_decided failed",
				zap.String("leave_id", event.LeaveID),
				zap.String("applicant_id", event.ApplicantID),
				zap.Error(err),
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("commit leave_decided event failed", zap.Error(err))
			continue
		}

		c.logger.Info("notification created from leave_decided event",
			zap.String("leave_id", event.LeaveID),
			zap.String("applicant_id", event.ApplicantID),
			zap.String("status", event.Status),
		)
	}
}
