package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-leavelink/internal/domain"
	"go-leavelink/internal/events"
	notificationerrors "go-leavelink/internal/notification/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	// CreateFromDecision materializes a decided event into an applicant
	// notification. A re-delivered event returns ErrDuplicateNotification.
	CreateFromDecision(ctx context.Context, event events.LeaveDecidedEvent) (NotificationResponse, error)
	GetMine(ctx context.Context, actor domain.Identity) ([]NotificationResponse, error)
	GetUnreadCount(ctx context.Context, actor domain.Identity) (UnreadCountResponse, error)
	MarkRead(ctx context.Context, actor domain.Identity, id string) error
	MarkAllRead(ctx context.Context, actor domain.Identity) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) CreateFromDecision(ctx context.Context, event events.LeaveDecidedEvent) (NotificationResponse, error) {
	userID, err := uuid.Parse(event.ApplicantID)
	if err != nil {
		return NotificationResponse{}, fmt.Errorf("invalid applicant id in decided event: %w", err)
	}
	leaveID, err := uuid.Parse(event.LeaveID)
	if err != nil {
		return NotificationResponse{}, fmt.Errorf("invalid leave id in decided event: %w", err)
	}

	n := &Notification{
		ID:      uuid.New(),
		UserID:  userID,
		LeaveID: leaveID,
		Title:   decisionTitle(event.Status),
		Message: fmt.Sprintf("Your leave request was %s.", strings.ToLower(event.Status)),
		Status:  StatusUnread,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		if isDuplicateNotification(err) {
			return NotificationResponse{}, notificationerrors.ErrDuplicateNotification
		}
		s.logger.Error("create notification failed",
			zap.String("leave_id", event.LeaveID),
			zap.Error(err),
		)
		return NotificationResponse{}, err
	}

	s.logger.Info("notification created",
		zap.String("notification_id", n.ID.String()),
		zap.String("user_id", event.ApplicantID),
		zap.String("leave_id", event.LeaveID),
	)

	return mapToResponse(*n), nil
}

func (s *service) GetMine(ctx context.Context, actor domain.Identity) ([]NotificationResponse, error) {
	items, err := s.repo.FindByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, len(items))
	for i, n := range items {
		resp[i] = mapToResponse(n)
	}
	return resp, nil
}

func (s *service) GetUnreadCount(ctx context.Context, actor domain.Identity) (UnreadCountResponse, error) {
	count, err := s.repo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return UnreadCountResponse{}, err
	}
	return UnreadCountResponse{Unread: count}, nil
}

func (s *service) MarkRead(ctx context.Context, actor domain.Identity, id string) error {
	now := time.Now().UTC()
	rows, err := s.repo.MarkRead(ctx, id, actor.UserID, map[string]any{"read_at": now})
	if err != nil {
		return err
	}
	if rows == 0 {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, actor domain.Identity) error {
	now := time.Now().UTC()
	_, err := s.repo.MarkAllRead(ctx, actor.UserID, map[string]any{"read_at": now})
	return err
}

func decisionTitle(status string) string {
	if status == "APPROVED" {
		return "Leave request approved"
	}
	return "Leave request rejected"
}

func isDuplicateNotification(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_notifications_leave"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_notifications_leave")
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		LeaveID:   n.LeaveID.String(),
		Title:     n.Title,
		Message:   n.Message,
		Status:    n.Status,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		v := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &v
	}
	return resp
}
