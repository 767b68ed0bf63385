package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-leavelink/internal/domain"
	"go-leavelink/internal/events"
	leaveerrors "go-leavelink/internal/leave/errors"
	"go-leavelink/internal/leavetype"
	leavetypeerrors "go-leavelink/internal/leavetype/errors"
	"go-leavelink/internal/messaging/kafka"
	"go-leavelink/internal/shared/contextutil"
	"go-leavelink/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusChecked  = "CHECKED"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	PendingQueueKey       = "leaves:queue:pending"
	CheckedQueueKeyPrefix = "leaves:queue:checked:"
	queueCacheTTL         = 30 * time.Second
	checkedQueueScopeAll  = "all"
	requestNumberSeqType  = "leave_request"
	defaultPageSize       = 10
)

// GetCheckedQueueKey returns the cache key for the checked queue of one
// department scope (department id, or "all" for deans).
func GetCheckedQueueKey(scope string) string {
	return CheckedQueueKeyPrefix + scope
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actor domain.Identity, req CreateLeaveRequest) (LeaveResponse, error)
	Check(ctx context.Context, actor domain.Identity, id string) (LeaveResponse, error)
	Approve(ctx context.Context, actor domain.Identity, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actor domain.Identity, id string) (LeaveResponse, error)
	GetPendingQueue(ctx context.Context, actor domain.Identity) ([]LeaveResponse, error)
	GetCheckedQueue(ctx context.Context, actor domain.Identity) ([]LeaveResponse, error)
	GetAll(ctx context.Context, actor domain.Identity, filter ListLeavesFilter) ([]LeaveResponse, int64, error)
	GetMine(ctx context.Context, actor domain.Identity) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor domain.Identity, id string) (LeaveResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	leaveTypes leavetype.Repository
	counter    counter.Repository
	outbox     kafka.OutboxRepository
	rdb        *redis.Client
	sf         *singleflight.Group
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, leaveTypes leavetype.Repository, counter counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, leaveTypes, counter, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	leaveTypes leavetype.Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		leaveTypes: leaveTypes,
		counter:    counter,
		outbox:     outboxRepo,
		rdb:        rdb,
		sf:         &singleflight.Group{},
		logger:     l,
	}
}

func (s *service) Submit(ctx context.Context, actor domain.Identity, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit leave requested",
		zap.String("request_id", rid),
		zap.String("applicant_id", actor.UserID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	applicantID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if actor.DepartmentID == "" {
		return LeaveResponse{}, leaveerrors.ErrApplicantWithoutDepartment
	}
	departmentID, err := uuid.Parse(actor.DepartmentID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrApplicantWithoutDepartment
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	lt, err := s.leaveTypes.FindByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveResponse{}, err
	}

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
	if lt.MaxDays > 0 && totalDays > lt.MaxDays {
		s.logger.Warn("submit leave exceeds max days",
			zap.String("applicant_id", actor.UserID),
			zap.Int("total_days", totalDays),
			zap.Int("max_days", lt.MaxDays),
		)
		return LeaveResponse{}, leaveerrors.ErrExceedsMaxDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, actor.UserID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("submit leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("submit leave overlap detected",
			zap.String("applicant_id", actor.UserID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	yearScope := fmt.Sprintf("%d", startDate.Year())
	nextVal, err := s.counter.GetNextValue(ctx, yearScope, requestNumberSeqType)
	if err != nil {
		s.logger.Error("submit leave generate number failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l := &LeaveRequest{
		ID:            uuid.New(),
		RequestNumber: fmt.Sprintf("LR-%s-%05d", yearScope, nextVal),
		ApplicantID:   applicantID,
		DepartmentID:  departmentID,
		LeaveTypeID:   lt.ID,
		StartDate:     startDate,
		EndDate:       endDate,
		TotalDays:     totalDays,
		Reason:        strings.TrimSpace(req.Reason),
		Status:        StatusPending,
		LeaveType:     lt,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if s.outbox != nil {
		event := events.LeaveSubmittedEvent{
			EventType:    "leave_submitted",
			LeaveID:      l.ID.String(),
			ApplicantID:  actor.UserID,
			DepartmentID: actor.DepartmentID,
			LeaveType:    lt.Name,
			StartDate:    req.StartDate,
			EndDate:      req.EndDate,
			OccurredAt:   time.Now().UTC(),
		}
		if err := s.queueOutboxEvent(ctx, tx, rid, l.ID.String(), events.LeaveSubmittedTopic, event.EventType, event); err != nil {
			s.logger.Error("submit leave outbox persist failed",
				zap.String("leave_id", l.ID.String()),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.invalidateQueues(ctx, PendingQueueKey)

	s.logger.Info("submit leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("request_number", l.RequestNumber),
	)

	return mapToResponse(*l), nil
}

// Check moves a pending request to CHECKED. The transition is a single
// conditional UPDATE so two assistants racing on the same request cannot
// both win.
func (s *service) Check(ctx context.Context, actor domain.Identity, id string) (LeaveResponse, error) {
	actorID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	now := time.Now().UTC()
	rows, err := qtx.TransitionStatus(ctx, id, StatusPending, StatusChecked, map[string]any{
		"checked_by": actorID,
		"checked_at": now,
	})
	if err != nil {
		s.logger.Error("check leave transition failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if rows == 0 {
		return LeaveResponse{}, s.classifyFailedTransition(ctx, qtx, id, StatusPending)
	}

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("check leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.invalidateQueues(ctx,
		PendingQueueKey,
		GetCheckedQueueKey(l.DepartmentID.String()),
		GetCheckedQueueKey(checkedQueueScopeAll),
	)

	s.logger.Info("check leave success",
		zap.String("leave_id", id),
		zap.String("checked_by", actor.UserID),
	)

	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, actor domain.Identity, id string) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, actor domain.Identity, id string) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, StatusRejected)
}

// decide settles a CHECKED request as APPROVED or REJECTED. Authority is
// re-verified against the request's department even though routes already
// gate on role, because an HOD token passes the role gate for any
// department.
func (s *service) decide(ctx context.Context, actor domain.Identity, id, targetStatus string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	actorID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if !actor.IsReviewer(l.DepartmentID.String()) {
		s.logger.Warn("decide leave authority denied",
			zap.String("leave_id", id),
			zap.String("actor_id", actor.UserID),
			zap.String("department_id", l.DepartmentID.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrNotDepartmentReviewer
	}

	now := time.Now().UTC()
	rows, err := qtx.TransitionStatus(ctx, id, StatusChecked, targetStatus, map[string]any{
		"decided_by": actorID,
		"decided_at": now,
	})
	if err != nil {
		s.logger.Error("decide leave transition failed",
			zap.String("leave_id", id),
			zap.String("target_status", targetStatus),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if rows == 0 {
		s.logger.Warn("decide leave transition rejected",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", targetStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	l.Status = targetStatus
	l.DecidedBy = &actorID
	l.DecidedAt = &now

	if s.outbox != nil {
		event := events.LeaveDecidedEvent{
			EventType:   "leave_decided",
			LeaveID:     l.ID.String(),
			ApplicantID: l.ApplicantID.String(),
			Status:      targetStatus,
			DecidedBy:   actor.UserID,
			OccurredAt:  now,
		}
		if err := s.queueOutboxEvent(ctx, tx, rid, l.ID.String(), events.LeaveDecidedTopic, event.EventType, event); err != nil {
			s.logger.Error("decide leave outbox persist failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.invalidateQueues(ctx,
		GetCheckedQueueKey(l.DepartmentID.String()),
		GetCheckedQueueKey(checkedQueueScopeAll),
	)

	s.logger.Info("decide leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
		zap.String("decided_by", actor.UserID),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetPendingQueue(ctx context.Context, actor domain.Identity) ([]LeaveResponse, error) {
	return s.cachedQueue(ctx, PendingQueueKey, Filter{Status: StatusPending})
}

func (s *service) GetCheckedQueue(ctx context.Context, actor domain.Identity) ([]LeaveResponse, error) {
	filter := Filter{Status: StatusChecked}
	scope := checkedQueueScopeAll

	// HODs only ever see their own department's queue.
	if actor.Role != domain.RoleDean {
		if actor.DepartmentID == "" {
			return []LeaveResponse{}, nil
		}
		filter.DepartmentID = actor.DepartmentID
		scope = actor.DepartmentID
	}

	return s.cachedQueue(ctx, GetCheckedQueueKey(scope), filter)
}

func (s *service) GetAll(ctx context.Context, actor domain.Identity, listFilter ListLeavesFilter) ([]LeaveResponse, int64, error) {
	filter := Filter{
		Status:      strings.ToUpper(listFilter.Status),
		ApplicantID: listFilter.ApplicantID,
		FromDate:    listFilter.From,
		ToDate:      listFilter.To,
	}

	// HODs browse their own department; the other oversight roles see
	// the whole faculty. An HOD account without a department gets an
	// empty list, same as the checked queue.
	if actor.Satisfies(domain.RoleHOD) && actor.Role != domain.RoleDean {
		if actor.DepartmentID == "" {
			return []LeaveResponse{}, 0, nil
		}
		filter.DepartmentID = actor.DepartmentID
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	page := listFilter.Page
	if page < 1 {
		page = 1
	}
	pageSize := listFilter.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	leaves, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(leaves), total, nil
}

func (s *service) GetMine(ctx context.Context, actor domain.Identity) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAll(ctx, Filter{ApplicantID: actor.UserID})
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Identity, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if !canView(actor, l) {
		return LeaveResponse{}, leaveerrors.ErrLeaveAccessDenied
	}

	return mapToResponse(*l), nil
}

// canView: applicants see their own requests; HODs their department;
// admin, dean and management assistants see everything.
func canView(actor domain.Identity, l *LeaveRequest) bool {
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleDean, domain.RoleManagementAssistant:
		return true
	}
	if actor.UserID == l.ApplicantID.String() {
		return true
	}
	if actor.Satisfies(domain.RoleHOD) {
		return actor.DepartmentID == l.DepartmentID.String()
	}
	return false
}

// classifyFailedTransition distinguishes a missing request (404) from one
// in the wrong state (409) after a conditional update matched no rows.
func (s *service) classifyFailedTransition(ctx context.Context, qtx Repository, id, expectedStatus string) error {
	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}
	s.logger.Warn("leave transition rejected",
		zap.String("leave_id", id),
		zap.String("expected_status", expectedStatus),
		zap.String("actual_status", l.Status),
	)
	return leaveerrors.ErrInvalidStatusTransition
}

func (s *service) queueOutboxEvent(ctx context.Context, tx *sql.Tx, rid, leaveID, topic, eventType string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	return outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_request",
		AggregateID:   leaveID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// cachedQueue serves triage queues from Redis with a short TTL;
// singleflight collapses the stampede when a queue page is opened by many
// reviewers at once.
func (s *service) cachedQueue(ctx context.Context, cacheKey string, filter Filter) ([]LeaveResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []LeaveResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		leaves, err := s.repo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(leaves)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, queueCacheTTL)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]LeaveResponse), nil
}

func (s *service) invalidateQueues(ctx context.Context, keys ...string) {
	if s.rdb == nil {
		return
	}
	for _, key := range keys {
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			s.logger.Error("failed to invalidate queue cache",
				zap.Error(err),
				zap.String("key", key),
			)
		}
	}
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:            l.ID.String(),
		RequestNumber: l.RequestNumber,
		ApplicantID:   l.ApplicantID.String(),
		DepartmentID:  l.DepartmentID.String(),
		LeaveTypeID:   l.LeaveTypeID.String(),
		StartDate:     l.StartDate.Format("2006-01-02"),
		EndDate:       l.EndDate.Format("2006-01-02"),
		TotalDays:     l.TotalDays,
		Reason:        l.Reason,
		Status:        l.Status,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
	}
	if l.LeaveType != nil {
		resp.LeaveTypeName = l.LeaveType.Name
	}
	if l.CheckedBy != nil {
		v := l.CheckedBy.String()
		resp.CheckedBy = &v
	}
	if l.CheckedAt != nil {
		v := l.CheckedAt.Format(time.RFC3339)
		resp.CheckedAt = &v
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
