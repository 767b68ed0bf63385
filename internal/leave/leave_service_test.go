package leave_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-leavelink/internal/domain"
	"go-leavelink/internal/events"
	"go-leavelink/internal/leave"
	leaveerrors "go-leavelink/internal/leave/errors"
	leaveMock "go-leavelink/internal/leave/mock"
	"go-leavelink/internal/leavetype"
	leavetypeerrors "go-leavelink/internal/leavetype/errors"
	leavetypeMock "go-leavelink/internal/leavetype/mock"
	"go-leavelink/internal/messaging/kafka"
	kafkaMock "go-leavelink/internal/messaging/kafka/mock"
	counterMock "go-leavelink/internal/shared/counter/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type leaveServiceDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	service    leave.Service
	repo       *leaveMock.MockRepository
	leaveTypes *leavetypeMock.MockRepository
	counter    *counterMock.MockRepository
	outbox     *kafkaMock.MockOutboxRepository
	redisMock  redismock.ClientMock
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	rdb, redisMock := redismock.NewClientMock()
	repo := leaveMock.NewMockRepository(ctrl)
	leaveTypes := leavetypeMock.NewMockRepository(ctrl)
	counterRepo := counterMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := leave.NewServiceWithOutbox(db, repo, leaveTypes, counterRepo, outboxRepo, rdb)

	return &leaveServiceDeps{
		db:         db,
		sqlMock:    sqlMock,
		service:    svc,
		repo:       repo,
		leaveTypes: leaveTypes,
		counter:    counterRepo,
		outbox:     outboxRepo,
		redisMock:  redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func academicActor(departmentID string) domain.Identity {
	return domain.Identity{
		UserID:       uuid.NewString(),
		Role:         domain.RoleAcademic,
		DepartmentID: departmentID,
	}
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	deptID := uuid.NewString()

	annualLeave := &leavetype.LeaveType{
		ID:      uuid.New(),
		Name:    "Annual Leave",
		MaxDays: 14,
	}

	req := leave.CreateLeaveRequest{
		LeaveTypeID: annualLeave.ID.String(),
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-03",
		Reason:      "Family matters",
	}

	t.Run("success queues submitted event in same transaction", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		actor := academicActor(deptID)

		deps.leaveTypes.EXPECT().
			FindByID(ctx, req.LeaveTypeID).
			Return(annualLeave, nil)

		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			HasOverlappingPeriod(ctx, actor.UserID, gomock.Any(), gomock.Any(), nil).
			Return(false, nil)

		deps.counter.EXPECT().
			GetNextValue(ctx, "2026", "leave_request").
			Return(int64(42), nil)

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, l *leave.LeaveRequest) error {
				assert.Equal(t, leave.StatusPending, l.Status)
				assert.Equal(t, "LR-2026-00042", l.RequestNumber)
				assert.Equal(t, 3, l.TotalDays)
				assert.Equal(t, actor.UserID, l.ApplicantID.String())
				assert.Equal(t, deptID, l.DepartmentID.String())
				return nil
			})

		deps.outbox.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.outbox)

		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
				assert.Equal(t, events.LeaveSubmittedTopic, e.Topic)
				assert.Equal(t, kafka.OutboxStatusPending, e.Status)
				assert.Equal(t, "leave_request", e.AggregateType)

				var payload events.LeaveSubmittedEvent
				assert.NoError(t, json.Unmarshal(e.Payload, &payload))
				assert.Equal(t, "leave_submitted", payload.EventType)
				assert.Equal(t, "Annual Leave", payload.LeaveType)
				assert.Equal(t, actor.UserID, payload.ApplicantID)
				return nil
			})

		resp, err := deps.service.Submit(ctx, actor, req)

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, "LR-2026-00042", resp.RequestNumber)
		assert.Equal(t, "Annual Leave", resp.LeaveTypeName)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative start after end", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		bad := req
		bad.StartDate = "2026-09-05"
		bad.EndDate = "2026-09-01"

		_, err := deps.service.Submit(ctx, academicActor(deptID), bad)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative malformed date", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		bad := req
		bad.StartDate = "01/09/2026"

		_, err := deps.service.Submit(ctx, academicActor(deptID), bad)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("negative exceeds leave type max days", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		long := req
		long.StartDate = "2026-09-01"
		long.EndDate = "2026-09-30"

		deps.leaveTypes.EXPECT().
			FindByID(ctx, req.LeaveTypeID).
			Return(annualLeave, nil)

		_, err := deps.service.Submit(ctx, academicActor(deptID), long)

		assert.ErrorIs(t, err, leaveerrors.ErrExceedsMaxDays)
	})

	t.Run("negative unknown leave type", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.leaveTypes.EXPECT().
			FindByID(ctx, req.LeaveTypeID).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Submit(ctx, academicActor(deptID), req)

		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNotFound)
	})

	t.Run("negative overlapping request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		actor := academicActor(deptID)

		deps.leaveTypes.EXPECT().
			FindByID(ctx, req.LeaveTypeID).
			Return(annualLeave, nil)

		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			HasOverlappingPeriod(ctx, actor.UserID, gomock.Any(), gomock.Any(), nil).
			Return(true, nil)

		_, err := deps.service.Submit(ctx, actor, req)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
	})

	t.Run("negative outbox failure rolls the submission back", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		actor := academicActor(deptID)

		deps.leaveTypes.EXPECT().
			FindByID(ctx, req.LeaveTypeID).
			Return(annualLeave, nil)

		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			HasOverlappingPeriod(ctx, actor.UserID, gomock.Any(), gomock.Any(), nil).
			Return(false, nil)

		deps.counter.EXPECT().
			GetNextValue(ctx, "2026", "leave_request").
			Return(int64(7), nil)

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(nil)

		deps.outbox.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.outbox)

		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			Return(errors.New("outbox insert failed"))

		_, err := deps.service.Submit(ctx, actor, req)

		assert.Error(t, err)
		// The PENDING row never commits, so a retry is not blocked by
		// the overlap check.
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative applicant without department", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Submit(ctx, academicActor(""), req)

		assert.ErrorIs(t, err, leaveerrors.ErrApplicantWithoutDepartment)
	})

	t.Run("negative malformed caller id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		broken := domain.Identity{UserID: "not-a-uuid", Role: domain.RoleAcademic, DepartmentID: deptID}

		_, err := deps.service.Submit(ctx, broken, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidActorID)
	})
}

func TestLeaveService_Check(t *testing.T) {
	ctx := context.Background()

	assistant := domain.Identity{
		UserID: uuid.NewString(),
		Role:   domain.RoleManagementAssistant,
	}

	t.Run("success conditional transition to checked", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		leaveID := uuid.New()
		checkedBy := uuid.MustParse(assistant.UserID)
		now := time.Now().UTC()

		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			TransitionStatus(ctx, leaveID.String(), leave.StatusPending, leave.StatusChecked, gomock.Any()).
			Return(int64(1), nil)

		deps.repo.EXPECT().
			FindByID(ctx, leaveID.String()).
			Return(&leave.LeaveRequest{
				ID:           leaveID,
				ApplicantID:  uuid.New(),
				DepartmentID: uuid.New(),
				Status:       leave.StatusChecked,
				CheckedBy:    &checkedBy,
				CheckedAt:    &now,
			}, nil)

		resp, err := deps.service.Check(ctx, assistant, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusChecked, resp.Status)
		assert.Equal(t, assistant.UserID, *resp.CheckedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative request not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		id := uuid.NewString()

		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			TransitionStatus(ctx, id, leave.StatusPending, leave.StatusChecked, gomock.Any()).
			Return(int64(0), nil)

		deps.repo.EXPECT().
			FindByID(ctx, id).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Check(ctx, assistant, id)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("negative already checked by a racing assistant", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		leaveID := uuid.New()

		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			TransitionStatus(ctx, leaveID.String(), leave.StatusPending, leave.StatusChecked, gomock.Any()).
			Return(int64(0), nil)

		deps.repo.EXPECT().
			FindByID(ctx, leaveID.String()).
			Return(&leave.LeaveRequest{ID: leaveID, Status: leave.StatusChecked}, nil)

		_, err := deps.service.Check(ctx, assistant, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	})

	t.Run("negative malformed caller id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		broken := domain.Identity{UserID: "not-a-uuid", Role: domain.RoleManagementAssistant}

		_, err := deps.service.Check(ctx, broken, uuid.NewString())

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidActorID)
	})
}

func TestLeaveService_Decide(t *testing.T) {
	ctx := context.Background()
	deptID := uuid.New()

	checkedRequest := func(id uuid.UUID) *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:           id,
			ApplicantID:  uuid.New(),
			DepartmentID: deptID,
			Status:       leave.StatusChecked,
		}
	}

	expectDecideSuccess := func(t *testing.T, deps *leaveServiceDeps, id uuid.UUID, target string) {
		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			FindByID(ctx, id.String()).
			Return(checkedRequest(id), nil)

		deps.repo.EXPECT().
			TransitionStatus(ctx, id.String(), leave.StatusChecked, target, gomock.Any()).
			Return(int64(1), nil)

		deps.outbox.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.outbox)

		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
				var payload events.LeaveDecidedEvent
				assert.NoError(t, json.Unmarshal(e.Payload, &payload))
				assert.Equal(t, events.LeaveDecidedTopic, e.Topic)
				assert.Equal(t, target, payload.Status)
				return nil
			})
	}

	t.Run("success hod approves own department", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		hod := domain.Identity{
			UserID:       uuid.NewString(),
			Role:         domain.RoleHOD,
			DepartmentID: deptID.String(),
		}
		leaveID := uuid.New()

		expectTx(t, deps.sqlMock, true)
		expectDecideSuccess(t, deps, leaveID, leave.StatusApproved)

		resp, err := deps.service.Approve(ctx, hod, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Equal(t, hod.UserID, *resp.DecidedBy)
	})

	t.Run("success acting hod approves own department", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		actingHOD := domain.Identity{
			UserID:       uuid.NewString(),
			Role:         domain.RoleAcademic,
			DepartmentID: deptID.String(),
			ActsAsHOD:    true,
		}
		leaveID := uuid.New()

		expectTx(t, deps.sqlMock, true)
		expectDecideSuccess(t, deps, leaveID, leave.StatusApproved)

		resp, err := deps.service.Approve(ctx, actingHOD, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
	})

	t.Run("success dean rejects any department", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		dean := domain.Identity{
			UserID: uuid.NewString(),
			Role:   domain.RoleDean,
		}
		leaveID := uuid.New()

		expectTx(t, deps.sqlMock, true)
		expectDecideSuccess(t, deps, leaveID, leave.StatusRejected)

		resp, err := deps.service.Reject(ctx, dean, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
	})

	t.Run("negative hod from another department", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		otherHOD := domain.Identity{
			UserID:       uuid.NewString(),
			Role:         domain.RoleHOD,
			DepartmentID: uuid.NewString(),
		}
		leaveID := uuid.New()

		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			FindByID(ctx, leaveID.String()).
			Return(checkedRequest(leaveID), nil)

		_, err := deps.service.Approve(ctx, otherHOD, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotDepartmentReviewer)
	})

	t.Run("negative terminal status is immutable", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		dean := domain.Identity{
			UserID: uuid.NewString(),
			Role:   domain.RoleDean,
		}
		leaveID := uuid.New()

		approved := checkedRequest(leaveID)
		approved.Status = leave.StatusApproved

		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			FindByID(ctx, leaveID.String()).
			Return(approved, nil)

		deps.repo.EXPECT().
			TransitionStatus(ctx, leaveID.String(), leave.StatusChecked, leave.StatusRejected, gomock.Any()).
			Return(int64(0), nil)

		_, err := deps.service.Reject(ctx, dean, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	})

	t.Run("negative pending request cannot skip the check step", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		dean := domain.Identity{
			UserID: uuid.NewString(),
			Role:   domain.RoleDean,
		}
		leaveID := uuid.New()

		pending := checkedRequest(leaveID)
		pending.Status = leave.StatusPending

		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			FindByID(ctx, leaveID.String()).
			Return(pending, nil)

		deps.repo.EXPECT().
			TransitionStatus(ctx, leaveID.String(), leave.StatusChecked, leave.StatusApproved, gomock.Any()).
			Return(int64(0), nil)

		_, err := deps.service.Approve(ctx, dean, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	})

	t.Run("negative outbox failure rolls the decision back", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		hod := domain.Identity{
			UserID:       uuid.NewString(),
			Role:         domain.RoleHOD,
			DepartmentID: deptID.String(),
		}
		leaveID := uuid.New()

		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			FindByID(ctx, leaveID.String()).
			Return(checkedRequest(leaveID), nil)

		deps.repo.EXPECT().
			TransitionStatus(ctx, leaveID.String(), leave.StatusChecked, leave.StatusApproved, gomock.Any()).
			Return(int64(1), nil)

		deps.outbox.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.outbox)

		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			Return(errors.New("outbox insert failed"))

		_, err := deps.service.Approve(ctx, hod, leaveID.String())

		assert.Error(t, err)
		// The status flip shares the transaction, so the request stays
		// CHECKED and the decision can be retried.
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Queues(t *testing.T) {
	ctx := context.Background()

	t.Run("pending queue fetches pending requests", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		assistant := domain.Identity{UserID: uuid.NewString(), Role: domain.RoleManagementAssistant}

		deps.repo.EXPECT().
			FindAll(ctx, leave.Filter{Status: leave.StatusPending}).
			Return([]leave.LeaveRequest{
				{ID: uuid.New(), ApplicantID: uuid.New(), DepartmentID: uuid.New(), Status: leave.StatusPending},
			}, nil)

		resp, err := deps.service.GetPendingQueue(ctx, assistant)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, leave.StatusPending, resp[0].Status)
	})

	t.Run("pending queue served from cache when warm", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		assistant := domain.Identity{UserID: uuid.NewString(), Role: domain.RoleManagementAssistant}

		cached := []leave.LeaveResponse{{ID: uuid.NewString(), Status: leave.StatusPending}}
		data, _ := json.Marshal(cached)
		deps.redisMock.ExpectGet(leave.PendingQueueKey).SetVal(string(data))

		resp, err := deps.service.GetPendingQueue(ctx, assistant)

		assert.NoError(t, err)
		assert.Equal(t, cached, resp)
	})

	t.Run("checked queue scoped to hod department", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deptID := uuid.NewString()
		hod := domain.Identity{UserID: uuid.NewString(), Role: domain.RoleHOD, DepartmentID: deptID}

		deps.repo.EXPECT().
			FindAll(ctx, leave.Filter{Status: leave.StatusChecked, DepartmentID: deptID}).
			Return([]leave.LeaveRequest{}, nil)

		resp, err := deps.service.GetCheckedQueue(ctx, hod)

		assert.NoError(t, err)
		assert.Empty(t, resp)
	})

	t.Run("checked queue unscoped for dean", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		dean := domain.Identity{UserID: uuid.NewString(), Role: domain.RoleDean}

		deps.repo.EXPECT().
			FindAll(ctx, leave.Filter{Status: leave.StatusChecked}).
			Return([]leave.LeaveRequest{}, nil)

		_, err := deps.service.GetCheckedQueue(ctx, dean)

		assert.NoError(t, err)
	})
}

func TestLeaveService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("hod browsing is scoped to own department", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deptID := uuid.NewString()
		hod := domain.Identity{UserID: uuid.NewString(), Role: domain.RoleHOD, DepartmentID: deptID}

		deps.repo.EXPECT().
			Count(ctx, leave.Filter{Status: leave.StatusApproved, DepartmentID: deptID}).
			Return(int64(0), nil)

		deps.repo.EXPECT().
			FindAll(ctx, leave.Filter{Status: leave.StatusApproved, DepartmentID: deptID, Limit: 10}).
			Return([]leave.LeaveRequest{}, nil)

		_, _, err := deps.service.GetAll(ctx, hod, leave.ListLeavesFilter{Status: "approved"})

		assert.NoError(t, err)
	})

	t.Run("hod without a department sees nothing", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		hod := domain.Identity{UserID: uuid.NewString(), Role: domain.RoleHOD}

		resp, total, err := deps.service.GetAll(ctx, hod, leave.ListLeavesFilter{})

		assert.NoError(t, err)
		assert.Empty(t, resp)
		assert.Zero(t, total)
	})

	t.Run("management assistant sees all departments", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		assistant := domain.Identity{UserID: uuid.NewString(), Role: domain.RoleManagementAssistant}

		deps.repo.EXPECT().
			Count(ctx, leave.Filter{}).
			Return(int64(0), nil)

		deps.repo.EXPECT().
			FindAll(ctx, leave.Filter{Limit: 10}).
			Return([]leave.LeaveRequest{}, nil)

		_, _, err := deps.service.GetAll(ctx, assistant, leave.ListLeavesFilter{})

		assert.NoError(t, err)
	})

	t.Run("pagination is pushed into the query", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		admin := domain.Identity{UserID: uuid.NewString(), Role: domain.RoleAdmin}

		deps.repo.EXPECT().
			Count(ctx, leave.Filter{}).
			Return(int64(25), nil)

		deps.repo.EXPECT().
			FindAll(ctx, leave.Filter{Limit: 10, Offset: 10}).
			Return([]leave.LeaveRequest{}, nil)

		_, total, err := deps.service.GetAll(ctx, admin, leave.ListLeavesFilter{Page: 2, PageSize: 10})

		assert.NoError(t, err)
		assert.Equal(t, int64(25), total)
	})

	t.Run("date and applicant filters are forwarded", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		applicantID := uuid.NewString()
		admin := domain.Identity{UserID: uuid.NewString(), Role: domain.RoleAdmin}

		deps.repo.EXPECT().
			Count(ctx, leave.Filter{
				ApplicantID: applicantID,
				FromDate:    "2026-09-01",
				ToDate:      "2026-12-31",
			}).
			Return(int64(0), nil)

		deps.repo.EXPECT().
			FindAll(ctx, leave.Filter{
				ApplicantID: applicantID,
				FromDate:    "2026-09-01",
				ToDate:      "2026-12-31",
				Limit:       10,
			}).
			Return([]leave.LeaveRequest{}, nil)

		_, _, err := deps.service.GetAll(ctx, admin, leave.ListLeavesFilter{
			From:        "2026-09-01",
			To:          "2026-12-31",
			ApplicantID: applicantID,
		})

		assert.NoError(t, err)
	})
}

// The whole review pipeline against one request: submitted, checked,
// approved, and a late reject bouncing off the terminal status.
func TestLeaveService_FullPipeline(t *testing.T) {
	ctx := context.Background()
	deptID := uuid.New()
	leaveID := uuid.New()

	applicant := domain.Identity{UserID: uuid.NewString(), Role: domain.RoleAcademic, DepartmentID: deptID.String()}
	assistant := domain.Identity{UserID: uuid.NewString(), Role: domain.RoleManagementAssistant}
	hod := domain.Identity{UserID: uuid.NewString(), Role: domain.RoleHOD, DepartmentID: deptID.String()}
	dean := domain.Identity{UserID: uuid.NewString(), Role: domain.RoleDean}

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	sick := &leavetype.LeaveType{ID: uuid.New(), Name: "Sick Leave", MaxDays: 0}

	// Submit
	deps.leaveTypes.EXPECT().FindByID(ctx, sick.ID.String()).Return(sick, nil)
	expectTx(t, deps.sqlMock, true)
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
	deps.repo.EXPECT().
		HasOverlappingPeriod(ctx, applicant.UserID, gomock.Any(), gomock.Any(), nil).
		Return(false, nil)
	deps.counter.EXPECT().GetNextValue(ctx, "2026", "leave_request").Return(int64(1), nil)
	deps.repo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, l *leave.LeaveRequest) error {
			l.ID = leaveID
			return nil
		})
	deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
	deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	submitted, err := deps.service.Submit(ctx, applicant, leave.CreateLeaveRequest{
		LeaveTypeID: sick.ID.String(),
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-02",
		Reason:      "Flu",
	})
	assert.NoError(t, err)
	assert.Equal(t, leave.StatusPending, submitted.Status)
	assert.Equal(t, "LR-2026-00001", submitted.RequestNumber)

	// Check
	checkedBy := uuid.MustParse(assistant.UserID)
	expectTx(t, deps.sqlMock, true)
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
	deps.repo.EXPECT().
		TransitionStatus(ctx, leaveID.String(), leave.StatusPending, leave.StatusChecked, gomock.Any()).
		Return(int64(1), nil)
	deps.repo.EXPECT().
		FindByID(ctx, leaveID.String()).
		Return(&leave.LeaveRequest{
			ID:           leaveID,
			ApplicantID:  uuid.MustParse(applicant.UserID),
			DepartmentID: deptID,
			Status:       leave.StatusChecked,
			CheckedBy:    &checkedBy,
		}, nil)

	checked, err := deps.service.Check(ctx, assistant, leaveID.String())
	assert.NoError(t, err)
	assert.Equal(t, leave.StatusChecked, checked.Status)

	// Approve by the department's HOD
	expectTx(t, deps.sqlMock, true)
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
	deps.repo.EXPECT().
		FindByID(ctx, leaveID.String()).
		Return(&leave.LeaveRequest{
			ID:           leaveID,
			ApplicantID:  uuid.MustParse(applicant.UserID),
			DepartmentID: deptID,
			Status:       leave.StatusChecked,
		}, nil)
	deps.repo.EXPECT().
		TransitionStatus(ctx, leaveID.String(), leave.StatusChecked, leave.StatusApproved, gomock.Any()).
		Return(int64(1), nil)
	deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
	deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	approved, err := deps.service.Approve(ctx, hod, leaveID.String())
	assert.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Status)

	// A late reject loses: the conditional update matches nothing.
	expectTx(t, deps.sqlMock, false)
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
	deps.repo.EXPECT().
		FindByID(ctx, leaveID.String()).
		Return(&leave.LeaveRequest{
			ID:           leaveID,
			ApplicantID:  uuid.MustParse(applicant.UserID),
			DepartmentID: deptID,
			Status:       leave.StatusApproved,
		}, nil)
	deps.repo.EXPECT().
		TransitionStatus(ctx, leaveID.String(), leave.StatusChecked, leave.StatusRejected, gomock.Any()).
		Return(int64(0), nil)

	_, err = deps.service.Reject(ctx, dean, leaveID.String())
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()

	leaveID := uuid.New()
	applicantID := uuid.New()
	deptID := uuid.New()

	stored := &leave.LeaveRequest{
		ID:           leaveID,
		ApplicantID:  applicantID,
		DepartmentID: deptID,
		Status:       leave.StatusPending,
	}

	t.Run("applicant can read own request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindByID(ctx, leaveID.String()).
			Return(stored, nil)

		resp, err := deps.service.GetByID(ctx, domain.Identity{
			UserID: applicantID.String(),
			Role:   domain.RoleAcademic,
		}, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, leaveID.String(), resp.ID)
	})

	t.Run("negative another academic is denied", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindByID(ctx, leaveID.String()).
			Return(stored, nil)

		_, err := deps.service.GetByID(ctx, domain.Identity{
			UserID: uuid.NewString(),
			Role:   domain.RoleAcademic,
		}, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveAccessDenied)
	})

	t.Run("negative hod from another department is denied", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindByID(ctx, leaveID.String()).
			Return(stored, nil)

		_, err := deps.service.GetByID(ctx, domain.Identity{
			UserID:       uuid.NewString(),
			Role:         domain.RoleHOD,
			DepartmentID: uuid.NewString(),
		}, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveAccessDenied)
	})

	t.Run("negative unknown id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindByID(ctx, leaveID.String()).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByID(ctx, domain.Identity{
			UserID: uuid.NewString(),
			Role:   domain.RoleAdmin,
		}, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}
