package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// Filter narrows list queries. Empty fields are ignored.
type Filter struct {
	Status       string
	DepartmentID string
	ApplicantID  string
	// FromDate/ToDate bound the start_date, formatted 2006-01-02.
	FromDate string
	ToDate   string
	// Limit/Offset page the result set; a zero Limit returns everything.
	Limit  int
	Offset int
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAll(ctx context.Context, filter Filter) ([]LeaveRequest, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	// TransitionStatus flips status from `from` to `to` in one conditional
	// UPDATE and reports the rows affected. Zero rows means the request is
	// gone or no longer in `from`; callers must not fall back to a blind
	// write.
	TransitionStatus(ctx context.Context, id, from, to string, updates map[string]any) (int64, error)
	HasOverlappingPeriod(ctx context.Context, applicantID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to the caller's transaction: every statement
// issued through the returned value executes on tx, so the leave row and
// its outbox event commit or roll back together.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{Context: context.Background(), NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]LeaveRequest, error) {
	db := applyFilter(r.db.WithContext(ctx).Preload("LeaveType"), filter)

	if filter.Limit > 0 {
		db = db.Limit(filter.Limit).Offset(filter.Offset)
	}

	var leaves []LeaveRequest
	err := db.Order("created_at ASC").Find(&leaves).Error
	return leaves, err
}

func (r *repository) Count(ctx context.Context, filter Filter) (int64, error) {
	var count int64
	err := applyFilter(r.db.WithContext(ctx).Model(&LeaveRequest{}), filter).
		Count(&count).Error
	return count, err
}

func (r *repository) TransitionStatus(ctx context.Context, id, from, to string, updates map[string]any) (int64, error) {
	values := map[string]any{"status": to}
	for k, v := range updates {
		values[k] = v
	}

	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Updates(values)

	return res.RowsAffected, res.Error
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, applicantID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("applicant_id = ?", applicantID).
		Where("status <> ?", StatusRejected).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func applyFilter(db *gorm.DB, filter Filter) *gorm.DB {
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.DepartmentID != "" {
		db = db.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.ApplicantID != "" {
		db = db.Where("applicant_id = ?", filter.ApplicantID)
	}
	if filter.FromDate != "" {
		db = db.Where("start_date >= ?", filter.FromDate)
	}
	if filter.ToDate != "" {
		db = db.Where("start_date <= ?", filter.ToDate)
	}
	return db
}
