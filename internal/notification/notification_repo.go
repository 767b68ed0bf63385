package notification

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, n *Notification) error
	FindByUser(ctx context.Context, userID string) ([]Notification, error)
	// MarkRead only touches the owner's unread row and reports the rows
	// affected, so a foreign or already-read id is a no-op.
	MarkRead(ctx context.Context, id, userID string, updates map[string]any) (int64, error)
	MarkAllRead(ctx context.Context, userID string, updates map[string]any) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to the caller's transaction; every statement
// issued through the returned value executes on tx.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{Context: context.Background(), NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) FindByUser(ctx context.Context, userID string) ([]Notification, error) {
	var items []Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *repository) MarkRead(ctx context.Context, id, userID string, updates map[string]any) (int64, error) {
	values := map[string]any{"status": StatusRead}
	for k, v := range updates {
		values[k] = v
	}

	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Where("status = ?", StatusUnread).
		Updates(values)

	return res.RowsAffected, res.Error
}

func (r *repository) MarkAllRead(ctx context.Context, userID string, updates map[string]any) (int64, error) {
	values := map[string]any{"status": StatusRead}
	for k, v := range updates {
		values[k] = v
	}

	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ?", userID).
		Where("status = ?", StatusUnread).
		Updates(values)

	return res.RowsAffected, res.Error
}

func (r *repository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ?", userID).
		Where("status = ?", StatusUnread).
		Count(&count).Error
	return count, err
}
