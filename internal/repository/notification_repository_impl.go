package repository

import (
	"context"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type notificationRepository struct {
	table *Table[entity.Notification]
}

func NewNotificationRepository(db *gorm.DB) domainRepo.NotificationRepository {
	return &notificationRepository{table: NewTable[entity.Notification](db, "id")}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	return r.table.Insert(ctx, notification)
}

func recipientQuery(userID uuid.UUID, roleID int) Query {
	return Query{}.Where("(user_id = ? OR role_id = ?)", userID, roleID)
}

func (r *notificationRepository) FindForRecipient(ctx context.Context, userID uuid.UUID, roleID int, unreadOnly bool, limit, offset int) ([]entity.Notification, int64, error) {
	q := recipientQuery(userID, roleID)
	if unreadOnly {
		q.Equals = map[string]interface{}{"is_read": false}
	}
	q.Order = "created_at DESC"
	q.Limit = limit
	q.Offset = offset
	return r.table.Find(ctx, q)
}

func (r *notificationRepository) MarkRead(ctx context.Context, id int64, userID uuid.UUID, roleID int) (int64, error) {
	q := recipientQuery(userID, roleID)
	q.Equals = map[string]interface{}{"id": id}
	return r.table.UpdateWhere(ctx, q, map[string]interface{}{"is_read": true})
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, roleID int) (int64, error) {
	q := recipientQuery(userID, roleID)
	q.Equals = map[string]interface{}{"is_read": false}
	return r.table.UpdateWhere(ctx, q, map[string]interface{}{"is_read": true})
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID, roleID int) (int64, error) {
	q := recipientQuery(userID, roleID)
	q.Equals = map[string]interface{}{"is_read": false}
	return r.table.Count(ctx, q)
}
