package repository

import (
	"context"

	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	// FindForRecipient lists notifications addressed to the user or to the user's role.
	FindForRecipient(ctx context.Context, userID uuid.UUID, roleID int, unreadOnly bool, limit, offset int) ([]entity.Notification, int64, error)
	MarkRead(ctx context.Context, id int64, userID uuid.UUID, roleID int) (int64, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, roleID int) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID, roleID int) (int64, error)
}
