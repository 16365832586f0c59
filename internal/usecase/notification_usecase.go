package usecase

import (
	"context"
	"errors"

	"hospital-management/internal/converter"
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

type NotificationUsecase interface {
	GetNotifications(ctx context.Context, unreadOnly bool, page dto.PageQuery) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) (int64, error)
}

type notificationUsecase struct {
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
}

func NewNotificationUsecase(log *logrus.Logger, notificationRepo repository.NotificationRepository) NotificationUsecase {
	return &notificationUsecase{
		log:              log,
		notificationRepo: notificationRepo,
	}
}

// GetNotifications lists the caller's inbox: notifications sent to them and to their role.
func (u *notificationUsecase) GetNotifications(ctx context.Context, unreadOnly bool, page dto.PageQuery) (*dto.NotificationListResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	page = page.Normalize()
	notifications, total, err := u.notificationRepo.FindForRecipient(ctx, user.UserID, user.RoleID, unreadOnly, page.Limit, page.Offset())
	if err != nil {
		u.log.Warnf("Failed to find notifications: %+v", err)
		return nil, err
	}

	unread, err := u.notificationRepo.CountUnread(ctx, user.UserID, user.RoleID)
	if err != nil {
		u.log.Warnf("Failed to count unread notifications: %+v", err)
		return nil, err
	}

	return &dto.NotificationListResponse{
		Notifications: converter.NotificationsToResponses(notifications),
		Total:         total,
		Unread:        unread,
	}, nil
}

func (u *notificationUsecase) MarkRead(ctx context.Context, id int64) error {
	user, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	affected, err := u.notificationRepo.MarkRead(ctx, id, user.UserID, user.RoleID)
	if err != nil {
		u.log.Warnf("Failed to mark notification %d read: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (u *notificationUsecase) MarkAllRead(ctx context.Context) (int64, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return 0, err
	}

	affected, err := u.notificationRepo.MarkAllRead(ctx, user.UserID, user.RoleID)
	if err != nil {
		u.log.Warnf("Failed to mark notifications read: %+v", err)
		return 0, err
	}
	return affected, nil
}
