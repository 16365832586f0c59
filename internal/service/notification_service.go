package service

import (
	"context"
	"fmt"

	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NotificationService posts workflow notifications to a role's inbox or to one user.
type NotificationService interface {
	NotifyRole(ctx context.Context, roleID int, title, message string) error
	NotifyUser(ctx context.Context, userID uuid.UUID, title, message string) error
}

type notificationService struct {
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(log *logrus.Logger, notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{
		log:              log,
		notificationRepo: notificationRepo,
	}
}

func (s *notificationService) NotifyRole(ctx context.Context, roleID int, title, message string) error {
	if !entity.IsValidRoleID(roleID) {
		return fmt.Errorf("notify unknown role %d", roleID)
	}
	return s.create(ctx, &entity.Notification{
		RoleID:  &roleID,
		Title:   title,
		Message: message,
	})
}

func (s *notificationService) NotifyUser(ctx context.Context, userID uuid.UUID, title, message string) error {
	return s.create(ctx, &entity.Notification{
		UserID:  &userID,
		Title:   title,
		Message: message,
	})
}

func (s *notificationService) create(ctx context.Context, notification *entity.Notification) error {
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.log.Warnf("Failed to create notification: %+v", err)
		return err
	}
	return nil
}
