package service

import (
	"context"
	"errors"
	"testing"

	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditRepo struct {
	repository.AuditLogRepository
	logs []*entity.AuditLog
	err  error
}

func (f *fakeAuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	if f.err != nil {
		return f.err
	}
	f.logs = append(f.logs, log)
	return nil
}

type fakeNotificationRepo struct {
	repository.NotificationRepository
	created []*entity.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	f.created = append(f.created, n)
	return nil
}

func TestAuditService_LogUpdate(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(newTestLogger(), repo)
	userID := uuid.New()

	err := svc.LogUpdate(context.Background(), userID, entity.AuditActionDrugUpdate, "drug", "3",
		map[string]interface{}{"stock": 1}, map[string]interface{}{"stock": 5})
	require.NoError(t, err)

	require.Len(t, repo.logs, 1)
	got := repo.logs[0]
	assert.Equal(t, entity.AuditActionDrugUpdate, got.Action)
	require.NotNil(t, got.UserID)
	assert.Equal(t, userID, *got.UserID)
	assert.Equal(t, "drug", got.Metadata["entity"])
	assert.Equal(t, "3", got.Metadata["entity_id"])
}

func TestAuditService_SystemActorHasNoUser(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(newTestLogger(), repo)

	require.NoError(t, svc.LogCreate(context.Background(), uuid.Nil, entity.AuditActionUserCreate, "user", "x", nil))
	require.Len(t, repo.logs, 1)
	assert.Nil(t, repo.logs[0].UserID)
	assert.Nil(t, repo.logs[0].Metadata["old_value"])
}

func TestAuditService_PropagatesError(t *testing.T) {
	repo := &fakeAuditRepo{err: errors.New("db down")}
	svc := NewAuditService(newTestLogger(), repo)

	err := svc.LogDelete(context.Background(), uuid.New(), entity.AuditActionPatientDelete, "patient", "1", nil)
	assert.EqualError(t, err, "db down")
}

func TestNotificationService(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(newTestLogger(), repo)
	ctx := context.Background()

	require.NoError(t, svc.NotifyRole(ctx, entity.RoleIDAccountant, "New bill", "Consultation fee awaiting payment"))
	userID := uuid.New()
	require.NoError(t, svc.NotifyUser(ctx, userID, "Request approved", "Your delete request was approved"))
	assert.Error(t, svc.NotifyRole(ctx, 99, "x", "y"))

	require.Len(t, repo.created, 2)
	require.NotNil(t, repo.created[0].RoleID)
	assert.Equal(t, entity.RoleIDAccountant, *repo.created[0].RoleID)
	assert.Nil(t, repo.created[0].UserID)
	require.NotNil(t, repo.created[1].UserID)
	assert.Equal(t, userID, *repo.created[1].UserID)
}
