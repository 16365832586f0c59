package repository

import (
	"context"
	"time"

	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
)

type DeleteRequestRepository interface {
	Create(ctx context.Context, request *entity.DeleteRequest) error
	FindByID(ctx context.Context, id int64) (*entity.DeleteRequest, error)
	FindAll(ctx context.Context, status entity.DeleteRequestStatus, limit, offset int) ([]entity.DeleteRequest, int64, error)
	FindByRequester(ctx context.Context, userID uuid.UUID) ([]entity.DeleteRequest, error)
	// Review closes a pending request; returns rows affected.
	Review(ctx context.Context, id int64, status entity.DeleteRequestStatus, reviewedBy uuid.UUID, at time.Time) (int64, error)
	CountPending(ctx context.Context) (int64, error)
}
