package repository

import (
	"context"
	"time"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type deleteRequestRepository struct {
	table *Table[entity.DeleteRequest]
}

func NewDeleteRequestRepository(db *gorm.DB) domainRepo.DeleteRequestRepository {
	return &deleteRequestRepository{table: NewTable[entity.DeleteRequest](db, "id")}
}

func (r *deleteRequestRepository) Create(ctx context.Context, request *entity.DeleteRequest) error {
	return r.table.Insert(ctx, request)
}

func (r *deleteRequestRepository) FindByID(ctx context.Context, id int64) (*entity.DeleteRequest, error) {
	return r.table.FindByID(ctx, id, "Requester")
}

func (r *deleteRequestRepository) FindAll(ctx context.Context, status entity.DeleteRequestStatus, limit, offset int) ([]entity.DeleteRequest, int64, error) {
	q := Query{
		Preload: []string{"Requester"},
		Order:   "created_at DESC",
		Limit:   limit,
		Offset:  offset,
	}
	if status != "" {
		q.Equals = map[string]interface{}{"status": status}
	}
	return r.table.Find(ctx, q)
}

func (r *deleteRequestRepository) FindByRequester(ctx context.Context, userID uuid.UUID) ([]entity.DeleteRequest, error) {
	requests, _, err := r.table.Find(ctx, Query{
		Equals: map[string]interface{}{"requested_by": userID},
		Order:  "created_at DESC",
	})
	return requests, err
}

func (r *deleteRequestRepository) Review(ctx context.Context, id int64, status entity.DeleteRequestStatus, reviewedBy uuid.UUID, at time.Time) (int64, error) {
	return r.table.UpdateWhere(ctx,
		Query{Equals: map[string]interface{}{"id": id, "status": entity.DeleteRequestPending}},
		map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewedBy,
			"reviewed_at": at,
			"updated_at":  at,
		},
	)
}

func (r *deleteRequestRepository) CountPending(ctx context.Context) (int64, error) {
	return r.table.Count(ctx, Query{Equals: map[string]interface{}{"status": entity.DeleteRequestPending}})
}
