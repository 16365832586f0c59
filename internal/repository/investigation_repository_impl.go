package repository

import (
	"context"
	"time"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type investigationRepository struct {
	table *Table[entity.Investigation]
}

func NewInvestigationRepository(db *gorm.DB) domainRepo.InvestigationRepository {
	return &investigationRepository{table: NewTable[entity.Investigation](db, "id")}
}

func (r *investigationRepository) Create(ctx context.Context, investigation *entity.Investigation) error {
	return r.table.Insert(ctx, investigation)
}

func (r *investigationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Investigation, error) {
	return r.table.FindByID(ctx, id, "Patient", "LabTest")
}

func (r *investigationRepository) filterQuery(filter *entity.InvestigationFilter) Query {
	q := Query{}
	if filter == nil {
		return q
	}
	equals := map[string]interface{}{}
	if filter.Status != "" {
		equals["status"] = filter.Status
	}
	if filter.PatientID != nil {
		equals["patient_id"] = *filter.PatientID
	}
	if len(equals) > 0 {
		q.Equals = equals
	}
	if filter.PendingResult {
		q = q.Where("result_at IS NULL")
	}
	return q
}

func (r *investigationRepository) FindAll(ctx context.Context, filter *entity.InvestigationFilter, limit, offset int) ([]entity.Investigation, int64, error) {
	q := r.filterQuery(filter)
	q.Preload = []string{"Patient", "LabTest"}
	q.Order = "created_at DESC"
	q.Limit = limit
	q.Offset = offset
	return r.table.Find(ctx, q)
}

func (r *investigationRepository) MarkPaid(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	return r.table.UpdateWhere(ctx,
		Query{Equals: map[string]interface{}{"payment_id": paymentID, "status": entity.PaymentStatusNotPaid}},
		map[string]interface{}{"status": entity.PaymentStatusHasPaid, "updated_at": time.Now()},
	)
}

func (r *investigationRepository) RecordResult(ctx context.Context, id uuid.UUID, result string, by uuid.UUID, at time.Time) (int64, error) {
	q := Query{Equals: map[string]interface{}{"id": id, "status": entity.PaymentStatusHasPaid}}
	return r.table.UpdateWhere(ctx, q.Where("result_at IS NULL"), map[string]interface{}{
		"result":     result,
		"result_at":  at,
		"result_by":  by,
		"updated_at": at,
	})
}

func (r *investigationRepository) Count(ctx context.Context, filter *entity.InvestigationFilter) (int64, error) {
	return r.table.Count(ctx, r.filterQuery(filter))
}
