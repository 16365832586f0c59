package repository

import (
	"context"
	"time"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type prescriptionRepository struct {
	table *Table[entity.Prescription]
}

func NewPrescriptionRepository(db *gorm.DB) domainRepo.PrescriptionRepository {
	return &prescriptionRepository{table: NewTable[entity.Prescription](db, "id")}
}

func (r *prescriptionRepository) Create(ctx context.Context, prescription *entity.Prescription) error {
	return r.table.Insert(ctx, prescription)
}

func (r *prescriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Prescription, error) {
	return r.table.FindByID(ctx, id, "Patient", "Drug")
}

func (r *prescriptionRepository) filterQuery(filter *entity.PrescriptionFilter) Query {
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
	if filter.Dispensed != nil {
		if *filter.Dispensed {
			q = q.Where("dispensed_at IS NOT NULL")
		} else {
			q = q.Where("dispensed_at IS NULL")
		}
	}
	return q
}

func (r *prescriptionRepository) FindAll(ctx context.Context, filter *entity.PrescriptionFilter, limit, offset int) ([]entity.Prescription, int64, error) {
	q := r.filterQuery(filter)
	q.Preload = []string{"Patient", "Drug"}
	q.Order = "created_at DESC"
	q.Limit = limit
	q.Offset = offset
	return r.table.Find(ctx, q)
}

func (r *prescriptionRepository) MarkPaid(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	return r.table.UpdateWhere(ctx,
		Query{Equals: map[string]interface{}{"payment_id": paymentID, "status": entity.PaymentStatusNotPaid}},
		map[string]interface{}{"status": entity.PaymentStatusHasPaid, "updated_at": time.Now()},
	)
}

func (r *prescriptionRepository) MarkDispensed(ctx context.Context, id uuid.UUID, dispensedBy uuid.UUID, at time.Time) (int64, error) {
	q := Query{Equals: map[string]interface{}{"id": id, "status": entity.PaymentStatusHasPaid}}
	return r.table.UpdateWhere(ctx, q.Where("dispensed_at IS NULL"), map[string]interface{}{
		"dispensed_at": at,
		"dispensed_by": dispensedBy,
		"updated_at":   at,
	})
}

func (r *prescriptionRepository) Count(ctx context.Context, filter *entity.PrescriptionFilter) (int64, error) {
	return r.table.Count(ctx, r.filterQuery(filter))
}
