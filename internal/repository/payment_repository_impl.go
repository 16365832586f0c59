package repository

import (
	"context"
	"time"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type paymentRepository struct {
	table *Table[entity.Payment]
}

func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{table: NewTable[entity.Payment](db, "id")}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.table.Insert(ctx, payment)
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return r.table.FindByID(ctx, id, "Patient")
}

func (r *paymentRepository) filterQuery(filter *entity.PaymentFilter) Query {
	q := Query{}
	if filter == nil {
		return q
	}
	equals := map[string]interface{}{}
	if filter.Status != "" {
		equals["status"] = filter.Status
	}
	if filter.Purpose != "" {
		equals["purpose"] = filter.Purpose
	}
	if filter.PatientID != nil {
		equals["patient_id"] = *filter.PatientID
	}
	if len(equals) > 0 {
		q.Equals = equals
	}
	if filter.Date != "" {
		q = q.Where("created_at::date = ?", filter.Date)
	}
	return q
}

func (r *paymentRepository) FindAll(ctx context.Context, filter *entity.PaymentFilter, limit, offset int) ([]entity.Payment, int64, error) {
	q := r.filterQuery(filter)
	q.Preload = []string{"Patient"}
	q.Order = "created_at DESC"
	q.Limit = limit
	q.Offset = offset
	return r.table.Find(ctx, q)
}

func (r *paymentRepository) MarkPaid(ctx context.Context, id uuid.UUID, receivedBy uuid.UUID, receiptNumber string, paidAt time.Time) (int64, error) {
	return r.table.UpdateWhere(ctx,
		Query{Equals: map[string]interface{}{"id": id, "status": entity.PaymentStatusNotPaid}},
		map[string]interface{}{
			"status":         entity.PaymentStatusHasPaid,
			"received_by":    receivedBy,
			"receipt_number": receiptNumber,
			"paid_at":        paidAt,
			"updated_at":     paidAt,
		},
	)
}

func (r *paymentRepository) DeleteUnpaid(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.table.DeleteWhere(ctx, Query{Equals: map[string]interface{}{
		"id":     id,
		"status": entity.PaymentStatusNotPaid,
	}})
}

type paymentAggregate struct {
	Purpose entity.PaymentPurpose
	Status  entity.PaymentStatus
	Count   int64
	Total   decimal.Decimal
}

// Summarize totals payments raised in [from, to).
func (r *paymentRepository) Summarize(ctx context.Context, from, to time.Time) (*entity.PaymentSummary, error) {
	var rows []paymentAggregate
	err := r.table.Raw(ctx).Model(&entity.Payment{}).
		Select("purpose, status, COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("purpose, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &entity.PaymentSummary{
		PaidTotal:     decimal.Zero,
		UnpaidTotal:   decimal.Zero,
		ByPurposePaid: map[entity.PaymentPurpose]decimal.Decimal{},
	}
	for _, row := range rows {
		switch row.Status {
		case entity.PaymentStatusHasPaid:
			summary.PaidCount += row.Count
			summary.PaidTotal = summary.PaidTotal.Add(row.Total)
			summary.ByPurposePaid[row.Purpose] = summary.ByPurposePaid[row.Purpose].Add(row.Total)
		case entity.PaymentStatusNotPaid:
			summary.UnpaidCount += row.Count
			summary.UnpaidTotal = summary.UnpaidTotal.Add(row.Total)
		}
	}
	return summary, nil
}

func (r *paymentRepository) Count(ctx context.Context, filter *entity.PaymentFilter) (int64, error) {
	return r.table.Count(ctx, r.filterQuery(filter))
}
