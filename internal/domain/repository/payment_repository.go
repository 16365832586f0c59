package repository

import (
	"context"
	"time"

	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindAll(ctx context.Context, filter *entity.PaymentFilter, limit, offset int) ([]entity.Payment, int64, error)
	// MarkPaid moves an unpaid payment to Has Paid; returns rows affected.
	MarkPaid(ctx context.Context, id uuid.UUID, receivedBy uuid.UUID, receiptNumber string, paidAt time.Time) (int64, error)
	// DeleteUnpaid removes a payment only while it is still unpaid.
	DeleteUnpaid(ctx context.Context, id uuid.UUID) (int64, error)
	Summarize(ctx context.Context, from, to time.Time) (*entity.PaymentSummary, error)
	Count(ctx context.Context, filter *entity.PaymentFilter) (int64, error)
}
