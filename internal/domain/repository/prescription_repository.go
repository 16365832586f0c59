package repository

import (
	"context"
	"time"

	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
)

type PrescriptionRepository interface {
	Create(ctx context.Context, prescription *entity.Prescription) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Prescription, error)
	FindAll(ctx context.Context, filter *entity.PrescriptionFilter, limit, offset int) ([]entity.Prescription, int64, error)
	MarkPaid(ctx context.Context, paymentID uuid.UUID) (int64, error)
	// MarkDispensed records dispensing of a paid, undispensed prescription.
	MarkDispensed(ctx context.Context, id uuid.UUID, dispensedBy uuid.UUID, at time.Time) (int64, error)
	Count(ctx context.Context, filter *entity.PrescriptionFilter) (int64, error)
}
