package repository

import (
	"context"
	"time"

	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
)

type InvestigationRepository interface {
	Create(ctx context.Context, investigation *entity.Investigation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Investigation, error)
	FindAll(ctx context.Context, filter *entity.InvestigationFilter, limit, offset int) ([]entity.Investigation, int64, error)
	MarkPaid(ctx context.Context, paymentID uuid.UUID) (int64, error)
	// RecordResult stores the result of a paid investigation that has none yet.
	RecordResult(ctx context.Context, id uuid.UUID, result string, by uuid.UUID, at time.Time) (int64, error)
	Count(ctx context.Context, filter *entity.InvestigationFilter) (int64, error)
}
