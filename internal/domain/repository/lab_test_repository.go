package repository

import (
	"context"

	"hospital-management/internal/domain/entity"
)

type LabTestRepository interface {
	Create(ctx context.Context, labTest *entity.LabTest) error
	FindByID(ctx context.Context, id int) (*entity.LabTest, error)
	FindAll(ctx context.Context) ([]entity.LabTest, error)
	Update(ctx context.Context, labTest *entity.LabTest) error
	Delete(ctx context.Context, id int) (int64, error)
}
