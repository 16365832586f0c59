package repository

import (
	"context"

	"hospital-management/internal/domain/entity"
)

type DepartmentRepository interface {
	Create(ctx context.Context, department *entity.Department) error
	FindByID(ctx context.Context, id int) (*entity.Department, error)
	FindAll(ctx context.Context) ([]entity.Department, error)
	Update(ctx context.Context, department *entity.Department) error
	Delete(ctx context.Context, id int) (int64, error)
}
