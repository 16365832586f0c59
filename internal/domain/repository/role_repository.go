package repository

import (
	"context"

	"hospital-management/internal/domain/entity"
)

type RoleRepository interface {
	FindAll(ctx context.Context) ([]entity.Role, error)
}
