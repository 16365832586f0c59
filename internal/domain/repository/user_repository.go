package repository

import (
	"context"

	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindAll(ctx context.Context, roleID int, limit, offset int) ([]entity.User, int64, error)
	Update(ctx context.Context, user *entity.User) error
	CountActive(ctx context.Context) (int64, error)
}
