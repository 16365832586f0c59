package repository

import (
	"context"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	table *Table[entity.User]
}

func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{table: NewTable[entity.User](db, "id")}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.table.Insert(ctx, user)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.table.FindOne(ctx, Query{
		Equals:  map[string]interface{}{"email": email},
		Preload: []string{"Role"},
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.table.FindByID(ctx, id, "Role", "Department")
}

func (r *userRepository) FindAll(ctx context.Context, roleID int, limit, offset int) ([]entity.User, int64, error) {
	q := Query{
		Preload: []string{"Role", "Department"},
		Order:   "full_name ASC",
		Limit:   limit,
		Offset:  offset,
	}
	if roleID > 0 {
		q.Equals = map[string]interface{}{"role_id": roleID}
	}
	return r.table.Find(ctx, q)
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.table.Update(ctx, user)
}

func (r *userRepository) CountActive(ctx context.Context) (int64, error) {
	return r.table.Count(ctx, Query{Equals: map[string]interface{}{"is_active": true}})
}
