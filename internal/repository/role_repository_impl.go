package repository

import (
	"context"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"gorm.io/gorm"
)

type roleRepository struct {
	table *Table[entity.Role]
}

func NewRoleRepository(db *gorm.DB) domainRepo.RoleRepository {
	return &roleRepository{table: NewTable[entity.Role](db, "id")}
}

func (r *roleRepository) FindAll(ctx context.Context) ([]entity.Role, error) {
	roles, _, err := r.table.Find(ctx, Query{Order: "id ASC"})
	return roles, err
}
