package repository

import (
	"context"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"gorm.io/gorm"
)

type departmentRepository struct {
	table *Table[entity.Department]
}

func NewDepartmentRepository(db *gorm.DB) domainRepo.DepartmentRepository {
	return &departmentRepository{table: NewTable[entity.Department](db, "id")}
}

func (r *departmentRepository) Create(ctx context.Context, department *entity.Department) error {
	return r.table.Insert(ctx, department)
}

func (r *departmentRepository) FindByID(ctx context.Context, id int) (*entity.Department, error) {
	return r.table.FindByID(ctx, id)
}

func (r *departmentRepository) FindAll(ctx context.Context) ([]entity.Department, error) {
	departments, _, err := r.table.Find(ctx, Query{Order: "name ASC"})
	return departments, err
}

func (r *departmentRepository) Update(ctx context.Context, department *entity.Department) error {
	return r.table.Update(ctx, department)
}

func (r *departmentRepository) Delete(ctx context.Context, id int) (int64, error) {
	return r.table.Delete(ctx, id)
}
