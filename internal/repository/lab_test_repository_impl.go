package repository

import (
	"context"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"gorm.io/gorm"
)

type labTestRepository struct {
	table *Table[entity.LabTest]
}

func NewLabTestRepository(db *gorm.DB) domainRepo.LabTestRepository {
	return &labTestRepository{table: NewTable[entity.LabTest](db, "id")}
}

func (r *labTestRepository) Create(ctx context.Context, labTest *entity.LabTest) error {
	return r.table.Insert(ctx, labTest)
}

func (r *labTestRepository) FindByID(ctx context.Context, id int) (*entity.LabTest, error) {
	return r.table.FindByID(ctx, id)
}

func (r *labTestRepository) FindAll(ctx context.Context) ([]entity.LabTest, error) {
	labTests, _, err := r.table.Find(ctx, Query{Order: "name ASC"})
	return labTests, err
}

func (r *labTestRepository) Update(ctx context.Context, labTest *entity.LabTest) error {
	return r.table.Update(ctx, labTest)
}

func (r *labTestRepository) Delete(ctx context.Context, id int) (int64, error) {
	return r.table.Delete(ctx, id)
}
