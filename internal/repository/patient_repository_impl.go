package repository

import (
	"context"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct {
	table *Table[entity.Patient]
}

func NewPatientRepository(db *gorm.DB) domainRepo.PatientRepository {
	return &patientRepository{table: NewTable[entity.Patient](db, "id")}
}

func (r *patientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	return r.table.Insert(ctx, patient)
}

func (r *patientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	return r.table.FindByID(ctx, id)
}

// Search matches name and phone number by substring and card number by prefix.
func (r *patientRepository) Search(ctx context.Context, search string, limit, offset int) ([]entity.Patient, int64, error) {
	q := Query{
		Order:  "created_at DESC",
		Limit:  limit,
		Offset: offset,
	}
	if search != "" {
		q = q.Where("full_name ILIKE ? OR phone_number ILIKE ? OR card_number ILIKE ?",
			containsPattern(search), containsPattern(search), prefixPattern(search))
	}
	return r.table.Find(ctx, q)
}

func (r *patientRepository) Update(ctx context.Context, patient *entity.Patient) error {
	return r.table.Update(ctx, patient)
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.table.Delete(ctx, id)
}

func (r *patientRepository) Count(ctx context.Context) (int64, error) {
	return r.table.Count(ctx, Query{})
}
