package repository

import (
	"context"
	"time"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type consultationRepository struct {
	table *Table[entity.Consultation]
}

func NewConsultationRepository(db *gorm.DB) domainRepo.ConsultationRepository {
	return &consultationRepository{table: NewTable[entity.Consultation](db, "id")}
}

func (r *consultationRepository) Create(ctx context.Context, consultation *entity.Consultation) error {
	return r.table.Insert(ctx, consultation)
}

func (r *consultationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Consultation, error) {
	return r.table.FindByID(ctx, id,
		"Patient", "Doctor", "Prescriptions.Drug", "Investigations.LabTest")
}

func (r *consultationRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Consultation, error) {
	consultations, _, err := r.table.Find(ctx, Query{
		Equals:  map[string]interface{}{"patient_id": patientID},
		Preload: []string{"Doctor", "Prescriptions.Drug", "Investigations.LabTest"},
		Order:   "created_at DESC",
	})
	return consultations, err
}

func (r *consultationRepository) CountByDoctorSince(ctx context.Context, doctorID uuid.UUID, since time.Time) (int64, error) {
	q := Query{Equals: map[string]interface{}{"doctor_id": doctorID}}
	return r.table.Count(ctx, q.Where("created_at >= ?", since))
}
