package repository

import (
	"context"
	"time"

	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
)

type ConsultationRepository interface {
	Create(ctx context.Context, consultation *entity.Consultation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Consultation, error)
	FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Consultation, error)
	CountByDoctorSince(ctx context.Context, doctorID uuid.UUID, since time.Time) (int64, error)
}
