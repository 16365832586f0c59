package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateConsultationRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	Complaint string `json:"complaint" validate:"required"`
	Diagnosis string `json:"diagnosis" validate:"omitempty"`
	Notes     string `json:"notes" validate:"omitempty"`
}

// Response DTOs

type ConsultationResponse struct {
	ID             uuid.UUID               `json:"id"`
	BookingID      uuid.UUID               `json:"booking_id"`
	PatientID      uuid.UUID               `json:"patient_id"`
	PatientName    string                  `json:"patient_name,omitempty"`
	DoctorID       uuid.UUID               `json:"doctor_id"`
	DoctorName     string                  `json:"doctor_name,omitempty"`
	Complaint      string                  `json:"complaint"`
	Diagnosis      string                  `json:"diagnosis,omitempty"`
	Notes          string                  `json:"notes,omitempty"`
	Prescriptions  []PrescriptionResponse  `json:"prescriptions,omitempty"`
	Investigations []InvestigationResponse `json:"investigations,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
}

type ConsultationListResponse struct {
	Consultations []ConsultationResponse `json:"consultations"`
	Total         int                    `json:"total"`
}
