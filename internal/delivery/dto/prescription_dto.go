package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreatePrescriptionRequest struct {
	DrugID       int    `json:"drug_id" validate:"required,gte=1"`
	Quantity     int    `json:"quantity" validate:"required,gt=0"`
	Dosage       string `json:"dosage" validate:"required,max=255"`
	Instructions string `json:"instructions" validate:"omitempty"`
}

// Response DTOs

type PrescriptionResponse struct {
	ID             uuid.UUID       `json:"id"`
	ConsultationID uuid.UUID       `json:"consultation_id"`
	PatientID      uuid.UUID       `json:"patient_id"`
	PatientName    string          `json:"patient_name,omitempty"`
	DoctorID       uuid.UUID       `json:"doctor_id"`
	DrugID         int             `json:"drug_id"`
	DrugName       string          `json:"drug_name,omitempty"`
	Quantity       int             `json:"quantity"`
	Dosage         string          `json:"dosage"`
	Instructions   string          `json:"instructions,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	PaymentID      *uuid.UUID      `json:"payment_id,omitempty"`
	Dispensed      bool            `json:"dispensed"`
	DispensedAt    *time.Time      `json:"dispensed_at,omitempty"`
	DispensedBy    *uuid.UUID      `json:"dispensed_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type PrescriptionListResponse struct {
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
	Total         int64                  `json:"total"`
}
