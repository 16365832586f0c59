package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateInvestigationRequest struct {
	LabTestID int `json:"lab_test_id" validate:"required,gte=1"`
}

type RecordResultRequest struct {
	Result string `json:"result" validate:"required"`
}

// Response DTOs

type InvestigationResponse struct {
	ID             uuid.UUID       `json:"id"`
	ConsultationID uuid.UUID       `json:"consultation_id"`
	PatientID      uuid.UUID       `json:"patient_id"`
	PatientName    string          `json:"patient_name,omitempty"`
	DoctorID       uuid.UUID       `json:"doctor_id"`
	LabTestID      int             `json:"lab_test_id"`
	LabTestName    string          `json:"lab_test_name,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	PaymentID      *uuid.UUID      `json:"payment_id,omitempty"`
	Result         string          `json:"result,omitempty"`
	ResultAt       *time.Time      `json:"result_at,omitempty"`
	ResultBy       *uuid.UUID      `json:"result_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type InvestigationListResponse struct {
	Investigations []InvestigationResponse `json:"investigations"`
	Total          int64                   `json:"total"`
}
