package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	PatientID     uuid.UUID       `json:"patient_id"`
	PatientName   string          `json:"patient_name,omitempty"`
	CardNumber    string          `json:"card_number,omitempty"`
	Purpose       string          `json:"purpose"`
	ReferenceID   uuid.UUID       `json:"reference_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	ReceiptNumber string          `json:"receipt_number,omitempty"`
	ReceivedBy    *uuid.UUID      `json:"received_by,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Total    int64             `json:"total"`
}

type PaymentSummaryResponse struct {
	From        string                     `json:"from"`
	To          string                     `json:"to"`
	PaidCount   int64                      `json:"paid_count"`
	PaidTotal   decimal.Decimal            `json:"paid_total"`
	UnpaidCount int64                      `json:"unpaid_count"`
	UnpaidTotal decimal.Decimal            `json:"unpaid_total"`
	ByPurpose   map[string]decimal.Decimal `json:"paid_by_purpose"`
}
