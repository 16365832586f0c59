package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentPurpose names what a payment settles
type PaymentPurpose string

const (
	PaymentPurposeConsultation  PaymentPurpose = "consultation"
	PaymentPurposePrescription  PaymentPurpose = "prescription"
	PaymentPurposeInvestigation PaymentPurpose = "investigation"
)

// IsValid reports whether p is a known purpose.
func (p PaymentPurpose) IsValid() bool {
	switch p {
	case PaymentPurposeConsultation, PaymentPurposePrescription, PaymentPurposeInvestigation:
		return true
	}
	return false
}

// Payment is a bill raised against a patient for a booking, prescription or investigation
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	Purpose       PaymentPurpose  `gorm:"type:varchar(20);not null;index" json:"purpose"`
	ReferenceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"reference_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null;default:'Not Paid';index" json:"status"`
	ReceiptNumber *string         `gorm:"type:varchar(50);uniqueIndex" json:"receipt_number,omitempty"`
	ReceivedBy    *uuid.UUID      `gorm:"type:uuid" json:"received_by,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsPaid checks if the payment has been received
func (p *Payment) IsPaid() bool {
	return p.Status == PaymentStatusHasPaid
}

// PaymentFilter narrows payment listings
type PaymentFilter struct {
	Status    PaymentStatus
	Purpose   PaymentPurpose
	Date      string // Format: YYYY-MM-DD, matched against created_at
	PatientID *uuid.UUID
}

// PaymentSummary aggregates payments over a period
type PaymentSummary struct {
	PaidCount     int64
	PaidTotal     decimal.Decimal
	UnpaidCount   int64
	UnpaidTotal   decimal.Decimal
	ByPurposePaid map[PaymentPurpose]decimal.Decimal
}
