package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Investigation is a lab test ordered during a consultation
type Investigation struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ConsultationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"consultation_id"`
	PatientID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID       uuid.UUID       `gorm:"type:uuid;not null" json:"doctor_id"`
	LabTestID      int             `gorm:"not null;index" json:"lab_test_id"`
	PaymentID      *uuid.UUID      `gorm:"type:uuid;index" json:"payment_id,omitempty"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status         PaymentStatus   `gorm:"type:varchar(20);not null;default:'Not Paid';index" json:"status"`
	Result         string          `gorm:"type:text" json:"result,omitempty"`
	ResultAt       *time.Time      `json:"result_at,omitempty"`
	ResultBy       *uuid.UUID      `gorm:"type:uuid" json:"result_by,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	LabTest LabTest `gorm:"foreignKey:LabTestID" json:"lab_test,omitempty"`
}

func (Investigation) TableName() string {
	return "investigations"
}

// IsPaid checks if the test fee has been settled
func (i *Investigation) IsPaid() bool {
	return i.Status == PaymentStatusHasPaid
}

// HasResult checks if the laboratory result was recorded
func (i *Investigation) HasResult() bool {
	return i.ResultAt != nil
}

// InvestigationFilter narrows investigation listings
type InvestigationFilter struct {
	Status        PaymentStatus
	PendingResult bool
	PatientID     *uuid.UUID
}
