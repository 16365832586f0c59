package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Prescription is a drug order written during a consultation
type Prescription struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ConsultationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"consultation_id"`
	PatientID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID       uuid.UUID       `gorm:"type:uuid;not null" json:"doctor_id"`
	DrugID         int             `gorm:"not null;index" json:"drug_id"`
	PaymentID      *uuid.UUID      `gorm:"type:uuid;index" json:"payment_id,omitempty"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	Dosage         string          `gorm:"type:varchar(255);not null" json:"dosage"`
	Instructions   string          `gorm:"type:text" json:"instructions,omitempty"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status         PaymentStatus   `gorm:"type:varchar(20);not null;default:'Not Paid';index" json:"status"`
	DispensedAt    *time.Time      `json:"dispensed_at,omitempty"`
	DispensedBy    *uuid.UUID      `gorm:"type:uuid" json:"dispensed_by,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Drug    Drug    `gorm:"foreignKey:DrugID" json:"drug,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

// IsPaid checks if the drugs have been paid for
func (p *Prescription) IsPaid() bool {
	return p.Status == PaymentStatusHasPaid
}

// IsDispensed checks if the pharmacy has handed out the drugs
func (p *Prescription) IsDispensed() bool {
	return p.DispensedAt != nil
}

// PrescriptionFilter narrows prescription listings
type PrescriptionFilter struct {
	Status    PaymentStatus
	Dispensed *bool
	PatientID *uuid.UUID
}
