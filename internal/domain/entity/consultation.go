package entity

import (
	"time"

	"github.com/google/uuid"
)

// Consultation is the doctor's record of a booked visit
type Consultation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"booking_id"`
	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Complaint string    `gorm:"type:text;not null" json:"complaint"`
	Diagnosis string    `gorm:"type:text" json:"diagnosis,omitempty"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient        Patient         `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor         User            `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Prescriptions  []Prescription  `gorm:"foreignKey:ConsultationID" json:"prescriptions,omitempty"`
	Investigations []Investigation `gorm:"foreignKey:ConsultationID" json:"investigations,omitempty"`
}

func (Consultation) TableName() string {
	return "consultations"
}
