package entity

import (
	"time"

	"github.com/google/uuid"
)

// Booking is an appointment for a patient in a department on a given day
type Booking struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"patient_id"`
	DepartmentID    int           `gorm:"not null;index" json:"department_id"`
	DoctorID        *uuid.UUID    `gorm:"type:uuid;index" json:"doctor_id,omitempty"`
	PaymentID       *uuid.UUID    `gorm:"type:uuid;index" json:"payment_id,omitempty"`
	AppointmentDate time.Time     `gorm:"type:date;not null;index" json:"appointment_date"`
	QueueNumber     int           `gorm:"not null" json:"queue_number"`
	BookingCode     string        `gorm:"type:varchar(50);uniqueIndex;not null" json:"booking_code"`
	Status          PaymentStatus `gorm:"type:varchar(20);not null;default:'Not Paid';index" json:"status"`
	Visited         VisitStatus   `gorm:"type:varchar(20);not null;index" json:"visited"`
	BookedBy        uuid.UUID     `gorm:"type:uuid;not null" json:"booked_by"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient    Patient    `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Doctor     *User      `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsPaid checks if the consultation fee has been settled
func (b *Booking) IsPaid() bool {
	return b.Status == PaymentStatusHasPaid
}

// HasVisited checks if the patient has already been consulted
func (b *Booking) HasVisited() bool {
	return b.Visited == VisitStatusVisited
}

// Cancellable reports whether the booking can still be withdrawn
func (b *Booking) Cancellable() bool {
	return !b.IsPaid() && !b.HasVisited()
}

// BookingFilter narrows booking listings
type BookingFilter struct {
	Date         string // Format: YYYY-MM-DD
	DepartmentID int
	PatientID    *uuid.UUID
	Status       PaymentStatus
	Visited      VisitStatus
}
