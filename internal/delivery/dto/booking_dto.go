package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateBookingRequest struct {
	PatientID       string `json:"patient_id" validate:"required,uuid"`
	DepartmentID    int    `json:"department_id" validate:"required,gte=1"`
	AppointmentDate string `json:"appointment_date" validate:"required,date"` // Format: YYYY-MM-DD
}

// Response DTOs

type BookingResponse struct {
	ID              uuid.UUID        `json:"id"`
	BookingCode     string           `json:"booking_code"`
	PatientID       uuid.UUID        `json:"patient_id"`
	PatientName     string           `json:"patient_name,omitempty"`
	CardNumber      string           `json:"card_number,omitempty"`
	DepartmentID    int              `json:"department_id"`
	DepartmentName  string           `json:"department_name,omitempty"`
	DoctorID        *uuid.UUID       `json:"doctor_id,omitempty"`
	DoctorName      string           `json:"doctor_name,omitempty"`
	PaymentID       *uuid.UUID       `json:"payment_id,omitempty"`
	AppointmentDate string           `json:"appointment_date"`
	QueueNumber     int              `json:"queue_number"`
	Status          string           `json:"status"`
	Visited         string           `json:"visited"`
	Fee             *decimal.Decimal `json:"fee,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int64             `json:"total"`
}
