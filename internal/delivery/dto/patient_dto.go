package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// PatientRequest registers a patient or replaces a patient's details
type PatientRequest struct {
	FullName    string `json:"full_name" validate:"required,min=2,max=255"`
	Gender      string `json:"gender" validate:"required,oneof=M F"`
	DateOfBirth string `json:"date_of_birth" validate:"required,date"` // Format: YYYY-MM-DD
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=7,max=20"`
	Address     string `json:"address" validate:"omitempty"`
	NextOfKin   string `json:"next_of_kin" validate:"omitempty,max=255"`
}

// Response DTOs

type PatientResponse struct {
	ID           uuid.UUID `json:"id"`
	CardNumber   string    `json:"card_number"`
	FullName     string    `json:"full_name"`
	Gender       string    `json:"gender"`
	DateOfBirth  string    `json:"date_of_birth"`
	Age          int       `json:"age"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Address      string    `json:"address,omitempty"`
	NextOfKin    string    `json:"next_of_kin,omitempty"`
	RegisteredBy uuid.UUID `json:"registered_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int64             `json:"total"`
}
