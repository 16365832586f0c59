package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type DepartmentRequest struct {
	Name            string      `json:"name" validate:"required,min=2,max=100"`
	Description     string      `json:"description" validate:"omitempty"`
	ConsultationFee json.Number `json:"consultation_fee" validate:"required,money"`
	DailyQuota      int         `json:"daily_quota" validate:"required,gte=1,lte=1000"`
}

// Response DTOs

type DepartmentResponse struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	DailyQuota      int             `json:"daily_quota"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type DepartmentListResponse struct {
	Departments []DepartmentResponse `json:"departments"`
	Total       int                  `json:"total"`
}

type SlotAvailabilityResponse struct {
	DepartmentID int    `json:"department_id"`
	Date         string `json:"date"`
	DailyQuota   int    `json:"daily_quota"`
	Remaining    int    `json:"remaining"`
}
