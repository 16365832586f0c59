package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type LabTestRequest struct {
	Name        string      `json:"name" validate:"required,min=2,max=255"`
	Description string      `json:"description" validate:"omitempty"`
	Price       json.Number `json:"price" validate:"required,money"`
}

type LabTestResponse struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type LabTestListResponse struct {
	LabTests []LabTestResponse `json:"lab_tests"`
	Total    int               `json:"total"`
}
