package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type DrugRequest struct {
	Name        string      `json:"name" validate:"required,min=2,max=255"`
	Description string      `json:"description" validate:"omitempty"`
	Unit        string      `json:"unit" validate:"required,max=50"`
	Price       json.Number `json:"price" validate:"required,money"`
	Stock       *int        `json:"stock" validate:"omitempty,gte=0"`
}

type RestockRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// Response DTOs

type DrugResponse struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type DrugListResponse struct {
	Drugs []DrugResponse `json:"drugs"`
	Total int64          `json:"total"`
}
