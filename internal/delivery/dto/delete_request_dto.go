package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDeleteRequestRequest struct {
	EntityType string `json:"entity_type" validate:"required,oneof=patient booking drug lab_test department"`
	EntityID   string `json:"entity_id" validate:"required,max=64"`
	Reason     string `json:"reason" validate:"required,min=5"`
}

// Response DTOs

type DeleteRequestResponse struct {
	ID            int64      `json:"id"`
	RequestedBy   uuid.UUID  `json:"requested_by"`
	RequesterName string     `json:"requester_name,omitempty"`
	EntityType    string     `json:"entity_type"`
	EntityID      string     `json:"entity_id"`
	Reason        string     `json:"reason"`
	Status        string     `json:"status"`
	ReviewedBy    *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type DeleteRequestListResponse struct {
	Requests []DeleteRequestResponse `json:"requests"`
	Total    int64                   `json:"total"`
}
