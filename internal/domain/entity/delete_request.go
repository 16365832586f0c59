package entity

import (
	"time"

	"github.com/google/uuid"
)

// DeleteRequestStatus represents where a deletion request is in review
type DeleteRequestStatus string

const (
	DeleteRequestPending  DeleteRequestStatus = "pending"
	DeleteRequestApproved DeleteRequestStatus = "approved"
	DeleteRequestRejected DeleteRequestStatus = "rejected"
)

// Entity types a delete request may target
const (
	DeleteTargetPatient    = "patient"
	DeleteTargetBooking    = "booking"
	DeleteTargetDrug       = "drug"
	DeleteTargetLabTest    = "lab_test"
	DeleteTargetDepartment = "department"
)

// DeleteRequest asks an admin to remove a record on a staff member's behalf
type DeleteRequest struct {
	ID          int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestedBy uuid.UUID           `gorm:"type:uuid;not null;index" json:"requested_by"`
	EntityType  string              `gorm:"type:varchar(50);not null" json:"entity_type"`
	EntityID    string              `gorm:"type:varchar(64);not null" json:"entity_id"`
	Reason      string              `gorm:"type:text;not null" json:"reason"`
	Status      DeleteRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewedBy  *uuid.UUID          `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time          `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Requester User `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`
}

func (DeleteRequest) TableName() string {
	return "delete_requests"
}

// IsPending checks if the request still awaits review
func (d *DeleteRequest) IsPending() bool {
	return d.Status == DeleteRequestPending
}
