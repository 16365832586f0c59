package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a person registered at the front desk
type Patient struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CardNumber   string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"card_number"`
	FullName     string    `gorm:"type:varchar(255);not null;index" json:"full_name"`
	Gender       string    `gorm:"type:char(1);not null" json:"gender"`
	DateOfBirth  time.Time `gorm:"type:date;not null" json:"date_of_birth"`
	PhoneNumber  string    `gorm:"type:varchar(20);index" json:"phone_number,omitempty"`
	Address      string    `gorm:"type:text" json:"address,omitempty"`
	NextOfKin    string    `gorm:"type:varchar(255)" json:"next_of_kin,omitempty"`
	RegisteredBy uuid.UUID `gorm:"type:uuid;not null" json:"registered_by"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
)
