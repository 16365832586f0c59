package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Department is a clinical unit patients are booked into
type Department struct {
	ID              int             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description,omitempty"`
	ConsultationFee decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"consultation_fee"`
	DailyQuota      int             `gorm:"not null" json:"daily_quota"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Department) TableName() string {
	return "departments"
}
