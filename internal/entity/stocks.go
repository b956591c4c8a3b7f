package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Stock is one ticker of the tracked universe scored for the daily digest.
type Stock struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Ticker    string         `gorm:"type:varchar(16);uniqueIndex;not null" json:"ticker"`
	Name      string         `gorm:"not null" json:"name"`
	Sector    string         `gorm:"type:varchar(100)" json:"sector"`
	Tags      pq.StringArray `gorm:"type:text[]" json:"tags"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Stock) TableName() string {
	return "stocks"
}
