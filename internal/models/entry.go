package models

import "time"

// Entry is a single income or expense record.
type Entry struct {
	Base
	UserID      uint         `gorm:"index;not null" json:"user_id"`
	CategoryID  uint         `gorm:"index;not null" json:"category_id"`
	Amount      float64      `gorm:"not null" json:"amount"`
	Type        CategoryType `gorm:"not null" json:"type"`
	Description string       `json:"description"`
	Date        time.Time    `gorm:"index;not null" json:"date"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
