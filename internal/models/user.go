package models

// User represents a local account on this device.
type User struct {
	Base
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `json:"name"`

	Categories []Category `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Entries    []Entry    `gorm:"foreignKey:UserID" json:"entries,omitempty"`
}
