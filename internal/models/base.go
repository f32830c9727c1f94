package models

import "time"

// Base contains common columns for all tables. IDs are store-assigned
// auto-increment integers; id 0 is reserved for the template account's rows
// and is never handed out by SQLite.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TemplateUserID is the reserved owner of the default category template.
// It is not a real user; its rows are read-only reference data copied to
// every newly registered account.
const TemplateUserID uint = 0
