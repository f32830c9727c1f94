package models

// Book is a reference-library title bundled with the app. Books are global,
// not owned by any account.
type Book struct {
	Base
	Title       string  `gorm:"not null" json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	CoverURL    string  `json:"cover_url"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
}
