package models

// CategoryType classifies a category as money in or money out.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents an entry category. Rows owned by TemplateUserID form
// the seed template; rows copied to a real user get IsDefault=false and are
// ordinary, user-editable starting categories.
//
// UserID carries no foreign key on purpose: the template owner (id 0) has
// no users row backing it.
type Category struct {
	Base
	UserID    uint         `gorm:"index;not null" json:"user_id"`
	Name      string       `gorm:"not null" json:"name"`
	Type      CategoryType `gorm:"not null" json:"type"`
	Icon      string       `json:"icon"`
	Color     string       `json:"color"`
	IsDefault bool         `gorm:"not null;default:false" json:"is_default"`

	Entries []Entry `gorm:"foreignKey:CategoryID" json:"entries,omitempty"`
}
