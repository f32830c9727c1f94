// Package validator provides the shared validate instance with the app's
// custom validation functions registered.
package validator

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var (
	instance *validator.Validate
	once     sync.Once
)

// Get returns the shared validate instance.
func Get() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
		_ = instance.RegisterValidation("hex_color", validateHexColor)
		_ = instance.RegisterValidation("category_type", validateCategoryType)
	})
	return instance
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}
