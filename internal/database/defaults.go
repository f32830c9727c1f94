package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/M-owl-8/ACT-sub001/internal/logger"
	"github.com/M-owl-8/ACT-sub001/internal/models"
)

// TemplateCategories returns a fresh copy of the category template owned by
// the reserved template account. These rows are the source every new
// account's starting categories are copied from.
func TemplateCategories() []models.Category {
	expense := []struct {
		name, icon, color string
	}{
		{"Food & Dining", "🍔", "#FF6B6B"},
		{"Transportation", "🚗", "#4ECDC4"},
		{"Shopping", "🛍️", "#95E1D3"},
		{"Entertainment", "🎬", "#F38181"},
		{"Bills & Utilities", "💡", "#AA96DA"},
		{"Healthcare", "🏥", "#FCBAD3"},
		{"Education", "📚", "#A8D8EA"},
		{"Other", "📦", "#C7CEEA"},
	}
	income := []struct {
		name, icon, color string
	}{
		{"Salary", "💰", "#6BCF7F"},
		{"Freelance", "💼", "#4D96FF"},
		{"Investment", "📈", "#FFD93D"},
		{"Gift", "🎁", "#FF6B9D"},
		{"Other", "💵", "#95E1D3"},
	}

	categories := make([]models.Category, 0, len(expense)+len(income))
	for _, c := range expense {
		categories = append(categories, models.Category{
			UserID:    models.TemplateUserID,
			Name:      c.name,
			Type:      models.CategoryTypeExpense,
			Icon:      c.icon,
			Color:     c.color,
			IsDefault: true,
		})
	}
	for _, c := range income {
		categories = append(categories, models.Category{
			UserID:    models.TemplateUserID,
			Name:      c.name,
			Type:      models.CategoryTypeIncome,
			Icon:      c.icon,
			Color:     c.color,
			IsDefault: true,
		})
	}
	return categories
}

// SampleBooks returns the starter reference library seeded on first run.
func SampleBooks() []models.Book {
	return []models.Book{
		{
			Title:       "Atomic Habits",
			Author:      "James Clear",
			Description: "An Easy & Proven Way to Build Good Habits & Break Bad Ones",
			Category:    "Self-Help",
			Rating:      4.8,
		},
		{
			Title:       "The Psychology of Money",
			Author:      "Morgan Housel",
			Description: "Timeless lessons on wealth, greed, and happiness",
			Category:    "Finance",
			Rating:      4.7,
		},
		{
			Title:       "Deep Work",
			Author:      "Cal Newport",
			Description: "Rules for Focused Success in a Distracted World",
			Category:    "Productivity",
			Rating:      4.6,
		},
	}
}

// EnsureTemplateData seeds the template account's categories and the sample
// book library when their tables are empty. Safe to call on every startup.
func (m *Manager) EnsureTemplateData() error {
	var count int64
	if err := m.db.Model(&models.Category{}).
		Where("user_id = ?", models.TemplateUserID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count template categories: %w", err)
	}

	if count == 0 {
		err := m.db.Transaction(func(tx *gorm.DB) error {
			for _, category := range TemplateCategories() {
				category := category
				if err := tx.Create(&category).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to seed template categories: %w", err)
		}
		logger.Get().Infof("Seeded %d template categories", len(TemplateCategories()))
	}

	if err := m.db.Model(&models.Book{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count books: %w", err)
	}

	if count == 0 {
		err := m.db.Transaction(func(tx *gorm.DB) error {
			for _, book := range SampleBooks() {
				book := book
				if err := tx.Create(&book).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to seed sample books: %w", err)
		}
		logger.Get().Infof("Seeded %d sample books", len(SampleBooks()))
	}

	return nil
}
