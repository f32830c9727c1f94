package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/M-owl-8/ACT-sub001/internal/database"
	"github.com/M-owl-8/ACT-sub001/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
// The password is always "password123".
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// SeedTemplateCategories inserts the standard category template under the
// reserved template account and returns the inserted rows.
func SeedTemplateCategories(t *testing.T, db *gorm.DB) []models.Category {
	t.Helper()

	categories := database.TemplateCategories()
	for i := range categories {
		if err := db.Create(&categories[i]).Error; err != nil {
			t.Fatalf("failed to seed template category: %v", err)
		}
	}
	return categories
}

// CreateTestCategory creates a category of the given type for a user.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestEntry creates an entry of the given type and amount.
func CreateTestEntry(t *testing.T, db *gorm.DB, userID, categoryID uint, entryType models.CategoryType, amount float64) *models.Entry {
	t.Helper()

	entry := &models.Entry{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Type:       entryType,
		Date:       time.Now(),
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test entry: %v", err)
	}
	return entry
}
