package services

import (
	"context"
	"time"

	"github.com/M-owl-8/ACT-sub001/internal/models"
	"github.com/M-owl-8/ACT-sub001/internal/pagination"
)

// UserServicer defines the contract for account storage. Password hashing
// happens in the auth engine; this layer stores and looks up verifiers as
// opaque strings.
type UserServicer interface {
	CreateUser(email, passwordHash, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	UpdatePasswordHash(userID uint, passwordHash string) error
}

// CategoryServicer defines the contract for category storage and the
// default-data seeding performed right after registration.
type CategoryServicer interface {
	// SeedDefaults copies every template-account category to userID in a
	// single transaction, clearing the default flag on the copies. Not
	// idempotent: call exactly once per account, right after creation.
	SeedDefaults(userID uint) error
	GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetUserCategoriesByType(userID uint, categoryType models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	CreateCategory(userID uint, name string, categoryType models.CategoryType, icon, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// SessionServicer persists the single current-session pointer in the secure
// key-value area.
type SessionServicer interface {
	SetCurrentUserID(ctx context.Context, id uint) error
	// CurrentUserID returns (id, true) when a session pointer is set.
	// A missing or unparseable value reads as (0, false) with no error.
	CurrentUserID(ctx context.Context) (uint, bool, error)
	Clear(ctx context.Context) error
}

// EntryFilter holds optional filter parameters for listing entries.
type EntryFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.CategoryType
	CategoryID *uint
}

// EntryTotals aggregates entry amounts over a period.
type EntryTotals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// EntryServicer defines the contract for income/expense entries.
type EntryServicer interface {
	CreateEntry(userID, categoryID uint, amount float64, entryType models.CategoryType, description string, date time.Time) (*models.Entry, error)
	GetUserEntries(userID uint, page pagination.PageRequest, filter EntryFilter) (*pagination.PageResponse[models.Entry], error)
	GetEntryByID(userID, entryID uint) (*models.Entry, error)
	UpdateEntry(userID, entryID uint, amount *float64, description *string, date *time.Time) (*models.Entry, error)
	DeleteEntry(userID, entryID uint) error
	GetTotals(userID uint, from, to time.Time) (*EntryTotals, error)
}

// BookServicer defines read access to the bundled reference library.
type BookServicer interface {
	GetBooks(page pagination.PageRequest) (*pagination.PageResponse[models.Book], error)
	GetBookByID(id uint) (*models.Book, error)
}
