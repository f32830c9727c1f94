package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/M-owl-8/ACT-sub001/internal/errors"
	"github.com/M-owl-8/ACT-sub001/internal/models"
	"github.com/M-owl-8/ACT-sub001/internal/pagination"
)

// entryService handles income/expense entries.
type entryService struct {
	db *gorm.DB
}

// NewEntryService creates a new EntryServicer.
func NewEntryService(db *gorm.DB) EntryServicer {
	return &entryService{db: db}
}

// CreateEntry records an income or expense entry. The category must belong
// to the user and match the entry type.
func (s *entryService) CreateEntry(userID, categoryID uint, amount float64, entryType models.CategoryType, description string, date time.Time) (*models.Entry, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}
	if entryType != models.CategoryTypeIncome && entryType != models.CategoryTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "entry type must be income or expense")
	}
	if date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}

	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if category.Type != entryType {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "entry type does not match category type")
	}

	entry := &models.Entry{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Type:        entryType,
		Description: description,
		Date:        date,
	}

	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	return entry, nil
}

// GetUserEntries retrieves a paginated, optionally filtered list of a
// user's entries, newest first.
func (s *entryService) GetUserEntries(userID uint, page pagination.PageRequest, filter EntryFilter) (*pagination.PageResponse[models.Entry], error) {
	page.Defaults()

	base := s.db.Model(&models.Entry{}).Where("user_id = ?", userID)
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", *filter.ToDate)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	var entries []models.Entry
	if err := base.Preload("Category").
		Order("date DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetEntryByID retrieves an entry by ID for a specific user.
func (s *entryService) GetEntryByID(userID, entryID uint) (*models.Entry, error) {
	var entry models.Entry
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return &entry, nil
}

// UpdateEntry updates an existing entry's amount, description or date.
func (s *entryService) UpdateEntry(userID, entryID uint, amount *float64, description *string, date *time.Time) (*models.Entry, error) {
	entry, err := s.GetEntryByID(userID, entryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if amount != nil {
		if *amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
		}
		updates["amount"] = *amount
	}
	if description != nil {
		updates["description"] = *description
	}
	if date != nil {
		if date.IsZero() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
		}
		updates["date"] = *date
	}

	if len(updates) > 0 {
		if err := s.db.Model(entry).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
	}

	return entry, nil
}

// DeleteEntry deletes a user's entry.
func (s *entryService) DeleteEntry(userID, entryID uint) error {
	entry, err := s.GetEntryByID(userID, entryID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return nil
}

// GetTotals sums a user's income and expense amounts over [from, to].
func (s *entryService) GetTotals(userID uint, from, to time.Time) (*EntryTotals, error) {
	type row struct {
		Type  models.CategoryType
		Total float64
	}

	var rows []row
	if err := s.db.Model(&models.Entry{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	totals := &EntryTotals{}
	for _, r := range rows {
		switch r.Type {
		case models.CategoryTypeIncome:
			totals.Income = r.Total
		case models.CategoryTypeExpense:
			totals.Expense = r.Total
		}
	}
	totals.Net = totals.Income - totals.Expense
	return totals, nil
}
