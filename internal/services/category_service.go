package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/M-owl-8/ACT-sub001/internal/errors"
	"github.com/M-owl-8/ACT-sub001/internal/models"
	"github.com/M-owl-8/ACT-sub001/internal/pagination"
)

// categoryService handles category storage and default-data seeding.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// SeedDefaults copies every category owned by the template account to
// userID. The copies keep name, type, icon and color but get IsDefault
// forced to false: they are ordinary starting categories the user may edit
// or delete. The copy runs in one transaction; a failure on any row rolls
// back the whole set.
func (s *categoryService) SeedDefaults(userID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var templates []models.Category
		if err := tx.Where("user_id = ?", models.TemplateUserID).
			Order("id").
			Find(&templates).Error; err != nil {
			return err
		}

		for _, template := range templates {
			seeded := models.Category{
				UserID:    userID,
				Name:      template.Name,
				Type:      template.Type,
				Icon:      template.Icon,
				Color:     template.Color,
				IsDefault: false,
			}
			if err := tx.Create(&seeded).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrSeedingFailed, err)
	}
	return nil
}

// GetUserCategories retrieves a paginated list of a user's categories.
func (s *categoryService) GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Category{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	var categories []models.Category
	if err := base.Order("type, name").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetUserCategoriesByType retrieves a paginated list of a user's categories
// of a specific type.
func (s *categoryService) GetUserCategoriesByType(userID uint, categoryType models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Category{}).Where("user_id = ? AND type = ?", userID, categoryType)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	var categories []models.Category
	if err := base.Order("name").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category by ID for a specific user.
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return &category, nil
}

// CreateCategory creates a custom category for a user.
func (s *categoryService) CreateCategory(userID uint, name string, categoryType models.CategoryType, icon, color string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if categoryType != models.CategoryTypeIncome && categoryType != models.CategoryTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ? AND type = ?", userID, name, categoryType).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
	}

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Type:   categoryType,
		Icon:   icon,
		Color:  color,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	return category, nil
}

// DeleteCategory deletes a user's category. Template rows are protected and
// categories referenced by entries refuse deletion.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	if category.IsDefault {
		return apperrors.ErrCategoryProtected
	}

	var entryCount int64
	if err := s.db.Model(&models.Entry{}).Where("category_id = ?", categoryID).Count(&entryCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if entryCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return nil
}
