package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/M-owl-8/ACT-sub001/internal/errors"
	"github.com/M-owl-8/ACT-sub001/internal/models"
	"github.com/M-owl-8/ACT-sub001/internal/pagination"
)

// bookService serves the bundled reading list.
type bookService struct {
	db *gorm.DB
}

// NewBookService creates a new BookServicer.
func NewBookService(db *gorm.DB) BookServicer {
	return &bookService{db: db}
}

// GetBooks retrieves a paginated list of recommended books.
func (s *bookService) GetBooks(page pagination.PageRequest) (*pagination.PageResponse[models.Book], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Book{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	var books []models.Book
	if err := s.db.Order("title ASC").
		Scopes(pagination.Paginate(page)).
		Find(&books).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	result := pagination.NewPageResponse(books, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBookByID retrieves a book by ID.
func (s *bookService) GetBookByID(bookID uint) (*models.Book, error) {
	var book models.Book
	if err := s.db.First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return &book, nil
}
