package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/M-owl-8/ACT-sub001/internal/errors"
	"github.com/M-owl-8/ACT-sub001/internal/models"
)

// userService handles account storage.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser inserts a new account row. Emails are expected to arrive
// already normalized (trimmed, lowercased). Uniqueness is enforced twice:
// a pre-check for the friendly error, and the store's unique index to close
// the race window between check and insert.
func (s *userService) CreateUser(email, passwordHash, name string) (*models.User, error) {
	if email == "" || passwordHash == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password hash are required")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	user := &models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
	}

	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by exact email match.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return &user, nil
}

// UpdatePasswordHash replaces the stored verifier for a user. Used to
// upgrade legacy verifiers after a successful login.
func (s *userService) UpdatePasswordHash(userID uint, passwordHash string) error {
	if passwordHash == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "password hash is required")
	}

	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", passwordHash)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternal, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
