// Package errors provides the closed set of error kinds used by the
// offline auth and session core. Every error crossing a service or engine
// boundary is an *AppError so callers can branch on a stable code instead
// of duck-typing message strings.
package errors

// AppError is a structured application error with a stable code, a
// human-readable message, and an optional wrapped internal cause.
type AppError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Internal error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal cause for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code and message but a wrapped
// internal cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:     sentinel.Code,
		Message:  sentinel.Message,
		Internal: internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:     sentinel.Code,
		Message:  message,
		Internal: sentinel.Internal,
	}
}

// Authentication errors.
var (
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "An account with this email already exists"}
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Callers must not be able to tell the two cases apart.
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}
	ErrOperationInFlight  = &AppError{Code: "OPERATION_IN_FLIGHT", Message: "Another authentication operation is still in progress"}
)

// Store errors.
var (
	ErrStoreUnavailable = &AppError{Code: "STORE_UNAVAILABLE", Message: "Local storage is unavailable"}
	ErrSeedingFailed    = &AppError{Code: "SEEDING_FAILED", Message: "Failed to copy default data for the new account"}
)

// General errors.
var (
	ErrInvalidInput = &AppError{Code: "INVALID_INPUT", Message: "Invalid input"}
	ErrInternal     = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred"}
)

// User errors.
var (
	ErrUserNotFound = &AppError{Code: "USER_NOT_FOUND", Message: "User not found"}
)

// Category errors.
var (
	ErrCategoryNotFound  = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found"}
	ErrCategoryInUse     = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing entries"}
	ErrCategoryProtected = &AppError{Code: "CATEGORY_PROTECTED", Message: "Default template categories cannot be modified"}
)

// Entry errors.
var (
	ErrEntryNotFound = &AppError{Code: "ENTRY_NOT_FOUND", Message: "Entry not found"}
)

// Book errors.
var (
	ErrBookNotFound = &AppError{Code: "BOOK_NOT_FOUND", Message: "Book not found"}
)
