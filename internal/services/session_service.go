package services

import (
	"context"
	"errors"
	"strconv"

	apperrors "github.com/M-owl-8/ACT-sub001/internal/errors"
	"github.com/M-owl-8/ACT-sub001/internal/securestore"
)

// sessionKey is the fixed secure-store key the current-session pointer
// lives under. The value is the account id in decimal string form.
const sessionKey = "userId"

// sessionService persists the current-session pointer in the secure store.
type sessionService struct {
	store securestore.Store
}

// NewSessionService creates a new SessionServicer backed by the given
// secure store.
func NewSessionService(store securestore.Store) SessionServicer {
	return &sessionService{store: store}
}

// SetCurrentUserID persists id as the current session, overwriting any
// prior value.
func (s *sessionService) SetCurrentUserID(ctx context.Context, id uint) error {
	if err := s.store.Set(ctx, sessionKey, strconv.FormatUint(uint64(id), 10)); err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return nil
}

// CurrentUserID reads the session pointer. Absent keys and values that do
// not parse as an account id both read as "no session" rather than errors.
func (s *sessionService) CurrentUserID(ctx context.Context) (uint, bool, error) {
	value, err := s.store.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, securestore.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil || id == 0 {
		// Malformed persisted state is treated as no session.
		return 0, false, nil
	}
	return uint(id), true, nil
}

// Clear deletes the session pointer. Clearing when no session is set
// succeeds.
func (s *sessionService) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, sessionKey); err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return nil
}
