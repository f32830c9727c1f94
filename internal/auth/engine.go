// Package auth implements the offline authentication engine: registration,
// login, logout, and session restore against the local database and the
// encrypted session store. No network is involved; the engine is the single
// authority for who is currently signed in.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/M-owl-8/ACT-sub001/internal/errors"
	"github.com/M-owl-8/ACT-sub001/internal/logger"
	"github.com/M-owl-8/ACT-sub001/internal/models"
	"github.com/M-owl-8/ACT-sub001/internal/password"
	"github.com/M-owl-8/ACT-sub001/internal/services"
	"github.com/M-owl-8/ACT-sub001/internal/validator"
)

// State is the engine's authentication state as observed by the app shell.
// Loading is true only while a session restore is in progress.
type State struct {
	User    *models.User
	Loading bool
}

// Authenticated reports whether a user is currently signed in.
func (s State) Authenticated() bool { return s.User != nil }

// Engine coordinates the account, category, and session services into the
// register/login/logout/restore lifecycle. All methods are safe for
// concurrent use and mutating operations run one at a time: a second
// register/login arriving while one is running is rejected with
// OPERATION_IN_FLIGHT, while logout and restore (which cannot fail) wait
// for the running operation to finish. State transitions are observed in
// the order the operations complete.
type Engine struct {
	users      services.UserServicer
	categories services.CategoryServicer
	sessions   services.SessionServicer

	log      *zap.SugaredLogger
	hashCost int
	onChange func(State)

	// opMu serializes the four lifecycle operations.
	opMu sync.Mutex

	mu    sync.Mutex
	state State
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(e *Engine) { e.log = log }
}

// WithBcryptCost sets the work factor for new password verifiers. Tests use
// the minimum cost to stay fast.
func WithBcryptCost(cost int) Option {
	return func(e *Engine) { e.hashCost = cost }
}

// WithOnChange registers a callback invoked after every state transition.
// The callback runs outside the engine's lock and must not call back into
// mutating engine methods synchronously.
func WithOnChange(fn func(State)) Option {
	return func(e *Engine) { e.onChange = fn }
}

// NewEngine creates an authentication engine over the given services.
func NewEngine(users services.UserServicer, categories services.CategoryServicer, sessions services.SessionServicer, opts ...Option) *Engine {
	e := &Engine{
		users:      users,
		categories: categories,
		sessions:   sessions,
		log:        logger.Get(),
		hashCost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a snapshot of the current authentication state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CurrentUser returns the signed-in user, or nil.
func (e *Engine) CurrentUser() *models.User {
	return e.State().User
}

// registerInput is validated before any storage work happens.
type registerInput struct {
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=8,max=128"`
	Name     string `validate:"max=100"`
}

// Register creates a new account, signs it in, and copies the default
// categories to it. The account row is the commit point: once it exists,
// registration has succeeded, and failures persisting the session pointer
// or seeding defaults are logged but do not fail the call.
func (e *Engine) Register(ctx context.Context, email, pass, name string) (*models.User, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.finish()

	email = normalizeEmail(email)
	input := registerInput{Email: email, Password: pass, Name: strings.TrimSpace(name)}
	if err := validator.Get().Struct(input); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}

	hash, err := password.HashWithCost(pass, e.hashCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	user, err := e.users.CreateUser(email, hash, input.Name)
	if err != nil {
		return nil, err
	}

	if err := e.sessions.SetCurrentUserID(ctx, user.ID); err != nil {
		e.log.Warnw("failed to persist session pointer after registration", "user_id", user.ID, "error", err)
	}
	if err := e.categories.SeedDefaults(user.ID); err != nil {
		e.log.Errorw("failed to seed default categories", "user_id", user.ID, "error", err)
	}

	e.setState(State{User: user})
	return user, nil
}

// Login verifies credentials and signs the user in. Unknown emails and
// wrong passwords produce the same INVALID_CREDENTIALS error. Verifiers in
// the old unsalted format are upgraded to bcrypt after a successful check.
func (e *Engine) Login(ctx context.Context, email, pass string) (*models.User, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.finish()

	email = normalizeEmail(email)
	if email == "" || pass == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := e.users.GetUserByEmail(email)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrUserNotFound.Code {
			return nil, apperrors.ErrInvalidCredentials
		}
		// A store that cannot answer the lookup is an outage, not a
		// wrong password.
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	if !password.Verify(pass, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if password.NeedsRehash(user.PasswordHash) {
		if hash, err := password.HashWithCost(pass, e.hashCost); err != nil {
			e.log.Warnw("failed to rehash legacy verifier", "user_id", user.ID, "error", err)
		} else if err := e.users.UpdatePasswordHash(user.ID, hash); err != nil {
			e.log.Warnw("failed to store upgraded verifier", "user_id", user.ID, "error", err)
		} else {
			user.PasswordHash = hash
		}
	}

	if err := e.sessions.SetCurrentUserID(ctx, user.ID); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	e.setState(State{User: user})
	return user, nil
}

// Logout signs the current user out and clears the persisted session
// pointer. Logout always leaves the engine unauthenticated, even when the
// store refuses the delete. A logout issued while a register or login is
// running waits for it and then takes effect, so the transition order
// matches the call order.
func (e *Engine) Logout(ctx context.Context) {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	if err := e.sessions.Clear(ctx); err != nil {
		e.log.Warnw("failed to clear session pointer", "error", err)
	}
	e.setState(State{})
}

// RestoreSession resolves the persisted session pointer back into a
// signed-in user at startup. Every failure path degrades to the
// unauthenticated state; a pointer to an account that no longer exists is
// cleared so it is not retried on the next start.
func (e *Engine) RestoreSession(ctx context.Context) {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.setState(State{Loading: true})

	id, ok, err := e.sessions.CurrentUserID(ctx)
	if err != nil {
		e.log.Warnw("failed to read session pointer", "error", err)
		e.setState(State{})
		return
	}
	if !ok {
		e.setState(State{})
		return
	}

	user, err := e.users.GetUserByID(id)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrUserNotFound.Code {
			// Stale pointer: the account was removed underneath it.
			if clearErr := e.sessions.Clear(ctx); clearErr != nil {
				e.log.Warnw("failed to clear stale session pointer", "user_id", id, "error", clearErr)
			}
		} else {
			e.log.Warnw("failed to load session user", "user_id", id, "error", err)
		}
		e.setState(State{})
		return
	}

	e.setState(State{User: user})
}

// begin claims the operation slot without waiting. Register and Login use
// it so a double submit fails fast instead of queueing a second account
// mutation behind the first.
func (e *Engine) begin() error {
	if !e.opMu.TryLock() {
		return apperrors.ErrOperationInFlight
	}
	return nil
}

func (e *Engine) finish() {
	e.opMu.Unlock()
}

// setState swaps the state under the lock and notifies outside it.
func (e *Engine) setState(next State) {
	e.mu.Lock()
	e.state = next
	fn := e.onChange
	e.mu.Unlock()

	if fn != nil {
		fn(next)
	}
}

// normalizeEmail makes email comparisons case- and whitespace-insensitive:
// the same address always maps to the same account.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
