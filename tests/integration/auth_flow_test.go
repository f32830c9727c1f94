// Package integration exercises the full offline stack together: real
// migrations against a file-backed SQLite database, the encrypted keystore
// on disk, and the auth engine on top.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/M-owl-8/ACT-sub001/internal/auth"
	"github.com/M-owl-8/ACT-sub001/internal/config"
	"github.com/M-owl-8/ACT-sub001/internal/database"
	apperrors "github.com/M-owl-8/ACT-sub001/internal/errors"
	"github.com/M-owl-8/ACT-sub001/internal/models"
	"github.com/M-owl-8/ACT-sub001/internal/pagination"
	"github.com/M-owl-8/ACT-sub001/internal/securestore"
	"github.com/M-owl-8/ACT-sub001/internal/services"
	"github.com/M-owl-8/ACT-sub001/internal/testutil"
)

// stack is one fully wired application instance over a temp directory.
type stack struct {
	cfg     *config.Config
	manager *database.Manager
	store   *securestore.FileStore
	engine  *auth.Engine
	db      *gorm.DB
}

func openStack(t *testing.T, dir string) *stack {
	t.Helper()

	cfg := &config.Config{
		Env:          "development",
		DataDir:      dir,
		DatabaseFile: "test.db",
		KeystoreFile: "keystore.dat",
		BcryptCost:   bcrypt.MinCost,
	}

	manager, err := database.NewManager(cfg)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := manager.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := manager.EnsureTemplateData(); err != nil {
		t.Fatalf("failed to seed template data: %v", err)
	}

	store, err := securestore.OpenFile(cfg.KeystorePath())
	if err != nil {
		t.Fatalf("failed to open keystore: %v", err)
	}

	db := manager.DB()
	engine := auth.NewEngine(
		services.NewUserService(db),
		services.NewCategoryService(db),
		services.NewSessionService(store),
		auth.WithBcryptCost(cfg.BcryptCost),
	)

	return &stack{cfg: cfg, manager: manager, store: store, engine: engine, db: db}
}

func (s *stack) close(t *testing.T) {
	t.Helper()
	if err := s.manager.Close(); err != nil {
		t.Errorf("failed to close database: %v", err)
	}
}

func TestFullAuthLifecycle(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := openStack(t, dir)

	// Register and check the whole post-registration world.
	user, err := first.engine.Register(ctx, "lifecycle@example.com", "a decent password", "Lifecycle")
	testutil.AssertNoError(t, err)

	categories := services.NewCategoryService(first.db)
	result, err := categories.GetUserCategories(user.ID, pagination.PageRequest{PageSize: 100})
	testutil.AssertNoError(t, err)
	if result.TotalItems != int64(len(database.TemplateCategories())) {
		t.Errorf("expected %d starting categories, got %d", len(database.TemplateCategories()), result.TotalItems)
	}

	first.close(t)

	// A fresh process: reopen everything from disk and restore the session.
	second := openStack(t, dir)
	defer second.close(t)

	second.engine.RestoreSession(ctx)
	state := second.engine.State()
	if !state.Authenticated() {
		t.Fatal("expected session to survive a restart")
	}
	if state.User.Email != "lifecycle@example.com" {
		t.Errorf("expected restored user lifecycle@example.com, got %s", state.User.Email)
	}

	// Record an entry against a seeded category and read the totals back.
	entries := services.NewEntryService(second.db)
	catResult, err := services.NewCategoryService(second.db).GetUserCategoriesByType(state.User.ID, models.CategoryTypeExpense, pagination.PageRequest{PageSize: 1})
	testutil.AssertNoError(t, err)
	if len(catResult.Data) == 0 {
		t.Fatal("expected at least one expense category")
	}

	entry, err := entries.CreateEntry(state.User.ID, catResult.Data[0].ID, 49.99, models.CategoryTypeExpense, "lunch", state.User.CreatedAt)
	testutil.AssertNoError(t, err)

	totals, err := entries.GetTotals(state.User.ID, entry.Date.AddDate(0, 0, -1), entry.Date.AddDate(0, 0, 1))
	testutil.AssertNoError(t, err)
	if totals.Expense != 49.99 {
		t.Errorf("expected expense total 49.99, got %f", totals.Expense)
	}

	// Logout, then confirm a third start comes up signed out.
	second.engine.Logout(ctx)

	third := openStack(t, dir)
	defer third.close(t)
	third.engine.RestoreSession(ctx)
	if third.engine.State().Authenticated() {
		t.Error("expected logout to survive a restart")
	}

	// And logging back in still works against the stored verifier.
	_, err = third.engine.Login(ctx, "lifecycle@example.com", "a decent password")
	testutil.AssertNoError(t, err)

	_, err = third.engine.Login(ctx, "lifecycle@example.com", "the wrong password")
	testutil.AssertAppError(t, err, apperrors.ErrInvalidCredentials.Code)
}

func TestKeystoreLossSignsOut(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := openStack(t, dir)
	_, err := s.engine.Register(ctx, "wiped@example.com", "a decent password", "")
	testutil.AssertNoError(t, err)
	s.close(t)

	// The keystore disappears between runs, e.g. the user cleared app data.
	// The account survives in the database but the session pointer is gone.
	if err := os.Remove(filepath.Join(dir, "keystore.dat")); err != nil {
		t.Fatalf("failed to remove keystore: %v", err)
	}

	next := openStack(t, dir)
	defer next.close(t)

	next.engine.RestoreSession(ctx)
	if next.engine.State().Authenticated() {
		t.Error("expected a missing keystore to come up signed out")
	}

	// Logging in again re-establishes the session.
	_, err = next.engine.Login(ctx, "wiped@example.com", "a decent password")
	testutil.AssertNoError(t, err)
}

func TestSecondRegistrationOnSameDevice(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := openStack(t, dir)
	defer s.close(t)

	first, err := s.engine.Register(ctx, "one@example.com", "a decent password", "")
	testutil.AssertNoError(t, err)
	s.engine.Logout(ctx)

	second, err := s.engine.Register(ctx, "two@example.com", "another password", "")
	testutil.AssertNoError(t, err)

	// Each account got its own copy of the template.
	categories := services.NewCategoryService(s.db)
	for _, userID := range []uint{first.ID, second.ID} {
		result, err := categories.GetUserCategories(userID, pagination.PageRequest{PageSize: 100})
		testutil.AssertNoError(t, err)
		if result.TotalItems != int64(len(database.TemplateCategories())) {
			t.Errorf("user %d: expected %d categories, got %d", userID, len(database.TemplateCategories()), result.TotalItems)
		}
	}

	// The session pointer now belongs to the second account.
	s.engine.RestoreSession(ctx)
	if got := s.engine.CurrentUser(); got == nil || got.ID != second.ID {
		t.Error("expected the session pointer to follow the most recent registration")
	}
}
