package services

import (
	"testing"

	apperrors "github.com/M-owl-8/ACT-sub001/internal/errors"
	"github.com/M-owl-8/ACT-sub001/internal/testutil"
)

func TestUserService_CreateUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewUserService(db)

	t.Run("creates user successfully", func(t *testing.T) {
		user, err := service.CreateUser("alice@example.com", "$2a$10$fakehashfakehashfakeha", "Alice")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Error("expected user ID to be assigned")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected email alice@example.com, got %s", user.Email)
		}
		if user.Name != "Alice" {
			t.Errorf("expected name Alice, got %s", user.Name)
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, err := service.CreateUser("dup@example.com", "hash1hash1hash1hash1", "First")
		testutil.AssertNoError(t, err)

		_, err = service.CreateUser("dup@example.com", "hash2hash2hash2hash2", "Second")
		testutil.AssertAppError(t, err, apperrors.ErrDuplicateEmail.Code)
	})

	t.Run("rejects empty email", func(t *testing.T) {
		_, err := service.CreateUser("", "somehash", "Nobody")
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
	})

	t.Run("rejects empty password hash", func(t *testing.T) {
		_, err := service.CreateUser("bob@example.com", "", "Bob")
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
	})
}

func TestUserService_GetUserByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewUserService(db)
	created := testutil.CreateTestUserWithEmail(t, db, "lookup@example.com")

	t.Run("finds existing user", func(t *testing.T) {
		user, err := service.GetUserByEmail("lookup@example.com")
		testutil.AssertNoError(t, err)

		if user.ID != created.ID {
			t.Errorf("expected user ID %d, got %d", created.ID, user.ID)
		}
	})

	t.Run("returns not found for unknown email", func(t *testing.T) {
		_, err := service.GetUserByEmail("nobody@example.com")
		testutil.AssertAppError(t, err, apperrors.ErrUserNotFound.Code)
	})

	t.Run("match is exact, not case-folded", func(t *testing.T) {
		_, err := service.GetUserByEmail("LOOKUP@EXAMPLE.COM")
		testutil.AssertAppError(t, err, apperrors.ErrUserNotFound.Code)
	})
}

func TestUserService_GetUserByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewUserService(db)
	created := testutil.CreateTestUser(t, db)

	t.Run("finds existing user", func(t *testing.T) {
		user, err := service.GetUserByID(created.ID)
		testutil.AssertNoError(t, err)

		if user.Email != created.Email {
			t.Errorf("expected email %s, got %s", created.Email, user.Email)
		}
	})

	t.Run("returns not found for unknown ID", func(t *testing.T) {
		_, err := service.GetUserByID(99999)
		testutil.AssertAppError(t, err, apperrors.ErrUserNotFound.Code)
	})
}

func TestUserService_UpdatePasswordHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewUserService(db)
	created := testutil.CreateTestUser(t, db)

	t.Run("replaces stored verifier", func(t *testing.T) {
		err := service.UpdatePasswordHash(created.ID, "$2a$10$newhashnewhashnewhash")
		testutil.AssertNoError(t, err)

		user, err := service.GetUserByID(created.ID)
		testutil.AssertNoError(t, err)
		if user.PasswordHash != "$2a$10$newhashnewhashnewhash" {
			t.Errorf("expected updated hash, got %s", user.PasswordHash)
		}
	})

	t.Run("returns not found for unknown user", func(t *testing.T) {
		err := service.UpdatePasswordHash(99999, "somehash")
		testutil.AssertAppError(t, err, apperrors.ErrUserNotFound.Code)
	})

	t.Run("rejects empty hash", func(t *testing.T) {
		err := service.UpdatePasswordHash(created.ID, "")
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
	})
}
