package auth

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"reviewlens/internal/config"
	"reviewlens/internal/storage"
	"reviewlens/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func testService() *Service {
	store := storage.NewMemoryStorage(testLogger)
	return New(store, config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}, testLogger)
}

func TestSignupLoginVerify(t *testing.T) {
	s := testService()
	ctx := context.Background()

	token, err := s.Signup(ctx, "User@Example.com", "hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}
	owner, err := s.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if owner != "user@example.com" {
		t.Errorf("owner = %q, want normalized email", owner)
	}

	// Fresh login with the same credentials.
	token2, err := s.Login(ctx, "user@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if owner2, err := s.Verify(token2); err != nil || owner2 != "user@example.com" {
		t.Errorf("login token verify = %q, %v", owner2, err)
	}
}

func TestSignupRejectsDuplicatesAndWeakInput(t *testing.T) {
	s := testService()
	ctx := context.Background()

	if _, err := s.Signup(ctx, "a@example.com", "longenough"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Signup(ctx, "a@example.com", "longenough"); !errors.Is(err, types.ErrUserExists) {
		t.Errorf("duplicate signup error = %v", err)
	}
	if _, err := s.Signup(ctx, "not-an-email", "longenough"); err == nil {
		t.Error("expected invalid email to be rejected")
	}
	if _, err := s.Signup(ctx, "b@example.com", "short"); err == nil {
		t.Error("expected short password to be rejected")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	s := testService()
	ctx := context.Background()

	if _, err := s.Signup(ctx, "a@example.com", "longenough"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Login(ctx, "a@example.com", "wrongwrong"); !errors.Is(err, types.ErrBadCredentials) {
		t.Errorf("wrong password error = %v", err)
	}
	if _, err := s.Login(ctx, "ghost@example.com", "whatever1"); !errors.Is(err, types.ErrBadCredentials) {
		t.Errorf("unknown user error = %v", err)
	}
}

func TestVerifyRejectsGarbageAndExpired(t *testing.T) {
	s := testService()

	if _, err := s.Verify("not.a.token"); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("garbage token error = %v", err)
	}

	// Issue a token that expired an hour ago.
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := s.Signup(context.Background(), "old@example.com", "longenough")
	if err != nil {
		t.Fatal(err)
	}
	s.now = time.Now
	if _, err := s.Verify(token); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expired token error = %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	if tok, ok := BearerToken("Bearer abc123"); !ok || tok != "abc123" {
		t.Errorf("got %q, %v", tok, ok)
	}
	if tok, ok := BearerToken("bearer abc123"); !ok || tok != "abc123" {
		t.Errorf("case-insensitive prefix: got %q, %v", tok, ok)
	}
	if _, ok := BearerToken("Basic abc123"); ok {
		t.Error("accepted non-bearer header")
	}
	if _, ok := BearerToken(""); ok {
		t.Error("accepted empty header")
	}
}
