package storage

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"reviewlens/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestMemoryUsers(t *testing.T) {
	s := NewMemoryStorage(testLogger)
	ctx := context.Background()

	user := &types.User{Email: "a@example.com", PasswordHash: []byte("hash")}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateUser(ctx, user); !errors.Is(err, types.ErrUserExists) {
		t.Errorf("duplicate signup error = %v, want ErrUserExists", err)
	}

	got, err := s.GetUser(ctx, "a@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.Email != "a@example.com" || string(got.PasswordHash) != "hash" {
		t.Errorf("got %+v", got)
	}

	if _, err := s.GetUser(ctx, "nobody@example.com"); !errors.Is(err, types.ErrBadCredentials) {
		t.Errorf("missing user error = %v, want ErrBadCredentials", err)
	}
}

func TestMemoryHistoryOrderAndOwnership(t *testing.T) {
	s := NewMemoryStorage(testLogger)
	ctx := context.Background()

	first := &types.ScoredProduct{Product: types.Product{Name: "First"}}
	second := &types.ScoredProduct{Product: types.Product{Name: "Second"}}
	cmp := &types.ComparisonResult{Winner: types.WinnerTie}

	if err := s.SaveAnalysis(ctx, "a@example.com", first); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveAnalysis(ctx, "a@example.com", second); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveComparison(ctx, "a@example.com", cmp); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveAnalysis(ctx, "b@example.com", first); err != nil {
		t.Fatal(err)
	}

	records, err := s.History(ctx, "a@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].Kind != KindComparison {
		t.Errorf("most recent record kind = %q, want comparison", records[0].Kind)
	}
	if records[1].Product.Name != "Second" || records[2].Product.Name != "First" {
		t.Error("records not in most-recent-first order")
	}
	for _, r := range records {
		if r.Owner != "a@example.com" {
			t.Errorf("foreign record leaked: %+v", r)
		}
		if r.ID == "" {
			t.Error("record missing ID")
		}
	}

	empty, err := s.History(ctx, "c@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty history, got %d", len(empty))
	}
}
