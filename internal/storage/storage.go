// Package storage persists user accounts and analysis history.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"reviewlens/internal/config"
	"reviewlens/internal/types"
)

// Storage is the interface for all persistence backends.
type Storage interface {
	// CreateUser registers a new account. Returns ErrUserExists when
	// the email is already taken.
	CreateUser(ctx context.Context, user *types.User) error

	// GetUser looks up an account by email. Returns ErrBadCredentials
	// when no such account exists.
	GetUser(ctx context.Context, email string) (*types.User, error)

	// SaveAnalysis appends a single-product analysis to owner's history.
	SaveAnalysis(ctx context.Context, owner string, product *types.ScoredProduct) error

	// SaveComparison appends a two-product comparison to owner's history.
	SaveComparison(ctx context.Context, owner string, cmp *types.ComparisonResult) error

	// History returns owner's records, most recent first.
	History(ctx context.Context, owner string) ([]types.HistoryRecord, error)

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// History record kinds.
const (
	KindAnalysis   = "analysis"
	KindComparison = "comparison"
)

// New creates the backend named by cfg.Storage.Type.
func New(cfg *config.Config, logger *slog.Logger) (Storage, error) {
	switch cfg.Storage.Type {
	case "mongo":
		return NewMongoStorage(cfg.Storage.URI, cfg.Storage.Database, cfg.Storage.Collection, logger)
	case "memory":
		return NewMemoryStorage(logger), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}
