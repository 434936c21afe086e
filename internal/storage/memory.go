package storage

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"reviewlens/internal/types"
)

// MemoryStorage keeps everything in process memory. The default for
// tests and local runs without a MongoDB instance.
type MemoryStorage struct {
	mu      sync.RWMutex
	users   map[string]types.User
	history []types.HistoryRecord
	nextID  int
	logger  *slog.Logger
}

// NewMemoryStorage creates an empty in-memory backend.
func NewMemoryStorage(logger *slog.Logger) *MemoryStorage {
	return &MemoryStorage{
		users:  make(map[string]types.User),
		logger: logger.With("component", "memory_storage"),
	}
}

func (s *MemoryStorage) Name() string { return "memory" }

func (s *MemoryStorage) CreateUser(_ context.Context, user *types.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Email]; exists {
		return types.ErrUserExists
	}
	s.users[user.Email] = *user
	return nil
}

func (s *MemoryStorage) GetUser(_ context.Context, email string) (*types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[email]
	if !ok {
		return nil, types.ErrBadCredentials
	}
	return &user, nil
}

func (s *MemoryStorage) SaveAnalysis(_ context.Context, owner string, product *types.ScoredProduct) error {
	s.append(types.HistoryRecord{
		Owner:     owner,
		Kind:      KindAnalysis,
		Product:   product,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (s *MemoryStorage) SaveComparison(_ context.Context, owner string, cmp *types.ComparisonResult) error {
	s.append(types.HistoryRecord{
		Owner:     owner,
		Kind:      KindComparison,
		Compare:   cmp,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (s *MemoryStorage) append(record types.HistoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	record.ID = strconv.Itoa(s.nextID)
	s.history = append(s.history, record)
}

// History returns owner's records, most recent first. Records are
// appended in insertion order, so a reverse scan is enough.
func (s *MemoryStorage) History(_ context.Context, owner string) ([]types.HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []types.HistoryRecord
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].Owner == owner {
			records = append(records, s.history[i])
		}
	}
	return records, nil
}

func (s *MemoryStorage) Close() error { return nil }
