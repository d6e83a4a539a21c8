package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pocketduel/duel-server-go/internal/game"
	"github.com/pocketduel/duel-server-go/internal/user"
)

// MemoryStore is an in-process game.MatchStore and game.AuditStore with the
// same compare-and-swap contract as the PostgreSQL repositories. Used by
// tests and by the server's local mode.
type MemoryStore struct {
	mu      sync.Mutex
	matches map[string]*game.MatchRow
	logs    map[string][]*game.AuditEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		matches: make(map[string]*game.MatchRow),
		logs:    make(map[string][]*game.AuditEntry),
	}
}

var (
	_ game.MatchStore = (*MemoryStore)(nil)
	_ game.AuditStore = (*MemoryStore)(nil)
)

// GetMatch returns a deep copy of the stored row.
func (s *MemoryStore) GetMatch(_ context.Context, matchID string) (*game.MatchRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.matches[matchID]
	if !ok {
		return nil, game.ErrNotFound
	}
	return row.Clone(), nil
}

// CreateMatch stores a new row at version 0.
func (s *MemoryStore) CreateMatch(_ context.Context, row *game.MatchRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := row.Clone()
	stored.Version = 0
	stored.UpdatedAt = time.Now()
	s.matches[row.ID] = stored
	return nil
}

// UpdateMatch applies the conditional write under the store lock.
func (s *MemoryStore) UpdateMatch(_ context.Context, matchID string, state *game.GameState, status game.MatchStatus, expectedVersion int64) (*game.MatchRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.matches[matchID]
	if !ok {
		return nil, game.ErrNotFound
	}
	if row.Version != expectedVersion {
		return nil, game.ErrVersionConflict
	}

	row.State = state.Clone()
	row.Status = status
	if state.PlayerOrder[1] != "" {
		row.Player2ID = state.PlayerOrder[1]
	}
	row.Version++
	row.UpdatedAt = time.Now()

	return row.Clone(), nil
}

// ListOpenMatches returns copies of the waiting rows, newest first.
func (s *MemoryStore) ListOpenMatches(_ context.Context) ([]*game.MatchRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*game.MatchRow
	for _, row := range s.matches {
		if row.Status == game.MatchWaiting {
			out = append(out, row.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// AppendAudit appends one log entry.
func (s *MemoryStore) AppendAudit(_ context.Context, entry *game.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *entry
	s.logs[entry.MatchID] = append(s.logs[entry.MatchID], &cp)
	return nil
}

// ListAudit returns a match's log ordered by timestamp.
func (s *MemoryStore) ListAudit(_ context.Context, matchID string) ([]*game.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.logs[matchID]
	out := make([]*game.AuditEntry, len(entries))
	for i, entry := range entries {
		cp := *entry
		out[i] = &cp
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// MemoryUserStore is an in-process user.Store for tests and local mode.
type MemoryUserStore struct {
	mu     sync.Mutex
	byID   map[string]*user.User
	byName map[string]*user.User
}

// NewMemoryUserStore creates an empty in-memory account store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:   make(map[string]*user.User),
		byName: make(map[string]*user.User),
	}
}

var _ user.Store = (*MemoryUserStore)(nil)

// CreateUser stores an account, rejecting duplicate usernames.
func (s *MemoryUserStore) CreateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[u.Username]; exists {
		return fmt.Errorf("username %s is taken", u.Username)
	}
	cp := *u
	s.byID[u.ID] = &cp
	s.byName[u.Username] = &cp
	return nil
}

// GetUserByUsername looks an account up by name.
func (s *MemoryUserStore) GetUserByUsername(_ context.Context, username string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byName[username]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// GetUser looks an account up by id.
func (s *MemoryUserStore) GetUser(_ context.Context, id string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
