package game

import (
	"context"
	"time"
)

// MatchStatus is the lifecycle of a match row.
type MatchStatus string

const (
	// MatchWaiting is a created room waiting for the second player.
	MatchWaiting MatchStatus = "waiting"
	// MatchActive is a running match accepting actions.
	MatchActive MatchStatus = "active"
	// MatchFinished is a decided match; the state is frozen.
	MatchFinished MatchStatus = "finished"
)

// MatchRow is the durable record per match. Version drives optimistic
// concurrency control on the mutating path; UpdatedAt is a change-detection
// token for clients and is never used for ordering inside the engine.
type MatchRow struct {
	ID        string      `json:"id"`
	Status    MatchStatus `json:"status"`
	Player1ID string      `json:"player1_id"`
	Player2ID string      `json:"player2_id,omitempty"`
	State     *GameState  `json:"game_state,omitempty"`
	Version   int64       `json:"version"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Clone deep-copies the row so subscribers can never mutate stored state.
func (r *MatchRow) Clone() *MatchRow {
	cp := *r
	if r.State != nil {
		cp.State = r.State.Clone()
	}
	return &cp
}

// MatchStore is the durable match record store. Implementations must make
// UpdateMatch an atomic compare-and-swap on Version, returning
// ErrVersionConflict when the row moved underneath the caller.
type MatchStore interface {
	GetMatch(ctx context.Context, matchID string) (*MatchRow, error)
	CreateMatch(ctx context.Context, row *MatchRow) error
	// UpdateMatch persists state and status for the row iff its stored
	// version still equals expectedVersion, bumping version and updated_at.
	// The seat columns follow state.PlayerOrder, so seating the second
	// player rides the same conditional write. Returns the row as persisted.
	UpdateMatch(ctx context.Context, matchID string, state *GameState, status MatchStatus, expectedVersion int64) (*MatchRow, error)
	// ListOpenMatches returns rows still waiting for a second player.
	ListOpenMatches(ctx context.Context) ([]*MatchRow, error)
}

// AuditEntry is one immutable audit-log row. Append-only; replay tooling
// reads it, the validator never does.
type AuditEntry struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"matchId"`
	PlayerID  string    `json:"playerId"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// AuditStore appends and reads the per-match action log, ordered by timestamp.
type AuditStore interface {
	AppendAudit(ctx context.Context, entry *AuditEntry) error
	ListAudit(ctx context.Context, matchID string) ([]*AuditEntry, error)
}

// Publisher fans a freshly persisted row out to subscribed observers.
// Consumers re-derive everything from the snapshot; there is no diffing.
type Publisher interface {
	Publish(row *MatchRow)
}
