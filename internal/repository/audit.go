package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pocketduel/duel-server-go/internal/game"
)

// AuditRepository is the PostgreSQL game.AuditStore: an append-only log of
// applied actions, queryable per match for replay tooling.
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates an audit repository.
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

var _ game.AuditStore = (*AuditRepository)(nil)

// AppendAudit inserts one log row. There is no update or delete path.
func (r *AuditRepository) AppendAudit(ctx context.Context, entry *game.AuditEntry) error {
	payload, err := json.Marshal(entry.Action)
	if err != nil {
		return fmt.Errorf("encode action payload: %w", err)
	}

	const query = `
		INSERT INTO match_logs (id, match_id, player_id, action_type, action_payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.Pool().Exec(ctx, query,
		entry.ID, entry.MatchID, entry.PlayerID, string(entry.Action.Type), payload, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("insert audit entry for match %s: %w", entry.MatchID, err)
	}
	return nil
}

// ListAudit returns a match's log entries ordered by timestamp.
func (r *AuditRepository) ListAudit(ctx context.Context, matchID string) ([]*game.AuditEntry, error) {
	const query = `
		SELECT id, match_id, player_id, action_payload, created_at
		FROM match_logs
		WHERE match_id = $1
		ORDER BY created_at, id`

	rows, err := r.db.Pool().Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("list audit entries for match %s: %w", matchID, err)
	}
	defer rows.Close()

	var out []*game.AuditEntry
	for rows.Next() {
		var (
			entry   game.AuditEntry
			payload []byte
		)
		if err := rows.Scan(&entry.ID, &entry.MatchID, &entry.PlayerID, &payload, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if err := json.Unmarshal(payload, &entry.Action); err != nil {
			return nil, fmt.Errorf("decode action payload: %w", err)
		}
		out = append(out, &entry)
	}
	return out, rows.Err()
}
