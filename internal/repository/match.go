package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pocketduel/duel-server-go/internal/game"
)

// MatchRepository is the PostgreSQL game.MatchStore. The mutating path is an
// optimistic compare-and-swap on the version column so concurrent submissions
// for the same match serialize instead of overwriting each other.
type MatchRepository struct {
	db *DB
}

// NewMatchRepository creates a match repository.
func NewMatchRepository(db *DB) *MatchRepository {
	return &MatchRepository{db: db}
}

var _ game.MatchStore = (*MatchRepository)(nil)

// GetMatch loads a match row by id.
func (r *MatchRepository) GetMatch(ctx context.Context, matchID string) (*game.MatchRow, error) {
	const query = `
		SELECT id, status, player1_id, COALESCE(player2_id, ''), game_state, version, updated_at
		FROM matches
		WHERE id = $1`

	row := r.db.Pool().QueryRow(ctx, query, matchID)
	return scanMatchRow(row)
}

// CreateMatch inserts a new match row at version 0.
func (r *MatchRepository) CreateMatch(ctx context.Context, m *game.MatchRow) error {
	stateJSON, err := marshalState(m.State)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO matches (id, status, player1_id, player2_id, game_state, version, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, 0, now())`

	_, err = r.db.Pool().Exec(ctx, query, m.ID, string(m.Status), m.Player1ID, m.Player2ID, stateJSON)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}
	return nil
}

// UpdateMatch performs the conditional write: the row is updated only when
// its version still equals expectedVersion. The seat columns follow
// state.PlayerOrder so the second seat lands in the same statement.
func (r *MatchRepository) UpdateMatch(ctx context.Context, matchID string, state *game.GameState, status game.MatchStatus, expectedVersion int64) (*game.MatchRow, error) {
	stateJSON, err := marshalState(state)
	if err != nil {
		return nil, err
	}

	player2 := ""
	if state != nil {
		player2 = state.PlayerOrder[1]
	}

	const query = `
		UPDATE matches
		SET game_state = $1,
		    status = $2,
		    player2_id = COALESCE(NULLIF($3, ''), player2_id),
		    version = version + 1,
		    updated_at = now()
		WHERE id = $4 AND version = $5
		RETURNING id, status, player1_id, COALESCE(player2_id, ''), game_state, version, updated_at`

	row := r.db.Pool().QueryRow(ctx, query, stateJSON, string(status), player2, matchID, expectedVersion)
	updated, err := scanMatchRow(row)
	if errors.Is(err, game.ErrNotFound) {
		// No row matched: either the id is unknown or the version moved.
		exists, existsErr := r.matchExists(ctx, matchID)
		if existsErr != nil {
			return nil, existsErr
		}
		if exists {
			return nil, game.ErrVersionConflict
		}
		return nil, game.ErrNotFound
	}
	return updated, err
}

// ListOpenMatches returns rows still waiting for a second player.
func (r *MatchRepository) ListOpenMatches(ctx context.Context) ([]*game.MatchRow, error) {
	const query = `
		SELECT id, status, player1_id, COALESCE(player2_id, ''), game_state, version, updated_at
		FROM matches
		WHERE status = 'waiting'
		ORDER BY updated_at DESC`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list open matches: %w", err)
	}
	defer rows.Close()

	var out []*game.MatchRow
	for rows.Next() {
		m, err := scanMatchRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MatchRepository) matchExists(ctx context.Context, matchID string) (bool, error) {
	var exists bool
	err := r.db.Pool().QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM matches WHERE id = $1)`, matchID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check match %s: %w", matchID, err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatchRow(row rowScanner) (*game.MatchRow, error) {
	var (
		m         game.MatchRow
		status    string
		stateJSON []byte
		updatedAt time.Time
	)
	err := row.Scan(&m.ID, &status, &m.Player1ID, &m.Player2ID, &stateJSON, &m.Version, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan match row: %w", err)
	}

	m.Status = game.MatchStatus(status)
	m.UpdatedAt = updatedAt
	if len(stateJSON) > 0 {
		var state game.GameState
		if err := json.Unmarshal(stateJSON, &state); err != nil {
			return nil, fmt.Errorf("decode game state for match %s: %w", m.ID, err)
		}
		m.State = &state
	}
	return &m, nil
}

func marshalState(state *game.GameState) ([]byte, error) {
	if state == nil {
		return nil, nil
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode game state: %w", err)
	}
	return data, nil
}
