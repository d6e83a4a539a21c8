package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pocketduel/duel-server-go/internal/cards"
)

// CardRepository stores the card catalog master data (sets and card
// definitions). Seeded by scripts/seed_cards.go; read once at startup.
type CardRepository struct {
	db *DB
}

// NewCardRepository creates a card repository.
func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{db: db}
}

// UpsertSet inserts or updates a set row.
func (r *CardRepository) UpsertSet(ctx context.Context, set cards.Set) error {
	const query = `
		INSERT INTO sets (id, name, total_cards)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, total_cards = EXCLUDED.total_cards`

	_, err := r.db.Pool().Exec(ctx, query, set.ID, set.Name, set.TotalCards)
	if err != nil {
		return fmt.Errorf("upsert set %s: %w", set.ID, err)
	}
	return nil
}

// UpsertCard inserts or updates one card definition. Moves are stored as a
// JSON document alongside the scalar columns.
func (r *CardRepository) UpsertCard(ctx context.Context, def cards.Definition) error {
	moves, err := json.Marshal(def.Moves)
	if err != nil {
		return fmt.Errorf("encode moves for %s: %w", def.ID, err)
	}

	const query = `
		INSERT INTO cards (id, set_id, name, hp, type, weakness, rarity, is_basic, evolves_from, moves)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, NULLIF($9, ''), $10)
		ON CONFLICT (id) DO UPDATE SET
			set_id = EXCLUDED.set_id,
			name = EXCLUDED.name,
			hp = EXCLUDED.hp,
			type = EXCLUDED.type,
			weakness = EXCLUDED.weakness,
			rarity = EXCLUDED.rarity,
			is_basic = EXCLUDED.is_basic,
			evolves_from = EXCLUDED.evolves_from,
			moves = EXCLUDED.moves`

	_, err = r.db.Pool().Exec(ctx, query,
		def.ID, def.SetID, def.Name, def.HP, string(def.Type), string(def.Weakness),
		string(def.Rarity), def.IsBasic, def.EvolvesFrom, moves)
	if err != nil {
		return fmt.Errorf("upsert card %s: %w", def.ID, err)
	}
	return nil
}

// LoadCatalog reads every card definition into an indexed catalog.
func (r *CardRepository) LoadCatalog(ctx context.Context) (*cards.Catalog, error) {
	const query = `
		SELECT id, set_id, name, hp, type, COALESCE(weakness, ''), rarity, is_basic, COALESCE(evolves_from, ''), moves
		FROM cards
		ORDER BY id`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load card catalog: %w", err)
	}
	defer rows.Close()

	var defs []cards.Definition
	for rows.Next() {
		var (
			def      cards.Definition
			typ      string
			weakness string
			rarity   string
			moves    []byte
		)
		if err := rows.Scan(&def.ID, &def.SetID, &def.Name, &def.HP, &typ, &weakness,
			&rarity, &def.IsBasic, &def.EvolvesFrom, &moves); err != nil {
			return nil, fmt.Errorf("scan card row: %w", err)
		}
		def.Type = cards.EnergyType(typ)
		def.Weakness = cards.EnergyType(weakness)
		def.Rarity = cards.Rarity(rarity)
		if err := json.Unmarshal(moves, &def.Moves); err != nil {
			return nil, fmt.Errorf("decode moves for %s: %w", def.ID, err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cards.NewCatalog(defs)
}
