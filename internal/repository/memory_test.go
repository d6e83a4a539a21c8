package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pocketduel/duel-server-go/internal/game"
)

func memoryRow(id string) *game.MatchRow {
	return &game.MatchRow{
		ID:        id,
		Status:    game.MatchWaiting,
		Player1ID: "p1",
		State: &game.GameState{
			SchemaVersion: game.SchemaVersion,
			MatchID:       id,
			PlayerOrder:   [2]string{"p1"},
			Players:       map[string]*game.PlayerState{},
		},
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.GetMatch(context.Background(), "nope"); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreConditionalWrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.CreateMatch(ctx, memoryRow("m1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	row, err := store.GetMatch(ctx, "m1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row.Version != 0 {
		t.Fatalf("fresh row at version %d", row.Version)
	}

	state := row.State.Clone()
	state.TurnNumber = 1
	updated, err := store.UpdateMatch(ctx, "m1", state, game.MatchActive, row.Version)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Version != 1 || updated.Status != game.MatchActive {
		t.Errorf("unexpected row after update: version %d status %s", updated.Version, updated.Status)
	}

	// A second write against the stale version must lose.
	_, err = store.UpdateMatch(ctx, "m1", state, game.MatchActive, row.Version)
	if !errors.Is(err, game.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestMemoryStoreSeatsSecondPlayerFromState(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.CreateMatch(ctx, memoryRow("m1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	row, _ := store.GetMatch(ctx, "m1")

	state := row.State.Clone()
	state.PlayerOrder[1] = "p2"
	updated, err := store.UpdateMatch(ctx, "m1", state, game.MatchActive, row.Version)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Player2ID != "p2" {
		t.Errorf("second seat not persisted: %q", updated.Player2ID)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.CreateMatch(ctx, memoryRow("m1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	row, _ := store.GetMatch(ctx, "m1")
	row.State.TurnNumber = 42

	again, _ := store.GetMatch(ctx, "m1")
	if again.State.TurnNumber == 42 {
		t.Error("store handed out shared state")
	}
}

func TestMemoryStoreAuditOrdering(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Now()

	for i, typ := range []game.ActionType{game.ActionPlayBasic, game.ActionAttack, game.ActionEndTurn} {
		err := store.AppendAudit(ctx, &game.AuditEntry{
			ID:        string(rune('a' + i)),
			MatchID:   "m1",
			PlayerID:  "p1",
			Action:    game.Action{Type: typ},
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	entries, err := store.ListAudit(ctx, "m1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []game.ActionType{game.ActionPlayBasic, game.ActionAttack, game.ActionEndTurn}
	for i, entry := range entries {
		if entry.Action.Type != want[i] {
			t.Errorf("entry %d: got %s, want %s", i, entry.Action.Type, want[i])
		}
	}

	other, err := store.ListAudit(ctx, "m2")
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("log leaked across matches: %d entries", len(other))
	}
}
