package game

import (
	"strings"
	"testing"
	"time"

	"github.com/pocketduel/duel-server-go/internal/cards"
)

func viewFixture(t *testing.T) *MatchRow {
	t.Helper()
	catalog := cards.MustStarterCatalog()
	state := activeState(t, catalog)
	state.Players["p1"].Hand = []*BattleCard{
		testCard(t, catalog, "h1", "A1-007"),
		testCard(t, catalog, "h2", "A1-013"),
	}
	state.Players["p1"].Deck = []*BattleCard{testCard(t, catalog, "d1", "A1-047")}
	state.Players["p1"].DeckCount = 1
	state.Players["p2"].Hand = []*BattleCard{testCard(t, catalog, "h3", "A1-047")}
	return &MatchRow{
		ID:        "m1",
		Status:    MatchActive,
		Player1ID: "p1",
		Player2ID: "p2",
		State:     state,
		Version:   4,
		UpdatedAt: time.Now(),
	}
}

func TestViewShowsOwnHandOnly(t *testing.T) {
	row := viewFixture(t)

	view := ViewForPlayer(row, "p1")
	me := view.State.Players["p1"]
	opp := view.State.Players["p2"]

	if len(me.Hand) != 2 || me.HandCount != 2 {
		t.Errorf("own hand should be visible: %d cards, count %d", len(me.Hand), me.HandCount)
	}
	if me.CurrentEnergy != cards.EnergyLightning {
		t.Errorf("own current energy should be visible, got %q", me.CurrentEnergy)
	}
	if opp.Hand != nil {
		t.Error("opponent hand cards leaked")
	}
	if opp.HandCount != 1 {
		t.Errorf("opponent hand count missing: %d", opp.HandCount)
	}
	if opp.CurrentEnergy != "" {
		t.Error("opponent current energy leaked")
	}
}

func TestViewNeverExposesDecks(t *testing.T) {
	row := viewFixture(t)

	view := ViewForPlayer(row, "p1")
	if view.State.Players["p1"].DeckCount != 1 {
		t.Errorf("own deck count missing: %d", view.State.Players["p1"].DeckCount)
	}
	// The view type has no deck slice at all; counts are the only exposure.
	// Instance d1 exists only inside p1's deck in the fixture.
	if got := mustJSON(t, view); strings.Contains(got, `"d1"`) {
		t.Error("deck card instances leaked into the view")
	}
}

func TestSpectatorSeesBothHandsMasked(t *testing.T) {
	row := viewFixture(t)

	view := ViewForPlayer(row, "spectator")
	for id, p := range view.State.Players {
		if p.Hand != nil {
			t.Errorf("player %s hand leaked to spectator", id)
		}
		if p.CurrentEnergy != "" {
			t.Errorf("player %s current energy leaked to spectator", id)
		}
	}
}

func TestViewIsACopy(t *testing.T) {
	row := viewFixture(t)

	view := ViewForPlayer(row, "p1")
	view.State.Players["p1"].ActivePokemon.CurrentHP = 1
	view.State.Players["p1"].Hand[0].Name = "changed"

	if row.State.Players["p1"].ActivePokemon.CurrentHP == 1 {
		t.Error("view shares the active card with stored state")
	}
	if row.State.Players["p1"].Hand[0].Name == "changed" {
		t.Error("view shares the hand with stored state")
	}
}

func TestViewOfWaitingRow(t *testing.T) {
	row := &MatchRow{ID: "m2", Status: MatchWaiting, Player1ID: "p1"}
	view := ViewForPlayer(row, "p1")
	if view.Status != MatchWaiting || view.State != nil {
		t.Errorf("unexpected view for waiting row: %+v", view)
	}
}
