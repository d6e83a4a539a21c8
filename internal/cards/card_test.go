package cards_test

import (
	"testing"

	"github.com/pocketduel/duel-server-go/internal/cards"
	"github.com/pocketduel/duel-server-go/internal/game/energy"
)

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := cards.NewCatalog([]cards.Definition{
		{ID: "A1-001", Name: "Bulbasaur"},
		{ID: "A1-001", Name: "Bulbasaur"},
	})
	if err == nil {
		t.Fatal("expected duplicate id rejection")
	}

	_, err = cards.NewCatalog([]cards.Definition{{Name: "nameless"}})
	if err == nil {
		t.Fatal("expected empty id rejection")
	}
}

func TestStarterSetIntegrity(t *testing.T) {
	catalog := cards.MustStarterCatalog()

	for _, def := range cards.StarterSet() {
		if def.HP <= 0 {
			t.Errorf("%s has hp %d", def.ID, def.HP)
		}
		if def.Rarity.Rank() < 0 {
			t.Errorf("%s has unknown rarity %s", def.ID, def.Rarity)
		}
		if !def.IsBasic && def.EvolvesFrom == "" {
			t.Errorf("%s is an evolution with no base form", def.ID)
		}
		if def.EvolvesFrom != "" {
			if _, ok := catalog.Get(def.EvolvesFrom); !ok {
				t.Errorf("%s evolves from unknown card %s", def.ID, def.EvolvesFrom)
			}
		}
		if len(def.Moves) == 0 {
			t.Errorf("%s has no moves", def.ID)
		}
		for _, move := range def.Moves {
			cost, err := energy.ParseCost(move.Cost)
			if err != nil {
				t.Errorf("%s %s: bad cost %q: %v", def.ID, move.Name, move.Cost, err)
				continue
			}
			if cost.Total() == 0 {
				t.Errorf("%s %s: free attacks do not exist", def.ID, move.Name)
			}
		}
	}
}

func TestRarityRankOrdering(t *testing.T) {
	ordered := []cards.Rarity{cards.RarityCommon, cards.RarityUncommon, cards.RarityRare, cards.RarityDoubleRare}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Errorf("%s should outrank %s", ordered[i], ordered[i-1])
		}
	}
	if cards.Rarity("promo").Rank() != 0 {
		t.Error("unknown rarity should rank as common")
	}
}
