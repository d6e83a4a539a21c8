package game

import (
	"fmt"
	"sort"
	"time"

	"github.com/pocketduel/duel-server-go/internal/cards"
	"github.com/pocketduel/duel-server-go/internal/game/rules"
)

// SchemaVersion is embedded in every serialized GameState so stored blobs can
// be migrated when the shape changes.
const SchemaVersion = 1

// BenchSize is the number of bench slots per player.
const BenchSize = 5

// InitialHandSize is the number of cards dealt to each player at match start.
const InitialHandSize = 5

// InitialPrizeCount is the prize pool each player starts with. A knockout
// decrements the owner's pool; a player whose pool reaches zero loses.
const InitialPrizeCount = 3

// PoisonDamage is dealt to a poisoned active card at the end of its owner's turn.
const PoisonDamage = 10

// BattleCard is one physical card copy in a match. InstanceID is unique per
// copy; BaseID references the catalog definition, and duplicates of the same
// catalog card can coexist.
type BattleCard struct {
	InstanceID       string                  `json:"instanceId"`
	BaseID           string                  `json:"baseId"`
	Name             string                  `json:"name"`
	MaxHP            int                     `json:"maxHp"`
	CurrentHP        int                     `json:"currentHp"`
	EnergyAttached   []cards.EnergyType      `json:"energyAttached"`
	StatusConditions []cards.StatusCondition `json:"statusConditions"`
	IsEvolved        bool                    `json:"isEvolved"`
}

// HasStatus reports whether the card currently carries the given condition.
func (c *BattleCard) HasStatus(status cards.StatusCondition) bool {
	for _, s := range c.StatusConditions {
		if s == status {
			return true
		}
	}
	return false
}

// AddStatus adds a condition if not already present.
func (c *BattleCard) AddStatus(status cards.StatusCondition) {
	if !c.HasStatus(status) {
		c.StatusConditions = append(c.StatusConditions, status)
	}
}

// RemoveStatus drops a condition if present.
func (c *BattleCard) RemoveStatus(status cards.StatusCondition) {
	kept := c.StatusConditions[:0]
	for _, s := range c.StatusConditions {
		if s != status {
			kept = append(kept, s)
		}
	}
	c.StatusConditions = kept
}

func (c *BattleCard) clone() *BattleCard {
	if c == nil {
		return nil
	}
	cp := *c
	cp.EnergyAttached = append([]cards.EnergyType(nil), c.EnergyAttached...)
	cp.StatusConditions = append([]cards.StatusCondition(nil), c.StatusConditions...)
	return &cp
}

// PlayerState holds one participant's zones. Hand and Deck are private to the
// owning player; the serving boundary masks them for everyone else (see
// ViewForPlayer). DeckCount mirrors len(Deck) so masked views keep the count.
type PlayerState struct {
	ID       string `json:"id"`
	Username string `json:"username"`

	ActivePokemon *BattleCard   `json:"activePokemon"`
	Bench         []*BattleCard `json:"bench"` // fixed BenchSize slots, nil = empty
	Hand          []*BattleCard `json:"hand"`
	DiscardPile   []*BattleCard `json:"discardPile"`
	Deck          []*BattleCard `json:"deck"`
	DeckCount     int           `json:"deckCount"`
	PrizeCards    int           `json:"prizeCards"`

	// Energy zone: one energy per turn, cycling through the deck's types.
	EnergyTypes    []cards.EnergyType `json:"energyTypes"`
	EnergyRotation int                `json:"energyRotation"`
}

// CurrentEnergy returns the energy type the player's energy zone offers this
// turn, or false when the player has had no turn yet.
func (p *PlayerState) CurrentEnergy() (cards.EnergyType, bool) {
	if p.EnergyRotation <= 0 || len(p.EnergyTypes) == 0 {
		return "", false
	}
	return p.EnergyTypes[(p.EnergyRotation-1)%len(p.EnergyTypes)], true
}

// FindControlled returns the card with the given instance id among the
// player's active and bench cards.
func (p *PlayerState) FindControlled(instanceID string) (*BattleCard, bool) {
	if p.ActivePokemon != nil && p.ActivePokemon.InstanceID == instanceID {
		return p.ActivePokemon, true
	}
	for _, card := range p.Bench {
		if card != nil && card.InstanceID == instanceID {
			return card, true
		}
	}
	return nil, false
}

// BenchOccupied returns the number of occupied bench slots.
func (p *PlayerState) BenchOccupied() int {
	n := 0
	for _, card := range p.Bench {
		if card != nil {
			n++
		}
	}
	return n
}

// lowestEmptyBenchSlot returns the lowest-index empty bench slot, or -1.
func (p *PlayerState) lowestEmptyBenchSlot() int {
	for i, card := range p.Bench {
		if card == nil {
			return i
		}
	}
	return -1
}

// TotalHP sums the current HP of the player's in-play cards.
func (p *PlayerState) TotalHP() int {
	total := 0
	if p.ActivePokemon != nil {
		total += p.ActivePokemon.CurrentHP
	}
	for _, card := range p.Bench {
		if card != nil {
			total += card.CurrentHP
		}
	}
	return total
}

func (p *PlayerState) clone() *PlayerState {
	cp := *p
	cp.ActivePokemon = p.ActivePokemon.clone()
	cp.Bench = make([]*BattleCard, len(p.Bench))
	for i, card := range p.Bench {
		cp.Bench[i] = card.clone()
	}
	cp.Hand = cloneCards(p.Hand)
	cp.DiscardPile = cloneCards(p.DiscardPile)
	cp.Deck = cloneCards(p.Deck)
	cp.EnergyTypes = append([]cards.EnergyType(nil), p.EnergyTypes...)
	return &cp
}

func cloneCards(cs []*BattleCard) []*BattleCard {
	out := make([]*BattleCard, len(cs))
	for i, c := range cs {
		out[i] = c.clone()
	}
	return out
}

// TurnFlags are transient once-per-turn markers for the current player,
// cleared at turn start.
type TurnFlags struct {
	EnergyAttached bool `json:"energyAttached"`
	Retreated      bool `json:"retreated"`
	Attacked       bool `json:"attacked"`
}

// LastAction records the most recently applied action for audit and display.
// Never consulted by validation.
type LastAction struct {
	PlayerID  string     `json:"playerId"`
	Type      ActionType `json:"type"`
	Details   string     `json:"details"`
	Timestamp time.Time  `json:"timestamp"`
}

// EventCombatResolved is the LastEvent kind written after every attack.
const EventCombatResolved = "combat_resolved"

// LastEvent describes the outcome of the latest combat. Damage values are
// keyed by fixed player role (player 1 / player 2), not by perspective, so
// every observer derives "damage to me" the same way.
type LastEvent struct {
	Kind       string   `json:"kind"`
	AttackerID string   `json:"attackerId"`
	MoveName   string   `json:"moveName"`
	DamageP1   int      `json:"dmg_p1"`
	DamageP2   int      `json:"dmg_p2"`
	KnockedOut []string `json:"knockedOut,omitempty"`
}

// GameState is the authoritative state of one match, mutated exclusively by
// the engine through the validator.
type GameState struct {
	SchemaVersion   int                     `json:"schemaVersion"`
	MatchID         string                  `json:"matchId"`
	TurnNumber      int                     `json:"turnNumber"`
	CurrentPlayerID string                  `json:"currentPlayerId"`
	Phase           rules.Phase             `json:"phase"`
	PlayerOrder     [2]string               `json:"playerOrder"`
	Players         map[string]*PlayerState `json:"players"`
	Turn            TurnFlags               `json:"turn"`
	LastAction      *LastAction             `json:"lastAction"`
	LastEvent       *LastEvent              `json:"lastEvent"`
	WinnerID        string                  `json:"winnerId,omitempty"`
}

// Player returns the state for the given participant id.
func (s *GameState) Player(id string) (*PlayerState, bool) {
	p, ok := s.Players[id]
	return p, ok
}

// OpponentID returns the other participant's id.
func (s *GameState) OpponentID(id string) (string, bool) {
	switch id {
	case s.PlayerOrder[0]:
		return s.PlayerOrder[1], true
	case s.PlayerOrder[1]:
		return s.PlayerOrder[0], true
	}
	return "", false
}

// IsParticipant reports whether id is one of the two players.
func (s *GameState) IsParticipant(id string) bool {
	return id == s.PlayerOrder[0] || id == s.PlayerOrder[1]
}

// Finished reports whether a winner has been decided.
func (s *GameState) Finished() bool {
	return s.WinnerID != ""
}

// Clone returns a deep copy. The validator always works on a clone so a
// rejected action can never leave partial mutations behind.
func (s *GameState) Clone() *GameState {
	cp := *s
	cp.Players = make(map[string]*PlayerState, len(s.Players))
	for id, p := range s.Players {
		cp.Players[id] = p.clone()
	}
	if s.LastAction != nil {
		la := *s.LastAction
		cp.LastAction = &la
	}
	if s.LastEvent != nil {
		le := *s.LastEvent
		le.KnockedOut = append([]string(nil), s.LastEvent.KnockedOut...)
		cp.LastEvent = &le
	}
	return &cp
}

// Validate performs structural sanity checks on a deserialized state. Guards
// the engine against corrupted or hand-edited blobs.
func (s *GameState) Validate() error {
	if s.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported schema version %d", s.SchemaVersion)
	}
	if len(s.Players) != 2 {
		return fmt.Errorf("expected 2 players, found %d", len(s.Players))
	}
	if !s.IsParticipant(s.CurrentPlayerID) {
		return fmt.Errorf("current player %s is not a participant", s.CurrentPlayerID)
	}
	if !s.Phase.Valid() {
		return fmt.Errorf("invalid phase %q", s.Phase)
	}
	for id, p := range s.Players {
		if p.ID != id {
			return fmt.Errorf("player key %s does not match state id %s", id, p.ID)
		}
		if len(p.Bench) != BenchSize {
			return fmt.Errorf("player %s has %d bench slots, want %d", id, len(p.Bench), BenchSize)
		}
		if p.DeckCount != len(p.Deck) {
			return fmt.Errorf("player %s deck count %d does not match deck size %d", id, p.DeckCount, len(p.Deck))
		}
		for _, card := range append([]*BattleCard{p.ActivePokemon}, p.Bench...) {
			if card == nil {
				continue
			}
			if card.CurrentHP <= 0 || card.CurrentHP > card.MaxHP {
				return fmt.Errorf("card %s has out-of-range hp %d/%d", card.InstanceID, card.CurrentHP, card.MaxHP)
			}
		}
	}
	return nil
}

// deckEnergyTypes derives a player's energy zone rotation from deck contents:
// the distinct non-colorless card types, in a stable order.
func deckEnergyTypes(catalog *cards.Catalog, deck []*BattleCard) []cards.EnergyType {
	seen := make(map[cards.EnergyType]bool)
	for _, card := range deck {
		def, ok := catalog.Get(card.BaseID)
		if !ok || def.Type == cards.EnergyColorless {
			continue
		}
		seen[def.Type] = true
	}
	types := make([]string, 0, len(seen))
	for typ := range seen {
		types = append(types, string(typ))
	}
	sort.Strings(types)
	out := make([]cards.EnergyType, len(types))
	for i, typ := range types {
		out[i] = cards.EnergyType(typ)
	}
	if len(out) == 0 {
		out = append(out, cards.EnergyColorless)
	}
	return out
}
