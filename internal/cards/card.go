package cards

import "fmt"

// EnergyType is an energy color tag. The same tags appear in attack costs, on
// attached energy, and as card weaknesses.
type EnergyType string

const (
	EnergyGrass     EnergyType = "grass"
	EnergyFire      EnergyType = "fire"
	EnergyWater     EnergyType = "water"
	EnergyLightning EnergyType = "lightning"
	EnergyPsychic   EnergyType = "psychic"
	EnergyFighting  EnergyType = "fighting"
	EnergyDarkness  EnergyType = "darkness"
	EnergyMetal     EnergyType = "metal"
	EnergyColorless EnergyType = "colorless"
)

// Rarity buckets, ordered from most to least common.
type Rarity string

const (
	RarityCommon     Rarity = "common"
	RarityUncommon   Rarity = "uncommon"
	RarityRare       Rarity = "rare"
	RarityDoubleRare Rarity = "double_rare"
)

var rarityRanks = map[Rarity]int{
	RarityCommon:     0,
	RarityUncommon:   1,
	RarityRare:       2,
	RarityDoubleRare: 3,
}

// Rank returns the ordinal position of the rarity, 0 for common. Unknown
// rarities rank as common so a bad catalog row never inflates damage.
func (r Rarity) Rank() int {
	return rarityRanks[r]
}

// StatusCondition is a status tag a move can inflict on the defending card.
type StatusCondition string

const (
	StatusPoisoned  StatusCondition = "poisoned"
	StatusAsleep    StatusCondition = "asleep"
	StatusParalyzed StatusCondition = "paralyzed"
)

// Move is one attack printed on a card.
type Move struct {
	Name string `json:"name"`
	// Cost is an energy cost string, e.g. "{R}{R}{C}". See the energy package.
	Cost  string `json:"cost"`
	Power int    `json:"power"`
	// SelfDamage is recoil dealt to the attacker's own active card, 0 for most moves.
	SelfDamage int `json:"selfDamage,omitempty"`
	// Inflicts is an optional status condition applied to the defender on hit.
	Inflicts StatusCondition `json:"inflicts,omitempty"`
}

// Definition is a catalog card: the printed card, not a copy in play.
type Definition struct {
	ID          string     `json:"id"` // e.g. "A1-001"
	SetID       string     `json:"setId"`
	Name        string     `json:"name"`
	HP          int        `json:"hp"`
	Type        EnergyType `json:"type"`
	Weakness    EnergyType `json:"weakness,omitempty"`
	Rarity      Rarity     `json:"rarity"`
	IsBasic     bool       `json:"isBasic"`
	EvolvesFrom string     `json:"evolvesFrom,omitempty"`
	Moves       []Move     `json:"moves"`
}

// Set groups definitions the way the master data tables do.
type Set struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TotalCards int    `json:"totalCards"`
}

// Catalog is an indexed collection of card definitions.
type Catalog struct {
	byID map[string]Definition
}

// NewCatalog builds a catalog from definitions. Duplicate IDs are rejected.
func NewCatalog(defs []Definition) (*Catalog, error) {
	byID := make(map[string]Definition, len(defs))
	for _, def := range defs {
		if def.ID == "" {
			return nil, fmt.Errorf("card definition %q has empty id", def.Name)
		}
		if _, dup := byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate card definition id %s", def.ID)
		}
		byID[def.ID] = def
	}
	return &Catalog{byID: byID}, nil
}

// Get returns the definition for a base card id.
func (c *Catalog) Get(baseID string) (Definition, bool) {
	def, ok := c.byID[baseID]
	return def, ok
}

// Len returns the number of definitions in the catalog.
func (c *Catalog) Len() int {
	return len(c.byID)
}
