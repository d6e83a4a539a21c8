package cards

// StarterSet returns the built-in "Genetic Apex" slice used for local play,
// seeding, and tests. Production deployments load the full catalog from the
// cards table instead.
func StarterSet() []Definition {
	return []Definition{
		{
			ID: "A1-001", SetID: "A1", Name: "Bulbasaur", HP: 70,
			Type: EnergyGrass, Weakness: EnergyFire, Rarity: RarityCommon, IsBasic: true,
			Moves: []Move{
				{Name: "Vine Whip", Cost: "{G}{C}", Power: 40},
			},
		},
		{
			ID: "A1-007", SetID: "A1", Name: "Charmander", HP: 60,
			Type: EnergyFire, Weakness: EnergyWater, Rarity: RarityCommon, IsBasic: true,
			Moves: []Move{
				{Name: "Ember", Cost: "{R}", Power: 30},
			},
		},
		{
			ID: "A1-008", SetID: "A1", Name: "Charmeleon", HP: 90,
			Type: EnergyFire, Weakness: EnergyWater, Rarity: RarityUncommon,
			IsBasic: false, EvolvesFrom: "A1-007",
			Moves: []Move{
				{Name: "Fire Claws", Cost: "{R}{R}{C}", Power: 60},
			},
		},
		{
			ID: "A1-013", SetID: "A1", Name: "Squirtle", HP: 60,
			Type: EnergyWater, Weakness: EnergyLightning, Rarity: RarityCommon, IsBasic: true,
			Moves: []Move{
				{Name: "Water Gun", Cost: "{W}", Power: 20},
			},
		},
		{
			ID: "A1-025", SetID: "A1", Name: "Pikachu", HP: 60,
			Type: EnergyLightning, Weakness: EnergyFighting, Rarity: RarityCommon, IsBasic: true,
			Moves: []Move{
				{Name: "Gnaw", Cost: "{C}", Power: 10},
				{Name: "Thunder Jolt", Cost: "{L}{L}", Power: 40, SelfDamage: 10},
			},
		},
		{
			ID: "A1-031", SetID: "A1", Name: "Ekans", HP: 70,
			Type: EnergyDarkness, Weakness: EnergyFighting, Rarity: RarityCommon, IsBasic: true,
			Moves: []Move{
				{Name: "Poison Sting", Cost: "{D}{C}", Power: 20, Inflicts: StatusPoisoned},
			},
		},
		{
			ID: "A1-042", SetID: "A1", Name: "Jigglypuff", HP: 60,
			Type: EnergyPsychic, Weakness: EnergyMetal, Rarity: RarityCommon, IsBasic: true,
			Moves: []Move{
				{Name: "Sing", Cost: "{C}", Power: 0, Inflicts: StatusAsleep},
				{Name: "Pound", Cost: "{P}{C}", Power: 30},
			},
		},
		{
			ID: "A1-047", SetID: "A1", Name: "Machop", HP: 70,
			Type: EnergyFighting, Weakness: EnergyPsychic, Rarity: RarityCommon, IsBasic: true,
			Moves: []Move{
				{Name: "Karate Chop", Cost: "{F}", Power: 20},
			},
		},
		{
			ID: "A1-056", SetID: "A1", Name: "Geodude", HP: 70,
			Type: EnergyFighting, Weakness: EnergyGrass, Rarity: RarityCommon, IsBasic: true,
			Moves: []Move{
				{Name: "Tackle", Cost: "{C}{C}", Power: 20},
			},
		},
		{
			ID: "A1-063", SetID: "A1", Name: "Voltorb", HP: 60,
			Type: EnergyLightning, Weakness: EnergyFighting, Rarity: RarityCommon, IsBasic: true,
			Moves: []Move{
				{Name: "Tackle", Cost: "{C}", Power: 10},
				{Name: "Electro Shock", Cost: "{L}{C}", Power: 30, Inflicts: StatusParalyzed},
			},
		},
		{
			ID: "A1-096", SetID: "A1", Name: "Zapdos", HP: 110,
			Type: EnergyLightning, Weakness: EnergyFighting, Rarity: RarityDoubleRare, IsBasic: true,
			Moves: []Move{
				{Name: "Peck", Cost: "{C}{C}", Power: 20},
				{Name: "Thundering Hurricane", Cost: "{L}{L}{L}", Power: 100, SelfDamage: 30},
			},
		},
		{
			ID: "A1-104", SetID: "A1", Name: "Onix", HP: 110,
			Type: EnergyFighting, Weakness: EnergyGrass, Rarity: RarityRare, IsBasic: true,
			Moves: []Move{
				{Name: "Land Crush", Cost: "{F}{F}{C}{C}", Power: 70},
			},
		},
	}
}

// StarterSets returns the set rows matching StarterSet.
func StarterSets() []Set {
	return []Set{
		{ID: "A1", Name: "Genetic Apex", TotalCards: 226},
	}
}

// MustStarterCatalog builds a catalog over the starter set. Panics only on a
// broken built-in table, which is a programming error.
func MustStarterCatalog() *Catalog {
	catalog, err := NewCatalog(StarterSet())
	if err != nil {
		panic(err)
	}
	return catalog
}
