package rules

import (
	"testing"

	"github.com/pocketduel/duel-server-go/internal/cards"
)

func TestComputeDamage(t *testing.T) {
	tests := []struct {
		name     string
		in       DamageInput
		expected int
	}{
		{
			"printed power, no modifiers",
			DamageInput{
				BasePower:      40,
				AttackerType:   cards.EnergyGrass,
				AttackerRarity: cards.RarityCommon,
				DefenderRarity: cards.RarityCommon,
			},
			40,
		},
		{
			"weakness adds a flat bonus",
			DamageInput{
				BasePower:        30,
				AttackerType:     cards.EnergyWater,
				AttackerRarity:   cards.RarityCommon,
				DefenderWeakness: cards.EnergyWater,
				DefenderRarity:   cards.RarityCommon,
			},
			50,
		},
		{
			"rarity advantage scales up",
			DamageInput{
				BasePower:      100,
				AttackerType:   cards.EnergyLightning,
				AttackerRarity: cards.RarityDoubleRare,
				DefenderRarity: cards.RarityUncommon,
			},
			120,
		},
		{
			"rarity disadvantage scales down",
			DamageInput{
				BasePower:      20,
				AttackerType:   cards.EnergyFighting,
				AttackerRarity: cards.RarityCommon,
				DefenderRarity: cards.RarityDoubleRare,
			},
			16,
		},
		{
			"rank difference clamps at two steps",
			DamageInput{
				BasePower:      100,
				AttackerType:   cards.EnergyLightning,
				AttackerRarity: cards.RarityDoubleRare,
				DefenderRarity: cards.RarityCommon,
			},
			120,
		},
		{
			"weakness applies before the multiplier",
			DamageInput{
				BasePower:        30,
				AttackerType:     cards.EnergyFire,
				AttackerRarity:   cards.RarityUncommon,
				DefenderWeakness: cards.EnergyFire,
				DefenderRarity:   cards.RarityCommon,
			},
			55,
		},
		{
			"status-only move deals nothing",
			DamageInput{
				BasePower:        0,
				AttackerType:     cards.EnergyPsychic,
				AttackerRarity:   cards.RarityDoubleRare,
				DefenderWeakness: cards.EnergyPsychic,
				DefenderRarity:   cards.RarityCommon,
			},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeDamage(tt.in); got != tt.expected {
				t.Errorf("expected %d damage, got %d", tt.expected, got)
			}
		})
	}
}

func TestComputeDamageDeterministic(t *testing.T) {
	in := DamageInput{
		BasePower:        70,
		AttackerType:     cards.EnergyFighting,
		AttackerRarity:   cards.RarityRare,
		DefenderWeakness: cards.EnergyFighting,
		DefenderRarity:   cards.RarityCommon,
	}
	first := ComputeDamage(in)
	for i := 0; i < 100; i++ {
		if got := ComputeDamage(in); got != first {
			t.Fatalf("damage not deterministic: first %d, run %d got %d", first, i, got)
		}
	}
}
