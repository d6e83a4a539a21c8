package rules

import "github.com/pocketduel/duel-server-go/internal/cards"

// WeaknessBonus is the flat damage added when the attacker's type matches the
// defender's printed weakness.
const WeaknessBonus = 20

// Rarity multiplier, in percent. The step table keys off the rank difference
// between attacker and defender, clamped to [-2, 2], so a double-rare hitting
// a common swings 20% while mirror matches stay at printed power.
var rarityMultipliers = map[int]int{
	-2: 80,
	-1: 90,
	0:  100,
	1:  110,
	2:  120,
}

// DamageInput carries everything the damage formula reads. All fields come
// from card definitions and the chosen move, never from mutable match state,
// which keeps the formula pure.
type DamageInput struct {
	BasePower        int
	AttackerType     cards.EnergyType
	AttackerRarity   cards.Rarity
	DefenderWeakness cards.EnergyType
	DefenderRarity   cards.Rarity
}

// ComputeDamage returns the damage an attack deals to the defending card.
// Deterministic: base power, plus the weakness bonus when typed into the
// defender's weakness, scaled by the rarity multiplier and truncated.
func ComputeDamage(in DamageInput) int {
	// Status-only moves (zero printed power) deal no damage regardless of
	// weakness or rarity.
	if in.BasePower <= 0 {
		return 0
	}

	damage := in.BasePower
	if in.DefenderWeakness != "" && in.DefenderWeakness == in.AttackerType {
		damage += WeaknessBonus
	}

	diff := clamp(in.AttackerRarity.Rank()-in.DefenderRarity.Rank(), -2, 2)
	damage = damage * rarityMultipliers[diff] / 100

	return positive(damage)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func positive(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
