package energy

import (
	"testing"

	"github.com/pocketduel/duel-server-go/internal/cards"
)

func TestParseCost(t *testing.T) {
	tests := []struct {
		input     string
		typed     map[cards.EnergyType]int
		colorless int
		err       bool
	}{
		{input: "", typed: map[cards.EnergyType]int{}},
		{input: "{C}", typed: map[cards.EnergyType]int{}, colorless: 1},
		{input: "{R}", typed: map[cards.EnergyType]int{cards.EnergyFire: 1}},
		{input: "{R}{R}{C}", typed: map[cards.EnergyType]int{cards.EnergyFire: 2}, colorless: 1},
		{input: "{F}{F}{C}{C}", typed: map[cards.EnergyType]int{cards.EnergyFighting: 2}, colorless: 2},
		{input: "{G}{W}{L}{P}{D}{M}", typed: map[cards.EnergyType]int{
			cards.EnergyGrass: 1, cards.EnergyWater: 1, cards.EnergyLightning: 1,
			cards.EnergyPsychic: 1, cards.EnergyDarkness: 1, cards.EnergyMetal: 1,
		}},
		{input: "{Z}", err: true},
		{input: "RR", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cost, err := ParseCost(tt.input)
			if tt.err {
				if err == nil {
					t.Fatalf("expected error for %q, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.input, err)
			}
			if cost.Colorless != tt.colorless {
				t.Errorf("colorless: expected %d, got %d", tt.colorless, cost.Colorless)
			}
			if len(cost.Typed) != len(tt.typed) {
				t.Errorf("typed: expected %v, got %v", tt.typed, cost.Typed)
			}
			for typ, n := range tt.typed {
				if cost.Typed[typ] != n {
					t.Errorf("typed[%s]: expected %d, got %d", typ, n, cost.Typed[typ])
				}
			}
		})
	}
}

func TestCostCanPay(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		attached []cards.EnergyType
		canPay   bool
	}{
		{"empty cost pays with nothing", "", nil, true},
		{"typed exact", "{R}", []cards.EnergyType{cards.EnergyFire}, true},
		{"typed missing", "{R}", []cards.EnergyType{cards.EnergyWater}, false},
		{"no energy attached", "{C}", nil, false},
		{"colorless pays with any type", "{C}{C}", []cards.EnergyType{cards.EnergyGrass, cards.EnergyFire}, true},
		{
			"typed consumed before colorless",
			"{L}{L}{C}",
			[]cards.EnergyType{cards.EnergyLightning, cards.EnergyLightning, cards.EnergyColorless},
			true,
		},
		{
			"typed eats the only match leaving colorless unpaid",
			"{L}{C}",
			[]cards.EnergyType{cards.EnergyLightning},
			false,
		},
		{
			"surplus typed fills colorless",
			"{F}{C}",
			[]cards.EnergyType{cards.EnergyFighting, cards.EnergyFighting},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := ParseCost(tt.cost)
			if err != nil {
				t.Fatalf("unexpected parse error: %v", err)
			}
			if got := cost.CanPay(tt.attached); got != tt.canPay {
				t.Errorf("CanPay(%v) for %q: expected %v, got %v", tt.attached, tt.cost, tt.canPay, got)
			}
		})
	}
}

func TestCostTotalAndString(t *testing.T) {
	cost, err := ParseCost("{R}{R}{C}")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if cost.Total() != 3 {
		t.Errorf("expected total 3, got %d", cost.Total())
	}
	if cost.String() != "{R}{R}{C}" {
		t.Errorf("expected round-trip {R}{R}{C}, got %s", cost.String())
	}
}
