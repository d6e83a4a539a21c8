package energy

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pocketduel/duel-server-go/internal/cards"
)

// Cost represents a parsed attack cost: typed requirements plus a number of
// slots any energy may fill.
type Cost struct {
	Typed     map[cards.EnergyType]int
	Colorless int
}

var symbolTypes = map[string]cards.EnergyType{
	"G": cards.EnergyGrass,
	"R": cards.EnergyFire,
	"W": cards.EnergyWater,
	"L": cards.EnergyLightning,
	"P": cards.EnergyPsychic,
	"F": cards.EnergyFighting,
	"D": cards.EnergyDarkness,
	"M": cards.EnergyMetal,
}

var costPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ParseCost parses a cost string (e.g. "{R}{R}{C}", "{F}", "").
// Supports:
// - Typed: {G}, {R}, {W}, {L}, {P}, {F}, {D}, {M}
// - Colorless: {C}, payable with any energy type
func ParseCost(costStr string) (*Cost, error) {
	cost := &Cost{Typed: make(map[cards.EnergyType]int)}
	if costStr == "" {
		return cost, nil
	}

	matches := costPattern.FindAllStringSubmatch(costStr, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("malformed energy cost %q", costStr)
	}

	for _, match := range matches {
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))
		if symbol == "C" {
			cost.Colorless++
			continue
		}
		typ, ok := symbolTypes[symbol]
		if !ok {
			return nil, fmt.Errorf("unknown energy symbol {%s}", symbol)
		}
		cost.Typed[typ]++
	}

	return cost, nil
}

// Total returns the total number of energy required.
func (c *Cost) Total() int {
	total := c.Colorless
	for _, n := range c.Typed {
		total += n
	}
	return total
}

// CanPay reports whether the attached energy multiset covers the cost. Typed
// requirements consume matching energy first; whatever remains fills the
// colorless slots.
func (c *Cost) CanPay(attached []cards.EnergyType) bool {
	counts := make(map[cards.EnergyType]int, len(attached))
	for _, typ := range attached {
		counts[typ]++
	}

	remaining := 0
	for typ, need := range c.Typed {
		if counts[typ] < need {
			return false
		}
		counts[typ] -= need
	}
	for _, n := range counts {
		remaining += n
	}

	return remaining >= c.Colorless
}

// String renders the cost back in symbol form, typed symbols in a stable
// order followed by colorless slots.
func (c *Cost) String() string {
	types := make([]string, 0, len(c.Typed))
	for typ := range c.Typed {
		types = append(types, string(typ))
	}
	sort.Strings(types)

	var sb strings.Builder
	for _, typ := range types {
		symbol := typeSymbol(cards.EnergyType(typ))
		for i := 0; i < c.Typed[cards.EnergyType(typ)]; i++ {
			sb.WriteString("{" + symbol + "}")
		}
	}
	for i := 0; i < c.Colorless; i++ {
		sb.WriteString("{C}")
	}
	return sb.String()
}

func typeSymbol(typ cards.EnergyType) string {
	for symbol, t := range symbolTypes {
		if t == typ {
			return symbol
		}
	}
	return "C"
}
