package rules

import "fmt"

// Phase represents the phases of a turn. Progression is linear within a turn
// and resets at turn start.
type Phase string

const (
	PhaseDraw   Phase = "draw"
	PhaseMain   Phase = "main"
	PhaseAttack Phase = "attack"
	PhaseEnd    Phase = "end"
)

var phaseOrder = []Phase{PhaseDraw, PhaseMain, PhaseAttack, PhaseEnd}

// Valid reports whether p is one of the four turn phases.
func (p Phase) Valid() bool {
	for _, phase := range phaseOrder {
		if p == phase {
			return true
		}
	}
	return false
}

// Index returns the position of the phase within the turn, or an error for an
// unknown phase value (e.g. a corrupted stored blob).
func (p Phase) Index() (int, error) {
	for i, phase := range phaseOrder {
		if p == phase {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", p)
}

// Before reports whether p comes strictly before other in the turn order.
// Unknown phases compare as not-before.
func (p Phase) Before(other Phase) bool {
	pi, err := p.Index()
	if err != nil {
		return false
	}
	oi, err := other.Index()
	if err != nil {
		return false
	}
	return pi < oi
}

// AttackAllowedIn reports whether an attack may be declared in the given
// phase. Attacking from main is legal and implicitly advances the turn to the
// attack phase; attacking again in the attack phase is rejected elsewhere via
// the attacked-this-turn flag, and attacking from end is never legal.
func AttackAllowedIn(p Phase) bool {
	return p == PhaseMain || p == PhaseAttack
}

// MainActionAllowedIn reports whether bench plays, energy attachment and
// retreats may happen in the given phase. These are main-phase actions; the
// draw phase is consumed automatically at turn start, so by the time a player
// acts the state is already in main.
func MainActionAllowedIn(p Phase) bool {
	return p == PhaseMain
}
