package game

import "fmt"

// ActionType discriminates the battle action union.
type ActionType string

const (
	ActionPlayBasic    ActionType = "play_basic"
	ActionAttachEnergy ActionType = "attach_energy"
	ActionAttack       ActionType = "attack"
	ActionRetreat      ActionType = "retreat"
	ActionEndTurn      ActionType = "end_turn"
	// ActionSurrender bypasses turn ownership: a player may concede on the
	// opponent's turn.
	ActionSurrender ActionType = "surrender"
)

// Action is a player-submitted battle action. Type selects which payload
// fields are meaningful; the rest are ignored.
type Action struct {
	Type ActionType `json:"type"`

	// play_basic
	CardID string `json:"cardId,omitempty"`
	Slot   int    `json:"slot,omitempty"`

	// attach_energy: CardID carries the energy type tag offered by the
	// player's energy zone, TargetID the receiving card instance.
	TargetID string `json:"targetId,omitempty"`

	// attack
	MoveIndex int `json:"moveIndex,omitempty"`

	// retreat
	NewActiveID string `json:"newActiveId,omitempty"`
}

// CheckShape rejects structurally malformed actions before any state is
// loaded. Rule legality is the validator's job.
func (a Action) CheckShape() error {
	switch a.Type {
	case ActionPlayBasic:
		if a.CardID == "" {
			return fmt.Errorf("play_basic requires cardId")
		}
	case ActionAttachEnergy:
		if a.CardID == "" || a.TargetID == "" {
			return fmt.Errorf("attach_energy requires cardId and targetId")
		}
	case ActionAttack:
		if a.MoveIndex < 0 {
			return fmt.Errorf("attack requires a non-negative moveIndex")
		}
	case ActionRetreat:
		if a.NewActiveID == "" {
			return fmt.Errorf("retreat requires newActiveId")
		}
	case ActionEndTurn, ActionSurrender:
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	return nil
}
