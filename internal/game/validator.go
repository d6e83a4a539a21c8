package game

import (
	"fmt"
	"time"

	"github.com/pocketduel/duel-server-go/internal/cards"
	"github.com/pocketduel/duel-server-go/internal/game/energy"
	"github.com/pocketduel/duel-server-go/internal/game/rules"
)

// ApplyAction decides whether action is legal for actorID given state and, if
// so, computes the successor state. Pure: no I/O, and the same inputs always
// produce the same output (now stamps LastAction only, it never influences
// legality). The input state is never mutated; rejections return it untouched.
//
// Turn ownership and match status are the engine's responsibility and are
// checked before this runs. Surrender never reaches the validator.
func ApplyAction(state *GameState, catalog *cards.Catalog, actorID string, action Action, now time.Time) (*GameState, error) {
	if state.Finished() {
		return nil, ErrNotActive
	}
	if _, ok := state.Player(actorID); !ok {
		return nil, ErrNotParticipant
	}

	next := state.Clone()

	var detail string
	var err error
	switch action.Type {
	case ActionPlayBasic:
		detail, err = applyPlayBasic(next, catalog, actorID, action)
	case ActionAttachEnergy:
		detail, err = applyAttachEnergy(next, actorID, action)
	case ActionAttack:
		detail, err = applyAttack(next, catalog, actorID, action)
	case ActionRetreat:
		detail, err = applyRetreat(next, actorID, action)
	case ActionEndTurn:
		detail, err = applyEndTurn(next, actorID)
	default:
		return nil, illegalf("unsupported action type %q", action.Type)
	}
	if err != nil {
		return nil, err
	}

	next.LastAction = &LastAction{
		PlayerID:  actorID,
		Type:      action.Type,
		Details:   detail,
		Timestamp: now,
	}

	return next, nil
}

func applyPlayBasic(state *GameState, catalog *cards.Catalog, actorID string, action Action) (string, error) {
	if !rules.MainActionAllowedIn(state.Phase) {
		return "", illegalf("cards cannot be played during the %s phase", state.Phase)
	}

	actor := state.Players[actorID]

	handIdx := -1
	for i, card := range actor.Hand {
		if card.InstanceID == action.CardID {
			handIdx = i
			break
		}
	}
	if handIdx == -1 {
		return "", illegalf("card %s is not in your hand", action.CardID)
	}
	card := actor.Hand[handIdx]

	def, ok := catalog.Get(card.BaseID)
	if !ok {
		return "", illegalf("card %s has no catalog entry", card.BaseID)
	}
	if !def.IsBasic {
		return "", illegalf("%s is an evolution card and cannot be played directly", card.Name)
	}

	var zone string
	if actor.ActivePokemon == nil {
		actor.ActivePokemon = card
		zone = "active"
	} else {
		slot := -1
		if action.Slot >= 0 && action.Slot < BenchSize && actor.Bench[action.Slot] == nil {
			slot = action.Slot
		} else {
			slot = actor.lowestEmptyBenchSlot()
		}
		if slot == -1 {
			return "", illegalf("no empty bench slot for %s", card.Name)
		}
		actor.Bench[slot] = card
		zone = fmt.Sprintf("bench slot %d", slot)
	}

	actor.Hand = append(actor.Hand[:handIdx], actor.Hand[handIdx+1:]...)

	return fmt.Sprintf("played %s to %s", card.Name, zone), nil
}

func applyAttachEnergy(state *GameState, actorID string, action Action) (string, error) {
	if !rules.MainActionAllowedIn(state.Phase) {
		return "", illegalf("energy cannot be attached during the %s phase", state.Phase)
	}
	if state.Turn.EnergyAttached {
		return "", illegalf("energy already attached this turn")
	}

	actor := state.Players[actorID]

	available, ok := actor.CurrentEnergy()
	if !ok {
		return "", illegalf("no energy available yet")
	}
	requested := cards.EnergyType(action.CardID)
	if requested != available {
		return "", illegalf("energy zone offers %s this turn, not %s", available, requested)
	}

	target, ok := actor.FindControlled(action.TargetID)
	if !ok {
		return "", illegalf("target %s is not a card you control", action.TargetID)
	}

	target.EnergyAttached = append(target.EnergyAttached, available)
	state.Turn.EnergyAttached = true

	return fmt.Sprintf("attached %s energy to %s", available, target.Name), nil
}

func applyAttack(state *GameState, catalog *cards.Catalog, actorID string, action Action) (string, error) {
	if !rules.AttackAllowedIn(state.Phase) {
		return "", illegalf("attacks are not allowed during the %s phase", state.Phase)
	}
	if state.Turn.Attacked {
		return "", illegalf("already attacked this turn")
	}

	actor := state.Players[actorID]
	opponentID, _ := state.OpponentID(actorID)
	opponent := state.Players[opponentID]

	attacker := actor.ActivePokemon
	if attacker == nil {
		return "", illegalf("no active card to attack with")
	}
	if attacker.HasStatus(cards.StatusAsleep) {
		return "", illegalf("%s is asleep and cannot attack", attacker.Name)
	}
	if attacker.HasStatus(cards.StatusParalyzed) {
		return "", illegalf("%s is paralyzed and cannot attack", attacker.Name)
	}

	defender := opponent.ActivePokemon
	if defender == nil {
		return "", illegalf("opponent has no active card to attack")
	}

	attackerDef, ok := catalog.Get(attacker.BaseID)
	if !ok {
		return "", illegalf("card %s has no catalog entry", attacker.BaseID)
	}
	defenderDef, ok := catalog.Get(defender.BaseID)
	if !ok {
		return "", illegalf("card %s has no catalog entry", defender.BaseID)
	}
	if action.MoveIndex < 0 || action.MoveIndex >= len(attackerDef.Moves) {
		return "", illegalf("%s has no move %d", attacker.Name, action.MoveIndex)
	}
	move := attackerDef.Moves[action.MoveIndex]

	cost, err := energy.ParseCost(move.Cost)
	if err != nil {
		return "", fmt.Errorf("parse cost for %s %s: %w", attacker.Name, move.Name, err)
	}
	if !cost.CanPay(attacker.EnergyAttached) {
		return "", illegalf("insufficient energy for %s (needs %s)", move.Name, move.Cost)
	}

	// Attacking from main implicitly advances the phase.
	state.Phase = rules.PhaseAttack
	state.Turn.Attacked = true

	damage := rules.ComputeDamage(rules.DamageInput{
		BasePower:        move.Power,
		AttackerType:     attackerDef.Type,
		AttackerRarity:   attackerDef.Rarity,
		DefenderWeakness: defenderDef.Weakness,
		DefenderRarity:   defenderDef.Rarity,
	})

	event := &LastEvent{
		Kind:       EventCombatResolved,
		AttackerID: actorID,
		MoveName:   move.Name,
	}
	addRoleDamage(state, event, opponentID, damage)
	if move.SelfDamage > 0 {
		addRoleDamage(state, event, actorID, move.SelfDamage)
	}

	defender.CurrentHP -= damage
	if move.Inflicts != "" && defender.CurrentHP > 0 {
		defender.AddStatus(move.Inflicts)
	}
	if defender.CurrentHP <= 0 {
		event.KnockedOut = append(event.KnockedOut, defender.InstanceID)
		knockOutActive(state, opponentID)
	}

	// Recoil lands after the strike; a mutual knockout discards both cards in
	// the same transition.
	if move.SelfDamage > 0 && attacker.CurrentHP > 0 && !state.Finished() {
		attacker.CurrentHP -= move.SelfDamage
		if attacker.CurrentHP <= 0 {
			event.KnockedOut = append(event.KnockedOut, attacker.InstanceID)
			knockOutActive(state, actorID)
		}
	}

	state.LastEvent = event

	return fmt.Sprintf("%s used %s for %d damage", attacker.Name, move.Name, damage), nil
}

// addRoleDamage books damage against the fixed player-1/player-2 roles so the
// event reads the same from every perspective.
func addRoleDamage(state *GameState, event *LastEvent, ownerID string, damage int) {
	if ownerID == state.PlayerOrder[0] {
		event.DamageP1 += damage
	} else {
		event.DamageP2 += damage
	}
}

// knockOutActive moves a player's dead active card to their discard pile,
// charges a prize, promotes the lowest-index bench card, and runs the
// terminal checks. Part of the same transition that dealt the damage; a card
// is never left in play at zero HP.
func knockOutActive(state *GameState, ownerID string) {
	owner := state.Players[ownerID]
	opponentID, _ := state.OpponentID(ownerID)

	dead := owner.ActivePokemon
	owner.ActivePokemon = nil
	dead.CurrentHP = 0
	dead.EnergyAttached = nil
	dead.StatusConditions = nil
	owner.DiscardPile = append(owner.DiscardPile, dead)

	if owner.PrizeCards > 0 {
		owner.PrizeCards--
	}
	if owner.PrizeCards == 0 {
		declareWinner(state, opponentID)
		return
	}

	if slot := firstOccupiedBenchSlot(owner); slot >= 0 {
		owner.ActivePokemon = owner.Bench[slot]
		owner.Bench[slot] = nil
		return
	}

	// Nothing to promote: the board is empty.
	declareWinner(state, opponentID)
}

func firstOccupiedBenchSlot(p *PlayerState) int {
	for i, card := range p.Bench {
		if card != nil {
			return i
		}
	}
	return -1
}

func declareWinner(state *GameState, winnerID string) {
	if state.WinnerID == "" {
		state.WinnerID = winnerID
	}
}

func applyRetreat(state *GameState, actorID string, action Action) (string, error) {
	if !rules.MainActionAllowedIn(state.Phase) {
		return "", illegalf("retreating is not allowed during the %s phase", state.Phase)
	}
	if state.Turn.Retreated {
		return "", illegalf("already retreated this turn")
	}

	actor := state.Players[actorID]
	active := actor.ActivePokemon
	if active == nil {
		return "", illegalf("no active card to retreat")
	}
	if active.HasStatus(cards.StatusAsleep) {
		return "", illegalf("%s is asleep and cannot retreat", active.Name)
	}
	if active.HasStatus(cards.StatusParalyzed) {
		return "", illegalf("%s is paralyzed and cannot retreat", active.Name)
	}

	slot := -1
	for i, card := range actor.Bench {
		if card != nil && card.InstanceID == action.NewActiveID {
			slot = i
			break
		}
	}
	if slot == -1 {
		return "", illegalf("card %s is not on your bench", action.NewActiveID)
	}

	incoming := actor.Bench[slot]
	actor.Bench[slot] = active
	actor.ActivePokemon = incoming
	state.Turn.Retreated = true

	return fmt.Sprintf("retreated %s for %s", active.Name, incoming.Name), nil
}

// applyEndTurn closes out the actor's turn and starts the opponent's:
// end-of-turn status resolution, flag reset, turn increment, player flip,
// automatic draw, and energy zone rotation. The successor state lands in the
// main phase because the draw phase is consumed mechanically at turn start.
func applyEndTurn(state *GameState, actorID string) (string, error) {
	actor := state.Players[actorID]
	opponentID, _ := state.OpponentID(actorID)
	opponent := state.Players[opponentID]

	// End-of-turn status resolution for the outgoing player's active card.
	if active := actor.ActivePokemon; active != nil {
		if active.HasStatus(cards.StatusPoisoned) {
			active.CurrentHP -= PoisonDamage
			if active.CurrentHP <= 0 {
				knockOutActive(state, actorID)
			}
		}
	}
	if active := actor.ActivePokemon; active != nil {
		active.RemoveStatus(cards.StatusAsleep)
		active.RemoveStatus(cards.StatusParalyzed)
	}
	if state.Finished() {
		return "turn ended", nil
	}

	state.Turn = TurnFlags{}
	state.TurnNumber++
	state.CurrentPlayerID = opponentID
	state.Phase = rules.PhaseDraw

	// Turn-start draw. Deck-out is a terminal condition for the drawing player.
	if len(opponent.Deck) == 0 {
		declareWinner(state, actorID)
		return "turn ended; opponent decked out", nil
	}
	drawn := opponent.Deck[0]
	opponent.Deck = opponent.Deck[1:]
	opponent.DeckCount = len(opponent.Deck)
	opponent.Hand = append(opponent.Hand, drawn)

	opponent.EnergyRotation++
	state.Phase = rules.PhaseMain

	return "turn ended", nil
}
