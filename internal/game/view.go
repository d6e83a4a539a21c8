package game

import (
	"time"

	"github.com/pocketduel/duel-server-go/internal/cards"
	"github.com/pocketduel/duel-server-go/internal/game/rules"
)

// MatchView is the per-player projection of a match row. Hidden information
// never crosses this boundary: the viewer sees their own hand, only counts
// for the opponent's hand, and counts for both decks.
type MatchView struct {
	MatchID   string      `json:"matchId"`
	Status    MatchStatus `json:"status"`
	Player1ID string      `json:"player1_id"`
	Player2ID string      `json:"player2_id,omitempty"`
	Version   int64       `json:"version"`
	UpdatedAt time.Time   `json:"updated_at"`
	State     *StateView  `json:"game_state,omitempty"`
}

// StateView mirrors GameState minus private zones.
type StateView struct {
	SchemaVersion   int                    `json:"schemaVersion"`
	TurnNumber      int                    `json:"turnNumber"`
	CurrentPlayerID string                 `json:"currentPlayerId"`
	Phase           rules.Phase            `json:"phase"`
	PlayerOrder     [2]string              `json:"playerOrder"`
	Players         map[string]*PlayerView `json:"players"`
	Turn            TurnFlags              `json:"turn"`
	LastAction      *LastAction            `json:"lastAction"`
	LastEvent       *LastEvent             `json:"lastEvent"`
	WinnerID        string                 `json:"winnerId,omitempty"`
}

// PlayerView is a PlayerState with the deck always reduced to a count and the
// hand reduced to a count unless the viewer owns it.
type PlayerView struct {
	ID            string             `json:"id"`
	Username      string             `json:"username"`
	ActivePokemon *BattleCard        `json:"activePokemon"`
	Bench         []*BattleCard      `json:"bench"`
	Hand          []*BattleCard      `json:"hand,omitempty"`
	HandCount     int                `json:"handCount"`
	DiscardPile   []*BattleCard      `json:"discardPile"`
	DeckCount     int                `json:"deckCount"`
	PrizeCards    int                `json:"prizeCards"`
	EnergyTypes   []cards.EnergyType `json:"energyTypes"`
	CurrentEnergy cards.EnergyType   `json:"currentEnergy,omitempty"`
}

// ViewForPlayer projects a match row for one viewer. A non-participant (or
// spectator) gets both hands masked.
func ViewForPlayer(row *MatchRow, viewerID string) *MatchView {
	view := &MatchView{
		MatchID:   row.ID,
		Status:    row.Status,
		Player1ID: row.Player1ID,
		Player2ID: row.Player2ID,
		Version:   row.Version,
		UpdatedAt: row.UpdatedAt,
	}
	if row.State == nil {
		return view
	}

	state := row.State
	sv := &StateView{
		SchemaVersion:   state.SchemaVersion,
		TurnNumber:      state.TurnNumber,
		CurrentPlayerID: state.CurrentPlayerID,
		Phase:           state.Phase,
		PlayerOrder:     state.PlayerOrder,
		Players:         make(map[string]*PlayerView, len(state.Players)),
		Turn:            state.Turn,
		WinnerID:        state.WinnerID,
	}
	if state.LastAction != nil {
		la := *state.LastAction
		sv.LastAction = &la
	}
	if state.LastEvent != nil {
		le := *state.LastEvent
		sv.LastEvent = &le
	}

	for id, p := range state.Players {
		pv := &PlayerView{
			ID:            p.ID,
			Username:      p.Username,
			ActivePokemon: p.ActivePokemon.clone(),
			Bench:         cloneCards(p.Bench),
			HandCount:     len(p.Hand),
			DiscardPile:   cloneCards(p.DiscardPile),
			DeckCount:     p.DeckCount,
			PrizeCards:    p.PrizeCards,
			EnergyTypes:   append([]cards.EnergyType(nil), p.EnergyTypes...),
		}
		if id == viewerID {
			pv.Hand = cloneCards(p.Hand)
			if current, ok := p.CurrentEnergy(); ok {
				pv.CurrentEnergy = current
			}
		}
		sv.Players[id] = pv
	}

	view.State = sv
	return view
}
