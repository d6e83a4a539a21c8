package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/pocketduel/duel-server-go/internal/cards"
	"github.com/pocketduel/duel-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// submitRetries bounds the optimistic-write retry loop before the conflict is
// surfaced to the caller.
const submitRetries = 3

// Engine orchestrates action submissions end-to-end: load, authenticate turn
// ownership, validate, persist, audit, publish. It holds no per-match state;
// all isolation comes from the store's compare-and-swap.
type Engine struct {
	store   MatchStore
	audit   AuditStore
	catalog *cards.Catalog
	pub     Publisher
	logger  *zap.Logger

	now     func() time.Time
	shuffle func(n int, swap func(i, j int))
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithShuffle overrides deck shuffling, for deterministic tests.
func WithShuffle(shuffle func(n int, swap func(i, j int))) Option {
	return func(e *Engine) { e.shuffle = shuffle }
}

// NewEngine creates a match engine over the given store, audit log, catalog
// and publisher. pub may be nil when no observers need notifications.
func NewEngine(store MatchStore, audit AuditStore, catalog *cards.Catalog, pub Publisher, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		audit:   audit,
		catalog: catalog,
		pub:     pub,
		logger:  logger,
		now:     time.Now,
		shuffle: rand.Shuffle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SubmitAction runs one action submission. actorID is the verified caller
// identity, never taken from the payload. On success the new state is
// returned and the persisted row is fanned out to subscribers.
//
// The load-validate-write sequence is isolated by an optimistic
// compare-and-swap on the row version: a lost race re-reads fresh state and
// re-validates, so two near-simultaneous submissions serialize instead of
// silently dropping one.
func (e *Engine) SubmitAction(ctx context.Context, matchID, actorID string, action Action) (*GameState, error) {
	if err := action.CheckShape(); err != nil {
		return nil, &IllegalActionError{Reason: err.Error()}
	}
	if action.Type == ActionSurrender {
		return e.Surrender(ctx, matchID, actorID)
	}

	var lastErr error
	for attempt := 0; attempt < submitRetries; attempt++ {
		row, err := e.store.GetMatch(ctx, matchID)
		if err != nil {
			return nil, err
		}
		if row.Status != MatchActive {
			return nil, ErrNotActive
		}
		if row.State == nil {
			return nil, fmt.Errorf("active match %s has no game state", matchID)
		}
		if !row.State.IsParticipant(actorID) {
			return nil, ErrNotParticipant
		}
		if row.State.CurrentPlayerID != actorID {
			return nil, ErrWrongTurn
		}

		next, err := ApplyAction(row.State, e.catalog, actorID, action, e.now())
		if err != nil {
			return nil, err
		}

		status := row.Status
		if next.Finished() {
			status = MatchFinished
		}

		persisted, err := e.store.UpdateMatch(ctx, matchID, next, status, row.Version)
		if errors.Is(err, ErrVersionConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			// A failed write must not be mistaken for persisted truth.
			return nil, fmt.Errorf("persist match %s: %w", matchID, err)
		}

		e.appendAudit(ctx, matchID, actorID, action)
		e.publish(persisted)

		e.logger.Info("action applied",
			zap.String("match_id", matchID),
			zap.String("player_id", actorID),
			zap.String("action", string(action.Type)),
			zap.Int("turn", next.TurnNumber),
			zap.String("phase", string(next.Phase)),
			zap.String("winner_id", next.WinnerID),
		)

		return persisted.State, nil
	}

	e.logger.Warn("submission lost the write race",
		zap.String("match_id", matchID),
		zap.String("player_id", actorID),
		zap.Error(lastErr),
	)
	return nil, ErrConcurrencyConflict
}

// Surrender unconditionally hands the win to the opponent. It bypasses turn
// ownership: a player may concede on the opponent's turn.
func (e *Engine) Surrender(ctx context.Context, matchID, actorID string) (*GameState, error) {
	var lastErr error
	for attempt := 0; attempt < submitRetries; attempt++ {
		row, err := e.store.GetMatch(ctx, matchID)
		if err != nil {
			return nil, err
		}
		if row.Status != MatchActive || row.State == nil {
			return nil, ErrNotActive
		}
		opponentID, ok := row.State.OpponentID(actorID)
		if !ok {
			return nil, ErrNotParticipant
		}

		next := row.State.Clone()
		next.WinnerID = opponentID
		next.LastAction = &LastAction{
			PlayerID:  actorID,
			Type:      ActionSurrender,
			Details:   "surrendered",
			Timestamp: e.now(),
		}

		persisted, err := e.store.UpdateMatch(ctx, matchID, next, MatchFinished, row.Version)
		if errors.Is(err, ErrVersionConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("persist match %s: %w", matchID, err)
		}

		e.appendAudit(ctx, matchID, actorID, Action{Type: ActionSurrender})
		e.publish(persisted)

		e.logger.Info("player surrendered",
			zap.String("match_id", matchID),
			zap.String("player_id", actorID),
			zap.String("winner_id", opponentID),
		)

		return persisted.State, nil
	}
	_ = lastErr
	return nil, ErrConcurrencyConflict
}

// CreateMatch opens a room in the waiting state. The creator becomes player 1
// and acts first once the match starts. deckBaseIDs is the creator's deck
// list; it is validated against the catalog but not dealt until the second
// player joins.
func (e *Engine) CreateMatch(ctx context.Context, playerID, username string, deckBaseIDs []string) (*MatchRow, error) {
	if err := e.checkDeck(deckBaseIDs); err != nil {
		return nil, err
	}

	row := &MatchRow{
		ID:        uuid.NewString(),
		Status:    MatchWaiting,
		Player1ID: playerID,
		UpdatedAt: e.now(),
		State: &GameState{
			SchemaVersion: SchemaVersion,
			PlayerOrder:   [2]string{playerID},
			Players: map[string]*PlayerState{
				playerID: e.newPlayerState(playerID, username, deckBaseIDs),
			},
		},
	}
	row.State.MatchID = row.ID

	if err := e.store.CreateMatch(ctx, row); err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}

	e.logger.Info("match created",
		zap.String("match_id", row.ID),
		zap.String("player_id", playerID),
	)

	return row.Clone(), nil
}

// JoinMatch seats the second player and activates the match: decks are
// shuffled, opening hands dealt, and player 1 starts in the main phase with
// the first energy rotation. Player 1 takes no turn-start draw.
func (e *Engine) JoinMatch(ctx context.Context, matchID, playerID, username string, deckBaseIDs []string) (*MatchRow, error) {
	if err := e.checkDeck(deckBaseIDs); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < submitRetries; attempt++ {
		row, err := e.store.GetMatch(ctx, matchID)
		if err != nil {
			return nil, err
		}
		if row.Status != MatchWaiting {
			return nil, ErrNotActive
		}
		if row.Player1ID == playerID {
			return nil, &IllegalActionError{Reason: "cannot join your own match"}
		}

		state := row.State.Clone()
		state.Players[playerID] = e.newPlayerState(playerID, username, deckBaseIDs)
		state.PlayerOrder[1] = playerID

		for _, p := range state.Players {
			e.dealOpeningHand(p)
		}

		state.TurnNumber = 1
		state.CurrentPlayerID = row.Player1ID
		state.Phase = rules.PhaseMain
		state.Players[row.Player1ID].EnergyRotation = 1

		row.Player2ID = playerID
		persisted, err := e.store.UpdateMatch(ctx, matchID, state, MatchActive, row.Version)
		if errors.Is(err, ErrVersionConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("persist match %s: %w", matchID, err)
		}

		e.publish(persisted)

		e.logger.Info("match activated",
			zap.String("match_id", matchID),
			zap.String("player1_id", row.Player1ID),
			zap.String("player2_id", playerID),
		)

		return persisted.Clone(), nil
	}
	_ = lastErr
	return nil, ErrConcurrencyConflict
}

// GetMatch returns the stored row for read access. Callers must mask the
// per-player view before exposing it to a client.
func (e *Engine) GetMatch(ctx context.Context, matchID string) (*MatchRow, error) {
	return e.store.GetMatch(ctx, matchID)
}

// ListOpenMatches returns rooms waiting for an opponent.
func (e *Engine) ListOpenMatches(ctx context.Context) ([]*MatchRow, error) {
	return e.store.ListOpenMatches(ctx)
}

// MatchLog returns the append-only action log for a match.
func (e *Engine) MatchLog(ctx context.Context, matchID string) ([]*AuditEntry, error) {
	return e.audit.ListAudit(ctx, matchID)
}

func (e *Engine) checkDeck(deckBaseIDs []string) error {
	if len(deckBaseIDs) == 0 {
		return &IllegalActionError{Reason: "deck is empty"}
	}
	for _, baseID := range deckBaseIDs {
		if _, ok := e.catalog.Get(baseID); !ok {
			return &IllegalActionError{Reason: fmt.Sprintf("unknown card %s in deck", baseID)}
		}
	}
	return nil
}

func (e *Engine) newPlayerState(playerID, username string, deckBaseIDs []string) *PlayerState {
	deck := make([]*BattleCard, len(deckBaseIDs))
	for i, baseID := range deckBaseIDs {
		def, _ := e.catalog.Get(baseID)
		deck[i] = &BattleCard{
			InstanceID: uuid.NewString(),
			BaseID:     def.ID,
			Name:       def.Name,
			MaxHP:      def.HP,
			CurrentHP:  def.HP,
		}
	}

	return &PlayerState{
		ID:          playerID,
		Username:    username,
		Bench:       make([]*BattleCard, BenchSize),
		Hand:        []*BattleCard{},
		DiscardPile: []*BattleCard{},
		Deck:        deck,
		DeckCount:   len(deck),
		PrizeCards:  InitialPrizeCount,
		EnergyTypes: deckEnergyTypes(e.catalog, deck),
	}
}

func (e *Engine) dealOpeningHand(p *PlayerState) {
	e.shuffle(len(p.Deck), func(i, j int) {
		p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
	})
	n := InitialHandSize
	if n > len(p.Deck) {
		n = len(p.Deck)
	}
	p.Hand = append(p.Hand, p.Deck[:n]...)
	p.Deck = p.Deck[n:]
	p.DeckCount = len(p.Deck)
}

func (e *Engine) appendAudit(ctx context.Context, matchID, actorID string, action Action) {
	if e.audit == nil {
		return
	}
	entry := &AuditEntry{
		ID:        uuid.NewString(),
		MatchID:   matchID,
		PlayerID:  actorID,
		Action:    action,
		Timestamp: e.now(),
	}
	// The state write is already the point of truth; a failed audit append is
	// logged, not propagated.
	if err := e.audit.AppendAudit(ctx, entry); err != nil {
		e.logger.Error("failed to append audit entry",
			zap.String("match_id", matchID),
			zap.String("player_id", actorID),
			zap.Error(err),
		)
	}
}

func (e *Engine) publish(row *MatchRow) {
	if e.pub == nil || row == nil {
		return
	}
	e.pub.Publish(row.Clone())
}
