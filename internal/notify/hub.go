package notify

import (
	"sync"

	"github.com/pocketduel/duel-server-go/internal/game"
	"go.uber.org/zap"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls this far behind is dropped rather than allowed to block the
// publishing path.
const subscriberBuffer = 16

// Hub fans persisted match rows out to per-match subscribers. The engine
// publishes after every successful write; transports (websocket, polling)
// subscribe and forward full snapshots, so consumers re-derive everything
// from each update.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{} // matchID -> subscriptions
	logger *zap.Logger
}

// Subscription is one observer's feed of row updates for a single match.
type Subscription struct {
	matchID string
	ch      chan *game.MatchRow
	hub     *Hub
	once    sync.Once
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		logger: logger,
	}
}

var _ game.Publisher = (*Hub)(nil)

// Subscribe registers an observer for one match's updates. The caller must
// Cancel the subscription when done.
func (h *Hub) Subscribe(matchID string) *Subscription {
	sub := &Subscription{
		matchID: matchID,
		ch:      make(chan *game.MatchRow, subscriberBuffer),
		hub:     h,
	}

	h.mu.Lock()
	if h.subs[matchID] == nil {
		h.subs[matchID] = make(map[*Subscription]struct{})
	}
	h.subs[matchID][sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

// Publish delivers a row snapshot to every subscriber of its match. Slow
// subscribers are dropped; they can resubscribe and re-read current state.
func (h *Hub) Publish(row *game.MatchRow) {
	h.mu.RLock()
	var stale []*Subscription
	for sub := range h.subs[row.ID] {
		select {
		case sub.ch <- row.Clone():
		default:
			stale = append(stale, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range stale {
		h.logger.Warn("dropping slow subscriber", zap.String("match_id", row.ID))
		sub.Cancel()
	}
}

// SubscriberCount returns the number of observers for a match.
func (h *Hub) SubscriberCount(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[matchID])
}

// Updates is the subscriber's receive channel. It is closed on Cancel.
func (s *Subscription) Updates() <-chan *game.MatchRow {
	return s.ch
}

// Cancel removes the subscription and closes its channel. Safe to call more
// than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		if subs, ok := s.hub.subs[s.matchID]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(s.hub.subs, s.matchID)
			}
		}
		s.hub.mu.Unlock()
		close(s.ch)
	})
}
