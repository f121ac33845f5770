package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/cart"
	"storefront/internal/identity"
)

// Idle sessions are dropped after the session cookie itself would have
// expired; the sweep runs lazily from Get so no background worker is needed.
const (
	sessionTTL    = 30 * 24 * time.Hour
	sweepInterval = time.Hour
)

// Session is one browsing session's slice of state: who is logged in, the
// active cart, and at most one in-flight checkout. Two sessions for the same
// identity keep independent carts; the persistence slot is last-write-wins
// between them.
type Session struct {
	ID       string
	Identity *identity.Observer
	Cart     *cart.Store
	Checkout *cart.Orchestrator
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Registry hands out sessions keyed by opaque tokens. Sessions idle longer
// than the TTL are evicted, so cookie-less clients cannot grow the map
// without bound.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string]*entry
	nextSweep time.Time

	ttl time.Duration
	now func() time.Time

	slot    cart.Slot
	orders  cart.OrderStore
	pricing cart.Pricing
}

func NewRegistry(slot cart.Slot, orders cart.OrderStore, pricing cart.Pricing) *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		ttl:      sessionTTL,
		now:      time.Now,
		slot:     slot,
		orders:   orders,
		pricing:  pricing,
	}
}

// Get returns the session for token, creating a fresh guest session when the
// token is empty or unknown. Every hit refreshes the session's idle timer.
func (r *Registry) Get(token string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	if token != "" {
		if e, ok := r.sessions[token]; ok {
			e.lastSeen = now
			return e.session
		}
	}

	s := r.newSession()
	r.sessions[s.ID] = &entry{session: s, lastSeen: now}
	return s
}

// Len reports how many sessions are currently retained.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) sweepLocked(now time.Time) {
	if now.Before(r.nextSweep) {
		return
	}
	r.nextSweep = now.Add(sweepInterval)

	for token, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.ttl {
			delete(r.sessions, token)
		}
	}
}

func (r *Registry) newSession() *Session {
	obs := identity.NewObserver()
	store := cart.NewStore(context.Background(), r.slot)
	store.Bind(obs)

	return &Session{
		ID:       uuid.NewString(),
		Identity: obs,
		Cart:     store,
		Checkout: cart.NewOrchestrator(store, obs, r.orders, r.pricing),
	}
}
