package identity

import "sync"

// Identity is an authenticated user's stable reference. A nil *Identity is
// the guest condition.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Observer publishes the current identity of a browsing session. Consumers
// subscribe to be told about login and logout; the cart store uses this to
// re-key its persistence slot.
type Observer struct {
	mu      sync.Mutex
	current *Identity
	subs    map[int]func(*Identity)
	nextSub int
}

func NewObserver() *Observer {
	return &Observer{subs: make(map[int]func(*Identity))}
}

// Current returns the identity as of the last Set, or nil for guest.
func (o *Observer) Current() *Identity {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Set replaces the current identity and notifies subscribers. Setting the
// identity the session already has is a no-op.
func (o *Observer) Set(id *Identity) {
	o.mu.Lock()
	if sameIdentity(o.current, id) {
		o.mu.Unlock()
		return
	}
	o.current = id
	subs := make([]func(*Identity), 0, len(o.subs))
	for _, fn := range o.subs {
		subs = append(subs, fn)
	}
	o.mu.Unlock()

	for _, fn := range subs {
		fn(id)
	}
}

// Subscribe registers fn and immediately invokes it with the current
// identity. The returned function removes the subscription.
func (o *Observer) Subscribe(fn func(*Identity)) func() {
	o.mu.Lock()
	key := o.nextSub
	o.nextSub++
	o.subs[key] = fn
	current := o.current
	o.mu.Unlock()

	fn(current)

	return func() {
		o.mu.Lock()
		delete(o.subs, key)
		o.mu.Unlock()
	}
}

func sameIdentity(a, b *Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
