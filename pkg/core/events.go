package core

import "sync"

// Event names fired at fixed lifecycle points of a search resolution.
const (
	EventFilterRegistered = "filter-registered"
	EventBeforeQuery      = "before-query"
	EventAfterQuery       = "after-query"
	EventBeforeRender     = "before-render"
	EventAfterRender      = "after-render"
)

// Subscriber receives a lifecycle event and its payload. Payload types:
// filter-registered carries the filter name; before/after-query carry the
// query builder; before/after-render carry the request.
type Subscriber func(event string, payload any)

// Notifier is an ordered list of subscribers invoked synchronously at each
// lifecycle point, in subscription order. It replaces a global named-event
// dispatcher: each composition root owns its own Notifier instance.
type Notifier struct {
	mu   sync.RWMutex
	subs []Subscriber
}

// NewNotifier returns an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe appends a subscriber. Nil subscribers are ignored.
func (n *Notifier) Subscribe(sub Subscriber) {
	if sub == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, sub)
}

// Notify invokes every subscriber in order with the event and payload.
func (n *Notifier) Notify(event string, payload any) {
	n.mu.RLock()
	subs := append([]Subscriber(nil), n.subs...)
	n.mu.RUnlock()
	for _, sub := range subs {
		sub(event, payload)
	}
}
