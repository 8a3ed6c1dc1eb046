package filter

import (
	"sort"
	"sync"

	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/log"
)

var logger = log.ForService("filters")

// Registry is the catalog of filter instances for one composition root.
// It is populated during startup and read-only afterwards; the lock exists
// so tests and future hot paths stay safe, not because requests mutate it.
type Registry struct {
	mu       sync.RWMutex
	filters  map[string]Filter
	order    map[string]int
	nextSeq  int
	notifier *core.Notifier
}

// NewRegistry returns an empty registry. A nil notifier disables lifecycle
// events.
func NewRegistry(notifier *core.Notifier) *Registry {
	return &Registry{
		filters:  make(map[string]Filter),
		order:    make(map[string]int),
		notifier: notifier,
	}
}

// Register stores the filter under its name. Empty and duplicate names are
// rejected with a warning; the previously registered filter (if any) stays
// retrievable unchanged. Successful registration emits the filter-registered
// event.
func (r *Registry) Register(f Filter) bool {
	if f == nil || f.Name() == "" {
		logger.Warnf("rejecting filter registration: empty name")
		return false
	}

	r.mu.Lock()
	if _, exists := r.filters[f.Name()]; exists {
		r.mu.Unlock()
		logger.Warnf("rejecting filter registration: %q already registered", f.Name())
		return false
	}
	r.filters[f.Name()] = f
	r.order[f.Name()] = r.nextSeq
	r.nextSeq++
	r.mu.Unlock()

	if r.notifier != nil {
		r.notifier.Notify(core.EventFilterRegistered, f.Name())
	}
	return true
}

// Unregister removes the filter. Unknown names fail with a warning.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.filters[name]; !exists {
		logger.Warnf("cannot unregister %q: not registered", name)
		return false
	}
	delete(r.filters, name)
	delete(r.order, name)
	return true
}

// Get returns the filter or nil.
func (r *Registry) Get(name string) Filter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filters[name]
}

// Has reports whether a filter is registered under the name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.filters[name]
	return ok
}

// ListOptions narrows and orders a List call. EnabledOnly keeps definitions
// whose own enabled flag is set; this is independent of whether the current
// request activates them.
type ListOptions struct {
	Type        Type
	Source      string
	EnabledOnly bool
}

// List returns filters ordered by ascending priority, ties broken by
// registration order. The sort is stable so the tie-break is deterministic.
func (r *Registry) List(opts ListOptions) []Filter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Filter, 0, len(r.filters))
	for _, f := range r.filters {
		if opts.Type != "" && f.Type() != opts.Type {
			continue
		}
		if opts.Source != "" && f.Source() != opts.Source {
			continue
		}
		if opts.EnabledOnly && !f.Enabled() {
			continue
		}
		result = append(result, f)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Priority() != result[j].Priority() {
			return result[i].Priority() < result[j].Priority()
		}
		return r.order[result[i].Name()] < r.order[result[j].Name()]
	})
	return result
}

// Active pairs a filter with its sanitized request value for the duration of
// one resolution.
type Active struct {
	Filter Filter
	Value  Value
}

// ActiveSet is the ordered set of active filters for one request, in the
// same order List returns them.
type ActiveSet []Active

// Get returns the active entry for name, if present.
func (s ActiveSet) Get(name string) (Active, bool) {
	for _, a := range s {
		if a.Filter.Name() == name {
			return a, true
		}
	}
	return Active{}, false
}

// ResolveActive reads each enabled filter's parameters from the request,
// sanitizes them, and keeps the filter only if its activity predicate holds.
func (r *Registry) ResolveActive(req core.SearchRequest) ActiveSet {
	var active ActiveSet
	for _, f := range r.List(ListOptions{EnabledOnly: true}) {
		value := f.Sanitize(f.ReadValue(req))
		if f.IsActive(value) {
			active = append(active, Active{Filter: f, Value: value})
		}
	}
	return active
}
