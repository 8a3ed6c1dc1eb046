// Package search turns an incoming request into a fully resolved listing
// query: it resolves active filters against the registry, applies their
// mutations, resolves sort, and applies keyword search including the
// attribute-store allowlist. It consolidates all query mutation into one
// place so the primary archive query and embedded widget queries share the
// exact same logic.
package search

import (
	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/filter"
	"github.com/jmontes/listry/pkg/query"
)

// KeywordParam is the free-text search parameter name. A filter registered
// under this name (of the keyword kind) controls activity and sanitization
// of the term.
const KeywordParam = "keyword"

// Orchestrator applies request-derived mutations to a target query.
// It is read-only over the registry and field set; each call derives
// everything from the passed request.
type Orchestrator struct {
	registry  *filter.Registry
	fields    []core.FieldDef
	extraKeys []string
	notifier  *core.Notifier
}

// NewOrchestrator wires the orchestrator to its collaborators. fields is the
// registered content-field subset used to compute the keyword allowlist;
// notifier may be nil.
func NewOrchestrator(registry *filter.Registry, fields []core.FieldDef, notifier *core.Notifier) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		fields:   append([]core.FieldDef(nil), fields...),
		notifier: notifier,
	}
}

// AddSearchMetaKeys merges extension-supplied attribute-store keys into the
// keyword-search allowlist. They pass through the same sanitization as
// registry-declared fields; there is deliberately no separate trust level.
func (o *Orchestrator) AddSearchMetaKeys(keys ...string) {
	for _, key := range keys {
		if clean := core.MetaKey(key); clean != "" {
			o.extraKeys = append(o.extraKeys, clean)
		}
	}
}

// SearchableKeys computes the allowlist of attribute-store keys eligible for
// keyword matching: every searchable registered field plus any extension
// keys, deduplicated, all derived through core.MetaKey.
func (o *Orchestrator) SearchableKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(key string) {
		if key != "" && !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	for _, f := range o.fields {
		if f.Searchable {
			add(f.Key())
		}
	}
	for _, key := range o.extraKeys {
		add(key)
	}
	return keys
}

// Apply mutates the target query from the request: filters in registry
// order (AND across filters), then sort, then keyword search. Queries not
// scoped to the listing collection are left untouched.
//
// This is the hook-style entry point used on the platform's primary query;
// BuildQuery is the explicit one for embedded searches.
func (o *Orchestrator) Apply(b *query.Builder, req core.SearchRequest) filter.ActiveSet {
	if !b.InScope() {
		return nil
	}

	if o.notifier != nil {
		o.notifier.Notify(core.EventBeforeQuery, b)
	}

	active := o.registry.ResolveActive(req)
	for _, a := range active {
		a.Filter.ModifyQuery(b, a.Value)
	}

	b.SetSort(query.ResolveSort(req))

	o.applyKeyword(b, active)

	if o.notifier != nil {
		o.notifier.Notify(core.EventAfterQuery, b)
	}
	return active
}

// applyKeyword sets the native search term and the attribute-store
// allowlist when the keyword filter is active. The storage layer expresses
// the attribute match as an existence condition (semi-join), never an outer
// join, so a listing matching several attribute rows still appears once.
func (o *Orchestrator) applyKeyword(b *query.Builder, active filter.ActiveSet) {
	a, ok := active.Get(KeywordParam)
	if !ok {
		return
	}
	b.SetSearchTerm(a.Value.Text)
	b.SetSearchMetaKeys(o.SearchableKeys())
}

// BuildQuery resolves the request into a fresh, fully populated query
// builder without touching any storage. Embedded and widget searches use
// this to obtain a complete query value before execution.
func (o *Orchestrator) BuildQuery(req core.SearchRequest) *query.Builder {
	b := query.NewBuilder()
	o.Apply(b, req)
	return b
}

// BuildCategoryQuery is BuildQuery scoped to one category taxonomy term.
func (o *Orchestrator) BuildCategoryQuery(req core.SearchRequest, category string) *query.Builder {
	b := query.NewBuilder()
	b.SetScope(query.Scope{Listings: true, Category: category})
	o.Apply(b, req)
	return b
}
