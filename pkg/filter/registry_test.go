package filter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/log"
)

func mustFilter(t *testing.T, def Definition) Filter {
	t.Helper()
	def.Enabled = true
	f, err := New(def)
	if err != nil {
		t.Fatalf("creating filter %s: %v", def.Name, err)
	}
	return f
}

func TestRegistryPriorityOrdering(t *testing.T) {
	reg := NewRegistry(nil)

	// Same priority for b and c: registration order must break the tie.
	reg.Register(mustFilter(t, Definition{Name: "a", Type: TypeRange, Priority: 20}))
	reg.Register(mustFilter(t, Definition{Name: "b", Type: TypeRange, Priority: 5}))
	reg.Register(mustFilter(t, Definition{Name: "c", Type: TypeRange, Priority: 5}))
	reg.Register(mustFilter(t, Definition{Name: "d", Type: TypeRange, Priority: 1}))

	var got []string
	for _, f := range reg.List(ListOptions{}) {
		got = append(got, f.Name())
	}
	want := []string{"d", "b", "c", "a"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("List order = %v, want %v", got, want)
	}
}

func TestRegistryDuplicateRetainsOriginal(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)

	reg := NewRegistry(nil)
	first := mustFilter(t, Definition{Name: "price", Type: TypeRange, Label: "Price"})
	second := mustFilter(t, Definition{Name: "price", Type: TypeSelect, Label: "Other"})

	if !reg.Register(first) {
		t.Fatal("first registration should succeed")
	}
	if reg.Register(second) {
		t.Fatal("duplicate registration should fail")
	}
	if !strings.Contains(buf.String(), "already registered") {
		t.Errorf("expected a duplicate-name warning, got: %q", buf.String())
	}

	got := reg.Get("price")
	if got == nil || got.Label() != "Price" || got.Type() != TypeRange {
		t.Fatalf("original filter not retained, got %+v", got)
	}
}

func TestRegistryEmptyNameRejected(t *testing.T) {
	reg := NewRegistry(nil)
	if reg.Register(nil) {
		t.Fatal("nil filter should be rejected")
	}
	if _, err := New(Definition{Type: TypeRange}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestRegistryListFiltering(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(mustFilter(t, Definition{Name: "price", Type: TypeRange}))
	reg.Register(mustFilter(t, Definition{Name: "city", Type: TypeSelect, Source: SourceTaxonomy}))
	disabled, err := New(Definition{Name: "old", Type: TypeRange})
	if err != nil {
		t.Fatal(err)
	}
	reg.Register(disabled)

	if got := len(reg.List(ListOptions{Type: TypeSelect})); got != 1 {
		t.Errorf("List by type returned %d filters, want 1", got)
	}
	if got := len(reg.List(ListOptions{Source: SourceTaxonomy})); got != 1 {
		t.Errorf("List by source returned %d filters, want 1", got)
	}
	if got := len(reg.List(ListOptions{EnabledOnly: true})); got != 2 {
		t.Errorf("List enabled-only returned %d filters, want 2", got)
	}
}

func TestRegistryUnregister(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(mustFilter(t, Definition{Name: "price", Type: TypeRange}))

	if reg.Unregister("missing") {
		t.Error("unregistering an unknown filter should fail")
	}
	if !reg.Unregister("price") {
		t.Error("unregistering a known filter should succeed")
	}
	if reg.Has("price") {
		t.Error("filter still present after unregister")
	}
}

func TestRegisterEmitsLifecycleEvent(t *testing.T) {
	notifier := core.NewNotifier()
	var events []string
	notifier.Subscribe(func(event string, payload any) {
		if event == core.EventFilterRegistered {
			events = append(events, payload.(string))
		}
	})

	reg := NewRegistry(notifier)
	reg.Register(mustFilter(t, Definition{Name: "price", Type: TypeRange}))

	if len(events) != 1 || events[0] != "price" {
		t.Fatalf("expected one filter-registered event for price, got %v", events)
	}
}

func TestResolveActive(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(mustFilter(t, Definition{Name: "keyword", Type: TypeKeyword, Priority: 1}))
	reg.Register(mustFilter(t, Definition{Name: "price", Type: TypeRange}))
	reg.Register(mustFilter(t, Definition{
		Name: "city", Type: TypeSelect,
		Options: []Option{{Value: "oviedo", Label: "Oviedo"}},
	}))

	req := core.ParseSearchRequest("keyword=cafe&price_min=100&city=bogus")
	active := reg.ResolveActive(req)

	if len(active) != 2 {
		t.Fatalf("expected 2 active filters, got %d", len(active))
	}
	if _, ok := active.Get("keyword"); !ok {
		t.Error("keyword should be active")
	}
	price, ok := active.Get("price")
	if !ok {
		t.Fatal("price should be active")
	}
	if price.Value.Min != "100" || price.Value.Max != "" {
		t.Errorf("price value = %+v, want min 100 max empty", price.Value)
	}
	if _, ok := active.Get("city"); ok {
		t.Error("city with unknown option should not be active")
	}
}
