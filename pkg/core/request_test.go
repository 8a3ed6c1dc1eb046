package core

import (
	"net/url"
	"testing"
)

func TestSearchRequestImmutability(t *testing.T) {
	src := url.Values{"keyword": {"cafe"}}
	req := NewSearchRequest(src)

	src.Set("keyword", "mutated")
	if req.Get("keyword") != "cafe" {
		t.Fatalf("request leaked source mutation: %q", req.Get("keyword"))
	}

	stripped := req.Without("keyword")
	if !req.Has("keyword") {
		t.Fatal("Without mutated the original request")
	}
	if stripped.Has("keyword") {
		t.Fatal("Without did not remove the parameter from the copy")
	}
}

func TestSearchRequestPage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"page=3", 3},
		{"page=0", 1},
		{"page=-2", 1},
		{"page=abc", 1},
		{"", 1},
	}

	for _, tt := range tests {
		req := ParseSearchRequest(tt.raw)
		if got := req.Page(); got != tt.want {
			t.Errorf("Page() for %q = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestNotifierOrder(t *testing.T) {
	n := NewNotifier()
	var got []string
	n.Subscribe(func(event string, _ any) { got = append(got, "first:"+event) })
	n.Subscribe(func(event string, _ any) { got = append(got, "second:"+event) })

	n.Notify(EventBeforeQuery, nil)

	if len(got) != 2 || got[0] != "first:before-query" || got[1] != "second:before-query" {
		t.Fatalf("subscribers ran out of order: %v", got)
	}
}
