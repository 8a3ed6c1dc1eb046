package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/query"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "listings.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})
	return store
}

func seedListing(t *testing.T, store *Store, l core.Listing) {
	t.Helper()
	if err := store.StoreListing(l); err != nil {
		t.Fatalf("storing listing %s: %v", l.ID, err)
	}
}

func baseTime(offset int) time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Hour)
}

func TestKeywordSearchNoDuplicates(t *testing.T) {
	store := testStore(t)

	// Matches via title AND via two different allowlisted attribute keys.
	seedListing(t, store, core.Listing{
		ID: "l1", Title: "Riverside Cafe", CreatedAt: baseTime(0),
		Meta: map[string]string{
			"phone":   "cafe 555-0101",
			"address": "12 Cafe Street",
		},
	})
	seedListing(t, store, core.Listing{
		ID: "l2", Title: "Bakery", CreatedAt: baseTime(1),
		Meta: map[string]string{"address": "Main Square"},
	})

	b := query.NewBuilder()
	b.SetSearchTerm("cafe")
	b.SetSearchMetaKeys([]string{"ls_phone", "ls_address"})

	listings, hasMore, err := store.Execute(b)
	if err != nil {
		t.Fatalf("executing query: %v", err)
	}
	if hasMore {
		t.Error("unexpected extra pages")
	}
	if len(listings) != 1 {
		t.Fatalf("expected exactly one result, got %d (duplication from meta rows?)", len(listings))
	}
	if listings[0].ID != "l1" {
		t.Errorf("got %s, want l1", listings[0].ID)
	}
}

func TestKeywordMatchesMetaOnly(t *testing.T) {
	store := testStore(t)
	seedListing(t, store, core.Listing{
		ID: "l1", Title: "Central Garage", CreatedAt: baseTime(0),
		Meta: map[string]string{"address": "Wrench Road 5"},
	})

	b := query.NewBuilder()
	b.SetSearchTerm("wrench")
	b.SetSearchMetaKeys([]string{"ls_address"})

	listings, _, err := store.Execute(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected meta-only match, got %d results", len(listings))
	}

	// Without the key in the allowlist the listing must not match.
	b2 := query.NewBuilder()
	b2.SetSearchTerm("wrench")
	listings, _, err = store.Execute(b2)
	if err != nil {
		t.Fatal(err)
	}
	if len(listings) != 0 {
		t.Fatalf("non-allowlisted key matched: %d results", len(listings))
	}
}

func TestNumericRangeClauses(t *testing.T) {
	store := testStore(t)
	prices := map[string]string{"cheap": "100", "mid": "300000", "dear": "900000"}
	i := 0
	for id, price := range prices {
		seedListing(t, store, core.Listing{
			ID: id, Title: id, CreatedAt: baseTime(i),
			Meta: map[string]string{"price": price},
		})
		i++
	}

	tests := []struct {
		name   string
		clause query.AttributeClause
		want   map[string]bool
	}{
		{
			"lower bound only",
			query.AttributeClause{Key: "ls_price", Compare: query.CompareGte, Kind: query.KindNumeric, Value: "100000"},
			map[string]bool{"mid": true, "dear": true},
		},
		{
			"upper bound only",
			query.AttributeClause{Key: "ls_price", Compare: query.CompareLte, Kind: query.KindNumeric, Value: "500000"},
			map[string]bool{"cheap": true, "mid": true},
		},
		{
			"closed interval",
			query.AttributeClause{Key: "ls_price", Compare: query.CompareBetween, Kind: query.KindNumeric, Value: "200000", Value2: "950000"},
			map[string]bool{"mid": true, "dear": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder()
			b.AddAttributeClause(tt.clause)
			listings, _, err := store.Execute(b)
			if err != nil {
				t.Fatal(err)
			}
			if len(listings) != len(tt.want) {
				t.Fatalf("got %d results, want %d", len(listings), len(tt.want))
			}
			for _, l := range listings {
				if !tt.want[l.ID] {
					t.Errorf("unexpected result %s", l.ID)
				}
			}
		})
	}
}

func TestDateRangeClauses(t *testing.T) {
	store := testStore(t)
	// Date bounds compare as text; ISO dates order lexicographically.
	opened := map[string]string{"old": "2019-03-15", "mid": "2022-07-01", "new": "2025-01-20"}
	i := 0
	for id, date := range opened {
		seedListing(t, store, core.Listing{
			ID: id, Title: id, CreatedAt: baseTime(i),
			Meta: map[string]string{"opened": date},
		})
		i++
	}

	tests := []struct {
		name   string
		clause query.AttributeClause
		want   map[string]bool
	}{
		{
			"opened since",
			query.AttributeClause{Key: "ls_opened", Compare: query.CompareGte, Kind: query.KindDate, Value: "2021-01-01"},
			map[string]bool{"mid": true, "new": true},
		},
		{
			"opened until",
			query.AttributeClause{Key: "ls_opened", Compare: query.CompareLte, Kind: query.KindDate, Value: "2023-12-31"},
			map[string]bool{"old": true, "mid": true},
		},
		{
			"closed interval",
			query.AttributeClause{Key: "ls_opened", Compare: query.CompareBetween, Kind: query.KindDate, Value: "2020-01-01", Value2: "2024-01-01"},
			map[string]bool{"mid": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder()
			b.AddAttributeClause(tt.clause)
			listings, _, err := store.Execute(b)
			if err != nil {
				t.Fatal(err)
			}
			if len(listings) != len(tt.want) {
				t.Fatalf("got %d results, want %d", len(listings), len(tt.want))
			}
			for _, l := range listings {
				if !tt.want[l.ID] {
					t.Errorf("unexpected result %s", l.ID)
				}
			}
		})
	}
}

func TestSelectAndCheckboxClauses(t *testing.T) {
	store := testStore(t)
	seedListing(t, store, core.Listing{
		ID: "l1", Title: "Hotel Norte", CreatedAt: baseTime(0),
		Meta: map[string]string{"city": "oviedo", "amenities": "wifi"},
	})
	seedListing(t, store, core.Listing{
		ID: "l2", Title: "Hotel Sur", CreatedAt: baseTime(1),
		Meta: map[string]string{"city": "gijon", "amenities": "parking"},
	})

	b := query.NewBuilder()
	b.AddAttributeClause(query.AttributeClause{
		Key: "ls_city", Compare: query.CompareEq, Kind: query.KindText, Value: "oviedo",
	})
	listings, _, err := store.Execute(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(listings) != 1 || listings[0].ID != "l1" {
		t.Fatalf("equality clause returned %+v", listings)
	}

	b = query.NewBuilder()
	b.AddAttributeClause(query.AttributeClause{
		Key: "ls_amenities", Compare: query.CompareIn, Kind: query.KindText,
		Values: []string{"wifi", "pool"},
	})
	listings, _, err = store.Execute(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(listings) != 1 || listings[0].ID != "l1" {
		t.Fatalf("IN clause returned %+v", listings)
	}
}

func TestSortByViewsMetaKey(t *testing.T) {
	store := testStore(t)
	seedListing(t, store, core.Listing{
		ID: "low", Title: "Low", CreatedAt: baseTime(0),
		Meta: map[string]string{"views": "10"},
	})
	seedListing(t, store, core.Listing{
		ID: "high", Title: "High", CreatedAt: baseTime(1),
		Meta: map[string]string{"views": "200"},
	})

	b := query.NewBuilder()
	b.SetSort(query.Sort{Field: query.SortViews, Dir: query.Asc, MetaKey: "ls_views"})
	listings, _, err := store.Execute(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(listings) != 2 || listings[0].ID != "low" || listings[1].ID != "high" {
		t.Fatalf("views asc order wrong: %+v", listings)
	}
}

func TestDraftListingsInvisible(t *testing.T) {
	store := testStore(t)
	seedListing(t, store, core.Listing{ID: "d1", Title: "Hidden", Status: core.StatusDraft, CreatedAt: baseTime(0)})
	seedListing(t, store, core.Listing{ID: "p1", Title: "Visible", CreatedAt: baseTime(1)})

	listings, _, err := store.Execute(query.NewBuilder())
	if err != nil {
		t.Fatal(err)
	}
	if len(listings) != 1 || listings[0].ID != "p1" {
		t.Fatalf("draft leaked into results: %+v", listings)
	}
}

func TestCategoryScope(t *testing.T) {
	store := testStore(t)
	seedListing(t, store, core.Listing{ID: "r1", Title: "Tavern", Category: "restaurants", CreatedAt: baseTime(0)})
	seedListing(t, store, core.Listing{ID: "s1", Title: "Bookshop", Category: "shops", CreatedAt: baseTime(1)})

	b := query.NewBuilder()
	b.SetScope(query.Scope{Listings: true, Category: "restaurants"})
	listings, _, err := store.Execute(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(listings) != 1 || listings[0].ID != "r1" {
		t.Fatalf("category scope returned %+v", listings)
	}
}

func TestPaginationHasMore(t *testing.T) {
	store := testStore(t)
	for i := 0; i < 5; i++ {
		seedListing(t, store, core.Listing{
			ID: string(rune('a' + i)), Title: "Listing", CreatedAt: baseTime(i),
		})
	}

	b := query.NewBuilder()
	b.SetPagination(1, 2)
	listings, hasMore, err := store.Execute(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(listings) != 2 || !hasMore {
		t.Fatalf("page 1: got %d results, hasMore=%v", len(listings), hasMore)
	}

	b.SetPagination(3, 2)
	listings, hasMore, err = store.Execute(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(listings) != 1 || hasMore {
		t.Fatalf("page 3: got %d results, hasMore=%v", len(listings), hasMore)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	store := testStore(t)
	seedListing(t, store, core.Listing{
		ID: "l1", Title: "Cafe", CreatedAt: baseTime(0),
		Meta: map[string]string{"price": "450", "Weird Key!": "kept", "';--": "dropped"},
	})

	listings, _, err := store.Execute(query.NewBuilder())
	if err != nil {
		t.Fatal(err)
	}
	if len(listings) != 1 {
		t.Fatal("expected one listing")
	}
	l := listings[0]
	if l.Meta["ls_price"] != "450" {
		t.Errorf("meta ls_price = %q", l.Meta["ls_price"])
	}
	if l.Meta["ls_weirdkey"] != "kept" {
		t.Errorf("sanitized key not stored: %v", l.Meta)
	}
	if len(l.Meta) != 2 {
		t.Errorf("hostile key should be dropped entirely: %v", l.Meta)
	}
}
