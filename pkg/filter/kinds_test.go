package filter

import (
	"testing"

	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/query"
)

func floatPtr(f float64) *float64 { return &f }

func TestKeywordIsActive(t *testing.T) {
	f := mustFilter(t, Definition{Name: "keyword", Type: TypeKeyword})

	tests := []struct {
		text string
		want bool
	}{
		{"ab", true},
		{"a", false},
		{"", false},
		{"  a  ", false},
		{"coffee shop", true},
	}
	for _, tt := range tests {
		if got := f.IsActive(Value{Text: tt.text}); got != tt.want {
			t.Errorf("IsActive(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestKeywordSanitizeCapsLength(t *testing.T) {
	f := mustFilter(t, Definition{Name: "keyword", Type: TypeKeyword})

	long := make([]rune, 500)
	for i := range long {
		long[i] = 'x'
	}
	v := f.Sanitize(Value{Text: "  " + string(long) + "  "})
	if got := len([]rune(v.Text)); got != maxKeywordRunes {
		t.Errorf("sanitized keyword length = %d, want %d", got, maxKeywordRunes)
	}
}

func TestKeywordNeverMutatesQuery(t *testing.T) {
	f := mustFilter(t, Definition{Name: "keyword", Type: TypeKeyword})
	b := query.NewBuilder()
	f.ModifyQuery(b, Value{Text: "cafe"})
	if len(b.Clauses()) != 0 || b.SearchTerm() != "" {
		t.Error("keyword filter must not touch the query directly")
	}
}

func TestRangeSanitizeClamping(t *testing.T) {
	f := mustFilter(t, Definition{
		Name: "price", Type: TypeRange,
		Min: floatPtr(0), Max: floatPtr(1000000),
	})

	tests := []struct {
		raw  Value
		want Value
	}{
		{Value{Min: "-50"}, Value{Min: "0"}},
		{Value{Max: "2000000"}, Value{Max: "1000000"}},
		{Value{Min: "100", Max: "500"}, Value{Min: "100", Max: "500"}},
		{Value{Min: "abc", Max: "12x"}, Value{}},
		{Value{Min: " 250 "}, Value{Min: "250"}},
	}
	for _, tt := range tests {
		got := f.Sanitize(tt.raw)
		if got.Min != tt.want.Min || got.Max != tt.want.Max {
			t.Errorf("Sanitize(%+v) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}

func TestRangeModifyQueryClauseShapes(t *testing.T) {
	f := mustFilter(t, Definition{Name: "price", Type: TypeRange})

	tests := []struct {
		name    string
		value   Value
		compare query.Compare
		none    bool
	}{
		{"both bounds", Value{Min: "100", Max: "500"}, query.CompareBetween, false},
		{"lower only", Value{Min: "100"}, query.CompareGte, false},
		{"upper only", Value{Max: "500"}, query.CompareLte, false},
		{"neither", Value{}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder()
			f.ModifyQuery(b, tt.value)
			clauses := b.Clauses()
			if tt.none {
				if len(clauses) != 0 {
					t.Fatalf("expected no clause, got %+v", clauses)
				}
				return
			}
			if len(clauses) != 1 {
				t.Fatalf("expected one clause, got %d", len(clauses))
			}
			c := clauses[0]
			if c.Compare != tt.compare {
				t.Errorf("compare = %v, want %v", c.Compare, tt.compare)
			}
			if c.Kind != query.KindNumeric {
				t.Errorf("kind = %v, want numeric", c.Kind)
			}
			if c.Key != "ls_price" {
				t.Errorf("key = %q, want ls_price", c.Key)
			}
		})
	}
}

func TestRangeModifyQueryIdempotent(t *testing.T) {
	f := mustFilter(t, Definition{Name: "price", Type: TypeRange})
	v := Value{Min: "100"}

	b1 := query.NewBuilder()
	f.ModifyQuery(b1, v)
	b2 := query.NewBuilder()
	f.ModifyQuery(b2, v)

	c1, c2 := b1.Clauses(), b2.Clauses()
	if len(c1) != 1 || len(c2) != 1 {
		t.Fatalf("expected one clause per builder, got %d and %d", len(c1), len(c2))
	}
	if c1[0].Key != c2[0].Key || c1[0].Compare != c2[0].Compare || c1[0].Value != c2[0].Value {
		t.Fatalf("same value produced different clauses: %+v vs %+v", c1[0], c2[0])
	}
}

func TestDateRangeSanitize(t *testing.T) {
	f := mustFilter(t, Definition{Name: "opened", Type: TypeDateRange})

	v := f.Sanitize(Value{Min: "2024-03-01", Max: "not-a-date"})
	if v.Min != "2024-03-01" || v.Max != "" {
		t.Errorf("Sanitize = %+v, want valid min, empty max", v)
	}

	b := query.NewBuilder()
	f.ModifyQuery(b, v)
	clauses := b.Clauses()
	if len(clauses) != 1 || clauses[0].Compare != query.CompareGte || clauses[0].Kind != query.KindDate {
		t.Fatalf("expected one date gte clause, got %+v", clauses)
	}
}

func TestSelectUnknownOptionSanitizesToAbsent(t *testing.T) {
	f := mustFilter(t, Definition{
		Name: "city", Type: TypeSelect,
		Options: []Option{{Value: "oviedo", Label: "Oviedo"}, {Value: "gijon", Label: "Gijón"}},
	})

	if v := f.Sanitize(Value{Text: "madrid"}); !v.IsZero() {
		t.Errorf("unknown option should sanitize to absent, got %+v", v)
	}

	v := f.Sanitize(Value{Text: "gijon"})
	if !f.IsActive(v) {
		t.Fatal("known option should be active")
	}
	if f.DisplayValue(v) != "Gijón" {
		t.Errorf("DisplayValue = %q, want option label", f.DisplayValue(v))
	}

	b := query.NewBuilder()
	f.ModifyQuery(b, v)
	clauses := b.Clauses()
	if len(clauses) != 1 || clauses[0].Compare != query.CompareEq || clauses[0].Value != "gijon" {
		t.Fatalf("expected equality clause on gijon, got %+v", clauses)
	}
}

func TestCheckboxDropsUnknownMembers(t *testing.T) {
	f := mustFilter(t, Definition{
		Name: "amenities", Type: TypeCheckbox,
		Options: []Option{{Value: "wifi", Label: "WiFi"}, {Value: "parking", Label: "Parking"}},
	})

	v := f.Sanitize(Value{List: []string{"wifi", "pool", "parking", "wifi"}})
	if len(v.List) != 2 || v.List[0] != "wifi" || v.List[1] != "parking" {
		t.Fatalf("Sanitize kept %v, want [wifi parking]", v.List)
	}

	b := query.NewBuilder()
	f.ModifyQuery(b, v)
	clauses := b.Clauses()
	if len(clauses) != 1 || clauses[0].Compare != query.CompareIn || len(clauses[0].Values) != 2 {
		t.Fatalf("expected one IN clause with 2 members, got %+v", clauses)
	}

	if f.DisplayValue(v) != "WiFi, Parking" {
		t.Errorf("DisplayValue = %q", f.DisplayValue(v))
	}
}

func TestRangeURLParams(t *testing.T) {
	f := mustFilter(t, Definition{Name: "price", Type: TypeRange})
	params := f.URLParams()
	if len(params) != 2 || params[0] != "price_min" || params[1] != "price_max" {
		t.Fatalf("URLParams = %v", params)
	}

	req := core.ParseSearchRequest("price_min=100&price_max=500")
	v := f.ReadValue(req)
	if v.Min != "100" || v.Max != "500" {
		t.Fatalf("ReadValue = %+v", v)
	}
}
