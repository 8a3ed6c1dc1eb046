package filter

import (
	"strconv"
	"strings"

	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/query"
)

// RangeFilter filters a numeric attribute by a {min,max} pair. Either bound
// may be absent; non-numeric input sanitizes to an absent bound and numeric
// input is clamped into the configured bounds when those are set.
type RangeFilter struct {
	base
}

func (f *RangeFilter) URLParams() []string {
	return []string{f.def.Name + "_min", f.def.Name + "_max"}
}

func (f *RangeFilter) ReadValue(req core.SearchRequest) Value {
	return Value{
		Min: req.Get(f.def.Name + "_min"),
		Max: req.Get(f.def.Name + "_max"),
	}
}

func (f *RangeFilter) Sanitize(raw Value) Value {
	return Value{
		Min: f.sanitizeBound(raw.Min),
		Max: f.sanitizeBound(raw.Max),
	}
}

func (f *RangeFilter) sanitizeBound(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ""
	}
	if f.def.Min != nil && n < *f.def.Min {
		n = *f.def.Min
	}
	if f.def.Max != nil && n > *f.def.Max {
		n = *f.def.Max
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func (f *RangeFilter) IsActive(v Value) bool {
	return v.Min != "" || v.Max != ""
}

func (f *RangeFilter) ModifyQuery(b *query.Builder, v Value) {
	switch {
	case v.Min != "" && v.Max != "":
		b.AddAttributeClause(query.AttributeClause{
			Key:     f.SourceKey(),
			Compare: query.CompareBetween,
			Kind:    query.KindNumeric,
			Value:   v.Min,
			Value2:  v.Max,
		})
	case v.Min != "":
		b.AddAttributeClause(query.AttributeClause{
			Key:     f.SourceKey(),
			Compare: query.CompareGte,
			Kind:    query.KindNumeric,
			Value:   v.Min,
		})
	case v.Max != "":
		b.AddAttributeClause(query.AttributeClause{
			Key:     f.SourceKey(),
			Compare: query.CompareLte,
			Kind:    query.KindNumeric,
			Value:   v.Max,
		})
	}
}

func (f *RangeFilter) DisplayValue(v Value) string {
	switch {
	case v.Min != "" && v.Max != "":
		return v.Min + " to " + v.Max
	case v.Min != "":
		return "from " + v.Min
	case v.Max != "":
		return "up to " + v.Max
	}
	return ""
}
