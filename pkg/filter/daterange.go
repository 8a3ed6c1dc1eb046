package filter

import (
	"strings"
	"time"

	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/query"
)

const dateLayout = "2006-01-02"

// DateRangeFilter applies the range bound logic over date values with a
// date-typed comparison. Bounds are YYYY-MM-DD; anything else sanitizes to
// an absent bound.
type DateRangeFilter struct {
	base
}

func (f *DateRangeFilter) URLParams() []string {
	return []string{f.def.Name + "_min", f.def.Name + "_max"}
}

func (f *DateRangeFilter) ReadValue(req core.SearchRequest) Value {
	return Value{
		Min: req.Get(f.def.Name + "_min"),
		Max: req.Get(f.def.Name + "_max"),
	}
}

func (f *DateRangeFilter) Sanitize(raw Value) Value {
	return Value{
		Min: sanitizeDate(raw.Min),
		Max: sanitizeDate(raw.Max),
	}
}

func sanitizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return ""
	}
	return parsed.Format(dateLayout)
}

func (f *DateRangeFilter) IsActive(v Value) bool {
	return v.Min != "" || v.Max != ""
}

func (f *DateRangeFilter) ModifyQuery(b *query.Builder, v Value) {
	switch {
	case v.Min != "" && v.Max != "":
		b.AddAttributeClause(query.AttributeClause{
			Key:     f.SourceKey(),
			Compare: query.CompareBetween,
			Kind:    query.KindDate,
			Value:   v.Min,
			Value2:  v.Max,
		})
	case v.Min != "":
		b.AddAttributeClause(query.AttributeClause{
			Key:     f.SourceKey(),
			Compare: query.CompareGte,
			Kind:    query.KindDate,
			Value:   v.Min,
		})
	case v.Max != "":
		b.AddAttributeClause(query.AttributeClause{
			Key:     f.SourceKey(),
			Compare: query.CompareLte,
			Kind:    query.KindDate,
			Value:   v.Max,
		})
	}
}

func (f *DateRangeFilter) DisplayValue(v Value) string {
	switch {
	case v.Min != "" && v.Max != "":
		return v.Min + " to " + v.Max
	case v.Min != "":
		return "from " + v.Min
	case v.Max != "":
		return "until " + v.Max
	}
	return ""
}
