package filter

import (
	"strings"

	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/query"
)

// CheckboxFilter matches any of several configured options. The parameter
// repeats (`amenities=wifi&amenities=parking`); unknown options are dropped
// member-wise rather than invalidating the whole group.
type CheckboxFilter struct {
	base
}

func (f *CheckboxFilter) ReadValue(req core.SearchRequest) Value {
	return Value{List: req.Values(f.URLParam())}
}

func (f *CheckboxFilter) Sanitize(raw Value) Value {
	seen := make(map[string]bool, len(raw.List))
	var kept []string
	for _, item := range raw.List {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] || !f.hasOption(item) {
			continue
		}
		seen[item] = true
		kept = append(kept, item)
	}
	return Value{List: kept}
}

func (f *CheckboxFilter) IsActive(v Value) bool {
	return len(v.List) > 0
}

func (f *CheckboxFilter) ModifyQuery(b *query.Builder, v Value) {
	if len(v.List) == 0 {
		return
	}
	b.AddAttributeClause(query.AttributeClause{
		Key:     f.SourceKey(),
		Compare: query.CompareIn,
		Kind:    query.KindText,
		Values:  append([]string(nil), v.List...),
	})
}

func (f *CheckboxFilter) DisplayValue(v Value) string {
	labels := make([]string, 0, len(v.List))
	for _, item := range v.List {
		labels = append(labels, f.optionLabel(item))
	}
	return strings.Join(labels, ", ")
}
