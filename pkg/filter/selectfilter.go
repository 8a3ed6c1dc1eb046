package filter

import (
	"strings"

	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/query"
)

// SelectFilter matches one configured option exactly. Unknown values
// sanitize to absent.
type SelectFilter struct {
	base
}

func (f *SelectFilter) ReadValue(req core.SearchRequest) Value {
	return Value{Text: req.Get(f.URLParam())}
}

func (f *SelectFilter) Sanitize(raw Value) Value {
	text := strings.TrimSpace(raw.Text)
	if !f.hasOption(text) {
		return Value{}
	}
	return Value{Text: text}
}

func (f *SelectFilter) IsActive(v Value) bool {
	return v.Text != ""
}

func (f *SelectFilter) ModifyQuery(b *query.Builder, v Value) {
	if v.Text == "" {
		return
	}
	b.AddAttributeClause(query.AttributeClause{
		Key:     f.SourceKey(),
		Compare: query.CompareEq,
		Kind:    query.KindText,
		Value:   v.Text,
	})
}

func (f *SelectFilter) DisplayValue(v Value) string {
	return f.optionLabel(v.Text)
}
