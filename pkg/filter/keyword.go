package filter

import (
	"strings"

	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/query"
)

// maxKeywordRunes caps keyword input before it reaches query construction.
const maxKeywordRunes = 200

// KeywordFilter carries the free-text search term. It never mutates the
// query itself: the orchestrator owns keyword search so that native matching
// and the attribute-store existence condition stay in one place.
type KeywordFilter struct {
	base
}

func (f *KeywordFilter) ReadValue(req core.SearchRequest) Value {
	return Value{Text: req.Get(f.URLParam())}
}

func (f *KeywordFilter) Sanitize(raw Value) Value {
	text := strings.TrimSpace(raw.Text)
	if runes := []rune(text); len(runes) > maxKeywordRunes {
		text = string(runes[:maxKeywordRunes])
	}
	return Value{Text: text}
}

func (f *KeywordFilter) IsActive(v Value) bool {
	return len([]rune(strings.TrimSpace(v.Text))) >= f.def.MinLength
}

// ModifyQuery is a no-op; the orchestrator applies the keyword in its own
// search step.
func (f *KeywordFilter) ModifyQuery(_ *query.Builder, _ Value) {}

func (f *KeywordFilter) DisplayValue(v Value) string {
	return v.Text
}
