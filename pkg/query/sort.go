package query

import (
	"strings"

	"github.com/jmontes/listry/pkg/core"
)

// Request parameter names for sorting.
const (
	OrderByParam = "orderby"
	OrderParam   = "order"
)

// viewsField is the content field whose attribute-store key backs the views
// sort.
const viewsField = "views"

// ResolveSort maps the request's orderby/order parameters onto the fixed
// sort allowlist. Unknown or missing keys fall back to date; unknown
// directions fall back to descending. Nothing is surfaced to the user.
func ResolveSort(req core.SearchRequest) Sort {
	field := SortDate
	switch strings.ToLower(strings.TrimSpace(req.Get(OrderByParam))) {
	case string(SortDate):
		field = SortDate
	case string(SortTitle):
		field = SortTitle
	case string(SortViews):
		field = SortViews
	case string(SortRandom):
		field = SortRandom
	}

	dir := Desc
	switch strings.ToLower(strings.TrimSpace(req.Get(OrderParam))) {
	case string(Asc):
		dir = Asc
	case string(Desc):
		dir = Desc
	}

	s := Sort{Field: field, Dir: dir}
	if field == SortViews {
		s.MetaKey = core.MetaKey(viewsField)
	}
	return s
}
