// Package query holds the typed representation of a listing search before it
// is translated to SQL: the Builder value object collects attribute clauses,
// sort, search term and pagination, and the Orchestrator fills it from a
// request. Translation to the backing store's native query shape happens only
// at the execution boundary (pkg/storage).
package query

// Compare identifies the comparator of an attribute clause.
type Compare int

const (
	CompareEq Compare = iota
	CompareIn
	CompareBetween
	CompareGte
	CompareLte
)

// ValueKind identifies how clause values are compared in the store.
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumeric
	KindDate
)

// AttributeClause is one condition over an attribute-store key. Value2 is
// only meaningful for CompareBetween; Values only for CompareIn.
type AttributeClause struct {
	Key     string
	Compare Compare
	Kind    ValueKind
	Value   string
	Value2  string
	Values  []string
}

// SortField is a member of the fixed sort allowlist.
type SortField string

const (
	SortDate   SortField = "date"
	SortTitle  SortField = "title"
	SortViews  SortField = "views"
	SortRandom SortField = "random"
)

// Direction of a sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort pairs a symbolic field with a direction. For SortViews, MetaKey names
// the attribute-store key holding the numeric value to order by.
type Sort struct {
	Field   SortField
	Dir     Direction
	MetaKey string
}

// Scope marks what collection a query targets. The orchestrator only touches
// queries scoped to the listing collection (or one of its taxonomies).
type Scope struct {
	Listings bool
	Category string
}

// Builder is the mutable target query: a plain value collector with named
// setters, fully resolvable before any storage is involved so embedded and
// widget searches can reuse the same mutation logic.
type Builder struct {
	scope      Scope
	searchTerm string
	searchKeys []string
	clauses    []AttributeClause
	sort       Sort
	page       int
	perPage    int
}

// NewBuilder returns a builder scoped to the listing collection with default
// sort and pagination.
func NewBuilder() *Builder {
	return &Builder{
		scope:   Scope{Listings: true},
		sort:    Sort{Field: SortDate, Dir: Desc},
		page:    1,
		perPage: 20,
	}
}

// NewUnscopedBuilder returns a builder that does not target the listing
// collection; the orchestrator leaves such queries untouched.
func NewUnscopedBuilder() *Builder {
	b := NewBuilder()
	b.scope = Scope{}
	return b
}

// SetScope replaces the query scope.
func (b *Builder) SetScope(s Scope) { b.scope = s }

// Scope returns the current scope.
func (b *Builder) Scope() Scope { return b.scope }

// InScope reports whether the query targets the listing collection, either
// directly or via a category taxonomy scope.
func (b *Builder) InScope() bool {
	return b.scope.Listings || b.scope.Category != ""
}

// SetSearchTerm sets the native free-text search term.
func (b *Builder) SetSearchTerm(term string) { b.searchTerm = term }

// SearchTerm returns the native search term.
func (b *Builder) SearchTerm() string { return b.searchTerm }

// SetSearchMetaKeys sets the allowlisted attribute-store keys whose values
// also participate in keyword matching (existence-style, see pkg/storage).
func (b *Builder) SetSearchMetaKeys(keys []string) {
	b.searchKeys = append([]string(nil), keys...)
}

// SearchMetaKeys returns the keyword-search allowlist.
func (b *Builder) SearchMetaKeys() []string {
	return append([]string(nil), b.searchKeys...)
}

// AddAttributeClause appends a clause. Clauses across filters combine with
// AND semantics at execution time.
func (b *Builder) AddAttributeClause(c AttributeClause) {
	b.clauses = append(b.clauses, c)
}

// Clauses returns the collected clauses in insertion order.
func (b *Builder) Clauses() []AttributeClause {
	return append([]AttributeClause(nil), b.clauses...)
}

// SetSort replaces the sort.
func (b *Builder) SetSort(s Sort) { b.sort = s }

// Sort returns the current sort.
func (b *Builder) Sort() Sort { return b.sort }

// SetPagination sets the 1-based page and page size. Out-of-range input is
// normalized rather than rejected.
func (b *Builder) SetPagination(page, perPage int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	b.page = page
	b.perPage = perPage
}

// Page returns the 1-based page.
func (b *Builder) Page() int { return b.page }

// PerPage returns the page size.
func (b *Builder) PerPage() int { return b.perPage }
