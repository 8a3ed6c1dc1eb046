package core

import (
	"strings"
	"time"
)

// Listing statuses stored in the listings table. Only published listings are
// visible to search.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// Listing represents a single directory entry: the native content columns
// plus the attribute-store values keyed by their storage keys.
//
// Listings are immutable once loaded; search never mutates them. Meta holds
// raw string values as stored; numeric interpretation happens at query time
// in the storage layer.
type Listing struct {
	ID        string
	Title     string
	Content   string
	Excerpt   string
	Category  string
	Status    string
	CreatedAt time.Time
	Meta      map[string]string
}

// MetaValue returns the attribute value stored under the given field name
// (not the raw storage key), or "" when absent.
func (l Listing) MetaValue(field string) string {
	if l.Meta == nil {
		return ""
	}
	return l.Meta[MetaKey(field)]
}

// FieldDef describes one registered content field of the listing collection.
// The filter engine consumes only the subset it needs: the name (from which
// the storage key derives), a label for rendering, and the searchable flag
// that feeds the keyword-search allowlist.
type FieldDef struct {
	Name       string
	Label      string
	Type       string
	Searchable bool
}

// Key returns the attribute-store key for this field.
func (f FieldDef) Key() string {
	return MetaKey(f.Name)
}

// metaNamespace is the fixed token prefixed to every field name to form its
// attribute-store key. Filter definitions, the keyword allowlist and the
// storage layer all derive keys through MetaKey so spellings never diverge.
const metaNamespace = "ls_"

// MetaKey derives the attribute-store key for a field name. The name is
// sanitized first; an empty result yields an empty key, which callers must
// treat as "no key".
func MetaKey(field string) string {
	clean := SanitizeKey(field)
	if clean == "" {
		return ""
	}
	if strings.HasPrefix(clean, metaNamespace) {
		return clean
	}
	return metaNamespace + clean
}

// SanitizeKey lowercases the input and strips every character outside
// [a-z0-9_]. Keys used in query construction are always passed through here,
// including extension-supplied ones, so no unsafe identifier can reach SQL.
func SanitizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "_")
}
