// Package filter implements the pluggable filter kinds of the listing search
// engine and the registry that resolves them against a request. Each filter
// owns its own sanitize/activity/query-mutation logic; rendering lives in
// pkg/render and keyword search in pkg/query.
package filter

import (
	"fmt"

	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/query"
)

// Type identifies a filter kind.
type Type string

const (
	TypeKeyword   Type = "keyword"
	TypeSelect    Type = "select"
	TypeCheckbox  Type = "checkbox"
	TypeRange     Type = "range"
	TypeDateRange Type = "date_range"
)

// Sources a filter can draw its values from.
const (
	SourceTaxonomy = "taxonomy"
	SourceField    = "field"
	SourceCustom   = "custom"
)

// Option is one enumerated choice of a select or checkbox filter.
type Option struct {
	Value string `toml:"value"`
	Label string `toml:"label"`
}

// Definition is the configuration of one filter instance. Zero values get
// defaults in New: priority 10, enabled true is the config loader's job,
// source key derived from the name, keyword minimum length 2.
type Definition struct {
	Name        string
	Type        Type
	Label       string
	Source      string
	SourceKey   string
	Options     []Option
	Priority    int
	Enabled     bool
	Placeholder string
	Min         *float64
	Max         *float64
	Step        float64
	MinLength   int
}

// Value is the sanitized runtime value of a filter: a scalar for keyword and
// select kinds, a list for checkbox groups, bounds for range kinds. Absent
// parts are empty strings; a fully absent value never participates in query
// mutation or rendering.
type Value struct {
	Text string
	List []string
	Min  string
	Max  string
}

// IsZero reports whether every part of the value is absent.
func (v Value) IsZero() bool {
	return v.Text == "" && len(v.List) == 0 && v.Min == "" && v.Max == ""
}

// Filter is the contract every kind implements.
//
// Sanitize never fails: invalid input degrades to an absent value. ModifyQuery
// must be side-effect-free beyond the passed builder and idempotent for the
// same value. ReadValue extracts the kind's raw parameters from the request;
// the registry chains ReadValue, Sanitize and IsActive during resolution.
type Filter interface {
	Name() string
	Type() Type
	Label() string
	Source() string
	SourceKey() string
	Priority() int
	Enabled() bool
	Definition() Definition

	URLParam() string
	URLParams() []string
	ReadValue(req core.SearchRequest) Value
	Sanitize(raw Value) Value
	IsActive(v Value) bool
	ModifyQuery(b *query.Builder, v Value)
	DisplayValue(v Value) string
}

// New builds a filter from its definition. Unknown types and empty names are
// configuration errors.
func New(def Definition) (Filter, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("creating filter: name is required")
	}
	if def.Priority == 0 {
		def.Priority = 10
	}
	if def.SourceKey == "" {
		def.SourceKey = core.MetaKey(def.Name)
	} else {
		def.SourceKey = core.MetaKey(def.SourceKey)
	}
	if def.Source == "" {
		def.Source = SourceField
	}
	if def.Label == "" {
		def.Label = def.Name
	}

	switch def.Type {
	case TypeKeyword:
		if def.MinLength <= 0 {
			def.MinLength = 2
		}
		return &KeywordFilter{base{def}}, nil
	case TypeRange:
		return &RangeFilter{base{def}}, nil
	case TypeDateRange:
		return &DateRangeFilter{base{def}}, nil
	case TypeSelect:
		return &SelectFilter{base{def}}, nil
	case TypeCheckbox:
		return &CheckboxFilter{base{def}}, nil
	default:
		return nil, fmt.Errorf("creating filter %s: unknown type %q", def.Name, def.Type)
	}
}

// base carries the definition and the accessors shared by all kinds.
type base struct {
	def Definition
}

func (b base) Name() string           { return b.def.Name }
func (b base) Type() Type             { return b.def.Type }
func (b base) Label() string          { return b.def.Label }
func (b base) Source() string         { return b.def.Source }
func (b base) SourceKey() string      { return b.def.SourceKey }
func (b base) Priority() int          { return b.def.Priority }
func (b base) Enabled() bool          { return b.def.Enabled }
func (b base) Definition() Definition { return b.def }
func (b base) URLParam() string       { return b.def.Name }
func (b base) URLParams() []string    { return []string{b.def.Name} }

// optionLabel resolves an option value to its label, falling back to the raw
// value for options configured without one.
func (b base) optionLabel(value string) string {
	for _, opt := range b.def.Options {
		if opt.Value == value {
			if opt.Label != "" {
				return opt.Label
			}
			return opt.Value
		}
	}
	return value
}

// hasOption reports whether value is a configured option.
func (b base) hasOption(value string) bool {
	for _, opt := range b.def.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}
