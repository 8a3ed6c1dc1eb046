package core

import (
	"net/url"
	"strconv"
)

// PageParam is the 1-based pagination parameter name.
const PageParam = "page"

// SearchRequest is an immutable view of the incoming request parameters.
// All derived data (sanitized filter values, sort key, keyword, page) is
// computed from it on demand; nothing ever writes back.
type SearchRequest struct {
	values url.Values
}

// NewSearchRequest copies the given parameter map so later mutation of the
// source cannot leak into resolution.
func NewSearchRequest(params url.Values) SearchRequest {
	copied := make(url.Values, len(params))
	for k, vs := range params {
		copied[k] = append([]string(nil), vs...)
	}
	return SearchRequest{values: copied}
}

// ParseSearchRequest builds a SearchRequest from a raw query string. A parse
// error yields an empty request rather than failing resolution.
func ParseSearchRequest(rawQuery string) SearchRequest {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		values = url.Values{}
	}
	return NewSearchRequest(values)
}

// Get returns the first value for the parameter, or "".
func (r SearchRequest) Get(name string) string {
	return r.values.Get(name)
}

// Values returns a copy of all values for the parameter.
func (r SearchRequest) Values(name string) []string {
	return append([]string(nil), r.values[name]...)
}

// Has reports whether the parameter is present.
func (r SearchRequest) Has(name string) bool {
	return r.values.Has(name)
}

// Page returns the 1-based page number. Non-numeric or non-positive values
// normalize to 1.
func (r SearchRequest) Page() int {
	raw := r.values.Get(PageParam)
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Without returns a new request with the given parameters removed. Used by
// the renderer to build "remove this filter" URLs.
func (r SearchRequest) Without(names ...string) SearchRequest {
	copied := make(url.Values, len(r.values))
	for k, vs := range r.values {
		copied[k] = append([]string(nil), vs...)
	}
	for _, name := range names {
		copied.Del(name)
	}
	return SearchRequest{values: copied}
}

// Encode renders the parameters as a query string with deterministic key
// ordering (url.Values sorts keys).
func (r SearchRequest) Encode() string {
	return r.values.Encode()
}
