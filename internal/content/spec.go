package content

import (
	"strconv"
	"strings"
)

const (
	// DefaultPage is used whenever pagination input is absent or malformed.
	DefaultPage = 1
	// DefaultLimit is used whenever the page size is absent or malformed.
	DefaultLimit = 10
)

// QuerySpec is the normalized pagination, filter and search request accepted
// by every store adapter.
type QuerySpec struct {
	Page     int
	Limit    int
	Category string
	Status   string
	Search   string
}

// BuildSpec translates raw request parameters into a QuerySpec. It is total:
// malformed or non-positive pagination input is coerced to the defaults and
// blank filters are omitted.
func BuildSpec(raw map[string]string) QuerySpec {
	spec := QuerySpec{Page: DefaultPage, Limit: DefaultLimit}

	if page, err := strconv.Atoi(strings.TrimSpace(raw["page"])); err == nil && page > 0 {
		spec.Page = page
	}
	if limit, err := strconv.Atoi(strings.TrimSpace(raw["limit"])); err == nil && limit > 0 {
		spec.Limit = limit
	}

	spec.Category = strings.TrimSpace(raw["category"])
	spec.Status = strings.TrimSpace(raw["status"])
	spec.Search = strings.TrimSpace(raw["search"])

	return spec
}

// Normalize coerces a hand-built spec into the same invariants BuildSpec
// guarantees. Adapters call it so a caller can never observe a negative
// offset or a zero page size.
func (s QuerySpec) Normalize() QuerySpec {
	if s.Page < 1 {
		s.Page = DefaultPage
	}
	if s.Limit < 1 {
		s.Limit = DefaultLimit
	}
	return s
}

// Offset is the number of items to skip for offset-style backends.
func (s QuerySpec) Offset() int {
	return (s.Page - 1) * s.Limit
}

// Range is the inclusive [from, to] window for range-style backends.
func (s QuerySpec) Range() (int, int) {
	from := s.Offset()
	return from, from + s.Limit - 1
}

// PageResult is one page of items plus the pagination envelope callers render.
type PageResult struct {
	Items []Item `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Pages int    `json:"pages"`
}

// NewPageResult assembles a PageResult for the given window, deriving the page
// count from the full filtered total.
func NewPageResult(items []Item, total int64, spec QuerySpec) PageResult {
	spec = spec.Normalize()

	if items == nil {
		items = []Item{}
	}

	pages := 0
	if total > 0 {
		pages = int((total + int64(spec.Limit) - 1) / int64(spec.Limit))
	}

	return PageResult{
		Items: items,
		Total: total,
		Page:  spec.Page,
		Limit: spec.Limit,
		Pages: pages,
	}
}
