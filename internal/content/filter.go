package content

import (
	"sort"
	"strings"
)

// Matches applies the shared filter predicate: exact category and status
// matches, plus a case-insensitive substring search OR-ed across the item's
// text fields. In-memory backends use it so degraded reads stay observably
// identical to a live adapter.
func Matches(item Item, spec QuerySpec) bool {
	if spec.Category != "" && item.Category != spec.Category {
		return false
	}
	if spec.Status != "" && string(item.Status) != spec.Status {
		return false
	}
	if spec.Search != "" {
		needle := strings.ToLower(spec.Search)
		if !containsFold(item.Title, needle) &&
			!containsFold(item.Excerpt, needle) &&
			!containsFold(item.Body, needle) &&
			!containsFold(item.Answer, needle) {
			return false
		}
	}
	return true
}

// SortNewestFirst orders items by creation time descending, in place.
func SortNewestFirst(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// Paginate slices an already filtered and ordered collection down to the
// spec's page window and wraps it in a PageResult. Total always reflects the
// full filtered count.
func Paginate(items []Item, spec QuerySpec) PageResult {
	spec = spec.Normalize()

	total := int64(len(items))
	from, to := spec.Range()

	if from >= len(items) {
		return NewPageResult(nil, total, spec)
	}
	if to >= len(items) {
		to = len(items) - 1
	}

	window := make([]Item, to-from+1)
	copy(window, items[from:to+1])

	return NewPageResult(window, total, spec)
}

func containsFold(haystack, loweredNeedle string) bool {
	if haystack == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), loweredNeedle)
}
