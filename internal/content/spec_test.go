package content

import "testing"

func TestBuildSpecDefaults(t *testing.T) {
	t.Parallel()

	spec := BuildSpec(map[string]string{})

	if spec.Page != DefaultPage {
		t.Fatalf("expected default page %d, got %d", DefaultPage, spec.Page)
	}
	if spec.Limit != DefaultLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultLimit, spec.Limit)
	}
	if spec.Category != "" || spec.Status != "" || spec.Search != "" {
		t.Fatalf("expected filters to be omitted, got %+v", spec)
	}
}

func TestBuildSpecCoercesMalformedInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		raw       map[string]string
		wantPage  int
		wantLimit int
	}{
		{name: "non-numeric", raw: map[string]string{"page": "abc", "limit": "xyz"}, wantPage: 1, wantLimit: 10},
		{name: "zero", raw: map[string]string{"page": "0", "limit": "0"}, wantPage: 1, wantLimit: 10},
		{name: "negative", raw: map[string]string{"page": "-3", "limit": "-1"}, wantPage: 1, wantLimit: 10},
		{name: "valid", raw: map[string]string{"page": "4", "limit": "25"}, wantPage: 4, wantLimit: 25},
		{name: "padded", raw: map[string]string{"page": " 2 ", "limit": " 5 "}, wantPage: 2, wantLimit: 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			spec := BuildSpec(tc.raw)
			if spec.Page != tc.wantPage {
				t.Fatalf("expected page %d, got %d", tc.wantPage, spec.Page)
			}
			if spec.Limit != tc.wantLimit {
				t.Fatalf("expected limit %d, got %d", tc.wantLimit, spec.Limit)
			}
		})
	}
}

func TestBuildSpecCarriesFilters(t *testing.T) {
	t.Parallel()

	spec := BuildSpec(map[string]string{
		"category": " fiqh ",
		"status":   "published",
		"search":   " wudu ",
	})

	if spec.Category != "fiqh" {
		t.Fatalf("expected trimmed category 'fiqh', got %q", spec.Category)
	}
	if spec.Status != "published" {
		t.Fatalf("expected status 'published', got %q", spec.Status)
	}
	if spec.Search != "wudu" {
		t.Fatalf("expected trimmed search 'wudu', got %q", spec.Search)
	}
}

func TestQuerySpecProjections(t *testing.T) {
	t.Parallel()

	spec := QuerySpec{Page: 3, Limit: 10}

	if offset := spec.Offset(); offset != 20 {
		t.Fatalf("expected offset 20, got %d", offset)
	}

	from, to := spec.Range()
	if from != 20 || to != 29 {
		t.Fatalf("expected range [20, 29], got [%d, %d]", from, to)
	}
}

func TestNewPageResultDerivesPageCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		total     int64
		limit     int
		wantPages int
	}{
		{name: "empty backend", total: 0, limit: 10, wantPages: 0},
		{name: "exact multiple", total: 20, limit: 10, wantPages: 2},
		{name: "remainder rounds up", total: 21, limit: 10, wantPages: 3},
		{name: "single partial page", total: 3, limit: 10, wantPages: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := NewPageResult(nil, tc.total, QuerySpec{Page: 1, Limit: tc.limit})
			if result.Pages != tc.wantPages {
				t.Fatalf("expected %d pages for total %d, got %d", tc.wantPages, tc.total, result.Pages)
			}
			if result.Items == nil {
				t.Fatalf("expected non-nil items slice")
			}
		})
	}
}
