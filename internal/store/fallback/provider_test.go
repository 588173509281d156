package fallback

import (
	"context"
	"testing"

	"ilmhub/app/internal/content"
)

func TestListCoversEveryContentType(t *testing.T) {
	t.Parallel()

	provider := NewProvider(nil)
	ctx := context.Background()

	for _, typ := range content.Types() {
		result, err := provider.List(ctx, typ, content.QuerySpec{Page: 1, Limit: 10})
		if err != nil {
			t.Fatalf("List(%s) returned error: %v", typ, err)
		}
		if result.Total == 0 {
			t.Fatalf("expected snapshot items for %s", typ)
		}
		if len(result.Items) > 10 {
			t.Fatalf("expected at most 10 items for %s, got %d", typ, len(result.Items))
		}
	}
}

func TestListAppliesSharedSemantics(t *testing.T) {
	t.Parallel()

	provider := NewProvider(nil)
	ctx := context.Background()

	// Case-insensitive substring search matching an answer field.
	search, err := provider.List(ctx, content.TypeQuestion, content.QuerySpec{Page: 1, Limit: 10, Search: "wudu"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if search.Total != 1 || search.Items[0].Slug != "purification-before-prayer" {
		t.Fatalf("expected the wudu answer to match, got %+v", search.Items)
	}

	category, err := provider.List(ctx, content.TypeArticle, content.QuerySpec{Page: 1, Limit: 10, Category: "worship"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	for _, item := range category.Items {
		if item.Category != "worship" {
			t.Fatalf("expected only worship items, got %q", item.Category)
		}
	}

	beyond, err := provider.List(ctx, content.TypeArticle, content.QuerySpec{Page: 99, Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(beyond.Items) != 0 || beyond.Total == 0 {
		t.Fatalf("expected empty window with full total, got len=%d total=%d", len(beyond.Items), beyond.Total)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	t.Parallel()

	provider := NewProvider(nil)

	result, err := provider.List(context.Background(), content.TypeArticle, content.QuerySpec{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	for i := 1; i < len(result.Items); i++ {
		if result.Items[i].CreatedAt.After(result.Items[i-1].CreatedAt) {
			t.Fatalf("expected newest-first ordering, item %d is newer than item %d", i, i-1)
		}
	}
}

func TestGetBySlugAndByID(t *testing.T) {
	t.Parallel()

	provider := NewProvider(nil)
	ctx := context.Background()

	item, err := provider.GetBySlug(ctx, content.TypeQuestion, "what-is-zakat")
	if err != nil {
		t.Fatalf("GetBySlug returned error: %v", err)
	}

	byID, err := provider.GetByID(ctx, content.TypeQuestion, item.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if byID.Slug != item.Slug {
		t.Fatalf("expected matching items, got %q and %q", byID.Slug, item.Slug)
	}

	if _, err := provider.GetBySlug(ctx, content.TypeQuestion, "missing"); !content.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
