package content

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
)

func seededStatsStore() *stubStore {
	base := time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC)

	store := newStubStore()
	for i := 0; i < 7; i++ {
		item := sampleItem(TypeArticle, articleID(i), "article", "Article", base.Add(time.Duration(i)*time.Hour))
		item.Views = 10
		item.CategoryName = "Fiqh"
		if i%3 == 0 {
			item.CategoryName = "Aqeedah"
		}
		if i == 6 {
			item.CategoryName = ""
		}
		store.add(item)
	}
	store.add(sampleItem(TypeQuestion, "q1", "what-is-zakat", "What is Zakat?", base))
	store.add(sampleItem(TypePost, "p1", "announcement", "Announcement", base))
	return store
}

func articleID(i int) string {
	return string(rune('a' + i))
}

func TestBuildReportMergesFanOut(t *testing.T) {
	t.Parallel()

	aggregator, err := NewAggregator(seededStatsStore(), silentLogger(), nil)
	if err != nil {
		t.Fatalf("NewAggregator returned error: %v", err)
	}

	report := aggregator.BuildReport(context.Background())

	if report.Counts[TypeArticle] != 7 {
		t.Fatalf("expected 7 articles, got %d", report.Counts[TypeArticle])
	}
	if report.Counts[TypeQuestion] != 1 || report.Counts[TypePost] != 1 || report.Counts[TypeMedia] != 0 {
		t.Fatalf("unexpected counts: %+v", report.Counts)
	}

	if report.ViewsByType[TypeArticle] != 70 {
		t.Fatalf("expected 70 article views, got %d", report.ViewsByType[TypeArticle])
	}
	if report.TotalViews != 70 {
		t.Fatalf("expected total views 70, got %d", report.TotalViews)
	}

	recent := report.RecentItems[TypeArticle]
	if len(recent) != 5 {
		t.Fatalf("expected 5 recent articles, got %d", len(recent))
	}
	if recent[0].CreatedAt.Before(recent[len(recent)-1].CreatedAt) {
		t.Fatalf("expected recent items newest first")
	}

	if len(report.CategoryDistribution) != 3 {
		t.Fatalf("expected 3 category buckets, got %+v", report.CategoryDistribution)
	}
	if report.CategoryDistribution[0].Name != "Fiqh" || report.CategoryDistribution[0].Count != 4 {
		t.Fatalf("expected Fiqh bucket with 4 items first, got %+v", report.CategoryDistribution[0])
	}

	var uncategorized int64
	for _, bucket := range report.CategoryDistribution {
		if bucket.Name == "Uncategorized" {
			uncategorized = bucket.Count
		}
	}
	if uncategorized != 1 {
		t.Fatalf("expected one uncategorized article, got %d", uncategorized)
	}
}

func TestBuildReportAbsorbsPartialFailure(t *testing.T) {
	t.Parallel()

	store := seededStatsStore()
	store.countErr = func(t Type) error {
		if t == TypeQuestion {
			return eris.Wrap(ErrStoreUnavailable, "count timed out")
		}
		return nil
	}

	aggregator, err := NewAggregator(store, silentLogger(), nil)
	if err != nil {
		t.Fatalf("NewAggregator returned error: %v", err)
	}

	report := aggregator.BuildReport(context.Background())

	if report.Counts[TypeQuestion] != 0 {
		t.Fatalf("expected failed count to default to zero, got %d", report.Counts[TypeQuestion])
	}
	if report.Counts[TypeArticle] != 7 || report.Counts[TypePost] != 1 {
		t.Fatalf("expected sibling counts to survive, got %+v", report.Counts)
	}
	if report.TotalViews != 70 {
		t.Fatalf("expected view sums to be unaffected, got %d", report.TotalViews)
	}
}

func TestBuildReportNeverFailsOnTotalOutage(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	outage := func(Type) error { return eris.Wrap(ErrStoreUnavailable, "connection refused") }
	store.countErr = outage
	store.sumErr = outage
	store.listErr = outage

	aggregator, err := NewAggregator(store, silentLogger(), nil)
	if err != nil {
		t.Fatalf("NewAggregator returned error: %v", err)
	}

	report := aggregator.BuildReport(context.Background())

	for _, typ := range Types() {
		if report.Counts[typ] != 0 || report.ViewsByType[typ] != 0 {
			t.Fatalf("expected zero-valued report, got %+v", report)
		}
		if len(report.RecentItems[typ]) != 0 {
			t.Fatalf("expected no recent items for %s", typ)
		}
	}
	if report.TotalViews != 0 || len(report.CategoryDistribution) != 0 {
		t.Fatalf("expected empty aggregates, got %+v", report)
	}
}
