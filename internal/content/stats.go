package content

import (
	"context"
	"sort"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

const (
	recentItemsLimit = 5
	// distributionScanLimit bounds the listing that feeds the category
	// distribution. View sums and the distribution are O(n) in collection
	// size, which is acceptable at the platform's content volumes.
	distributionScanLimit = 500
)

// CategoryCount is one bucket of the category distribution.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// StatsReport is the merged result of the aggregator's fan-out. It is built
// fresh per request and never persisted.
type StatsReport struct {
	Counts               map[Type]int64  `json:"counts"`
	TotalViews           int64           `json:"totalViews"`
	ViewsByType          map[Type]int64  `json:"viewsByType"`
	RecentItems          map[Type][]Item `json:"recentItems"`
	CategoryDistribution []CategoryCount `json:"categoryDistribution"`
}

// Aggregator fans out count, recent-item and view-sum queries across every
// content type concurrently and merges the results. Each sub-query failure is
// absorbed: the failed slice keeps its zero value and the rest of the report
// is unaffected.
type Aggregator struct {
	store     Store
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

// NewAggregator wires the aggregator against a store adapter.
func NewAggregator(store Store, logger *logrus.Logger, hub *sentry.Hub) (*Aggregator, error) {
	if store == nil {
		return nil, eris.New("aggregator store is required")
	}

	return &Aggregator{store: store, logger: logger, sentryHub: hub}, nil
}

// BuildReport issues the per-type sub-queries concurrently and merges them
// once all have resolved or failed. It never fails.
func (a *Aggregator) BuildReport(ctx context.Context) StatsReport {
	report := StatsReport{
		Counts:               make(map[Type]int64, len(Types())),
		ViewsByType:          make(map[Type]int64, len(Types())),
		RecentItems:          make(map[Type][]Item, len(Types())),
		CategoryDistribution: []CategoryCount{},
	}

	for _, t := range Types() {
		report.Counts[t] = 0
		report.ViewsByType[t] = 0
		report.RecentItems[t] = []Item{}
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, t := range Types() {
		wg.Add(3)

		go func(t Type) {
			defer wg.Done()
			count, err := a.store.Count(ctx, t)
			if err != nil {
				a.recordError(logrus.Fields{"type": string(t)}, err, "counting items for stats report")
				return
			}
			mu.Lock()
			report.Counts[t] = count
			mu.Unlock()
		}(t)

		go func(t Type) {
			defer wg.Done()
			result, err := a.store.List(ctx, t, QuerySpec{Page: 1, Limit: recentItemsLimit})
			if err != nil {
				a.recordError(logrus.Fields{"type": string(t)}, err, "listing recent items for stats report")
				return
			}
			mu.Lock()
			report.RecentItems[t] = result.Items
			mu.Unlock()
		}(t)

		go func(t Type) {
			defer wg.Done()
			views, err := a.store.SumViews(ctx, t)
			if err != nil {
				a.recordError(logrus.Fields{"type": string(t)}, err, "summing views for stats report")
				return
			}
			mu.Lock()
			report.ViewsByType[t] = views
			mu.Unlock()
		}(t)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		distribution, err := a.categoryDistribution(ctx)
		if err != nil {
			a.recordError(nil, err, "building category distribution for stats report")
			return
		}
		mu.Lock()
		report.CategoryDistribution = distribution
		mu.Unlock()
	}()

	wg.Wait()

	for _, views := range report.ViewsByType {
		report.TotalViews += views
	}

	return report
}

// categoryDistribution groups the article collection by resolved category
// name. Items whose category reference does not resolve land in the
// "Uncategorized" bucket.
func (a *Aggregator) categoryDistribution(ctx context.Context) ([]CategoryCount, error) {
	result, err := a.store.List(ctx, TypeArticle, QuerySpec{Page: 1, Limit: distributionScanLimit})
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]int64)
	for _, item := range result.Items {
		name := item.CategoryName
		if name == "" {
			name = "Uncategorized"
		}
		buckets[name]++
	}

	distribution := make([]CategoryCount, 0, len(buckets))
	for name, count := range buckets {
		distribution = append(distribution, CategoryCount{Name: name, Count: count})
	}

	sort.Slice(distribution, func(i, j int) bool {
		if distribution[i].Count != distribution[j].Count {
			return distribution[i].Count > distribution[j].Count
		}
		return distribution[i].Name < distribution[j].Name
	})

	return distribution, nil
}

func (a *Aggregator) recordError(fields logrus.Fields, err error, message string) {
	if a.logger != nil {
		entry := a.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if a.sentryHub != nil {
		a.sentryHub.CaptureException(err)
	}
}
