package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"metering-dashboard/internal/model"
)

// fetchSample issues the query's page requests concurrently and merges the
// results. The join is all-or-nothing: the first page failure cancels the
// remaining requests and fails the whole sample, so a partial merge is
// never produced.
func (s *usageService) fetchSample(ctx context.Context, q model.SampleQuery) (model.MergedSample, error) {
	pages := make([]model.EventPage, q.Pages)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < q.Pages; i++ {
		i := i
		g.Go(func() error {
			page, err := s.api.ListEvents(gctx, q.Filter(i+1))
			if err != nil {
				return fmt.Errorf("fetch page %d: %w", i+1, err)
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.MergedSample{}, err
	}

	return mergePages(pages), nil
}

// mergePages concatenates page items in page-number order. Each slot in
// pages was filled by its request index, so the output order does not
// depend on fetch completion order. The total comes from the first page;
// all pages of one query share a filter, so they report the same total.
func mergePages(pages []model.EventPage) model.MergedSample {
	items := []model.Event{}
	for _, p := range pages {
		items = append(items, p.Items...)
	}

	total := 0
	if len(pages) > 0 {
		total = pages[0].Total
	}

	return model.MergedSample{Items: items, Total: total}
}

// bucketByDay groups the sample by calendar day in UTC. Buckets come back
// sorted ascending by day; the "2006-01-02" key makes lexical and
// chronological order coincide.
func bucketByDay(sample model.MergedSample) []model.DayBucket {
	byDay := map[string]int{}
	buckets := []model.DayBucket{}

	for _, ev := range sample.Items {
		day := ev.Timestamp.UTC().Format("2006-01-02")
		i, ok := byDay[day]
		if !ok {
			i = len(buckets)
			byDay[day] = i
			buckets = append(buckets, model.DayBucket{Day: day, TotalQuantity: decimal.Zero})
		}
		buckets[i].TotalQuantity = buckets[i].TotalQuantity.Add(ev.QuantityOrZero())
		buckets[i].EventCount++
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Day < buckets[j].Day })
	return buckets
}

// bucketByTenant groups the sample by tenant identifier, case-sensitive.
// Buckets come back in order of first appearance in the merged sample,
// which keeps the output deterministic for a given sample.
func bucketByTenant(sample model.MergedSample) []model.TenantBucket {
	byTenant := map[string]int{}
	buckets := []model.TenantBucket{}

	for _, ev := range sample.Items {
		i, ok := byTenant[ev.TenantID]
		if !ok {
			i = len(buckets)
			byTenant[ev.TenantID] = i
			buckets = append(buckets, model.TenantBucket{TenantID: ev.TenantID, TotalQuantity: decimal.Zero})
		}
		buckets[i].TotalQuantity = buckets[i].TotalQuantity.Add(ev.QuantityOrZero())
		buckets[i].EventCount++
	}

	return buckets
}
