// Package analytics maintains per-day view buckets on top of the store
// and computes rollups for the admin dashboard.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/northbound/siteengine/store"
)

// RequestMeta is the snapshot of the request that triggers a page view.
// It is persisted only on the first view of an entity on a given day.
type RequestMeta struct {
	Referrer  string `json:"referrer"`
	UserAgent string `json:"user_agent"`
	IP        string `json:"ip"`
	Country   string `json:"country"`
	City      string `json:"city"`
}

// EntityTotals sums both counters for one entity type.
type EntityTotals struct {
	PageViews   int `json:"page_views"`
	UniqueViews int `json:"unique_views"`
}

// Summary is the rollup over a trailing window of days.
type Summary struct {
	Start       time.Time    `json:"start"`
	End         time.Time    `json:"end"`
	PageViews   int          `json:"page_views"`
	UniqueViews int          `json:"unique_views"`
	Blog        EntityTotals `json:"blog_post"`
	Portfolio   EntityTotals `json:"portfolio_project"`
}

// ContentRank is one entry of a top-content ranking.
type ContentRank struct {
	EntityID string `json:"entity_id"`
	Views    int    `json:"views"`
}

// Aggregator upserts daily view buckets and computes rollups. It owns no
// state of its own; everything lives in the store's analytics table.
type Aggregator struct {
	store *store.Store
	now   func() time.Time
}

// NewAggregator creates an Aggregator over the given store.
func NewAggregator(s *store.Store) *Aggregator {
	return &Aggregator{store: s, now: time.Now}
}

// today returns the current date truncated to UTC midnight.
func (a *Aggregator) today() time.Time {
	t := a.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Track records one page view for the entity. The first view of a day
// creates the bucket and captures the request snapshot; later views on
// the same day only increment the counters. Both page_views and
// unique_views go up by one on every call; there is no visitor
// deduplication.
func (a *Aggregator) Track(entityType store.EntityType, entityID string, meta RequestMeta) (*store.AnalyticsBucket, error) {
	if entityType != store.EntityBlogPost && entityType != store.EntityPortfolioProject {
		return nil, fmt.Errorf("analytics: unknown entity type %q", entityType)
	}
	day := a.today()

	existing, err := a.store.Analytics.First(func(b *store.AnalyticsBucket) bool {
		return b.EntityType == entityType && b.EntityID == entityID && b.Date.Equal(day)
	})
	if err == nil {
		return a.store.Analytics.Update(existing.ID, func(b *store.AnalyticsBucket) {
			b.PageViews++
			b.UniqueViews++
		})
	}

	return a.store.Analytics.Insert(&store.AnalyticsBucket{
		EntityType:  entityType,
		EntityID:    entityID,
		Date:        day,
		PageViews:   1,
		UniqueViews: 1,
		Referrer:    meta.Referrer,
		UserAgent:   meta.UserAgent,
		IP:          meta.IP,
		Country:     meta.Country,
		City:        meta.City,
	})
}

// Summarize rolls up every bucket whose date falls within the trailing
// window of the given number of days.
func (a *Aggregator) Summarize(days int) Summary {
	end := a.now().UTC()
	start := end.AddDate(0, 0, -days)

	sum := Summary{Start: start, End: end}
	for _, b := range a.store.Analytics.List() {
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		sum.PageViews += b.PageViews
		sum.UniqueViews += b.UniqueViews
		switch b.EntityType {
		case store.EntityBlogPost:
			sum.Blog.PageViews += b.PageViews
			sum.Blog.UniqueViews += b.UniqueViews
		case store.EntityPortfolioProject:
			sum.Portfolio.PageViews += b.PageViews
			sum.Portfolio.UniqueViews += b.UniqueViews
		}
	}
	return sum
}

// TopContent sums page views per entity across all days for one entity
// type and returns the top limit entries, most viewed first. Ties are
// broken by entity id so the ordering is deterministic.
func (a *Aggregator) TopContent(entityType store.EntityType, limit int) []ContentRank {
	totals := make(map[string]int)
	for _, b := range a.store.Analytics.List(func(b *store.AnalyticsBucket) bool { return b.EntityType == entityType }) {
		totals[b.EntityID] += b.PageViews
	}

	ranks := make([]ContentRank, 0, len(totals))
	for id, views := range totals {
		ranks = append(ranks, ContentRank{EntityID: id, Views: views})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Views != ranks[j].Views {
			return ranks[i].Views > ranks[j].Views
		}
		return ranks[i].EntityID < ranks[j].EntityID
	})
	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks
}

// StartRetentionSweep deletes buckets older than maxAgeDays on every
// interval tick. It returns a stop function.
func (a *Aggregator) StartRetentionSweep(maxAgeDays int, interval time.Duration) func() {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.sweep(maxAgeDays)
			case <-stop:
				return
			}
		}
	}()
	return func() { close(stop) }
}

func (a *Aggregator) sweep(maxAgeDays int) {
	cutoff := a.today().AddDate(0, 0, -maxAgeDays)
	for _, b := range a.store.Analytics.List(func(b *store.AnalyticsBucket) bool { return b.Date.Before(cutoff) }) {
		a.store.Analytics.Delete(b.ID)
	}
}
