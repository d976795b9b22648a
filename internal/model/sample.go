package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SampleQuery identifies one dashboard query: the event filter plus the
// sampling bounds. It is a comparable value type so it can key caches and
// in-flight work; times must be normalized (UTC, no monotonic reading)
// before it is used as a key.
type SampleQuery struct {
	TenantID string
	Resource string
	Feature  string
	Start    time.Time
	End      time.Time
	Pages    int
	PageSize int
}

// Filter returns the event filter for one page of this query.
func (q SampleQuery) Filter(page int) EventFilter {
	return EventFilter{
		TenantID:  q.TenantID,
		Resource:  q.Resource,
		Feature:   q.Feature,
		StartDate: q.Start,
		EndDate:   q.End,
		Page:      page,
		PageSize:  q.PageSize,
	}
}

// MergedSample is the concatenation of all fetched pages for one query.
// Total is the server-reported dataset size and may exceed len(Items);
// the sample is then partial and must be disclosed as such.
type MergedSample struct {
	Items []Event
	Total int
}

// FetchedCount reports how many events the sample actually holds.
func (s MergedSample) FetchedCount() int {
	return len(s.Items)
}

// IsPartial reports whether the server holds more events than were fetched.
func (s MergedSample) IsPartial() bool {
	return len(s.Items) < s.Total
}

// DayBucket accumulates usage for one calendar day (UTC).
type DayBucket struct {
	Day           string          `json:"day"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	EventCount    int             `json:"event_count"`
}

// TenantBucket accumulates usage for one tenant.
type TenantBucket struct {
	TenantID      string          `json:"tenant_id"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	EventCount    int             `json:"event_count"`
}

// Period is the queried time window, RFC3339 formatted.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// UsageSummary is the day-bucketed view served to the dashboard. The
// sample-disclosure fields travel with the figures: whenever IsPartial is
// true the numbers describe a sample of FetchedEvents out of ReportedTotal.
type UsageSummary struct {
	Period        Period          `json:"period"`
	Days          []DayBucket     `json:"days"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	FetchedEvents int             `json:"fetched_events"`
	ReportedTotal int             `json:"reported_total"`
	IsPartial     bool            `json:"is_partial"`
}

// TenantUsageReport is the per-tenant view, with the same disclosure fields.
type TenantUsageReport struct {
	Period        Period         `json:"period"`
	Tenants       []TenantBucket `json:"tenants"`
	FetchedEvents int            `json:"fetched_events"`
	ReportedTotal int            `json:"reported_total"`
	IsPartial     bool           `json:"is_partial"`
}
