package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"metering-dashboard/internal/cache"
	"metering-dashboard/internal/config"
	"metering-dashboard/internal/meterapi"
	"metering-dashboard/internal/model"
)

// ValidationError represents user input issues.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Settings bounds the sampling behavior of the service.
type Settings struct {
	Window   time.Duration
	Pages    int
	PageSize int
	CacheTTL time.Duration
}

// usageService wires the sampling core to the metering API.
type usageService struct {
	api      meterapi.API
	samples  *cache.TTLMap[model.SampleQuery, model.MergedSample]
	settings Settings
	now      func() time.Time
}

type UsageService interface {
	Summary(ctx context.Context, q model.SampleQuery) (model.UsageSummary, error)
	TenantUsage(ctx context.Context, q model.SampleQuery) (model.TenantUsageReport, error)
	BrowseEvents(ctx context.Context, filter model.EventFilter) (model.EventPage, error)
	ServerAggregates(ctx context.Context, q model.AggregateQuery) (model.AggregateResponse, error)
	CheckQuota(ctx context.Context, req model.QuotaRequest) (model.QuotaDecision, error)
}

// NewUsageService constructs a usageService. The samples cache may be nil
// to disable caching.
func NewUsageService(api meterapi.API, samples *cache.TTLMap[model.SampleQuery, model.MergedSample], settings Settings) UsageService {
	return &usageService{
		api:      api,
		samples:  samples,
		settings: settings,
		now:      time.Now,
	}
}

// Summary fetches a bounded sample for the query and reduces it to the
// day-bucketed view, including the partial-sample disclosure.
func (s *usageService) Summary(ctx context.Context, q model.SampleQuery) (model.UsageSummary, error) {
	nq, err := s.normalizeQuery(q)
	if err != nil {
		return model.UsageSummary{}, err
	}

	sample, err := s.loadSample(ctx, nq)
	if err != nil {
		return model.UsageSummary{}, err
	}

	days := bucketByDay(sample)
	total := decimal.Zero
	for _, d := range days {
		total = total.Add(d.TotalQuantity)
	}

	return model.UsageSummary{
		Period:        periodOf(nq),
		Days:          days,
		TotalQuantity: total,
		FetchedEvents: sample.FetchedCount(),
		ReportedTotal: sample.Total,
		IsPartial:     sample.IsPartial(),
	}, nil
}

// TenantUsage fetches a bounded sample for the query and reduces it to
// per-tenant totals, including the partial-sample disclosure.
func (s *usageService) TenantUsage(ctx context.Context, q model.SampleQuery) (model.TenantUsageReport, error) {
	nq, err := s.normalizeQuery(q)
	if err != nil {
		return model.TenantUsageReport{}, err
	}

	sample, err := s.loadSample(ctx, nq)
	if err != nil {
		return model.TenantUsageReport{}, err
	}

	return model.TenantUsageReport{
		Period:        periodOf(nq),
		Tenants:       bucketByTenant(sample),
		FetchedEvents: sample.FetchedCount(),
		ReportedTotal: sample.Total,
		IsPartial:     sample.IsPartial(),
	}, nil
}

// BrowseEvents forwards a single-page listing to the metering API for the
// events explorer.
func (s *usageService) BrowseEvents(ctx context.Context, filter model.EventFilter) (model.EventPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	if filter.PageSize > config.MaxPageSize {
		filter.PageSize = config.MaxPageSize
	}
	if !filter.StartDate.IsZero() && !filter.EndDate.IsZero() && filter.StartDate.After(filter.EndDate) {
		return model.EventPage{}, &ValidationError{Message: "start_date must be before end_date"}
	}

	return s.api.ListEvents(ctx, filter)
}

// ServerAggregates forwards an aggregate query to the metering API's own
// aggregation endpoint.
func (s *usageService) ServerAggregates(ctx context.Context, q model.AggregateQuery) (model.AggregateResponse, error) {
	if !isSupportedWindow(q.WindowType) {
		return model.AggregateResponse{}, &ValidationError{Message: "unsupported window_type"}
	}

	now := s.now().UTC()
	if q.End.IsZero() {
		q.End = now
	} else {
		q.End = q.End.UTC()
	}
	if q.Start.IsZero() {
		q.Start = q.End.Add(-s.settings.Window)
	} else {
		q.Start = q.Start.UTC()
	}
	if q.Start.After(q.End) {
		return model.AggregateResponse{}, &ValidationError{Message: "start_date must be before end_date"}
	}

	return s.api.ListAggregates(ctx, q)
}

// CheckQuota validates the request shape and delegates the decision to the
// quota service. The dashboard holds no quota logic of its own.
func (s *usageService) CheckQuota(ctx context.Context, req model.QuotaRequest) (model.QuotaDecision, error) {
	if req.TenantID == "" {
		return model.QuotaDecision{}, &ValidationError{Message: "tenant_id is required"}
	}
	if req.Resource == "" {
		return model.QuotaDecision{}, &ValidationError{Message: "resource is required"}
	}
	if req.Feature == "" {
		return model.QuotaDecision{}, &ValidationError{Message: "feature is required"}
	}
	if !isSupportedPeriod(req.Period) {
		return model.QuotaDecision{}, &ValidationError{Message: "unsupported period"}
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return model.QuotaDecision{}, &ValidationError{Message: "quantity must not be negative"}
	}

	return s.api.ValidateQuota(ctx, req)
}

// loadSample returns the cached sample for the normalized query, fetching
// and caching it on a miss. Results are stored only under their own query
// key, so a superseded query can never serve a different current one.
func (s *usageService) loadSample(ctx context.Context, q model.SampleQuery) (model.MergedSample, error) {
	if sample, ok := s.samples.GetFresh(q, s.now()); ok {
		return sample, nil
	}

	sample, err := s.fetchSample(ctx, q)
	if err != nil {
		return model.MergedSample{}, err
	}

	s.samples.SetWithTTL(q, sample, s.now(), s.settings.CacheTTL)
	return sample, nil
}

// normalizeQuery fills defaults and strips monotonic clock readings so the
// query is usable as a cache key. The window defaults to the configured
// sample window ending now.
func (s *usageService) normalizeQuery(q model.SampleQuery) (model.SampleQuery, error) {
	now := s.now().UTC()

	if q.End.IsZero() {
		// Truncated so that back-to-back renders of the default window
		// share one cache key instead of a fresh key per call.
		q.End = now.Truncate(time.Minute)
	} else {
		q.End = q.End.UTC()
	}
	if q.Start.IsZero() {
		q.Start = q.End.Add(-s.settings.Window)
	} else {
		q.Start = q.Start.UTC()
	}
	if q.Start.After(q.End) {
		return model.SampleQuery{}, &ValidationError{Message: "start_date must be before end_date"}
	}

	if q.Pages < 1 {
		q.Pages = s.settings.Pages
	}
	if q.PageSize < 1 {
		q.PageSize = s.settings.PageSize
	}
	if q.PageSize > config.MaxPageSize {
		q.PageSize = config.MaxPageSize
	}

	return q, nil
}

func periodOf(q model.SampleQuery) model.Period {
	return model.Period{
		Start: q.Start.UTC().Format(time.RFC3339),
		End:   q.End.UTC().Format(time.RFC3339),
	}
}

func isSupportedWindow(window string) bool {
	switch window {
	case "hourly", "daily", "monthly":
		return true
	default:
		return false
	}
}

func isSupportedPeriod(period string) bool {
	switch period {
	case "hourly", "daily", "monthly", "yearly":
		return true
	default:
		return false
	}
}
