package mockservice

import (
	"context"

	"metering-dashboard/internal/model"
	"metering-dashboard/internal/service"

	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

// Interface compliance check
var _ service.UsageService = &Service{}

func (m *Service) Summary(ctx context.Context, q model.SampleQuery) (model.UsageSummary, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.UsageSummary), args.Error(1)
}

func (m *Service) TenantUsage(ctx context.Context, q model.SampleQuery) (model.TenantUsageReport, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.TenantUsageReport), args.Error(1)
}

func (m *Service) BrowseEvents(ctx context.Context, filter model.EventFilter) (model.EventPage, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(model.EventPage), args.Error(1)
}

func (m *Service) ServerAggregates(ctx context.Context, q model.AggregateQuery) (model.AggregateResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.AggregateResponse), args.Error(1)
}

func (m *Service) CheckQuota(ctx context.Context, req model.QuotaRequest) (model.QuotaDecision, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.QuotaDecision), args.Error(1)
}
