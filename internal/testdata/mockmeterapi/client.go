package mockmeterapi

import (
	"context"

	"metering-dashboard/internal/meterapi"
	"metering-dashboard/internal/model"

	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

// Interface compliance check
var _ meterapi.API = &Client{}

func (m *Client) ListEvents(ctx context.Context, filter model.EventFilter) (model.EventPage, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(model.EventPage), args.Error(1)
}

func (m *Client) ListAggregates(ctx context.Context, query model.AggregateQuery) (model.AggregateResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(model.AggregateResponse), args.Error(1)
}

func (m *Client) ValidateQuota(ctx context.Context, req model.QuotaRequest) (model.QuotaDecision, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.QuotaDecision), args.Error(1)
}
