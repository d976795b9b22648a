package meterapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"metering-dashboard/internal/model"
)

// Credential is the API key attached to every upstream request. It is
// passed in explicitly at construction rather than read from ambient
// state, so the client is testable without an environment.
type Credential string

// API is the surface of the metering service the dashboard consumes.
type API interface {
	ListEvents(ctx context.Context, filter model.EventFilter) (model.EventPage, error)
	ListAggregates(ctx context.Context, query model.AggregateQuery) (model.AggregateResponse, error)
	ValidateQuota(ctx context.Context, req model.QuotaRequest) (model.QuotaDecision, error)
}

// Client talks to the metering API over HTTP.
type Client struct {
	baseURL    string
	cred       Credential
	httpClient *http.Client
}

var _ API = (*Client)(nil)

// New builds a Client for the given base URL (including any path prefix,
// e.g. "https://meter.example.com/v1/meter").
func New(baseURL string, cred Credential, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cred:       cred,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// ListEvents fetches one page of events matching the filter.
func (c *Client) ListEvents(ctx context.Context, filter model.EventFilter) (model.EventPage, error) {
	q := url.Values{}
	if filter.TenantID != "" {
		q.Set("tenant_id", filter.TenantID)
	}
	if filter.Resource != "" {
		q.Set("resource", filter.Resource)
	}
	if filter.Feature != "" {
		q.Set("feature", filter.Feature)
	}
	if !filter.StartDate.IsZero() {
		q.Set("start_date", filter.StartDate.UTC().Format(time.RFC3339))
	}
	if !filter.EndDate.IsZero() {
		q.Set("end_date", filter.EndDate.UTC().Format(time.RFC3339))
	}
	q.Set("page", strconv.Itoa(filter.Page))
	q.Set("page_size", strconv.Itoa(filter.PageSize))

	var page model.EventPage
	if err := c.get(ctx, "/events", q, &page); err != nil {
		return model.EventPage{}, err
	}
	return page, nil
}

// ListAggregates fetches server-computed usage windows.
func (c *Client) ListAggregates(ctx context.Context, query model.AggregateQuery) (model.AggregateResponse, error) {
	q := url.Values{}
	q.Set("window_type", query.WindowType)
	q.Set("start_date", query.Start.UTC().Format(time.RFC3339))
	q.Set("end_date", query.End.UTC().Format(time.RFC3339))
	if query.TenantID != "" {
		q.Set("tenant_id", query.TenantID)
	}
	if query.Resource != "" {
		q.Set("resource", query.Resource)
	}
	if query.Feature != "" {
		q.Set("feature", query.Feature)
	}
	if query.GroupBy != "" {
		q.Set("group_by", query.GroupBy)
	}

	var resp model.AggregateResponse
	if err := c.get(ctx, "/aggregates", q, &resp); err != nil {
		return model.AggregateResponse{}, err
	}
	return resp, nil
}

// ValidateQuota asks the quota service whether the prospective usage is allowed.
func (c *Client) ValidateQuota(ctx context.Context, req model.QuotaRequest) (model.QuotaDecision, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return model.QuotaDecision{}, fmt.Errorf("marshal quota request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate", bytes.NewReader(payload))
	if err != nil {
		return model.QuotaDecision{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var decision model.QuotaDecision
	if err := c.do(httpReq, &decision); err != nil {
		return model.QuotaDecision{}, err
	}
	return decision, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.cred != "" {
		req.Header.Set("X-API-Key", string(c.cred))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("metering api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return readBodyAsError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
