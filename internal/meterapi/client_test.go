package meterapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"metering-dashboard/internal/model"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ClientTestSuite struct {
	suite.Suite
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) newClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client, err := New(srv.URL, "test-key", 5*time.Second)
	require.NoError(s.T(), err)
	return client, srv
}

func (s *ClientTestSuite) TestNew_RequiresBaseURL() {
	_, err := New("", "key", time.Second)
	s.Error(err)
}

func (s *ClientTestSuite) TestListEvents_RequestShape() {
	var gotPath string
	var gotQuery map[string][]string
	var gotKey string

	client, srv := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("X-API-Key")
		json.NewEncoder(w).Encode(model.EventPage{
			Items:      []model.Event{{ID: "e1", TenantID: "acme"}},
			Page:       2,
			PageSize:   100,
			Total:      250,
			TotalPages: 3,
		})
	})
	defer srv.Close()

	page, err := client.ListEvents(context.Background(), model.EventFilter{
		TenantID:  "acme",
		Resource:  "api",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Page:      2,
		PageSize:  100,
	})

	s.NoError(err)
	s.Equal("/events", gotPath)
	s.Equal("test-key", gotKey)
	s.Equal([]string{"acme"}, gotQuery["tenant_id"])
	s.Equal([]string{"api"}, gotQuery["resource"])
	s.Equal([]string{"2024-01-01T00:00:00Z"}, gotQuery["start_date"])
	s.Equal([]string{"2"}, gotQuery["page"])
	s.Equal([]string{"100"}, gotQuery["page_size"])
	s.NotContains(gotQuery, "feature")

	s.Equal(250, page.Total)
	s.Equal(3, page.TotalPages)
	s.Len(page.Items, 1)
}

func (s *ClientTestSuite) TestListEvents_ErrorDetailSurfaced() {
	client, srv := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"detail": "invalid api key"})
	})
	defer srv.Close()

	_, err := client.ListEvents(context.Background(), model.EventFilter{Page: 1, PageSize: 10})

	s.Error(err)
	var apiErr *APIError
	s.ErrorAs(err, &apiErr)
	s.Equal(http.StatusForbidden, apiErr.StatusCode)
	s.Equal("invalid api key", apiErr.Message)
}

func (s *ClientTestSuite) TestListEvents_NonJSONErrorBody() {
	client, srv := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream timeout"))
	})
	defer srv.Close()

	_, err := client.ListEvents(context.Background(), model.EventFilter{Page: 1, PageSize: 10})

	var apiErr *APIError
	s.ErrorAs(err, &apiErr)
	s.Equal(http.StatusBadGateway, apiErr.StatusCode)
	s.Equal("upstream timeout", apiErr.Message)
}

func (s *ClientTestSuite) TestListAggregates_RequestShape() {
	var gotQuery map[string][]string

	client, srv := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(model.AggregateResponse{
			Aggregates: []model.Aggregate{{TenantID: "acme", WindowType: "daily", TotalQuantity: 9, EventCount: 3}},
		})
	})
	defer srv.Close()

	resp, err := client.ListAggregates(context.Background(), model.AggregateQuery{
		WindowType: "daily",
		Start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		GroupBy:    "tenant_id",
	})

	s.NoError(err)
	s.Equal([]string{"daily"}, gotQuery["window_type"])
	s.Equal([]string{"tenant_id"}, gotQuery["group_by"])
	s.Len(resp.Aggregates, 1)
}

func (s *ClientTestSuite) TestValidateQuota_PostBody() {
	var gotMethod, gotContentType string
	var gotBody model.QuotaRequest

	client, srv := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(model.QuotaDecision{Allowed: false, Remaining: 0, Limit: 100, Message: "quota exhausted"})
	})
	defer srv.Close()

	quantity := 5.0
	decision, err := client.ValidateQuota(context.Background(), model.QuotaRequest{
		TenantID: "acme",
		Resource: "api",
		Feature:  "calls",
		Quantity: &quantity,
		Period:   "monthly",
	})

	s.NoError(err)
	s.Equal(http.MethodPost, gotMethod)
	s.Equal("application/json", gotContentType)
	s.Equal("acme", gotBody.TenantID)
	s.NotNil(gotBody.Quantity)
	s.False(decision.Allowed)
	s.Equal("quota exhausted", decision.Message)
}

func (s *ClientTestSuite) TestRequest_NetworkErrorIsNotAPIError() {
	client, err := New("http://127.0.0.1:1", "key", 200*time.Millisecond)
	require.NoError(s.T(), err)

	_, err = client.ListEvents(context.Background(), model.EventFilter{Page: 1, PageSize: 10})

	s.Error(err)
	var apiErr *APIError
	s.False(errors.As(err, &apiErr), "network failures are not APIErrors")
}
