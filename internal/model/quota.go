package model

import "time"

// AggregateQuery selects pre-computed windows from the aggregates endpoint.
type AggregateQuery struct {
	WindowType string
	Start      time.Time
	End        time.Time
	TenantID   string
	Resource   string
	Feature    string
	GroupBy    string
}

// Aggregate is one server-computed usage window.
type Aggregate struct {
	TenantID      string    `json:"tenant_id"`
	Resource      string    `json:"resource"`
	Feature       string    `json:"feature"`
	WindowStart   time.Time `json:"window_start"`
	WindowEnd     time.Time `json:"window_end"`
	WindowType    string    `json:"window_type"`
	TotalQuantity float64   `json:"total_quantity"`
	EventCount    int       `json:"event_count"`
}

// AggregateResponse is the aggregates endpoint payload.
type AggregateResponse struct {
	Aggregates []Aggregate    `json:"aggregates"`
	Summary    map[string]any `json:"summary"`
}

// QuotaRequest asks the metering API whether a prospective usage fits the
// tenant's quota. The dashboard forwards it verbatim.
type QuotaRequest struct {
	TenantID string   `json:"tenant_id"`
	Resource string   `json:"resource"`
	Feature  string   `json:"feature"`
	Quantity *float64 `json:"quantity,omitempty"`
	Period   string   `json:"period"`
}

// QuotaDecision is the quota service's answer, displayed as-is.
type QuotaDecision struct {
	Allowed      bool      `json:"allowed"`
	Remaining    float64   `json:"remaining"`
	Limit        float64   `json:"limit"`
	Period       string    `json:"period"`
	ResetAt      time.Time `json:"reset_at"`
	CurrentUsage float64   `json:"current_usage"`
	Message      string    `json:"message,omitempty"`
}
