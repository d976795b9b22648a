package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is one metered usage fact as reported by the metering API.
// Events are read-only from the dashboard's point of view.
type Event struct {
	ID        string            `json:"id"`
	TenantID  string            `json:"tenant_id"`
	Resource  string            `json:"resource"`
	Feature   string            `json:"feature"`
	Quantity  *float64          `json:"quantity"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// QuantityOrZero returns the event quantity as a decimal, treating an
// absent quantity as zero. Live metering data may legitimately omit it.
func (e Event) QuantityOrZero() decimal.Decimal {
	if e.Quantity == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*e.Quantity)
}

// EventPage is one bounded-size response from the events endpoint.
// Total and TotalPages describe the entire filtered dataset, not the page.
type EventPage struct {
	Items      []Event `json:"items"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
}

// EventFilter selects events from the upstream API.
type EventFilter struct {
	TenantID  string
	Resource  string
	Feature   string
	StartDate time.Time
	EndDate   time.Time
	Page      int
	PageSize  int
}
