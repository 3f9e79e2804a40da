package fares

import (
	"context"
	"time"
)

// FareResults holds the raw records of one search, split by leg. Each record
// is the ordered field list of one result option.
type FareResults struct {
	Outbound [][]string
	Inbound  [][]string
}

// Source abstracts where fare search results come from.
type Source interface {
	Name() string
	FetchFareOptions(ctx context.Context, it Itinerary) (FareResults, error)
}

// Notifier delivers alert text to the operator.
type Notifier interface {
	SendAlert(ctx context.Context, subject, body string) error
}

// Alert is one delivered (or attempted) price drop notification.
type Alert struct {
	ID        string    `json:"id"`
	TripKey   string    `json:"tripKey"`
	TripName  string    `json:"tripName"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `json:"createdAt"` // always UTC
}

// AlertStore is the contract the in-memory alert history must satisfy.
type AlertStore interface {
	SaveAlert(alert Alert)
	ListAlerts(tripKey string, limit int) ([]Alert, error)
}
