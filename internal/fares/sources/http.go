package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/staticimport/swa/internal/fares"
)

// HTTPSource implements fares.Source against a JSON search endpoint. The
// endpoint answers with the raw value strings of every result option:
//
//	{"outboundTrip": ["...,...", ...], "inboundTrip": [...]}
type HTTPSource struct {
	name    string
	baseURL string
	client  *resilientClient
}

// NewHTTPSource creates a source for baseURL using the given client.
func NewHTTPSource(client *http.Client, baseURL string, backoff BackoffConfig) *HTTPSource {
	return &HTTPSource{
		name:    "http",
		baseURL: baseURL,
		client:  newResilientClient("fare-search", client, backoff),
	}
}

func (s *HTTPSource) Name() string {
	return s.name
}

type searchResponse struct {
	Outbound []string `json:"outboundTrip"`
	Inbound  []string `json:"inboundTrip"`
}

func (s *HTTPSource) FetchFareOptions(ctx context.Context, it fares.Itinerary) (fares.FareResults, error) {
	if s.baseURL == "" {
		return fares.FareResults{}, fmt.Errorf("fare search url is not configured")
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("originAirport", it.Origin)
		values.Set("destinationAirport", it.Destination)
		values.Set("outboundDateString", it.Leave.Format(fares.DateLayout))
		values.Set("returnDateString", it.Return.Format(fares.DateLayout))
		values.Set("adultPassengerCount", strconv.Itoa(it.Passengers))

		u := fmt.Sprintf("%s?%s", s.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	body, err := s.client.get(ctx, buildRequest)
	if err != nil {
		return fares.FareResults{}, err
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return fares.FareResults{}, fmt.Errorf("decode search response: %w", err)
	}

	return fares.FareResults{
		Outbound: splitAll(payload.Outbound),
		Inbound:  splitAll(payload.Inbound),
	}, nil
}

func splitAll(values []string) [][]string {
	records := make([][]string, 0, len(values))
	for _, v := range values {
		records = append(records, fares.SplitRecord(v))
	}
	return records
}
