package sources

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jszwec/csvutil"

	"github.com/staticimport/swa/internal/fares"
)

// Leg names used by search results.
const (
	LegOutbound = "outboundTrip"
	LegInbound  = "inboundTrip"
)

// replayRow is one result option captured from an earlier search.
type replayRow struct {
	Origin      string `csv:"origin"`
	Destination string `csv:"destination"`
	Leg         string `csv:"leg"`
	Value       string `csv:"value"`
}

// ReplaySource serves fares from a CSV capture instead of a live search.
// The file is re-read on every fetch so it can be edited between polls.
type ReplaySource struct {
	path string
}

func NewReplaySource(path string) *ReplaySource {
	return &ReplaySource{path: path}
}

func (s *ReplaySource) Name() string {
	return "replay"
}

func (s *ReplaySource) FetchFareOptions(ctx context.Context, it fares.Itinerary) (fares.FareResults, error) {
	if err := ctx.Err(); err != nil {
		return fares.FareResults{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fares.FareResults{}, fmt.Errorf("read replay file: %w", err)
	}

	var rows []replayRow
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return fares.FareResults{}, fmt.Errorf("decode replay file %s: %w", s.path, err)
	}

	var results fares.FareResults
	for _, row := range rows {
		if !strings.EqualFold(row.Origin, it.Origin) || !strings.EqualFold(row.Destination, it.Destination) {
			continue
		}
		switch row.Leg {
		case LegOutbound:
			results.Outbound = append(results.Outbound, fares.SplitRecord(row.Value))
		case LegInbound:
			results.Inbound = append(results.Inbound, fares.SplitRecord(row.Value))
		}
	}
	return results, nil
}
