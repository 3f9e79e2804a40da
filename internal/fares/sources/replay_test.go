package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staticimport/swa/internal/fares"
)

const replayCSV = `origin,destination,leg,value
AUS,SFO,outboundTrip,"0,WN1,WGA@0@129.00@ADT,1,2h 35m,ns,AUS,SFO,9:05 AM,11:40 AM"
AUS,SFO,outboundTrip,"0,WN3,WGA@0@119.00@ADT,1,2h 35m,ns,AUS,SFO,9:05 AM,11:40 AM"
AUS,SFO,inboundTrip,"0,WN2,WGA@0@99.00@ADT,1,3h 05m,ns,SFO,AUS,6:00 PM,11:05 PM"
DAL,HOU,outboundTrip,"0,WN9,WGA@0@49.00@ADT,1,1h,ns,DAL,HOU,7:00 AM,8:00 AM"
`

func TestReplaySource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fares.csv")
	require.NoError(t, os.WriteFile(path, []byte(replayCSV), 0644))

	src := NewReplaySource(path)
	assert.Equal(t, "replay", src.Name())

	results, err := src.FetchFareOptions(context.Background(), testItinerary())
	require.NoError(t, err)
	require.Len(t, results.Outbound, 2)
	require.Len(t, results.Inbound, 1)

	set, rejected := fares.CollectRecords(results.Outbound)
	assert.Empty(t, rejected)
	best, ok := set.Best()
	require.True(t, ok)
	assert.Equal(t, "119.00", best.Price.StringFixed(2))
}

func TestReplaySourceMissingFile(t *testing.T) {
	src := NewReplaySource(filepath.Join(t.TempDir(), "missing.csv"))
	_, err := src.FetchFareOptions(context.Background(), testItinerary())
	assert.Error(t, err)
}
