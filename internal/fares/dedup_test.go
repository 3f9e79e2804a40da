package fares

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func option(t *testing.T, price, departure, arrival string) FlightOption {
	t.Helper()
	o, err := ParseRecord(record(price, departure, arrival))
	require.NoError(t, err)
	return o
}

func TestOptionSetKeepsCheapestPerKey(t *testing.T) {
	expensive := option(t, "200", "7:00 AM", "9:00 AM")
	cheap := option(t, "150", "7:00 AM", "9:00 AM")

	forward := NewOptionSet()
	forward.Add(expensive)
	forward.Add(cheap)

	backward := NewOptionSet()
	backward.Add(cheap)
	backward.Add(expensive)

	for _, s := range []*OptionSet{forward, backward} {
		values := s.Values()
		require.Len(t, values, 1)
		assert.True(t, values[0].Price.Equal(decimal.NewFromInt(150)))
	}
}

func TestOptionSetTieKeepsFirst(t *testing.T) {
	first := option(t, "99", "7:00 AM", "9:00 AM")
	second := first
	second.Duration = "later copy"

	s := NewOptionSet()
	s.Add(first)
	s.Add(second)

	values := s.Values()
	require.Len(t, values, 1)
	assert.Equal(t, first.Duration, values[0].Duration)
}

func TestOptionSetBest(t *testing.T) {
	s := NewOptionSet()
	_, ok := s.Best()
	assert.False(t, ok)

	s.Add(option(t, "300", "6:00 AM", "8:00 AM"))
	s.Add(option(t, "120", "2:00 PM", "4:00 PM"))
	s.Add(option(t, "180", "9:00 AM", "11:00 AM"))

	best, ok := s.Best()
	require.True(t, ok)
	assert.Equal(t, "02:00 PM", best.Departure)
	assert.Equal(t, 3, s.Len())
}

func TestSortedByDeparture(t *testing.T) {
	s := NewOptionSet()
	s.Add(option(t, "100", "5:00 PM", "7:00 PM"))
	s.Add(option(t, "100", "6:30 AM", "8:00 AM"))
	s.Add(option(t, "100", "6:30 AM", "9:15 AM"))
	s.Add(option(t, "100", "11:00 AM", "1:00 PM"))

	var keys []string
	for _, o := range s.SortedByDeparture() {
		keys = append(keys, o.RouteKey())
	}
	assert.Equal(t, []string{
		"06:30 AM -> 08:00 AM",
		"06:30 AM -> 09:15 AM",
		"11:00 AM -> 01:00 PM",
		"05:00 PM -> 07:00 PM",
	}, keys)
}
