package fares

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bucket is one of the four six-hour day parts used to group departures.
type Bucket int

const (
	Early Bucket = iota
	Morning
	Afternoon
	Evening

	bucketCount = 4
)

// MinutesPerDay bounds the value range a bucketed departure may have.
const (
	MinutesPerDay    = 24 * 60
	minutesPerBucket = MinutesPerDay / bucketCount
)

// Buckets lists every bucket in reporting order.
var Buckets = [bucketCount]Bucket{Early, Morning, Afternoon, Evening}

func (b Bucket) String() string {
	switch b {
	case Early:
		return "EARLY"
	case Morning:
		return "MORNING"
	case Afternoon:
		return "AFTERNOON"
	case Evening:
		return "EVENING"
	default:
		return fmt.Sprintf("Bucket(%d)", int(b))
	}
}

// BucketFor maps minutes since midnight to its day part. Values outside
// [0, MinutesPerDay) have no bucket.
func BucketFor(minutes int) (Bucket, bool) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return 0, false
	}
	return Bucket(minutes / minutesPerBucket), true
}

// FlightOption is one parsed search result for a single departing flight.
// Values are never mutated after ParseRecord returns them.
type FlightOption struct {
	Price            decimal.Decimal
	Departure        string // "09:05 AM"
	Arrival          string
	DepartureMinutes int
	ArrivalMinutes   int
	Duration         string
}

// RouteKey identifies a scheduled departure/arrival pair within one poll.
func (o FlightOption) RouteKey() string {
	return o.Departure + " -> " + o.Arrival
}

func (o FlightOption) String() string {
	return fmt.Sprintf("%s (%s): $%s", o.RouteKey(), o.Duration, o.Price.StringFixed(2))
}

// Snapshot holds the cheapest price observed per bucket during one poll.
// A bucket without a valid entry had no fare.
type Snapshot [bucketCount]decimal.NullDecimal

// Price returns the snapshot price for b.
func (s Snapshot) Price(b Bucket) decimal.NullDecimal {
	return s[b]
}

// SnapshotOf builds a snapshot from explicit bucket prices. Buckets not in
// prices are absent.
func SnapshotOf(prices map[Bucket]decimal.Decimal) Snapshot {
	var s Snapshot
	for b, p := range prices {
		if b < Early || b > Evening {
			continue
		}
		s[b] = decimal.NewNullDecimal(p)
	}
	return s
}
