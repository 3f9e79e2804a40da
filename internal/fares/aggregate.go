package fares

import "github.com/shopspring/decimal"

// Aggregate keeps the minimum price per bucket of the given options.
// Options departing outside the day range are ignored.
func Aggregate(options []FlightOption) Snapshot {
	var snap Snapshot
	for _, o := range options {
		b, ok := BucketFor(o.DepartureMinutes)
		if !ok {
			continue
		}
		if !snap[b].Valid || o.Price.LessThan(snap[b].Decimal) {
			snap[b] = decimal.NewNullDecimal(o.Price)
		}
	}
	return snap
}

// CollectRecords parses raw records into a deduplicated set. Malformed
// records are skipped and returned alongside the set.
func CollectRecords(records [][]string) (*OptionSet, []error) {
	set := NewOptionSet()
	var rejected []error
	for _, fields := range records {
		o, err := ParseRecord(fields)
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		set.Add(o)
	}
	return set, rejected
}
