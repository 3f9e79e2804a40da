package fares

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func legPrices(prices map[Bucket]string) LegPrices {
	var p LegPrices
	for b, s := range prices {
		p[b] = decimal.NewNullDecimal(d(s))
	}
	return p
}

func TestDiffThresholdBoundary(t *testing.T) {
	old := legPrices(map[Bucket]string{Morning: "100.00"})

	changes, _ := old.DiffAndUpdate(SnapshotOf(map[Bucket]decimal.Decimal{Morning: d("85.00")}), true, DefaultDropRule())
	assert.Empty(t, changes)

	changes, _ = old.DiffAndUpdate(SnapshotOf(map[Bucket]decimal.Decimal{Morning: d("84.99")}), true, DefaultDropRule())
	assert.Equal(t, []string{"MORNING: 100.00 => 84.99"}, changes)
}

func TestDiffColdNeverAlerts(t *testing.T) {
	var cold LegPrices
	snap := SnapshotOf(map[Bucket]decimal.Decimal{Early: d("10"), Evening: d("20")})

	changes, next := cold.DiffAndUpdate(snap, false, DefaultDropRule())
	assert.Empty(t, changes)
	assert.Equal(t, LegPrices(snap), next)

	// even a huge drop is suppressed while cold
	old := legPrices(map[Bucket]string{Early: "500"})
	changes, _ = old.DiffAndUpdate(snap, false, DefaultDropRule())
	assert.Empty(t, changes)
}

func TestDiffIdempotent(t *testing.T) {
	old := legPrices(map[Bucket]string{Early: "200", Afternoon: "150"})
	snap := SnapshotOf(map[Bucket]decimal.Decimal{Early: d("100"), Afternoon: d("90")})

	changes, next := old.DiffAndUpdate(snap, true, DefaultDropRule())
	assert.Len(t, changes, 2)

	changes, again := next.DiffAndUpdate(snap, true, DefaultDropRule())
	assert.Empty(t, changes)
	assert.Equal(t, next, again)
}

func TestDiffEndToEndScenario(t *testing.T) {
	old := legPrices(map[Bucket]string{Early: "120.00", Morning: "95.00", Evening: "300.00"})
	snap := SnapshotOf(map[Bucket]decimal.Decimal{
		Early:     d("110.00"),
		Morning:   d("80.00"),
		Afternoon: d("50.00"),
		Evening:   d("300.00"),
	})

	changes, next := old.DiffAndUpdate(snap, true, DefaultDropRule())
	assert.Equal(t, []string{"MORNING: 95.00 => 80.00"}, changes)
	assert.Equal(t, LegPrices(snap), next)

	// receiver is a value and stays as it was
	assert.Equal(t, "120.00", old.Price(Early).Decimal.StringFixed(2))
	assert.False(t, old.Price(Afternoon).Valid)
}

func TestDiffOrderIsFixed(t *testing.T) {
	old := legPrices(map[Bucket]string{Early: "100", Morning: "100", Afternoon: "100", Evening: "100"})
	snap := SnapshotOf(map[Bucket]decimal.Decimal{Early: d("1"), Morning: d("2"), Afternoon: d("3"), Evening: d("4")})

	changes, _ := old.DiffAndUpdate(snap, true, DefaultDropRule())
	assert.Equal(t, []string{
		"EARLY: 100.00 => 1.00",
		"MORNING: 100.00 => 2.00",
		"AFTERNOON: 100.00 => 3.00",
		"EVENING: 100.00 => 4.00",
	}, changes)
}

func TestDiffMissingBucketPolicy(t *testing.T) {
	old := legPrices(map[Bucket]string{Early: "120", Morning: "95"})
	snap := SnapshotOf(map[Bucket]decimal.Decimal{Morning: d("90")})

	_, overwritten := old.DiffAndUpdate(snap, true, DefaultDropRule())
	assert.False(t, overwritten.Price(Early).Valid)

	retain := DropRule{Threshold: DefaultDropThreshold, Policy: RetainOnMissing}
	_, retained := old.DiffAndUpdate(snap, true, retain)
	assert.Equal(t, "120.00", retained.Price(Early).Decimal.StringFixed(2))
	assert.Equal(t, "90.00", retained.Price(Morning).Decimal.StringFixed(2))
}

func TestDiffNegativePriceIsAbsent(t *testing.T) {
	old := legPrices(map[Bucket]string{Early: "120"})
	var snap Snapshot
	snap[Early] = decimal.NewNullDecimal(d("-1"))

	changes, next := old.DiffAndUpdate(snap, true, DefaultDropRule())
	assert.Empty(t, changes)
	assert.False(t, next.Price(Early).Valid)
}

func TestDiffCustomThreshold(t *testing.T) {
	old := legPrices(map[Bucket]string{Evening: "100"})
	snap := SnapshotOf(map[Bucket]decimal.Decimal{Evening: d("95")})

	changes, _ := old.DiffAndUpdate(snap, true, DropRule{Threshold: d("0.99")})
	assert.Equal(t, []string{"EVENING: 100.00 => 95.00"}, changes)

	// zero threshold falls back to the default
	changes, _ = old.DiffAndUpdate(snap, true, DropRule{})
	assert.Empty(t, changes)
}

func TestCurrentPricesText(t *testing.T) {
	var empty LegPrices
	assert.Equal(t, "", empty.CurrentPricesText())
	assert.False(t, empty.Known())

	p := legPrices(map[Bucket]string{Morning: "95", Evening: "300.5"})
	assert.True(t, p.Known())
	assert.Equal(t, "MORNING: 95.00\nEVENING: 300.50\n", p.CurrentPricesText())
}
