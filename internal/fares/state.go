package fares

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDropThreshold: a new price must be below 85% of the old one to alert.
var DefaultDropThreshold = decimal.RequireFromString("0.85")

// OverwritePolicy decides what happens to a bucket that had no fare in the
// latest poll.
type OverwritePolicy int

const (
	// OverwriteAlways resets a bucket with no fare this poll to unknown.
	OverwriteAlways OverwritePolicy = iota
	// RetainOnMissing keeps the last known price until a new one is seen.
	RetainOnMissing
)

func (p OverwritePolicy) String() string {
	if p == RetainOnMissing {
		return "retain-on-missing"
	}
	return "overwrite-always"
}

// DropRule configures how a leg compares successive snapshots.
type DropRule struct {
	Threshold decimal.Decimal
	Policy    OverwritePolicy
}

// DefaultDropRule is the 15% drop, always-overwrite rule.
func DefaultDropRule() DropRule {
	return DropRule{Threshold: DefaultDropThreshold, Policy: OverwriteAlways}
}

func (r DropRule) threshold() decimal.Decimal {
	if r.Threshold.IsPositive() {
		return r.Threshold
	}
	return DefaultDropThreshold
}

// LegPrices is the best known price per bucket for one leg. It is a value:
// DiffAndUpdate returns the next state rather than mutating the receiver.
type LegPrices [bucketCount]decimal.NullDecimal

// DiffAndUpdate compares snap against s bucket by bucket. When warm, each
// bucket whose new price is strictly below threshold*old yields a change
// line "BUCKET: old => new". Negative snapshot prices count as absent.
func (s LegPrices) DiffAndUpdate(snap Snapshot, warm bool, rule DropRule) ([]string, LegPrices) {
	threshold := rule.threshold()
	next := s
	var changes []string

	for _, b := range Buckets {
		old, cur := s[b], snap[b]
		if cur.Valid && cur.Decimal.IsNegative() {
			cur = decimal.NullDecimal{}
		}

		if warm && old.Valid && cur.Valid && cur.Decimal.LessThan(threshold.Mul(old.Decimal)) {
			changes = append(changes, fmt.Sprintf("%s: %s => %s",
				b, old.Decimal.StringFixed(2), cur.Decimal.StringFixed(2)))
		}

		if cur.Valid || rule.Policy == OverwriteAlways {
			next[b] = cur
		}
	}
	return changes, next
}

// Price returns the stored price for b.
func (s LegPrices) Price(b Bucket) decimal.NullDecimal {
	return s[b]
}

// Known reports whether any bucket has a price.
func (s LegPrices) Known() bool {
	for _, p := range s {
		if p.Valid {
			return true
		}
	}
	return false
}

// CurrentPricesText renders one "BUCKET: 123.45" line per known bucket.
func (s LegPrices) CurrentPricesText() string {
	var sb strings.Builder
	for _, b := range Buckets {
		if !s[b].Valid {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", b, s[b].Decimal.StringFixed(2))
	}
	return sb.String()
}
