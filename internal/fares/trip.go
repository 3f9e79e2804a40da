package fares

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DateLayout is the MM/DD/YYYY form itinerary dates are written in.
const DateLayout = "01/02/2006"

// Itinerary is one configured round trip.
type Itinerary struct {
	Origin      string    `json:"origin" validate:"required,len=3,alpha,uppercase"`
	Destination string    `json:"destination" validate:"required,len=3,alpha,uppercase,nefield=Origin"`
	Passengers  int       `json:"passengers" validate:"min=1,max=8"`
	Leave       time.Time `json:"leave" validate:"required"`
	Return      time.Time `json:"return" validate:"required,gtefield=Leave"`
}

// Key returns a canonical string key for indexing this itinerary.
func (it Itinerary) Key() string {
	return fmt.Sprintf("%s-%s-%s-%s-%d", it.Origin, it.Destination,
		it.Leave.Format("20060102"), it.Return.Format("20060102"), it.Passengers)
}

// TripLeg identifies one direction of a trip.
type TripLeg struct {
	Origin      string
	Destination string
	Date        time.Time
}

// ShortDate is the MM/DD display date.
func (l TripLeg) ShortDate() string {
	return l.Date.Format("01/02")
}

func (l TripLeg) String() string {
	return fmt.Sprintf("%s %s => %s", l.ShortDate(), l.Origin, l.Destination)
}

// Trip tracks the per-bucket prices of both legs of an itinerary. The first
// observation only sets the baseline (cold); later ones can produce diffs.
type Trip struct {
	itinerary Itinerary
	going     TripLeg
	ret       TripLeg
	rule      DropRule

	mu           sync.RWMutex
	goingPrices  LegPrices
	returnPrices LegPrices
	warm         bool
	updatedAt    time.Time
}

// NewTrip creates a cold trip for it.
func NewTrip(it Itinerary, rule DropRule) *Trip {
	return &Trip{
		itinerary: it,
		going:     TripLeg{Origin: it.Origin, Destination: it.Destination, Date: it.Leave},
		ret:       TripLeg{Origin: it.Destination, Destination: it.Origin, Date: it.Return},
		rule:      rule,
	}
}

func (t *Trip) Itinerary() Itinerary { return t.itinerary }
func (t *Trip) Going() TripLeg       { return t.going }
func (t *Trip) Return() TripLeg      { return t.ret }

// Name is the display name used in summaries.
func (t *Trip) Name() string {
	return fmt.Sprintf("%s <=> %s %s-%s (%d pax)", t.going.Origin, t.going.Destination,
		t.going.ShortDate(), t.ret.ShortDate(), t.itinerary.Passengers)
}

// Warm reports whether the trip has completed a successful update.
func (t *Trip) Warm() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.warm
}

// UpdatedAt is the time of the last successful update.
func (t *Trip) UpdatedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.updatedAt
}

// Prices returns copies of both legs' current state.
func (t *Trip) Prices() (going, ret LegPrices) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.goingPrices, t.returnPrices
}

// Update diffs both legs against the given snapshots and stores the result.
// An empty return means nothing is worth alerting.
func (t *Trip) Update(going, ret Snapshot, warm bool) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updateLocked(going, ret, warm)
}

// Observe applies a successful poll using the trip's own warm-up state and
// marks the trip warm.
func (t *Trip) Observe(going, ret Snapshot) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updateLocked(going, ret, t.warm)
}

func (t *Trip) updateLocked(going, ret Snapshot, warm bool) string {
	goingChanges, goingNext := t.goingPrices.DiffAndUpdate(going, warm, t.rule)
	returnChanges, returnNext := t.returnPrices.DiffAndUpdate(ret, warm, t.rule)

	t.goingPrices, t.returnPrices = goingNext, returnNext
	t.warm = true
	t.updatedAt = time.Now().UTC()

	var sb strings.Builder
	writeChanges(&sb, t.going, goingChanges)
	writeChanges(&sb, t.ret, returnChanges)
	return sb.String()
}

func writeChanges(sb *strings.Builder, leg TripLeg, changes []string) {
	if len(changes) == 0 {
		return
	}
	fmt.Fprintf(sb, "\nUPDATE %s\n", leg)
	for _, line := range changes {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
}

// CurrentPricesText renders the trip header and both legs' known prices.
func (t *Trip) CurrentPricesText() string {
	going, ret := t.Prices()

	var sb strings.Builder
	fmt.Fprintf(&sb, "----------- %s -----------\n", t.Name())
	writePrices(&sb, t.going, going)
	writePrices(&sb, t.ret, ret)
	return sb.String()
}

func writePrices(sb *strings.Builder, leg TripLeg, prices LegPrices) {
	if !prices.Known() {
		fmt.Fprintf(sb, "No prices for %s\n", leg)
		return
	}
	sb.WriteString(prices.CurrentPricesText())
}
