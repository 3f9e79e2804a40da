package fares

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AlertSubject is the subject line of every price drop alert.
const AlertSubject = "SWA Flight Alert!"

// deliverySlack is added to a notifier's retry budget to cover the sends
// themselves, and is the whole budget of notifiers that report none.
const deliverySlack = time.Minute

// budgeted is implemented by notifiers that retry; Budget is the total wait
// between their attempts.
type budgeted interface {
	Budget() time.Duration
}

// Service orchestrates fetching, aggregating, diffing and alerting for a
// fixed set of trips.
type Service struct {
	source   Source
	notifier Notifier
	store    AlertStore
	trips    []*Trip
	byKey    map[string]*Trip
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(source Source, notifier Notifier, store AlertStore, trips []*Trip) *Service {
	byKey := make(map[string]*Trip, len(trips))
	for _, t := range trips {
		byKey[t.Itinerary().Key()] = t
	}
	return &Service{
		source:   source,
		notifier: notifier,
		store:    store,
		trips:    trips,
		byKey:    byKey,
		logger:   slog.Default().With("component", "fares"),
	}
}

// Trips returns the tracked trips in configuration order.
func (s *Service) Trips() []*Trip {
	return s.trips
}

// Trip looks up a trip by its itinerary key.
func (s *Service) Trip(key string) (*Trip, bool) {
	t, ok := s.byKey[key]
	return t, ok
}

// ListAlerts delegates to the underlying store.
func (s *Service) ListAlerts(tripKey string, limit int) ([]Alert, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListAlerts(tripKey, limit)
}

// CycleReport summarizes one pass over every trip.
type CycleReport struct {
	Polled int
	Failed int
	Alerts int
}

// RunCycle polls every trip once. Trips are independent: each goroutine is
// the only writer of its trip, and one trip failing does not affect others.
func (s *Service) RunCycle(ctx context.Context) CycleReport {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		report CycleReport
	)

	for _, t := range s.trips {
		wg.Add(1)
		go func(t *Trip) {
			defer wg.Done()

			diff, err := s.PollTrip(ctx, t)

			mu.Lock()
			defer mu.Unlock()
			report.Polled++
			if diff != "" {
				report.Alerts++
			}
			if err != nil {
				s.logger.Warn("poll failed", "trip", t.Name(), "error", err)
				var fetchErr *FetchError
				if errors.As(err, &fetchErr) {
					report.Failed++
				}
			}
		}(t)
	}

	wg.Wait()
	return report
}

// PollTrip fetches, aggregates and diffs a single trip. On a fetch failure
// the trip is left untouched and a *FetchError is returned. A non-empty
// diff is stored and sent; delivery failures come back as *NotifyError
// after the trip state has already been updated.
func (s *Service) PollTrip(ctx context.Context, t *Trip) (string, error) {
	it := t.Itinerary()
	results, err := s.source.FetchFareOptions(ctx, it)
	if err != nil {
		return "", &FetchError{Trip: t.Name(), Err: err}
	}

	going := s.snapshot(t, t.Going(), results.Outbound)
	ret := s.snapshot(t, t.Return(), results.Inbound)

	wasWarm := t.Warm()
	diff := t.Observe(going, ret)
	summary := t.CurrentPricesText()

	if !wasWarm {
		s.logger.Info("baseline established", "trip", t.Name(), "source", s.source.Name())
	}
	s.logger.Debug("current prices", "trip", t.Name(), "summary", summary)

	if diff == "" {
		s.logger.Info("no alert-worthy change", "trip", t.Name())
		return "", nil
	}

	s.logger.Info("price drop detected", "trip", t.Name(), "diff", diff)
	dctx, done := s.deliveryContext(ctx)
	defer done()
	return diff, s.alert(dctx, t, diff+"\n"+summary)
}

// deliveryContext drops ctx's deadline, which is sized for fetching, and
// bounds delivery by the notifier's retry budget instead. Cancelling ctx
// still stops delivery.
func (s *Service) deliveryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	budget := deliverySlack
	if b, ok := s.notifier.(budgeted); ok {
		budget += b.Budget()
	}
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), budget)
	stop := context.AfterFunc(ctx, func() {
		if errors.Is(ctx.Err(), context.Canceled) {
			cancel()
		}
	})
	return dctx, func() {
		stop()
		cancel()
	}
}

func (s *Service) snapshot(t *Trip, leg TripLeg, records [][]string) Snapshot {
	set, rejected := CollectRecords(records)
	for _, err := range rejected {
		s.logger.Debug("skipping record", "trip", t.Name(), "leg", leg.String(), "error", err)
	}
	if len(rejected) > 0 {
		s.logger.Warn("skipped malformed records", "trip", t.Name(), "leg", leg.String(),
			"skipped", len(rejected), "kept", set.Len())
	}
	if best, ok := set.Best(); ok {
		s.logger.Debug("cheapest option", "trip", t.Name(), "leg", leg.String(), "option", best.String())
	}
	return Aggregate(set.Values())
}

func (s *Service) alert(ctx context.Context, t *Trip, body string) error {
	alert := Alert{
		ID:        uuid.NewString(),
		TripKey:   t.Itinerary().Key(),
		TripName:  t.Name(),
		Subject:   AlertSubject,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	var err error
	if s.notifier != nil {
		err = s.notifier.SendAlert(ctx, alert.Subject, alert.Body)
	}
	alert.Delivered = err == nil
	if s.store != nil {
		s.store.SaveAlert(alert)
	}
	if err != nil {
		return fmt.Errorf("alert %s: %w", alert.ID, err)
	}
	return nil
}
