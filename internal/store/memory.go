package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/staticimport/swa/internal/fares"
)

var (
	// ErrNotFound is returned when no alerts are recorded for a trip.
	ErrNotFound = errors.New("no alerts for trip")
)

// AlertHistory holds a time-ordered list of alerts for a trip.
type AlertHistory struct {
	Alerts []fares.Alert
}

// MemoryStore is a concurrency-safe in-memory alert history.
type MemoryStore struct {
	mu sync.RWMutex

	// key: trip key, value: history
	data map[string]*AlertHistory

	// retention configuration
	maxHistory int           // max number of alerts per trip
	maxAge     time.Duration // optional max age for alerts

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*AlertHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveAlert appends an alert for its trip and enforces retention.
func (s *MemoryStore) SaveAlert(alert fares.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[alert.TripKey]
	if !ok {
		history = &AlertHistory{}
		s.data[alert.TripKey] = history
	}

	history.Alerts = append(history.Alerts, alert)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Alerts) > s.maxHistory {
		over := len(history.Alerts) - s.maxHistory
		history.Alerts = history.Alerts[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Alerts); i++ {
			if !history.Alerts[i].CreatedAt.Before(cutoff) {
				break
			}
		}
		history.Alerts = history.Alerts[i:]
	}
}

// ListAlerts returns up to limit of the most recent alerts, newest first.
// An empty tripKey lists alerts across all trips. limit <= 0 means no limit.
func (s *MemoryStore) ListAlerts(tripKey string, limit int) ([]fares.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []fares.Alert
	if tripKey != "" {
		history, ok := s.data[tripKey]
		if !ok || len(history.Alerts) == 0 {
			return nil, ErrNotFound
		}
		all = append(all, history.Alerts...)
	} else {
		for _, history := range s.data {
			all = append(all, history.Alerts...)
		}
	}

	result := newestFirst(all)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

func newestFirst(alerts []fares.Alert) []fares.Alert {
	out := make([]fares.Alert, len(alerts))
	copy(out, alerts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
