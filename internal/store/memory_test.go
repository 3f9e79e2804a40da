package store

import (
	"errors"
	"testing"
	"time"

	"github.com/staticimport/swa/internal/fares"
)

func alertAt(trip string, at time.Time) fares.Alert {
	return fares.Alert{ID: at.Format(time.RFC3339Nano), TripKey: trip, CreatedAt: at}
}

func TestListAlertsNewestFirst(t *testing.T) {
	s := NewMemoryStore(0, 0)
	base := time.Now().UTC()

	s.SaveAlert(alertAt("a", base))
	s.SaveAlert(alertAt("a", base.Add(time.Minute)))
	s.SaveAlert(alertAt("b", base.Add(2*time.Minute)))

	got, err := s.ListAlerts("a", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || !got[0].CreatedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("expected newest alert of trip a first, got %+v", got)
	}

	all, err := s.ListAlerts("", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 || all[0].TripKey != "b" {
		t.Fatalf("expected 2 alerts led by trip b, got %+v", all)
	}
}

func TestListAlertsNotFound(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)
	if _, err := s.ListAlerts("missing", 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.ListAlerts("", 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty store, got %v", err)
	}
}

func TestRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		s.SaveAlert(alertAt("a", base.Add(time.Duration(i)*time.Second)))
	}

	got, _ := s.ListAlerts("a", 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 retained alerts, got %d", len(got))
	}
	if !got[1].CreatedAt.Equal(base.Add(3 * time.Second)) {
		t.Fatalf("expected oldest retained alert at +3s, got %v", got[1].CreatedAt)
	}
}

func TestRetentionByAge(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return now }

	s.SaveAlert(alertAt("a", now.Add(-3*time.Hour)))
	s.SaveAlert(alertAt("a", now.Add(-2*time.Hour)))
	s.SaveAlert(alertAt("a", now))

	got, _ := s.ListAlerts("a", 0)
	if len(got) != 1 || !got[0].CreatedAt.Equal(now) {
		t.Fatalf("expected only the fresh alert, got %+v", got)
	}
}
