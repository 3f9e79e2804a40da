package fares

import "sort"

// OptionSet keeps the cheapest option per route key for one leg and poll.
// Equal prices keep whichever option arrived first.
type OptionSet struct {
	byKey map[string]FlightOption
	order []string
	best  *FlightOption
}

// NewOptionSet returns an empty set.
func NewOptionSet() *OptionSet {
	return &OptionSet{byKey: make(map[string]FlightOption)}
}

// Add stores o unless an option with the same route key is already at
// least as cheap.
func (s *OptionSet) Add(o FlightOption) {
	key := o.RouteKey()
	current, ok := s.byKey[key]
	if ok && !o.Price.LessThan(current.Price) {
		return
	}
	if !ok {
		s.order = append(s.order, key)
	}
	s.byKey[key] = o

	if s.best == nil || o.Price.LessThan(s.best.Price) {
		best := o
		s.best = &best
	}
}

// Len reports the number of distinct route keys.
func (s *OptionSet) Len() int {
	return len(s.byKey)
}

// Best returns the cheapest option across all keys.
func (s *OptionSet) Best() (FlightOption, bool) {
	if s.best == nil {
		return FlightOption{}, false
	}
	return *s.best, true
}

// Values returns one option per route key in no particular order.
func (s *OptionSet) Values() []FlightOption {
	out := make([]FlightOption, 0, len(s.byKey))
	for _, o := range s.byKey {
		out = append(out, o)
	}
	return out
}

// SortedByDeparture orders options by departure minute; ties keep the
// order in which their route keys were first added.
func (s *OptionSet) SortedByDeparture() []FlightOption {
	out := make([]FlightOption, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.byKey[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DepartureMinutes < out[j].DepartureMinutes
	})
	return out
}
