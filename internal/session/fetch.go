package session

import (
	"context"

	"github.com/anjanibarlapati/skyready/internal/models"
)

// Fixed fallback texts for transport-level failures, one per leg.
const (
	fallbackDepartureError = "Something went wrong while fetching departure flights"
	fallbackReturnError    = "Something went wrong while fetching return flights"
)

// FetchFlights runs the search for the requested leg(s) and writes the
// outcome into the leg stores. It never returns an error: every failure
// becomes store state. LegBoth fetches departure first, then return,
// and only solicits the return leg for round trips; a failed leg never
// blocks the other. One-way sessions no-op a return-leg request without
// touching its store.
func (s *Session) FetchFlights(ctx context.Context, leg Leg) {
	switch leg {
	case LegDeparture:
		s.fetchLeg(ctx, LegDeparture)
	case LegReturn:
		if s.Criteria().TripType == models.TripRound {
			s.fetchLeg(ctx, LegReturn)
		}
	case LegBoth:
		s.fetchLeg(ctx, LegDeparture)
		if s.Criteria().TripType == models.TripRound {
			s.fetchLeg(ctx, LegReturn)
		}
	}
}

// Search runs a full fetch cycle for the current criteria with the
// loading flag held for its duration.
func (s *Session) Search(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	s.FetchFlights(ctx, LegBoth)
}

func (s *Session) fetchLeg(ctx context.Context, leg Leg) {
	defer func() {
		if s.afterFetch != nil {
			s.afterFetch(leg)
		}
	}()

	s.mu.Lock()
	state := s.legStateFor(leg)
	state.flights = nil
	state.message = ""
	state.errorMessage = ""
	state.token++
	token := state.token

	req := s.criteria.DepartureRequest()
	if leg == LegReturn {
		req = s.criteria.ReturnRequest()
	}
	s.mu.Unlock()

	if flights, found := s.cache.Get(ctx, req); found {
		s.storeFlights(leg, token, flights)
		return
	}

	result, err := s.backend.SearchFlights(ctx, req)
	if err != nil {
		s.log.Warn("flight search failed", "leg", leg.String(), "err", err)
		s.storeError(leg, token, fallbackFor(leg))
		return
	}

	switch {
	case result.Message != "":
		s.storeMessage(leg, token, result.Message)
	case result.ErrorMessage != "":
		s.storeError(leg, token, result.ErrorMessage)
	default:
		if err := s.cache.Set(ctx, req, result.Flights); err != nil {
			s.log.Warn("caching search results failed", "leg", leg.String(), "err", err)
		}
		s.storeFlights(leg, token, result.Flights)
	}
}

// The store writers drop results from superseded fetches: a later fetch
// bumped the leg token, so the newest request wins regardless of
// completion order.

func (s *Session) storeFlights(leg Leg, token uint64, flights []models.FlightOffer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.legStateFor(leg)
	if state.token != token {
		return
	}
	if flights == nil {
		flights = []models.FlightOffer{}
	}
	state.flights = flights
}

func (s *Session) storeMessage(leg Leg, token uint64, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.legStateFor(leg)
	if state.token != token {
		return
	}
	state.message = message
}

func (s *Session) storeError(leg Leg, token uint64, errText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.legStateFor(leg)
	if state.token != token {
		return
	}
	state.errorMessage = errText
}

func fallbackFor(leg Leg) string {
	if leg == LegReturn {
		return fallbackReturnError
	}
	return fallbackDepartureError
}
