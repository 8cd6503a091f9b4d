package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anjanibarlapati/skyready/internal/datenav"
	"github.com/anjanibarlapati/skyready/internal/models"
)

var (
	// ErrDateOutOfRange rejects a step landing outside the selectable
	// window. Nothing is mutated and no fetch runs.
	ErrDateOutOfRange = errors.New("date is outside the selectable window")

	// ErrInvalidNavigationLeg rejects navigation on LegBoth or on the
	// return leg of a one-way session.
	ErrInvalidNavigationLeg = errors.New("cannot navigate this leg")
)

// DateBounds computes the current selectable window for a leg, used by
// callers to derive button enablement.
func (s *Session) DateBounds(leg Leg) (datenav.Bounds, error) {
	_, paired, err := navigationDates(s.Criteria(), leg)
	if err != nil {
		return datenav.Bounds{}, err
	}
	return datenav.Compute(s.now(), paired), nil
}

// NavigateDate steps the leg's date by deltaDays and re-fetches that
// leg. The loading flag is held for the duration of the fetch and
// released on every exit path.
func (s *Session) NavigateDate(ctx context.Context, leg Leg, deltaDays int) error {
	criteria := s.Criteria()

	current, paired, err := navigationDates(criteria, leg)
	if err != nil {
		return err
	}

	bounds := datenav.Compute(s.now(), paired)
	next, ok := datenav.Step(current, deltaDays, bounds)
	if !ok {
		return ErrDateOutOfRange
	}

	formatted := next.Format(models.DateLayout)

	s.mu.Lock()
	switch leg {
	case LegDeparture:
		s.criteria.DepartureDate = formatted
		s.criteria.SelectedDate = formatted
	case LegReturn:
		s.criteria.ReturnDate = formatted
	}
	s.loading = true
	s.mu.Unlock()

	defer s.setLoading(false)

	s.fetchLeg(ctx, leg)
	return nil
}

// navigationDates resolves the leg's current date and the paired date
// that anchors its window. One-way departures pair with themselves.
func navigationDates(criteria models.SearchCriteria, leg Leg) (current, paired time.Time, err error) {
	var currentStr, pairedStr string

	switch leg {
	case LegDeparture:
		currentStr = criteria.DepartureDate
		pairedStr = criteria.DepartureDate
		if criteria.TripType == models.TripRound && criteria.ReturnDate != "" {
			pairedStr = criteria.ReturnDate
		}
	case LegReturn:
		if criteria.TripType != models.TripRound {
			return time.Time{}, time.Time{}, ErrInvalidNavigationLeg
		}
		currentStr = criteria.ReturnDate
		pairedStr = criteria.DepartureDate
	default:
		return time.Time{}, time.Time{}, ErrInvalidNavigationLeg
	}

	current, err = time.Parse(models.DateLayout, currentStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing %s date %q: %w", leg, currentStr, err)
	}

	paired, err = time.Parse(models.DateLayout, pairedStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing paired date %q: %w", pairedStr, err)
	}

	return current, paired, nil
}
