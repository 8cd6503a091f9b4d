package session

import (
	"context"
	"errors"

	"github.com/anjanibarlapati/skyready/internal/backend"
	"github.com/anjanibarlapati/skyready/internal/booking"
	"github.com/anjanibarlapati/skyready/internal/models"
)

// ErrNoSelection rejects a confirmation attempt before any flight has
// been chosen; nothing is consumed.
var ErrNoSelection = errors.New("no flight selected for booking")

const (
	confirmSuccessFallback = "Booking confirmed successfully!"
	confirmNetworkFailure  = "Network error. Please try again."
)

// ConfirmBooking runs the confirmation flow for the current selection.
// Once a selection exists the attempt is consumed exactly once: the
// result stores and selection are cleared and an alert records the
// outcome, whether the backend accepted, rejected, or never answered.
func (s *Session) ConfirmBooking(ctx context.Context) error {
	dep, ret := s.Selection()
	if dep == nil {
		return ErrNoSelection
	}

	tripType := s.Criteria().TripType
	if tripType == models.TripRound && ret == nil {
		return ErrNoSelection
	}

	defer s.ClearResults()

	var message string
	var err error

	if tripType == models.TripRound {
		var payload models.RoundTripPayload
		payload, err = booking.RoundTripPayload(*dep, *ret)
		if err != nil {
			s.setAlert(AlertFailure, err.Error())
			return nil
		}
		message, err = s.backend.ConfirmRoundTrip(ctx, payload)
	} else {
		message, err = s.backend.ConfirmBooking(ctx, booking.OneWayPayload(*dep))
	}

	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			s.setAlert(AlertFailure, apiErr.Message)
		} else {
			s.log.Warn("booking confirmation failed", "err", err)
			s.setAlert(AlertFailure, confirmNetworkFailure)
		}
		return nil
	}

	if message == "" {
		message = confirmSuccessFallback
	}
	s.setAlert(AlertSuccess, message)
	return nil
}
