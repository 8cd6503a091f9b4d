// Package booking builds the confirmation payloads for the backend's
// two booking endpoints and enforces the round-trip date ordering the
// search flow deliberately leaves unchecked.
package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/anjanibarlapati/skyready/internal/models"
)

// ErrReturnNotAfterDeparture rejects round trips whose return date is
// not strictly after the departure date. Enforced at confirmation time,
// not at search.
var ErrReturnNotAfterDeparture = errors.New("return date must be after the departure date")

// departureInstant renders the offer's departure as the backend's
// "YYYY-MM-DD HH:MM:SS" timestamp.
func departureInstant(offer models.FlightOffer) string {
	clock := offer.DepartureTime
	if len(clock) == 5 {
		clock += ":00"
	}
	return offer.DepartureDate + " " + clock
}

// OneWayPayload builds the confirm-booking wire body.
func OneWayPayload(selected models.SelectedOffer) models.BookingPayload {
	return models.BookingPayload{
		Flight: models.BookingFlight{
			FlightNumber:    selected.Offer.FlightNumber,
			DepartureDate:   departureInstant(selected.Offer),
			ClassType:       selected.ClassType,
			TravellersCount: selected.TravellersCount,
		},
	}
}

// RoundTripPayload builds the confirm-round-trip wire body after
// validating the date ordering.
func RoundTripPayload(departure, ret models.SelectedOffer) (models.RoundTripPayload, error) {
	if err := validateDates(departure.Offer.DepartureDate, ret.Offer.DepartureDate); err != nil {
		return models.RoundTripPayload{}, err
	}

	return models.RoundTripPayload{
		Data: models.RoundTripData{
			DepartureFlightNumber: departure.Offer.FlightNumber,
			DepartureDate:         departureInstant(departure.Offer),
			ReturnFlightNumber:    ret.Offer.FlightNumber,
			ReturnDate:            departureInstant(ret.Offer),
			ClassType:             departure.ClassType,
			TravellersCount:       departure.TravellersCount,
		},
	}, nil
}

func validateDates(departureDate, returnDate string) error {
	dep, err := time.Parse(models.DateLayout, departureDate)
	if err != nil {
		return fmt.Errorf("parsing departure date %q: %w", departureDate, err)
	}

	ret, err := time.Parse(models.DateLayout, returnDate)
	if err != nil {
		return fmt.Errorf("parsing return date %q: %w", returnDate, err)
	}

	if !ret.After(dep) {
		return ErrReturnNotAfterDeparture
	}
	return nil
}
