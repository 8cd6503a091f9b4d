package models

import (
	"strings"
	"time"
)

type TripType string

const (
	TripOneWay TripType = "one_way"
	TripRound  TripType = "round"
)

const (
	ClassEconomy     = "Economy"
	ClassSecondClass = "Second Class"
	ClassFirstClass  = "First Class"
)

const (
	MinTravellers = 1
	MaxTravellers = 9
)

const DateLayout = "2006-01-02"

// SearchCriteria is the full search-parameter set for a session.
// Dates are carried as YYYY-MM-DD strings, matching the backend wire
// format.
type SearchCriteria struct {
	Source          string   `json:"source"`
	Destination     string   `json:"destination"`
	DepartureDate   string   `json:"departure_date"`
	ReturnDate      string   `json:"return_date,omitempty"`
	SelectedDate    string   `json:"selected_date"`
	TravellersCount int      `json:"travellers_count"`
	ClassType       string   `json:"class_type"`
	TripType        TripType `json:"trip_type"`
}

// DefaultCriteria returns the session-start criteria: today, one
// traveller, economy, one-way.
func DefaultCriteria(today time.Time) SearchCriteria {
	date := today.Format(DateLayout)
	return SearchCriteria{
		DepartureDate:   date,
		SelectedDate:    date,
		TravellersCount: 1,
		ClassType:       ClassEconomy,
		TripType:        TripOneWay,
	}
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingSource         ValidationError = "source is required"
	ErrMissingDestination    ValidationError = "destination is required"
	ErrMissingDepartureDate  ValidationError = "departure_date is required"
	ErrMissingReturnDate     ValidationError = "return_date is required for round trips"
	ErrUnknownSource         ValidationError = "source city is not recognized"
	ErrUnknownDestination    ValidationError = "destination city is not recognized"
	ErrSameSourceDestination ValidationError = "source and destination cannot be the same"
)

// Validate checks required fields and applies defaults. Travellers count
// is clamped to [1, 9] rather than rejected.
func (c *SearchCriteria) Validate() error {
	if c.Source == "" {
		return ErrMissingSource
	}
	if c.Destination == "" {
		return ErrMissingDestination
	}
	if c.DepartureDate == "" {
		return ErrMissingDepartureDate
	}
	if c.TripType == "" {
		c.TripType = TripOneWay
	}
	if c.TripType == TripRound && c.ReturnDate == "" {
		return ErrMissingReturnDate
	}
	if c.SelectedDate == "" {
		c.SelectedDate = c.DepartureDate
	}
	if c.TravellersCount < MinTravellers {
		c.TravellersCount = MinTravellers
	}
	if c.TravellersCount > MaxTravellers {
		c.TravellersCount = MaxTravellers
	}
	if c.ClassType == "" {
		c.ClassType = ClassEconomy
	}
	return nil
}

// MatchCities resolves source and destination against the session city
// list, case-insensitively, rewriting them to the canonical spelling.
// Unmatched input is rejected, never passed through.
func (c *SearchCriteria) MatchCities(cities []string) error {
	source, ok := matchCity(cities, c.Source)
	if !ok {
		return ErrUnknownSource
	}

	destination, ok := matchCity(cities, c.Destination)
	if !ok {
		return ErrUnknownDestination
	}

	if strings.EqualFold(source, destination) {
		return ErrSameSourceDestination
	}

	c.Source = source
	c.Destination = destination
	return nil
}

func matchCity(cities []string, name string) (string, bool) {
	for _, city := range cities {
		if strings.EqualFold(city, name) {
			return city, true
		}
	}
	return "", false
}

// SearchRequest is the backend search wire body. The return leg swaps
// source and destination and sends the return date as departure_date.
type SearchRequest struct {
	Source          string `json:"source"`
	Destination     string `json:"destination"`
	DepartureDate   string `json:"departure_date"`
	TravellersCount int    `json:"travellers_count"`
	ClassType       string `json:"class_type"`
}

// DepartureRequest builds the wire body for the departure leg.
func (c SearchCriteria) DepartureRequest() SearchRequest {
	return SearchRequest{
		Source:          c.Source,
		Destination:     c.Destination,
		DepartureDate:   c.DepartureDate,
		TravellersCount: c.TravellersCount,
		ClassType:       c.ClassType,
	}
}

// ReturnRequest builds the wire body for the return leg.
func (c SearchCriteria) ReturnRequest() SearchRequest {
	return SearchRequest{
		Source:          c.Destination,
		Destination:     c.Source,
		DepartureDate:   c.ReturnDate,
		TravellersCount: c.TravellersCount,
		ClassType:       c.ClassType,
	}
}
