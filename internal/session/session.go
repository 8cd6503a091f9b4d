package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/anjanibarlapati/skyready/internal/backend"
	"github.com/anjanibarlapati/skyready/internal/cache"
	"github.com/anjanibarlapati/skyready/internal/models"
	"github.com/anjanibarlapati/skyready/pkg/currency"
)

// Leg selects which direction of travel an operation applies to.
type Leg int

const (
	LegDeparture Leg = iota
	LegReturn
	LegBoth
)

func (l Leg) String() string {
	switch l {
	case LegDeparture:
		return "departure"
	case LegReturn:
		return "return"
	case LegBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseLeg converts the wire representation of a leg.
func ParseLeg(s string) (Leg, error) {
	switch s {
	case "departure":
		return LegDeparture, nil
	case "return":
		return LegReturn, nil
	case "both":
		return LegBoth, nil
	default:
		return 0, fmt.Errorf("unknown leg %q", s)
	}
}

type AlertType string

const (
	AlertSuccess AlertType = "success"
	AlertFailure AlertType = "failure"
)

type Alert struct {
	Type    AlertType `json:"type"`
	Message string    `json:"message"`
}

// legState holds one leg's fetch outcome. flights, message and
// errorMessage are mutually exclusive within a fetch cycle; the token
// identifies the most recent fetch so stale completions are dropped.
type legState struct {
	flights      []models.FlightOffer
	message      string
	errorMessage string
	token        uint64
}

// SearchBackend is the slice of the backend client the session uses.
type SearchBackend interface {
	SearchFlights(ctx context.Context, req models.SearchRequest) (*backend.SearchResult, error)
	ConfirmBooking(ctx context.Context, payload models.BookingPayload) (string, error)
	ConfirmRoundTrip(ctx context.Context, payload models.RoundTripPayload) (string, error)
}

// Session holds one user's search state: criteria, per-leg result
// stores, selection, display currency and transient UI flags. All
// mutation goes through its methods; the mutex makes concurrent
// handler calls safe.
type Session struct {
	id string

	mu                sync.Mutex
	criteria          models.SearchCriteria
	cities            []string
	currencyCode      string
	loading           bool
	alert             *Alert
	departure         legState
	ret               legState
	selectedDeparture *models.SelectedOffer
	selectedReturn    *models.SelectedOffer

	backend    SearchBackend
	cache      cache.Cache
	afterFetch func(Leg)
	now        func() time.Time
	log        *slog.Logger
}

// Config carries the session's collaborators. Cache, AfterFetch, Now
// and Logger are optional.
type Config struct {
	Backend    SearchBackend
	Cache      cache.Cache
	AfterFetch func(Leg)
	Now        func() time.Time
	Logger     *slog.Logger
}

func New(id string, cities []string, currencyCode string, cfg Config) *Session {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNoOpCache()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if currencyCode == "" {
		currencyCode = "INR"
	}

	s := &Session{
		id:           id,
		cities:       cities,
		currencyCode: currencyCode,
		backend:      cfg.Backend,
		cache:        cfg.Cache,
		afterFetch:   cfg.AfterFetch,
		now:          cfg.Now,
		log:          cfg.Logger,
	}
	s.criteria = models.DefaultCriteria(cfg.Now())
	return s
}

func (s *Session) ID() string {
	return s.id
}

// SetCriteria validates and installs new search criteria, resolving the
// cities against the session list. Any prior selection is dropped.
func (s *Session) SetCriteria(criteria models.SearchCriteria) error {
	if err := criteria.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := criteria.MatchCities(s.cities); err != nil {
		return err
	}

	s.criteria = criteria
	s.selectedDeparture = nil
	s.selectedReturn = nil
	return nil
}

func (s *Session) Criteria() models.SearchCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

func (s *Session) Cities() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cities
}

func (s *Session) Currency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currencyCode
}

// SetCurrency switches the display currency. Unknown codes are kept and
// fall back to identity conversion downstream.
func (s *Session) SetCurrency(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currencyCode = code
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Session) Alert() *Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alert
}

func (s *Session) setAlert(t AlertType, message string) {
	s.mu.Lock()
	s.alert = &Alert{Type: t, Message: message}
	s.mu.Unlock()
}

func (s *Session) ClearAlert() {
	s.mu.Lock()
	s.alert = nil
	s.mu.Unlock()
}

// SelectOffer toggles the selection for a leg. Selecting converts the
// offer's INR amounts into the display currency once; re-selecting the
// same flight number deselects it. Reports whether the offer ended up
// selected.
func (s *Session) SelectOffer(leg Leg, offer models.FlightOffer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := &s.selectedDeparture
	if leg == LegReturn {
		slot = &s.selectedReturn
	} else if leg != LegDeparture {
		return false
	}

	if *slot != nil && (*slot).Offer.FlightNumber == offer.FlightNumber {
		*slot = nil
		return false
	}

	*slot = &models.SelectedOffer{
		Offer:           offer,
		Price:           currency.ConvertFromINR(offer.Price, s.currencyCode),
		BasePrice:       currency.ConvertFromINR(offer.BasePrice, s.currencyCode),
		Currency:        s.currencyCode,
		TravellersCount: s.criteria.TravellersCount,
		ClassType:       s.criteria.ClassType,
	}
	return true
}

// SelectByFlightNumber toggles selection for an offer already present
// in the leg's result store.
func (s *Session) SelectByFlightNumber(leg Leg, flightNumber string) (bool, error) {
	s.mu.Lock()
	state := s.legStateFor(leg)
	if state == nil {
		s.mu.Unlock()
		return false, fmt.Errorf("cannot select on leg %q", leg)
	}

	var found *models.FlightOffer
	for i := range state.flights {
		if state.flights[i].FlightNumber == flightNumber {
			found = &state.flights[i]
			break
		}
	}
	s.mu.Unlock()

	if found == nil {
		return false, fmt.Errorf("flight %q is not in the %s results", flightNumber, leg)
	}

	return s.SelectOffer(leg, *found), nil
}

// Selection returns copies of the current selections, nil when unset.
func (s *Session) Selection() (*models.SelectedOffer, *models.SelectedOffer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dep, ret *models.SelectedOffer
	if s.selectedDeparture != nil {
		d := *s.selectedDeparture
		dep = &d
	}
	if s.selectedReturn != nil {
		r := *s.selectedReturn
		ret = &r
	}
	return dep, ret
}

// ClearResults empties both result stores and the selection, e.g. when
// navigating away from results or after a booking attempt.
func (s *Session) ClearResults() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.departure = legState{token: s.departure.token}
	s.ret = legState{token: s.ret.token}
	s.selectedDeparture = nil
	s.selectedReturn = nil
}

// legStateFor returns the store for a single leg; nil for LegBoth.
// Callers hold s.mu.
func (s *Session) legStateFor(leg Leg) *legState {
	switch leg {
	case LegDeparture:
		return &s.departure
	case LegReturn:
		return &s.ret
	default:
		return nil
	}
}

// LegView is the externally visible state of one leg's store. A nil
// Flights slice means no successful fetch yet; an empty one is a valid
// empty result.
type LegView struct {
	Flights []models.FlightOffer `json:"flights"`
	Message string               `json:"message,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// View is a consistent snapshot of the whole session.
type View struct {
	ID                string                `json:"session_id"`
	Criteria          models.SearchCriteria `json:"criteria"`
	Cities            []string              `json:"cities"`
	Currency          string                `json:"currency"`
	CurrencySymbol    string                `json:"currency_symbol"`
	Loading           bool                  `json:"loading"`
	Alert             *Alert                `json:"alert,omitempty"`
	Departure         LegView               `json:"departure"`
	Return            LegView               `json:"return"`
	SelectedDeparture *models.SelectedOffer `json:"selected_departure,omitempty"`
	SelectedReturn    *models.SelectedOffer `json:"selected_return,omitempty"`
}

func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		ID:                s.id,
		Criteria:          s.criteria,
		Cities:            s.cities,
		Currency:          s.currencyCode,
		CurrencySymbol:    currency.Symbol(s.currencyCode),
		Loading:           s.loading,
		Alert:             s.alert,
		Departure:         legView(s.departure),
		Return:            legView(s.ret),
		SelectedDeparture: s.selectedDeparture,
		SelectedReturn:    s.selectedReturn,
	}
}

func legView(state legState) LegView {
	return LegView{
		Flights: state.flights,
		Message: state.message,
		Error:   state.errorMessage,
	}
}
