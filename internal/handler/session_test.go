package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anjanibarlapati/skyready/internal/backend"
	"github.com/anjanibarlapati/skyready/internal/models"
	"github.com/anjanibarlapati/skyready/internal/session"
)

type fakeBackend struct {
	search func(req models.SearchRequest) (*backend.SearchResult, error)
}

func (f *fakeBackend) Cities(ctx context.Context) ([]string, error) {
	return []string{"Delhi", "Mumbai", "Bengaluru"}, nil
}

func (f *fakeBackend) SearchFlights(ctx context.Context, req models.SearchRequest) (*backend.SearchResult, error) {
	if f.search != nil {
		return f.search(req)
	}
	return &backend.SearchResult{Flights: []models.FlightOffer{sampleOffer()}}, nil
}

func (f *fakeBackend) ConfirmBooking(ctx context.Context, payload models.BookingPayload) (string, error) {
	return "Booking confirmed successfully!", nil
}

func (f *fakeBackend) ConfirmRoundTrip(ctx context.Context, payload models.RoundTripPayload) (string, error) {
	return "Booking confirmed successfully!", nil
}

func sampleOffer() models.FlightOffer {
	return models.FlightOffer{
		FlightNumber:  "AI-101",
		AirlineName:   "Air India",
		Source:        "Delhi",
		Destination:   "Mumbai",
		DepartureDate: "2026-09-15",
		DepartureTime: "06:30",
		ArrivalDate:   "2026-09-15",
		ArrivalTime:   "08:45",
		Seats:         12,
		Price:         4500,
		BasePrice:     4000,
	}
}

func testNow() time.Time {
	return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
}

func newTestHandler(t *testing.T, fb *fakeBackend) (*SessionHandler, *session.Manager) {
	t.Helper()
	m := session.NewManager(session.ManagerConfig{
		Backend: fb,
		Cities:  fb,
		Now:     testNow,
	})
	return NewSessionHandler(m), m
}

func doRequest(t *testing.T, e *echo.Echo, h echo.HandlerFunc, method, target, body, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sessionID != "" {
		c.SetParamNames("id")
		c.SetParamValues(sessionID)
	}
	require.NoError(t, h(c))
	return rec
}

func TestCreateSession(t *testing.T) {
	h, _ := newTestHandler(t, &fakeBackend{})
	e := echo.New()

	rec := doRequest(t, e, h.Create, http.MethodPost, "/api/v1/sessions", "", "")

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, []string{"Delhi", "Mumbai", "Bengaluru"}, resp.Cities)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "2026-09-01", resp.Criteria.DepartureDate)
	assert.Nil(t, resp.Departure.Flights)
}

func TestGetSessionNotFound(t *testing.T) {
	h, _ := newTestHandler(t, &fakeBackend{})
	e := echo.New()

	rec := doRequest(t, e, h.Get, http.MethodGet, "/api/v1/sessions/missing", "", "missing")

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "session_not_found", resp.Error)
}

func TestSearch(t *testing.T) {
	h, m := newTestHandler(t, &fakeBackend{})
	e := echo.New()
	s := m.Create(context.Background())

	body := `{
		"source": "delhi",
		"destination": "Mumbai",
		"departure_date": "2026-09-15",
		"travellers_count": 2,
		"class_type": "Economy",
		"trip_type": "one_way"
	}`
	rec := doRequest(t, e, h.Search, http.MethodPost, "/api/v1/sessions/"+s.ID()+"/search", body, s.ID())

	require.Equal(t, http.StatusOK, rec.Code)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Delhi", resp.Criteria.Source, "city casing should be canonicalised")
	require.Len(t, resp.Departure.Flights, 1)
	assert.Equal(t, "AI-101", resp.Departure.Flights[0].FlightNumber)
	assert.Equal(t, "2h 15m", resp.Departure.Flights[0].Duration)
	assert.Equal(t, "₹ 4,500", resp.Departure.Flights[0].DisplayPrice)
	assert.False(t, resp.Loading)
}

func TestSearchValidationError(t *testing.T) {
	h, m := newTestHandler(t, &fakeBackend{})
	e := echo.New()
	s := m.Create(context.Background())

	body := `{
		"source": "Delhi",
		"destination": "Delhi",
		"departure_date": "2026-09-15",
		"trip_type": "one_way"
	}`
	rec := doRequest(t, e, h.Search, http.MethodPost, "/api/v1/sessions/"+s.ID()+"/search", body, s.ID())

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error)
}

func TestSearchDisplayPriceFollowsCurrency(t *testing.T) {
	h, m := newTestHandler(t, &fakeBackend{})
	e := echo.New()
	s := m.Create(context.Background())
	s.SetCurrency("USD")

	body := `{
		"source": "Delhi",
		"destination": "Mumbai",
		"departure_date": "2026-09-15",
		"trip_type": "one_way"
	}`
	rec := doRequest(t, e, h.Search, http.MethodPost, "/api/v1/sessions/"+s.ID()+"/search", body, s.ID())

	require.Equal(t, http.StatusOK, rec.Code)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Departure.Flights, 1)
	// 4500 INR at 0.0116.
	assert.Equal(t, "$ 52.2", resp.Departure.Flights[0].DisplayPrice)
	// The underlying offer stays in INR.
	assert.Equal(t, 4500.0, resp.Departure.Flights[0].Price)
}

func TestNavigateOutOfRange(t *testing.T) {
	h, m := newTestHandler(t, &fakeBackend{})
	e := echo.New()
	s := m.Create(context.Background())

	// Default criteria sit on today, which is the lower bound.
	rec := doRequest(t, e, h.Navigate, http.MethodPost, "/api/v1/sessions/"+s.ID()+"/navigate",
		`{"leg": "departure", "delta": -1}`, s.ID())

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "date_out_of_range", resp.Error)
}

func TestNavigateBadLeg(t *testing.T) {
	h, m := newTestHandler(t, &fakeBackend{})
	e := echo.New()
	s := m.Create(context.Background())

	rec := doRequest(t, e, h.Navigate, http.MethodPost, "/api/v1/sessions/"+s.ID()+"/navigate",
		`{"leg": "sideways", "delta": 1}`, s.ID())

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNavigateStepsAndRefetches(t *testing.T) {
	fb := &fakeBackend{}
	h, m := newTestHandler(t, fb)
	e := echo.New()
	s := m.Create(context.Background())

	require.NoError(t, s.SetCriteria(models.SearchCriteria{
		Source:        "Delhi",
		Destination:   "Mumbai",
		DepartureDate: "2026-09-15",
		TripType:      models.TripOneWay,
	}))

	var fetched []string
	fb.search = func(req models.SearchRequest) (*backend.SearchResult, error) {
		fetched = append(fetched, req.DepartureDate)
		return &backend.SearchResult{Flights: []models.FlightOffer{sampleOffer()}}, nil
	}

	rec := doRequest(t, e, h.Navigate, http.MethodPost, "/api/v1/sessions/"+s.ID()+"/navigate",
		`{"leg": "departure", "delta": 1}`, s.ID())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"2026-09-16"}, fetched)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-09-16", resp.Criteria.DepartureDate)
}

func TestSelectAndFare(t *testing.T) {
	h, m := newTestHandler(t, &fakeBackend{})
	e := echo.New()
	s := m.Create(context.Background())

	body := `{
		"source": "Delhi",
		"destination": "Mumbai",
		"departure_date": "2026-09-15",
		"travellers_count": 2,
		"trip_type": "one_way"
	}`
	rec := doRequest(t, e, h.Search, http.MethodPost, "/api/v1/sessions/"+s.ID()+"/search", body, s.ID())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, e, h.Select, http.MethodPost, "/api/v1/sessions/"+s.ID()+"/select",
		`{"leg": "departure", "flight_number": "AI-101"}`, s.ID())
	require.Equal(t, http.StatusOK, rec.Code)

	var view sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.NotNil(t, view.SelectedDeparture)
	assert.Equal(t, 2, view.SelectedDeparture.TravellersCount)

	rec = doRequest(t, e, h.FareSummary, http.MethodGet, "/api/v1/sessions/"+s.ID()+"/fare", "", s.ID())
	require.Equal(t, http.StatusOK, rec.Code)

	var fareResp fareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fareResp))
	// rawTotal 4500*2 = 9000, base 4000*2 = 8000, taxes 1000.
	assert.Equal(t, 8000.0, fareResp.BaseFare)
	assert.Equal(t, 1000.0, fareResp.Taxes)
	assert.Equal(t, 0.0, fareResp.Discount)
	assert.Equal(t, 9000.0, fareResp.Total)
	assert.Equal(t, "₹ 9,000", fareResp.FormattedTotal)
}

func TestFareWithoutSelection(t *testing.T) {
	h, m := newTestHandler(t, &fakeBackend{})
	e := echo.New()
	s := m.Create(context.Background())

	rec := doRequest(t, e, h.FareSummary, http.MethodGet, "/api/v1/sessions/"+s.ID()+"/fare", "", s.ID())

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "no_selection", resp.Error)
}

func TestConfirm(t *testing.T) {
	h, m := newTestHandler(t, &fakeBackend{})
	e := echo.New()
	s := m.Create(context.Background())

	body := `{
		"source": "Delhi",
		"destination": "Mumbai",
		"departure_date": "2026-09-15",
		"trip_type": "one_way"
	}`
	rec := doRequest(t, e, h.Search, http.MethodPost, "/api/v1/sessions/"+s.ID()+"/search", body, s.ID())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, e, h.Select, http.MethodPost, "/api/v1/sessions/"+s.ID()+"/select",
		`{"leg": "departure", "flight_number": "AI-101"}`, s.ID())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, e, h.Confirm, http.MethodPost, "/api/v1/sessions/"+s.ID()+"/confirm", "", s.ID())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Alert)
	assert.Equal(t, session.AlertSuccess, resp.Alert.Type)
	assert.Nil(t, resp.SelectedDeparture)
	assert.Nil(t, resp.Departure.Flights)
}

func TestConfirmWithoutSelection(t *testing.T) {
	h, m := newTestHandler(t, &fakeBackend{})
	e := echo.New()
	s := m.Create(context.Background())

	rec := doRequest(t, e, h.Confirm, http.MethodPost, "/api/v1/sessions/"+s.ID()+"/confirm", "", s.ID())

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetCurrency(t *testing.T) {
	h, m := newTestHandler(t, &fakeBackend{})
	e := echo.New()
	s := m.Create(context.Background())

	rec := doRequest(t, e, h.SetCurrency, http.MethodPut, "/api/v1/sessions/"+s.ID()+"/currency",
		`{"currency": "EUR"}`, s.ID())

	require.Equal(t, http.StatusOK, rec.Code)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "EUR", resp.Currency)
	assert.Equal(t, "€", resp.CurrencySymbol)
}

func TestDeleteSession(t *testing.T) {
	h, m := newTestHandler(t, &fakeBackend{})
	e := echo.New()
	s := m.Create(context.Background())

	rec := doRequest(t, e, h.Delete, http.MethodDelete, "/api/v1/sessions/"+s.ID(), "", s.ID())
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, ok := m.Get(s.ID())
	assert.False(t, ok)
}
