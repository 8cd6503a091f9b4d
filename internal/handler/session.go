package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anjanibarlapati/skyready/internal/fare"
	"github.com/anjanibarlapati/skyready/internal/models"
	"github.com/anjanibarlapati/skyready/internal/session"
	"github.com/anjanibarlapati/skyready/pkg/currency"
	"github.com/anjanibarlapati/skyready/pkg/journey"
)

type SessionHandler struct {
	manager *session.Manager
}

func NewSessionHandler(m *session.Manager) *SessionHandler {
	return &SessionHandler{manager: m}
}

// offerView decorates a backend offer for presentation: the journey
// duration and the price converted into the display currency. The
// stored offer itself stays in INR.
type offerView struct {
	models.FlightOffer
	Duration     string `json:"duration"`
	DisplayPrice string `json:"display_price"`
}

type legViewResponse struct {
	Flights []offerView `json:"flights"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type sessionResponse struct {
	SessionID         string                `json:"session_id"`
	Criteria          models.SearchCriteria `json:"criteria"`
	Cities            []string              `json:"cities"`
	Currency          string                `json:"currency"`
	CurrencySymbol    string                `json:"currency_symbol"`
	Loading           bool                  `json:"loading"`
	Alert             *session.Alert        `json:"alert,omitempty"`
	Departure         legViewResponse       `json:"departure"`
	Return            legViewResponse       `json:"return"`
	SelectedDeparture *models.SelectedOffer `json:"selected_departure,omitempty"`
	SelectedReturn    *models.SelectedOffer `json:"selected_return,omitempty"`
}

func buildResponse(v session.View) sessionResponse {
	return sessionResponse{
		SessionID:         v.ID,
		Criteria:          v.Criteria,
		Cities:            v.Cities,
		Currency:          v.Currency,
		CurrencySymbol:    v.CurrencySymbol,
		Loading:           v.Loading,
		Alert:             v.Alert,
		Departure:         buildLegView(v.Departure, v.Currency),
		Return:            buildLegView(v.Return, v.Currency),
		SelectedDeparture: v.SelectedDeparture,
		SelectedReturn:    v.SelectedReturn,
	}
}

func buildLegView(leg session.LegView, currencyCode string) legViewResponse {
	out := legViewResponse{
		Message: leg.Message,
		Error:   leg.Error,
	}

	if leg.Flights == nil {
		return out
	}

	out.Flights = make([]offerView, 0, len(leg.Flights))
	for _, offer := range leg.Flights {
		converted := currency.ConvertFromINR(offer.Price, currencyCode)
		out.Flights = append(out.Flights, offerView{
			FlightOffer: offer,
			Duration: journey.Duration(
				offer.DepartureDate, offer.DepartureTime,
				offer.ArrivalDate, offer.ArrivalTime,
			),
			DisplayPrice: currency.Symbol(currencyCode) + " " + currency.Format(converted, currencyCode),
		})
	}
	return out
}

func errorJSON(c echo.Context, status int, errCode, message string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:   errCode,
		Message: message,
		Code:    status,
	})
}

func (h *SessionHandler) lookup(c echo.Context) (*session.Session, error) {
	s, ok := h.manager.Get(c.Param("id"))
	if !ok {
		return nil, errorJSON(c, http.StatusNotFound, "session_not_found", "Unknown session ID")
	}
	return s, nil
}

// Create handles POST /api/v1/sessions.
func (h *SessionHandler) Create(c echo.Context) error {
	s := h.manager.Create(c.Request().Context())
	return c.JSON(http.StatusCreated, buildResponse(s.Snapshot()))
}

// Get handles GET /api/v1/sessions/:id.
func (h *SessionHandler) Get(c echo.Context) error {
	s, err := h.lookup(c)
	if s == nil {
		return err
	}
	return c.JSON(http.StatusOK, buildResponse(s.Snapshot()))
}

// Search handles POST /api/v1/sessions/:id/search: installs new
// criteria and runs a full fetch cycle.
func (h *SessionHandler) Search(c echo.Context) error {
	s, err := h.lookup(c)
	if s == nil {
		return err
	}

	var criteria models.SearchCriteria
	if err := c.Bind(&criteria); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	if err := s.SetCriteria(criteria); err != nil {
		return errorJSON(c, http.StatusBadRequest, "validation_error", err.Error())
	}

	s.Search(c.Request().Context())

	return c.JSON(http.StatusOK, buildResponse(s.Snapshot()))
}

type navigateRequest struct {
	Leg   string `json:"leg"`
	Delta int    `json:"delta"`
}

// Navigate handles POST /api/v1/sessions/:id/navigate: steps a leg's
// date and re-fetches that leg.
func (h *SessionHandler) Navigate(c echo.Context) error {
	s, err := h.lookup(c)
	if s == nil {
		return err
	}

	var req navigateRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	leg, err := session.ParseLeg(req.Leg)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_leg", err.Error())
	}

	switch err := s.NavigateDate(c.Request().Context(), leg, req.Delta); {
	case errors.Is(err, session.ErrDateOutOfRange):
		return errorJSON(c, http.StatusUnprocessableEntity, "date_out_of_range", err.Error())
	case errors.Is(err, session.ErrInvalidNavigationLeg):
		return errorJSON(c, http.StatusBadRequest, "invalid_leg", err.Error())
	case err != nil:
		return errorJSON(c, http.StatusBadRequest, "navigation_error", err.Error())
	}

	return c.JSON(http.StatusOK, buildResponse(s.Snapshot()))
}

type selectRequest struct {
	Leg          string `json:"leg"`
	FlightNumber string `json:"flight_number"`
}

// Select handles POST /api/v1/sessions/:id/select: toggles the
// selection of an offer already present in the leg's results.
func (h *SessionHandler) Select(c echo.Context) error {
	s, err := h.lookup(c)
	if s == nil {
		return err
	}

	var req selectRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	leg, err := session.ParseLeg(req.Leg)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_leg", err.Error())
	}

	if _, err := s.SelectByFlightNumber(leg, req.FlightNumber); err != nil {
		return errorJSON(c, http.StatusBadRequest, "selection_error", err.Error())
	}

	return c.JSON(http.StatusOK, buildResponse(s.Snapshot()))
}

type fareResponse struct {
	fare.Summary
	FormattedTotal string `json:"formatted_total"`
}

// FareSummary handles GET /api/v1/sessions/:id/fare.
func (h *SessionHandler) FareSummary(c echo.Context) error {
	s, err := h.lookup(c)
	if s == nil {
		return err
	}

	dep, ret := s.Selection()
	if dep == nil {
		return errorJSON(c, http.StatusBadRequest, "no_selection", "Select a departure flight first")
	}
	if s.Criteria().TripType != models.TripRound {
		ret = nil
	}

	summary := fare.Compute(*dep, ret)
	return c.JSON(http.StatusOK, fareResponse{
		Summary:        summary,
		FormattedTotal: currency.Symbol(summary.Currency) + " " + currency.Format(summary.Total, summary.Currency),
	})
}

// Confirm handles POST /api/v1/sessions/:id/confirm.
func (h *SessionHandler) Confirm(c echo.Context) error {
	s, err := h.lookup(c)
	if s == nil {
		return err
	}

	if err := s.ConfirmBooking(c.Request().Context()); err != nil {
		return errorJSON(c, http.StatusBadRequest, "no_selection", err.Error())
	}

	return c.JSON(http.StatusOK, buildResponse(s.Snapshot()))
}

type currencyRequest struct {
	Currency string `json:"currency"`
}

// SetCurrency handles PUT /api/v1/sessions/:id/currency.
func (h *SessionHandler) SetCurrency(c echo.Context) error {
	s, err := h.lookup(c)
	if s == nil {
		return err
	}

	var req currencyRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}
	if req.Currency == "" {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "currency is required")
	}

	s.SetCurrency(req.Currency)
	return c.JSON(http.StatusOK, buildResponse(s.Snapshot()))
}

// Delete handles DELETE /api/v1/sessions/:id.
func (h *SessionHandler) Delete(c echo.Context) error {
	if _, ok := h.manager.Get(c.Param("id")); !ok {
		return errorJSON(c, http.StatusNotFound, "session_not_found", "Unknown session ID")
	}
	h.manager.Remove(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

// DismissAlert handles DELETE /api/v1/sessions/:id/alert.
func (h *SessionHandler) DismissAlert(c echo.Context) error {
	s, err := h.lookup(c)
	if s == nil {
		return err
	}

	s.ClearAlert()
	return c.NoContent(http.StatusNoContent)
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
