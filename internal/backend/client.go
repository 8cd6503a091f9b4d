package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/anjanibarlapati/skyready/internal/models"
	"github.com/anjanibarlapati/skyready/internal/ratelimit"
)

const httpTimeout = 10 * time.Second

const (
	EndpointCities  = "cities"
	EndpointSearch  = "search"
	EndpointConfirm = "confirm"
)

// Fallback texts used when the backend omits a message body.
const (
	FallbackNoFlights   = "No flights found"
	FallbackSearchError = "Failed to fetch flights"
	FallbackBooking     = "Booking failed"
)

// APIError is a non-2xx response from a confirmation endpoint.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// SearchResult is the classified outcome of one search call. Exactly one
// of the three fields is populated: Flights on 2xx (possibly empty),
// Message on 409, ErrorMessage on any other status. Transport and decode
// failures are returned as errors instead.
type SearchResult struct {
	Flights      []models.FlightOffer
	Message      string
	ErrorMessage string
}

// Client talks to the flight search backend.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *ratelimit.EndpointLimiter
}

// New constructs a Client for the given base URL. The limiter may be nil
// to disable outbound throttling.
func New(baseURL string, limiter *ratelimit.EndpointLimiter) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: httpTimeout},
		limiter: limiter,
	}
}

func (c *Client) wait(ctx context.Context, endpoint string) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx, endpoint)
}

// Cities fetches the list of searchable city names.
func (c *Client) Cities(ctx context.Context) ([]string, error) {
	if err := c.wait(ctx, EndpointCities); err != nil {
		return nil, err
	}

	url := c.baseURL + "/api/v1/cities"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating cities request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s returned status %d", url, resp.StatusCode)
	}

	var cities []string
	if err := json.NewDecoder(resp.Body).Decode(&cities); err != nil {
		return nil, fmt.Errorf("decoding cities response: %w", err)
	}

	return cities, nil
}

// SearchFlights issues one search call and classifies the response.
// 2xx with an empty list is a valid empty success, distinct from the
// 409 "no flights that date" message.
func (c *Client) SearchFlights(ctx context.Context, searchReq models.SearchRequest) (*SearchResult, error) {
	if err := c.wait(ctx, EndpointSearch); err != nil {
		return nil, err
	}

	resp, err := c.postJSON(ctx, "/api/v1/flights/search", searchReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var body models.SearchResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decoding search response: %w", err)
		}
		if body.Flights == nil {
			body.Flights = []models.FlightOffer{}
		}
		return &SearchResult{Flights: body.Flights}, nil
	}

	var body models.MessageResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode == http.StatusConflict {
		message := body.Message
		if message == "" {
			message = FallbackNoFlights
		}
		return &SearchResult{Message: message}, nil
	}

	errText := body.Message
	if errText == "" {
		errText = FallbackSearchError
	}
	return &SearchResult{ErrorMessage: errText}, nil
}

// ConfirmBooking confirms a one-way booking and returns the backend's
// confirmation message. Non-2xx responses are returned as *APIError.
func (c *Client) ConfirmBooking(ctx context.Context, payload models.BookingPayload) (string, error) {
	return c.confirm(ctx, "/api/v1/flights/confirm-booking", payload)
}

// ConfirmRoundTrip confirms a round-trip booking against the backend's
// dedicated round-trip endpoint.
func (c *Client) ConfirmRoundTrip(ctx context.Context, payload models.RoundTripPayload) (string, error) {
	return c.confirm(ctx, "/api/v1/flights/confirm-round-trip", payload)
}

func (c *Client) confirm(ctx context.Context, path string, payload any) (string, error) {
	if err := c.wait(ctx, EndpointConfirm); err != nil {
		return "", err
	}

	resp, err := c.postJSON(ctx, path, payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body models.MessageResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body.Message, nil
	}

	message := body.Message
	if message == "" {
		message = FallbackBooking
	}
	return "", &APIError{Status: resp.StatusCode, Message: message}
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request for %s: %w", path, err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", url, err)
	}

	return resp, nil
}
