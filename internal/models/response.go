package models

type SearchResponse struct {
	Flights []FlightOffer `json:"flights"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// BookingPayload is the one-way confirmation wire body.
type BookingPayload struct {
	Flight BookingFlight `json:"flight"`
}

type BookingFlight struct {
	FlightNumber    string `json:"flight_number"`
	DepartureDate   string `json:"departure_date"`
	ClassType       string `json:"class_type"`
	TravellersCount int    `json:"travellers_count"`
}

// RoundTripPayload is the round-trip confirmation wire body. The backend
// exposes a distinct endpoint and shape for round trips.
type RoundTripPayload struct {
	Data RoundTripData `json:"data"`
}

type RoundTripData struct {
	DepartureFlightNumber string `json:"departure_flight_number"`
	DepartureDate         string `json:"departure_date"`
	ReturnFlightNumber    string `json:"return_flight_number"`
	ReturnDate            string `json:"return_date"`
	ClassType             string `json:"class_type"`
	TravellersCount       int    `json:"travellers_count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
