package models

type FlightOffer struct {
	FlightNumber          string  `json:"flight_number"`
	AirlineName           string  `json:"airline_name"`
	Source                string  `json:"source"`
	Destination           string  `json:"destination"`
	DepartureDate         string  `json:"departure_date"`
	DepartureTime         string  `json:"departure_time"`
	ArrivalDate           string  `json:"arrival_date"`
	ArrivalTime           string  `json:"arrival_time"`
	ArrivalDateDifference string  `json:"arrival_date_difference,omitempty"`
	Seats                 int     `json:"seats"`
	Price                 float64 `json:"price"`
	BasePrice             float64 `json:"base_price"`
}

// SelectedOffer is a flight the user has chosen for booking. Price and
// BasePrice are converted into the display currency exactly once, at
// selection time; the underlying offer keeps its INR amounts.
type SelectedOffer struct {
	Offer           FlightOffer `json:"offer"`
	Price           float64     `json:"price"`
	BasePrice       float64     `json:"base_price"`
	Currency        string      `json:"currency"`
	TravellersCount int         `json:"travellers_count"`
	ClassType       string      `json:"class_type"`
}
