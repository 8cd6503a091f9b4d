package fare

import "github.com/anjanibarlapati/skyready/internal/models"

// Round trips earn a flat 5% discount on the raw total.
const roundTripDiscountRate = 0.05

// Summary is the fare breakdown shown before booking confirmation. All
// amounts are in the currency already carried on the selected offers.
type Summary struct {
	BaseFare float64 `json:"base_fare"`
	Taxes    float64 `json:"taxes"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// Compute builds the fare summary for a one-way (ret nil) or round-trip
// booking. Offers arrive with prices converted upstream at selection
// time; no conversion happens here.
func Compute(departure models.SelectedOffer, ret *models.SelectedOffer) Summary {
	travellers := float64(departure.TravellersCount)

	baseFare := departure.BasePrice * travellers
	taxes := (departure.Price - departure.BasePrice) * travellers
	rawTotal := departure.Price * travellers

	discount := 0.0
	if ret != nil {
		baseFare += ret.BasePrice * travellers
		taxes += (ret.Price - ret.BasePrice) * travellers
		rawTotal += ret.Price * travellers
		discount = rawTotal * roundTripDiscountRate
	}

	return Summary{
		BaseFare: baseFare,
		Taxes:    taxes,
		Discount: discount,
		Total:    rawTotal - discount,
		Currency: departure.Currency,
	}
}
