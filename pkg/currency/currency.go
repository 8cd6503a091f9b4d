package currency

import (
	"fmt"
	"math"
	"strings"
)

// Currency describes a supported display currency.
type Currency struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Symbol string `json:"symbol"`
}

var Supported = []Currency{
	{Code: "INR", Label: "Indian Rupee (₹)", Symbol: "₹"},
	{Code: "USD", Label: "US Dollar ($)", Symbol: "$"},
	{Code: "EUR", Label: "Euro (€)", Symbol: "€"},
	{Code: "GBP", Label: "British Pound (£)", Symbol: "£"},
	{Code: "JPY", Label: "Japanese Yen (¥)", Symbol: "¥"},
}

// Static rate table; known staleness limitation, rates are not live-fetched.
var inrToRate = map[string]float64{
	"INR": 1,
	"USD": 0.0116,
	"EUR": 0.011,
	"GBP": 0.0095,
	"JPY": 1.71,
}

var countryToCurrency = map[string]string{
	"US": "USD",
	"GB": "GBP",
	"IN": "INR",
	"FR": "EUR",
	"DE": "EUR",
	"JP": "JPY",
}

// ConvertFromINR converts an INR amount into the target currency.
// Unknown codes convert at the identity rate 1.
func ConvertFromINR(amount float64, code string) float64 {
	rate, ok := inrToRate[strings.ToUpper(code)]
	if !ok {
		rate = 1
	}
	return amount * rate
}

// Detect maps an ISO country code to its currency, defaulting to INR.
func Detect(countryCode string) string {
	if code, ok := countryToCurrency[strings.ToUpper(countryCode)]; ok {
		return code
	}
	return "INR"
}

// Symbol returns the display symbol for a currency code, defaulting to ₹.
func Symbol(code string) string {
	for _, c := range Supported {
		if c.Code == strings.ToUpper(code) {
			return c.Symbol
		}
	}
	return "₹"
}

type locale struct {
	groupSep   string
	decimalSep string
	indian     bool
}

var currencyLocales = map[string]locale{
	"INR": {groupSep: ",", decimalSep: ".", indian: true},
	"USD": {groupSep: ",", decimalSep: "."},
	"GBP": {groupSep: ",", decimalSep: "."},
	"JPY": {groupSep: ",", decimalSep: "."},
	"EUR": {groupSep: ".", decimalSep: ","},
}

// Format renders an amount with the digit grouping of the currency's
// locale, at most 2 fraction digits, trailing zeros dropped. Unknown
// codes use the INR locale.
func Format(amount float64, code string) string {
	loc, ok := currencyLocales[strings.ToUpper(code)]
	if !ok {
		loc = currencyLocales["INR"]
	}

	rounded := math.Round(amount*100) / 100

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	intPart := math.Floor(rounded)
	intStr := fmt.Sprintf("%.0f", intPart)

	var grouped string
	if loc.indian {
		grouped = addIndianSeparator(intStr, loc.groupSep)
	} else {
		grouped = addThousandsSeparator(intStr, loc.groupSep)
	}

	result := grouped
	if frac := rounded - intPart; frac > 0 {
		fracStr := strings.TrimRight(fmt.Sprintf("%.2f", frac)[2:], "0")
		if fracStr != "" {
			result += loc.decimalSep + fracStr
		}
	}

	if negative {
		result = "-" + result
	}

	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}

// Indian grouping: rightmost group of 3, then groups of 2 (1,25,000).
func addIndianSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	head := s[:n-3]
	tail := s[n-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}

	return strings.Join(groups, sep) + sep + tail
}
