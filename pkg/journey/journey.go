package journey

import (
	"fmt"
	"strings"
	"time"
)

// FailedDuration is returned when either instant cannot be parsed.
const FailedDuration = "Failed to calculate journey duration"

var instantFormats = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseInstant(date, clock string) (time.Time, error) {
	value := date + "T" + clock
	for _, format := range instantFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &time.ParseError{
		Value:   value,
		Message: "unable to parse journey instant",
	}
}

// Duration computes the elapsed time between departure and arrival and
// renders it as a compact string ("1d 3h", "20m"). Arrival at or before
// departure yields "-"; unparseable input yields FailedDuration.
func Duration(departureDate, departureTime, arrivalDate, arrivalTime string) string {
	start, err := parseInstant(departureDate, departureTime)
	if err != nil {
		return FailedDuration
	}

	end, err := parseInstant(arrivalDate, arrivalTime)
	if err != nil {
		return FailedDuration
	}

	elapsed := end.Sub(start)
	if elapsed <= 0 {
		return "-"
	}

	totalMinutes := int(elapsed.Minutes())

	days := totalMinutes / (24 * 60)
	hours := (totalMinutes % (24 * 60)) / 60
	minutes := totalMinutes % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}

	return strings.Join(parts, " ")
}
