package datenav

import "time"

// Navigation window relative to today and the paired leg's date.
const (
	pairedWindowDays = 7
	horizonMonths    = 2
)

// Bounds is the inclusive [Min, Max] window of selectable dates.
type Bounds struct {
	Min time.Time
	Max time.Time
}

// Compute derives the selectable window for a leg. The window is capped
// at two months from today and held within seven days of the paired
// leg's date. A leg without a partner passes its own current date as
// paired.
func Compute(today, paired time.Time) Bounds {
	today = truncate(today)
	paired = truncate(paired)

	min := paired.AddDate(0, 0, -pairedWindowDays)
	if today.After(min) {
		min = today
	}

	max := today.AddDate(0, horizonMonths, 0)
	if pairedMax := paired.AddDate(0, 0, pairedWindowDays); pairedMax.Before(max) {
		max = pairedMax
	}

	return Bounds{Min: min, Max: max}
}

// Contains reports whether date falls inside the window, inclusive.
func (b Bounds) Contains(date time.Time) bool {
	date = truncate(date)
	return !date.Before(b.Min) && !date.After(b.Max)
}

// Step moves current by delta days. Steps landing outside the window
// are rejected: ok is false and the returned date is the zero value.
// Landing exactly on Min or Max is allowed.
func Step(current time.Time, deltaDays int, b Bounds) (time.Time, bool) {
	next := truncate(current).AddDate(0, 0, deltaDays)
	if !b.Contains(next) {
		return time.Time{}, false
	}
	return next, true
}

// CanStepBack reports whether the previous-day control is enabled.
// Derived, never stored.
func CanStepBack(current time.Time, b Bounds) bool {
	return truncate(current).After(b.Min)
}

// CanStepForward reports whether the next-day control is enabled.
func CanStepForward(current time.Time, b Bounds) bool {
	return truncate(current).Before(b.Max)
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
