package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: check-out must be after check-in")
)

// DateRange is a half-open stay interval: the check-out date itself is never
// a priced night.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// New normalizes both dates to UTC midnight and validates ordering.
func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
	if !dr.CheckOut.After(dr.CheckIn) {
		return DateRange{}, ErrInvalidRange
	}
	return dr, nil
}

// Day truncates a timestamp to its UTC calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights returns the count of priced nights in the range.
func (d DateRange) Nights() int {
	return int(d.CheckOut.Sub(d.CheckIn).Hours() / 24)
}

// Dates returns every night of the stay in ascending order.
func (d DateRange) Dates() []time.Time {
	nights := d.Nights()
	if nights <= 0 {
		return nil
	}
	out := make([]time.Time, 0, nights)
	for day := d.CheckIn; day.Before(d.CheckOut); day = day.AddDate(0, 0, 1) {
		out = append(out, day)
	}
	return out
}

// Contains reports whether the given date is a night of the stay.
func (d DateRange) Contains(t time.Time) bool {
	day := Day(t)
	return !day.Before(d.CheckIn) && day.Before(d.CheckOut)
}
