package domain

import (
	"fmt"
	"time"
)

// Interval is an inclusive calendar-day range. Start == End is a valid
// single-day interval.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval normalises both ends to calendar dates and validates ordering.
func NewInterval(start, end time.Time) (Interval, error) {
	iv := Interval{Start: DateOf(start), End: DateOf(end)}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// Validate returns ErrInvalidRange when End precedes Start.
func (iv Interval) Validate() error {
	if DateOf(iv.End).Before(DateOf(iv.Start)) {
		return fmt.Errorf("%s > %s: %w", FormatDate(iv.Start), FormatDate(iv.End), ErrInvalidRange)
	}
	return nil
}

// Days returns the inclusive number of days covered.
func (iv Interval) Days() int {
	return DaysBetween(iv.Start, iv.End) + 1
}

// Shift moves both ends by days, keeping the length unchanged.
func (iv Interval) Shift(days int) Interval {
	return Interval{
		Start: DateOf(iv.Start).AddDate(0, 0, days),
		End:   DateOf(iv.End).AddDate(0, 0, days),
	}
}

// Contains reports whether the date falls inside the interval.
func (iv Interval) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(DateOf(iv.Start)) && !d.After(DateOf(iv.End))
}

// Within reports whether iv lies entirely inside outer.
func (iv Interval) Within(outer Interval) bool {
	return outer.Contains(iv.Start) && outer.Contains(iv.End)
}

// Equal compares by calendar day.
func (iv Interval) Equal(other Interval) bool {
	return DateOf(iv.Start).Equal(DateOf(other.Start)) && DateOf(iv.End).Equal(DateOf(other.End))
}

func (iv Interval) String() string {
	return FormatDate(iv.Start) + ".." + FormatDate(iv.End)
}
