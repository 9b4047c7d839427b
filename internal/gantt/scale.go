// Package gantt holds the pure timeline computations: display scale,
// render-status classification, and drag translation. Nothing here mutates
// its inputs or performs I/O.
package gantt

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
)

const (
	dayScaleMaxDays  = 30
	weekScaleMaxDays = 180
)

// TotalDays returns the inclusive calendar-day count of start..end.
func TotalDays(start, end time.Time) (int, error) {
	s, e := domain.DateOf(start), domain.DateOf(end)
	if e.Before(s) {
		return 0, fmt.Errorf("selecting scale for %s..%s: %w",
			domain.FormatDate(s), domain.FormatDate(e), domain.ErrInvalidRange)
	}
	return int(math.Ceil(e.Sub(s).Hours()/24)) + 1, nil
}

// SelectScale maps a date range to its display granularity:
// up to 30 days is day, 31..180 is week, anything longer is month.
func SelectScale(start, end time.Time) (domain.Scale, error) {
	days, err := TotalDays(start, end)
	if err != nil {
		return "", err
	}
	switch {
	case days <= dayScaleMaxDays:
		return domain.ScaleDay, nil
	case days <= weekScaleMaxDays:
		return domain.ScaleWeek, nil
	default:
		return domain.ScaleMonth, nil
	}
}

// Info summarises the length of a range in several units.
type Info struct {
	TotalDays   int
	TotalWeeks  float64
	TotalMonths float64
}

// RangeInfo reports days, weeks (days/7) and months (days/30), the latter two
// rounded to one decimal.
func RangeInfo(start, end time.Time) (Info, error) {
	days, err := TotalDays(start, end)
	if err != nil {
		return Info{}, err
	}
	return Info{
		TotalDays:   days,
		TotalWeeks:  roundTenth(float64(days) / 7),
		TotalMonths: roundTenth(float64(days) / 30),
	}, nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// DaysPerColumn is the number of days one chart column spans at a scale.
func DaysPerColumn(scale domain.Scale) int {
	switch scale {
	case domain.ScaleWeek:
		return 7
	case domain.ScaleMonth:
		return 30
	default:
		return 1
	}
}
