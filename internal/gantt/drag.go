package gantt

import (
	"fmt"
	"math"

	"github.com/alexanderramin/gantt/internal/domain"
)

// MaxDragDays bounds a single drag in either direction.
const MaxDragDays = 1_000_000

// DaysDelta converts a horizontal pointer movement into whole days.
// Rounding is half away from zero, so +20px and -20px at 40px/day move
// +1 and -1 day respectively.
func DaysDelta(pixelDelta, pixelsPerDay float64) (int, error) {
	if !(pixelsPerDay > 0) || math.IsInf(pixelsPerDay, 0) {
		return 0, fmt.Errorf("pixels per day %v: %w", pixelsPerDay, domain.ErrInvalidScale)
	}
	if math.IsNaN(pixelDelta) || math.IsInf(pixelDelta, 0) {
		return 0, fmt.Errorf("pixel delta %v: %w", pixelDelta, domain.ErrValidation)
	}
	days := math.Round(pixelDelta / pixelsPerDay)
	if math.Abs(days) > MaxDragDays {
		return 0, fmt.Errorf("drag of %v days exceeds %d: %w", days, MaxDragDays, domain.ErrValidation)
	}
	return int(days), nil
}

// ApplyDrag moves orig by the day delta of a drag gesture. Both ends shift
// together; the duration never changes.
func ApplyDrag(orig domain.Interval, pixelDelta, pixelsPerDay float64) (domain.Interval, error) {
	days, err := DaysDelta(pixelDelta, pixelsPerDay)
	if err != nil {
		return domain.Interval{}, err
	}
	return orig.Shift(days), nil
}
