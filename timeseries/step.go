package timeseries

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Step is the fixed spacing between consecutive reporting periods. Exactly one
// field is non-zero.
type Step struct {
	Months   int
	Days     int
	Duration time.Duration
}

// String renders the step for error messages.
func (s Step) String() string {
	switch {
	case s.Months == 1:
		return "1 month"
	case s.Months > 1:
		return fmt.Sprintf("%d months", s.Months)
	case s.Days == 1:
		return "1 day"
	case s.Days > 1:
		return fmt.Sprintf("%d days", s.Days)
	default:
		return s.Duration.String()
	}
}

// IsZero reports whether no step could be determined.
func (s Step) IsZero() bool {
	return s.Months == 0 && s.Days == 0 && s.Duration == 0
}

// Matches reports whether b follows a by exactly one step.
func (s Step) Matches(a, b time.Time) bool {
	return stepBetween(a, b) == s
}

// stepBetween classifies the spacing between two increasing dates. Calendar
// months win over days so month-end series (31 Jan, 28 Feb, 31 Mar) and series
// clamped at short months (30 Jan, 28 Feb, 30 Mar) are regular.
func stepBetween(a, b time.Time) Step {
	if !a.Before(b) {
		return Step{}
	}
	if sameClock(a, b) {
		months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
		if months > 0 && sameMonthDay(a, b) {
			return Step{Months: months}
		}
		if days := dayNumber(b) - dayNumber(a); days > 0 {
			return Step{Days: days}
		}
	}
	return Step{Duration: b.Sub(a)}
}

// InferStep returns the most common spacing between consecutive timestamps.
// Ties go to the spacing seen first. A series shorter than two points has a
// zero step.
func InferStep(ts []time.Time) Step {
	counts := make(map[Step]int)
	var best Step
	for i := 1; i < len(ts); i++ {
		st := stepBetween(ts[i-1], ts[i])
		if st.IsZero() {
			continue
		}
		counts[st]++
		if counts[st] > counts[best] || best.IsZero() {
			best = st
		}
	}
	return best
}

// CheckContiguous verifies that timestamps are strictly increasing with a fixed
// step. Every violation is reported, combined with multierr.
func (s *Series) CheckContiguous() error {
	var err error
	step := InferStep(s.Timestamps)
	for i := 1; i < len(s.Timestamps); i++ {
		prev, cur := s.Timestamps[i-1], s.Timestamps[i]
		switch {
		case prev.Equal(cur):
			err = multierr.Append(err, fmt.Errorf("category %s: duplicate date %s", s.Category, formatDate(cur)))
		case !step.Matches(prev, cur):
			err = multierr.Append(err, fmt.Errorf("category %s: gap between %s and %s (expected step %s)",
				s.Category, formatDate(prev), formatDate(cur), step))
		}
	}
	return err
}

func sameClock(a, b time.Time) bool {
	ah, am, as := a.Clock()
	bh, bm, bs := b.Clock()
	return ah == bh && am == bm && as == bs && a.Nanosecond() == b.Nanosecond()
}

func isMonthEnd(t time.Time) bool {
	return t.AddDate(0, 0, 1).Month() != t.Month()
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// sameMonthDay reports whether b falls on a's day of month, allowing for
// clamping to the last day of a shorter month in either direction.
func sameMonthDay(a, b time.Time) bool {
	if b.Day() == min(a.Day(), daysIn(b)) {
		return true
	}
	// a was clamped; b returns to the original day or its own month end.
	return isMonthEnd(a) && b.Day() >= a.Day()
}

func dayNumber(t time.Time) int {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Unix() / 86400)
}

func formatDate(t time.Time) string {
	if sameClock(t, time.Date(2000, 1, 1, 0, 0, 0, 0, t.Location())) {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}
