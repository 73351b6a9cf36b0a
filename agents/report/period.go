package report

import (
	"fmt"
	"time"
)

const dayLabel = "02.01.06"

// PeriodBounds is a closed date interval with a human-readable label.
type PeriodBounds struct {
	Start time.Time
	End   time.Time
	Label string
}

// StartDay returns the first day of the period as 2006-01-02.
func (b PeriodBounds) StartDay() string { return b.Start.Format("2006-01-02") }

// EndDay returns the last day of the period as 2006-01-02.
func (b PeriodBounds) EndDay() string { return b.End.Format("2006-01-02") }

// Bounds derives the reporting interval from a period kind and a
// reference local date. Daily: the reference day itself. Weekly: the
// Monday on or before the reference through the following Sunday.
// Monthly: the whole reference month. Unknown kinds fall back to daily.
func Bounds(period string, ref time.Time) PeriodBounds {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())

	switch period {
	case "weekly":
		// time.Weekday counts Sunday as 0; shift so Monday is the week start.
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		end := start.AddDate(0, 0, 6)
		return PeriodBounds{
			Start: start,
			End:   end,
			Label: fmt.Sprintf("%s → %s", start.Format(dayLabel), end.Format(dayLabel)),
		}
	case "monthly":
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)
		return PeriodBounds{
			Start: start,
			End:   end,
			Label: start.Format("01.06"),
		}
	default: // daily
		return PeriodBounds{
			Start: day,
			End:   day,
			Label: day.Format(dayLabel),
		}
	}
}
