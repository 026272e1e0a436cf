package rollup

import (
	"time"

	"github.com/dashledger/internal/domain/shared"
)

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}

// ResolvePeriod maps a timeframe keyword to a concrete UTC date range anchored
// to now. Every range is right-truncated at now's day except LAST_MONTH, which
// covers the full calendar month; that asymmetry is intentional.
func ResolvePeriod(tf shared.Timeframe, now time.Time) (shared.DateRange, error) {
	now = now.UTC()

	switch tf {
	case shared.TimeframeToday:
		return shared.DateRange{Start: dayStart(now), End: dayEnd(now)}, nil

	case shared.TimeframeYesterday:
		y := now.AddDate(0, 0, -1)
		return shared.DateRange{Start: dayStart(y), End: dayEnd(y)}, nil

	case shared.TimeframeThisWeek:
		// Week starts Monday
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		monday := now.AddDate(0, 0, -daysSinceMonday)
		return shared.DateRange{Start: dayStart(monday), End: dayEnd(now)}, nil

	case shared.TimeframeLast7Days:
		return shared.DateRange{Start: dayStart(now.AddDate(0, 0, -6)), End: dayEnd(now)}, nil

	case shared.TimeframeThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return shared.DateRange{Start: first, End: dayEnd(now)}, nil

	case shared.TimeframeLastMonth:
		firstThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		lastDayPrev := firstThisMonth.AddDate(0, 0, -1)
		firstPrev := time.Date(lastDayPrev.Year(), lastDayPrev.Month(), 1, 0, 0, 0, 0, time.UTC)
		return shared.DateRange{Start: firstPrev, End: dayEnd(lastDayPrev)}, nil
	}

	return shared.DateRange{}, shared.ErrInvalidTimeframe{Value: string(tf)}
}
