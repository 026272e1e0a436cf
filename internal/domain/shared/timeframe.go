package shared

import "time"

// Timeframe names a resolvable calendar window for rollups and goals
type Timeframe string

const (
	TimeframeToday     Timeframe = "TODAY"
	TimeframeYesterday Timeframe = "YESTERDAY"
	TimeframeThisWeek  Timeframe = "THIS_WEEK"
	TimeframeLast7Days Timeframe = "LAST_7_DAYS"
	TimeframeThisMonth Timeframe = "THIS_MONTH"
	TimeframeLastMonth Timeframe = "LAST_MONTH"
)

// Timeframes lists every valid timeframe value
func Timeframes() []Timeframe {
	return []Timeframe{
		TimeframeToday,
		TimeframeYesterday,
		TimeframeThisWeek,
		TimeframeLast7Days,
		TimeframeThisMonth,
		TimeframeLastMonth,
	}
}

// ParseTimeframe validates a raw timeframe keyword. Matching is case-sensitive:
// the wire value must equal one of the six enumeration names exactly.
func ParseTimeframe(raw string) (Timeframe, error) {
	tf := Timeframe(raw)
	switch tf {
	case TimeframeToday, TimeframeYesterday, TimeframeThisWeek,
		TimeframeLast7Days, TimeframeThisMonth, TimeframeLastMonth:
		return tf, nil
	}
	return "", ErrInvalidTimeframe{Value: raw}
}

// DateRange is a concrete window in UTC. Both bounds are inclusive; End is the
// last second of the applicable day.
type DateRange struct {
	Start time.Time
	End   time.Time
}
