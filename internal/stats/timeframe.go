package stats

import (
	"fmt"
	"strings"
	"time"
)

// Timeframe limits leaderboards and stats to recent sessions.
type Timeframe string

// Known timeframes.
const (
	TimeframeAll   Timeframe = "all"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
)

// Timeframes lists the timeframes in cycling order.
var Timeframes = []Timeframe{TimeframeAll, TimeframeWeek, TimeframeMonth}

// ParseTimeframe accepts all, week or month. Empty means all.
func ParseTimeframe(v string) (Timeframe, error) {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(v))); tf {
	case "":
		return TimeframeAll, nil
	case TimeframeAll, TimeframeWeek, TimeframeMonth:
		return tf, nil
	default:
		return "", fmt.Errorf("unknown timeframe %q (want all, week or month)", v)
	}
}

// Since returns the start of the timeframe ending at now, nil for all.
func (tf Timeframe) Since(now time.Time) *time.Time {
	var since time.Time
	switch tf {
	case TimeframeWeek:
		since = now.AddDate(0, 0, -7)
	case TimeframeMonth:
		since = now.AddDate(0, -1, 0)
	default:
		return nil
	}
	return &since
}

// Next returns the timeframe after tf in Timeframes.
func (tf Timeframe) Next() Timeframe {
	for i, t := range Timeframes {
		if t == tf {
			return Timeframes[(i+1)%len(Timeframes)]
		}
	}
	return TimeframeAll
}

// Label is the display name of tf.
func (tf Timeframe) Label() string {
	switch tf {
	case TimeframeWeek:
		return "This week"
	case TimeframeMonth:
		return "This month"
	default:
		return "All time"
	}
}
