package listview

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Duration labels.
const (
	LabelTBD      = "TBD"
	LabelDueToday = "Due today"
)

const day = 24 * time.Hour

// dateLayouts are the ISO forms accepted for start and target dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DurationInfo describes the distance from a start date to a target date.
type DurationInfo struct {
	Known   bool   `json:"known"`
	Days    int    `json:"days"`
	Overdue bool   `json:"overdue"`
	Label   string `json:"label"`
}

// CalculateDuration returns the label for the span between two ISO dates:
// "TBD" when either is missing or unparseable, "Due today" for a zero-day
// span, "N days" ahead of target and "N days overdue" past it. Fractional
// days round up.
func CalculateDuration(start, target string) string {
	return DurationFromStrings(start, target).Label
}

// DurationFromStrings is CalculateDuration returning the full DurationInfo.
func DurationFromStrings(start, target string) DurationInfo {
	s, ok := ParseDate(start)
	if !ok {
		return DurationInfo{Label: LabelTBD}
	}
	t, ok := ParseDate(target)
	if !ok {
		return DurationInfo{Label: LabelTBD}
	}
	return Between(&s, &t)
}

// Between computes the duration between two optional timestamps.
func Between(start, target *time.Time) DurationInfo {
	if start == nil || target == nil || start.IsZero() || target.IsZero() {
		return DurationInfo{Label: LabelTBD}
	}

	days := int(math.Ceil(float64(target.Sub(*start)) / float64(day)))
	info := DurationInfo{Known: true, Days: days}
	switch {
	case days < 0:
		info.Overdue = true
		info.Label = fmt.Sprintf("%d days overdue", -days)
	case days == 0:
		info.Label = LabelDueToday
	default:
		info.Label = fmt.Sprintf("%d days", days)
	}
	return info
}

// ParseDate parses an ISO timestamp or calendar date.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
