package discord

import "time"

// FormatEventTime renders a nullable event time for display.
func FormatEventTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "—"
	}
	return t.In(loc).Format("Mon, 02 Jan 2006 15:04")
}

// FormatTimeRange renders a start/end pair, end as time-of-day only.
func FormatTimeRange(start, end *time.Time, loc *time.Location) string {
	if start == nil {
		return "—"
	}
	text := start.In(loc).Format("Mon, 02 Jan 2006 15:04")
	if end != nil {
		text += " → " + end.In(loc).Format("15:04")
	}
	return text
}
