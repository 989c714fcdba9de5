package views

import (
	"fmt"
	"time"
)

// prettyDuration renders a duration the way a person reads a todo list:
// one coarse unit, pluralized.
func prettyDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	secs := int(d.Seconds())
	days := secs / (24 * 3600)

	switch {
	case days >= 365:
		return pluralize(days/365, "year")
	case days >= 31:
		return pluralize(days/30, "month")
	case days >= 7:
		return pluralize(days/7, "week")
	case days >= 1:
		return pluralize(days, "day")
	case secs >= 3600:
		return pluralize(secs/3600, "hour")
	case secs >= 60:
		return pluralize(secs/60, "minute")
	case secs >= 10:
		return pluralize(secs, "second")
	default:
		return "moments"
	}
}

func pluralize(count int, word string) string {
	if count == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", count, word)
}
