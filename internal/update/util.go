package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/urbanroots/internal/model"
	"github.com/sandeepkv93/urbanroots/internal/reminders"
)

func clampCursor(cursor, n int) int {
	if n <= 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

// formatDue renders a due time relative to now in whole days.
func formatDue(due, now time.Time) string {
	days := int(due.Sub(now) / model.Day)
	switch {
	case sameDay(due, now):
		return "today " + due.Format("15:04")
	case days == 0 && due.After(now):
		return "tomorrow " + due.Format("15:04")
	case days == 0:
		return "yesterday " + due.Format("15:04")
	case days > 0:
		return fmt.Sprintf("in %dd", days)
	default:
		return fmt.Sprintf("%dd ago", -days)
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func describeWeather(s model.WeatherSnapshot) string {
	parts := []string{fmt.Sprintf("%s %.0f°C", s.Description, s.TemperatureC)}
	if s.Location != "" {
		parts = append([]string{s.Location}, parts...)
	}
	switch {
	case s.Rain:
		parts = append(parts, "watering pushed back a day")
	case s.Sun && s.TemperatureC > reminders.HotThresholdC:
		parts = append(parts, "watering brought forward a day")
	}
	return strings.Join(parts, ", ")
}
