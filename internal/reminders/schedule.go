package reminders

import (
	"sort"
	"time"

	"github.com/sandeepkv93/urbanroots/internal/model"
)

// HotThresholdC is the temperature above which sunny weather brings
// watering forward.
const HotThresholdC = 32.0

// DueReminders returns the enabled reminders that are due at now and have
// not been completed since they became due.
func DueReminders(reminders []model.Reminder, now time.Time) []model.Reminder {
	out := make([]model.Reminder, 0)
	for _, r := range reminders {
		if r.IsDue(now) {
			out = append(out, r)
		}
	}
	return out
}

// AdjustForWeather returns a copy of reminders with watering moved one day
// later when it rains and one day earlier when it is sunny and hot. Other
// kinds and the input slice are left untouched.
func AdjustForWeather(reminders []model.Reminder, weather model.WeatherSnapshot) []model.Reminder {
	out := make([]model.Reminder, len(reminders))
	copy(out, reminders)
	for i := range out {
		if out[i].Kind != model.ReminderKindWater {
			continue
		}
		switch {
		case weather.Rain:
			out[i].NextDue = out[i].NextDue.Add(model.Day)
		case weather.Sun && weather.TemperatureC > HotThresholdC:
			out[i].NextDue = out[i].NextDue.Add(-model.Day)
		}
	}
	return out
}

// Visible mirrors the reminders panel filter: everything when showAll is
// set, otherwise only reminders whose current cycle is still open.
func Visible(reminders []model.Reminder, now time.Time, showAll bool) []model.Reminder {
	out := make([]model.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if showAll || pending(r, now) {
			out = append(out, r)
		}
	}
	sortByNextDue(out)
	return out
}

func pending(r model.Reminder, now time.Time) bool {
	if r.NextDue.After(now) {
		return false
	}
	return r.LastCompleted == nil || r.LastCompleted.Before(r.NextDue)
}

func sortByNextDue(reminders []model.Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].NextDue.Before(reminders[j].NextDue)
	})
}
