package reminders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/urbanroots/internal/model"
)

var now = time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC)

func reminder(id string, kind model.ReminderKind, nextDue time.Time) model.Reminder {
	return model.Reminder{
		ID: id, PlantID: "p-" + id, PlantName: "Plant " + id,
		Kind: kind, FrequencyDays: 3, NextDue: nextDue, Enabled: true,
	}
}

func TestAdjustForWeatherRainDefersYesterdayToToday(t *testing.T) {
	yesterday := now.Add(-24 * time.Hour)
	base := []model.Reminder{reminder("a", model.ReminderKindWater, yesterday)}

	adjusted := AdjustForWeather(base, model.WeatherSnapshot{Rain: true})
	require.Len(t, adjusted, 1)
	assert.True(t, adjusted[0].NextDue.Equal(now))
	assert.False(t, adjusted[0].IsOverdue(now), "no longer strictly overdue once deferred")
	assert.True(t, base[0].NextDue.Equal(yesterday), "input untouched")
}

func TestAdjustForWeatherSunAndHeat(t *testing.T) {
	base := []model.Reminder{reminder("a", model.ReminderKindWater, now)}

	hot := AdjustForWeather(base, model.WeatherSnapshot{Sun: true, TemperatureC: 35})
	assert.True(t, hot[0].NextDue.Equal(now.Add(-24*time.Hour)))

	warm := AdjustForWeather(base, model.WeatherSnapshot{Sun: true, TemperatureC: 32})
	assert.True(t, warm[0].NextDue.Equal(now), "32 is not above the threshold")

	cloudy := AdjustForWeather(base, model.WeatherSnapshot{TemperatureC: 40})
	assert.True(t, cloudy[0].NextDue.Equal(now))
}

func TestAdjustForWeatherOnlyWater(t *testing.T) {
	base := []model.Reminder{
		reminder("w", model.ReminderKindWater, now),
		reminder("f", model.ReminderKindFertilize, now),
		reminder("c", model.ReminderKindCheck, now),
	}
	adjusted := AdjustForWeather(base, model.WeatherSnapshot{Rain: true})
	assert.True(t, adjusted[0].NextDue.Equal(now.Add(24*time.Hour)))
	assert.True(t, adjusted[1].NextDue.Equal(now))
	assert.True(t, adjusted[2].NextDue.Equal(now))
}

func TestAdjustForWeatherIdempotentOnBase(t *testing.T) {
	base := []model.Reminder{
		reminder("a", model.ReminderKindWater, now),
		reminder("b", model.ReminderKindWater, now.Add(48*time.Hour)),
	}
	rain := model.WeatherSnapshot{Rain: true}
	first := AdjustForWeather(base, rain)
	second := AdjustForWeather(base, rain)
	assert.Equal(t, first, second)
}

func TestDueReminders(t *testing.T) {
	completed := now.Add(-time.Hour)
	done := reminder("done", model.ReminderKindWater, now.Add(-2*time.Hour))
	done.LastCompleted = &completed
	disabled := reminder("off", model.ReminderKindWater, now.Add(-time.Hour))
	disabled.Enabled = false

	list := []model.Reminder{
		reminder("due", model.ReminderKindWater, now.Add(-time.Hour)),
		reminder("exact", model.ReminderKindPrune, now),
		reminder("later", model.ReminderKindWater, now.Add(time.Hour)),
		done,
		disabled,
	}
	due := DueReminders(list, now)
	ids := make([]string, 0, len(due))
	for _, r := range due {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"due", "exact"}, ids)
	assert.Empty(t, DueReminders(nil, now))
}

func TestVisibleFilter(t *testing.T) {
	completed := now.Add(-time.Hour)
	done := reminder("done", model.ReminderKindWater, now.Add(-2*time.Hour))
	done.LastCompleted = &completed
	off := reminder("off", model.ReminderKindWater, now.Add(-3*time.Hour))
	off.Enabled = false

	list := []model.Reminder{
		reminder("later", model.ReminderKindWater, now.Add(time.Hour)),
		reminder("due", model.ReminderKindWater, now.Add(-time.Hour)),
		done,
		off,
	}

	open := Visible(list, now, false)
	require.Len(t, open, 2)
	assert.Equal(t, "off", open[0].ID, "disabled reminders stay visible")
	assert.Equal(t, "due", open[1].ID)

	all := Visible(list, now, true)
	require.Len(t, all, 4)
	assert.Equal(t, "off", all[0].ID)
	assert.Equal(t, "later", all[3].ID)
}
