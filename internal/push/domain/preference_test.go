package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreferenceUpdateApplyOnlyTouchesSuppliedFields(t *testing.T) {
	p := DefaultPreference("u1")
	p.DailyReminderEnabled = true

	enabled := true
	interval := 45
	cols := PreferenceUpdate{RandomBooksEnabled: &enabled, RandomBooksIntervalMinutes: &interval}.Apply(&p)

	assert.ElementsMatch(t, []string{"random_books_enabled", "random_books_interval_minutes"}, cols)
	assert.True(t, p.RandomBooksEnabled)
	assert.Equal(t, 45, p.RandomBooksIntervalMinutes)
	assert.True(t, p.DailyReminderEnabled)
	assert.Equal(t, DefaultDailyReminderTime, p.DailyReminderTime)
}

func TestDefaultPreferenceIsDisabled(t *testing.T) {
	p := DefaultPreference("u1")
	assert.False(t, p.RandomBooksEnabled)
	assert.False(t, p.DailyReminderEnabled)
	assert.False(t, p.NewContentEnabled)
	assert.False(t, p.ProgressReminderEnabled)
	assert.Equal(t, DefaultRandomBooksIntervalMinutes, p.RandomBooksIntervalMinutes)
}

func TestDispatchReportMerge(t *testing.T) {
	r := DispatchReport{Attempted: 2, Failed: 1, Results: make([]DeliveryResult, 2)}
	r.Merge(DispatchReport{Attempted: 3, Failed: 0, Results: make([]DeliveryResult, 3)})
	assert.Equal(t, 5, r.Attempted)
	assert.Equal(t, 1, r.Failed)
	assert.Len(t, r.Results, 5)
}
