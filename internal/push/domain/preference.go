package domain

import "time"

// NotificationPreference holds the per-user notification settings, one row per user
type NotificationPreference struct {
	UserID                        string    `json:"user_id" gorm:"primaryKey"`
	RandomBooksEnabled            bool      `json:"random_books_enabled" gorm:"index;default:false"`
	RandomBooksIntervalMinutes    int       `json:"random_books_interval_minutes" gorm:"default:120"`
	DailyReminderEnabled          bool      `json:"daily_reminder_enabled" gorm:"default:false"`
	DailyReminderTime             string    `json:"daily_reminder_time" gorm:"size:5;default:'20:00'"`
	NewContentEnabled             bool      `json:"new_content_enabled" gorm:"default:false"`
	ProgressReminderEnabled       bool      `json:"progress_reminder_enabled" gorm:"default:false"`
	ProgressReminderIntervalHours int       `json:"progress_reminder_interval_hours" gorm:"default:24"`
	CreatedAt                     time.Time `json:"created_at"`
	UpdatedAt                     time.Time `json:"updated_at"`
}

const (
	DefaultRandomBooksIntervalMinutes    = 120
	DefaultDailyReminderTime             = "20:00"
	DefaultProgressReminderIntervalHours = 24
)

// DefaultPreference is the snapshot returned when a user has no row: everything disabled
func DefaultPreference(userID string) NotificationPreference {
	return NotificationPreference{
		UserID:                        userID,
		RandomBooksIntervalMinutes:    DefaultRandomBooksIntervalMinutes,
		DailyReminderTime:             DefaultDailyReminderTime,
		ProgressReminderIntervalHours: DefaultProgressReminderIntervalHours,
	}
}

// PreferenceUpdate carries only the fields a caller wants to change; nil means keep
type PreferenceUpdate struct {
	RandomBooksEnabled            *bool   `json:"random_books_enabled"`
	RandomBooksIntervalMinutes    *int    `json:"random_books_interval_minutes" validate:"omitempty,gt=0,lte=10080"`
	DailyReminderEnabled          *bool   `json:"daily_reminder_enabled"`
	DailyReminderTime             *string `json:"daily_reminder_time" validate:"omitempty,datetime=15:04"`
	NewContentEnabled             *bool   `json:"new_content_enabled"`
	ProgressReminderEnabled       *bool   `json:"progress_reminder_enabled"`
	ProgressReminderIntervalHours *int    `json:"progress_reminder_interval_hours" validate:"omitempty,gt=0,lte=720"`
}

// Apply merges the supplied fields into p and returns the column names touched
func (u PreferenceUpdate) Apply(p *NotificationPreference) []string {
	var cols []string
	if u.RandomBooksEnabled != nil {
		p.RandomBooksEnabled = *u.RandomBooksEnabled
		cols = append(cols, "random_books_enabled")
	}
	if u.RandomBooksIntervalMinutes != nil {
		p.RandomBooksIntervalMinutes = *u.RandomBooksIntervalMinutes
		cols = append(cols, "random_books_interval_minutes")
	}
	if u.DailyReminderEnabled != nil {
		p.DailyReminderEnabled = *u.DailyReminderEnabled
		cols = append(cols, "daily_reminder_enabled")
	}
	if u.DailyReminderTime != nil {
		p.DailyReminderTime = *u.DailyReminderTime
		cols = append(cols, "daily_reminder_time")
	}
	if u.NewContentEnabled != nil {
		p.NewContentEnabled = *u.NewContentEnabled
		cols = append(cols, "new_content_enabled")
	}
	if u.ProgressReminderEnabled != nil {
		p.ProgressReminderEnabled = *u.ProgressReminderEnabled
		cols = append(cols, "progress_reminder_enabled")
	}
	if u.ProgressReminderIntervalHours != nil {
		p.ProgressReminderIntervalHours = *u.ProgressReminderIntervalHours
		cols = append(cols, "progress_reminder_interval_hours")
	}
	return cols
}
