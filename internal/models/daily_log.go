package models

import "time"

// DailyLog is an optional per-day entry. An empty Flow means the flow was not recorded.
type DailyLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"not null;uniqueIndex:uidx_user_date" json:"user_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uidx_user_date" json:"date"`
	Flow      string    `json:"flow"`
	Mood      *string   `json:"mood,omitempty"`
	PainLevel *int      `json:"pain_level,omitempty"`
	Symptoms  []string  `gorm:"serializer:json" json:"symptoms"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasFlow reports whether the entry records bleeding.
func (entry DailyLog) HasFlow() bool {
	switch entry.Flow {
	case FlowLight, FlowMedium, FlowHeavy:
		return true
	default:
		return false
	}
}
