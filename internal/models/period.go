package models

import "time"

const (
	FlowNone   = "none"
	FlowLight  = "light"
	FlowMedium = "medium"
	FlowHeavy  = "heavy"
)

const (
	MoodHappy   = "happy"
	MoodNeutral = "neutral"
	MoodSad     = "sad"
)

const (
	MinPainLevel = 0
	MaxPainLevel = 10
)

// Period is one menstrual period. A nil EndDate marks the user's active period.
type Period struct {
	ID        string     `gorm:"primaryKey;type:text" json:"id"`
	UserID    string     `gorm:"not null;index" json:"user_id"`
	StartDate time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	Flow      string     `gorm:"not null" json:"flow"`
	PainLevel *int       `json:"pain_level,omitempty"`
	Mood      *string    `json:"mood,omitempty"`
	Symptoms  []string   `gorm:"serializer:json" json:"symptoms"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (period Period) IsActive() bool {
	return period.EndDate == nil
}

func (period Period) IsCompleted() bool {
	return period.EndDate != nil && !period.StartDate.IsZero()
}

// PeriodUpdate lists the fields to change on a stored period. Nil fields are left as is.
type PeriodUpdate struct {
	EndDate      *time.Time
	ClearEndDate bool
	PainLevel    *int
	Mood         *string
	Symptoms     []string
	Notes        *string
}
