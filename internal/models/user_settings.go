package models

import "time"

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5
)

type UserSettings struct {
	UserID         string    `gorm:"primaryKey;type:text" json:"user_id"`
	CycleLength    int       `gorm:"not null;default:28" json:"cycle_length"`
	PeriodLength   int       `gorm:"not null;default:5" json:"period_length"`
	ManualOverride bool      `gorm:"not null;default:false" json:"manual_override"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func DefaultUserSettings(userID string) UserSettings {
	return UserSettings{
		UserID:       userID,
		CycleLength:  DefaultCycleLength,
		PeriodLength: DefaultPeriodLength,
	}
}
