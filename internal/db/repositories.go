package db

import (
	"gorm.io/gorm"

	"github.com/terraincognita07/cycletrack/internal/metrics"
)

type Repositories struct {
	Periods   *PeriodRepository
	DailyLogs *DailyLogRepository
	Settings  *SettingsRepository
}

func NewRepositories(database *gorm.DB, m *metrics.Metrics) *Repositories {
	return &Repositories{
		Periods:   NewPeriodRepository(database, m),
		DailyLogs: NewDailyLogRepository(database, m),
		Settings:  NewSettingsRepository(database, m),
	}
}
