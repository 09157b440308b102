package api

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/terraincognita07/cycletrack/internal/db"
	"github.com/terraincognita07/cycletrack/internal/i18n"
	"github.com/terraincognita07/cycletrack/internal/metrics"
	"github.com/terraincognita07/cycletrack/internal/services"
)

const (
	contextUserIDKey   = "current_user_id"
	contextLanguageKey = "current_language"
)

type Handler struct {
	secretKey []byte
	location  *time.Location
	i18n      *i18n.Manager
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	repositories    *db.Repositories
	cycleService    *services.CycleService
	periodService   *services.PeriodService
	settingsService *services.SettingsService
	dailyLogService *services.DailyLogService
	exportService   *services.ExportService
	symptomService  *services.SymptomService
}

type HandlerOptions struct {
	Secret   string
	Location *time.Location
	I18n     *i18n.Manager
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	// Clock overrides time.Now.
	Clock func() time.Time
}

func NewHandler(database *gorm.DB, options HandlerOptions) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if options.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}
	if len(options.Secret) == 0 {
		return nil, errors.New("auth secret is required")
	}

	handler := &Handler{
		secretKey: []byte(options.Secret),
		location:  options.Location,
		i18n:      options.I18n,
		logger:    options.Logger,
		metrics:   options.Metrics,
		now:       options.Clock,
	}
	if handler.location == nil {
		handler.location = time.UTC
	}
	if handler.logger == nil {
		handler.logger = zap.NewNop()
	}
	if handler.now == nil {
		handler.now = time.Now
	}
	return handler.withDependencies(database), nil
}

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database, handler.metrics)
	repos := handler.repositories

	handler.cycleService = services.NewCycleService(repos.Periods, repos.Settings, handler.logger, handler.metrics)
	handler.periodService = services.NewPeriodService(repos.Periods, handler.cycleService, handler.logger, handler.metrics)
	handler.settingsService = services.NewSettingsService(repos.Settings, repos.Periods, handler.logger)
	handler.dailyLogService = services.NewDailyLogService(repos.DailyLogs, repos.Periods, handler.periodService, handler.logger, handler.metrics)
	handler.exportService = services.NewExportService(repos.Periods)
	handler.symptomService = services.NewSymptomService(repos.DailyLogs)
	return handler
}

// today is the calendar day of the handler clock as seen in the configured location.
func (handler *Handler) today() time.Time {
	return services.DateInLocation(handler.now(), handler.location)
}
