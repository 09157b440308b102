package services

import (
	"github.com/terraincognita07/cycletrack/internal/apperr"
)

const (
	MinSettingsCycleLength  = 15
	MaxSettingsCycleLength  = 90
	MinSettingsPeriodLength = 1
	MaxSettingsPeriodLength = 14
)

type CycleSettingsInput struct {
	CycleLength  int
	PeriodLength int
}

func IsValidSettingsCycleLength(value int) bool {
	return value >= MinSettingsCycleLength && value <= MaxSettingsCycleLength
}

func IsValidSettingsPeriodLength(value int) bool {
	return value >= MinSettingsPeriodLength && value <= MaxSettingsPeriodLength
}

// ValidateCycleSettings requires the period to end before the luteal phase starts.
func ValidateCycleSettings(input CycleSettingsInput) error {
	if !IsValidSettingsCycleLength(input.CycleLength) {
		return apperr.ErrCycleLengthOutOfRange
	}
	if !IsValidSettingsPeriodLength(input.PeriodLength) {
		return apperr.ErrPeriodLengthOutOfRange
	}
	if input.PeriodLength > input.CycleLength-LutealPhaseDays {
		return apperr.ErrPeriodLengthIncompatible
	}
	return nil
}
