package services

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/terraincognita07/cycletrack/internal/apperr"
	"github.com/terraincognita07/cycletrack/internal/models"
)

const (
	MaxNotesLength   = 2000
	MaxSymptomTags   = 32
	maxSymptomTagLen = 48
)

var symptomTagPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

type PeriodStartInput struct {
	Flow      string
	PainLevel *int
	Mood      *string
	Symptoms  []string
	Notes     string
}

type PeriodEndInput struct {
	PainLevel *int
	Mood      *string
	Symptoms  []string
	Notes     *string
}

type DailyLogInput struct {
	Flow      string
	Mood      *string
	PainLevel *int
	Symptoms  []string
	Notes     string
}

func NormalizePeriodStartInput(input PeriodStartInput) (PeriodStartInput, error) {
	input.Flow = strings.ToLower(strings.TrimSpace(input.Flow))
	if !IsValidPeriodFlow(input.Flow) {
		return input, apperr.ErrInvalidFlow
	}
	if err := validatePainAndMood(input.PainLevel, input.Mood); err != nil {
		return input, err
	}
	symptoms, err := NormalizeSymptoms(input.Symptoms)
	if err != nil {
		return input, err
	}
	input.Symptoms = symptoms
	input.Notes = TrimNotes(input.Notes)
	return input, nil
}

func NormalizePeriodEndInput(input PeriodEndInput) (PeriodEndInput, error) {
	if err := validatePainAndMood(input.PainLevel, input.Mood); err != nil {
		return input, err
	}
	if input.Symptoms != nil {
		symptoms, err := NormalizeSymptoms(input.Symptoms)
		if err != nil {
			return input, err
		}
		input.Symptoms = symptoms
	}
	if input.Notes != nil {
		notes := TrimNotes(*input.Notes)
		input.Notes = &notes
	}
	return input, nil
}

func NormalizeDailyLogInput(input DailyLogInput) (DailyLogInput, error) {
	input.Flow = strings.ToLower(strings.TrimSpace(input.Flow))
	if !IsValidDayFlow(input.Flow) {
		return input, apperr.ErrInvalidFlow
	}
	if err := validatePainAndMood(input.PainLevel, input.Mood); err != nil {
		return input, err
	}
	symptoms, err := NormalizeSymptoms(input.Symptoms)
	if err != nil {
		return input, err
	}
	input.Symptoms = symptoms
	input.Notes = TrimNotes(input.Notes)
	return input, nil
}

func IsValidPeriodFlow(flow string) bool {
	switch flow {
	case models.FlowLight, models.FlowMedium, models.FlowHeavy:
		return true
	default:
		return false
	}
}

// IsValidDayFlow also accepts "none" and the empty (not recorded) flow.
func IsValidDayFlow(flow string) bool {
	return flow == "" || flow == models.FlowNone || IsValidPeriodFlow(flow)
}

func IsValidMood(mood string) bool {
	switch mood {
	case models.MoodHappy, models.MoodNeutral, models.MoodSad:
		return true
	default:
		return false
	}
}

func validatePainAndMood(painLevel *int, mood *string) error {
	if painLevel != nil && (*painLevel < models.MinPainLevel || *painLevel > models.MaxPainLevel) {
		return apperr.ErrInvalidPainLevel
	}
	if mood != nil && !IsValidMood(*mood) {
		return apperr.ErrInvalidMood
	}
	return nil
}

// NormalizeSymptoms lowercases, deduplicates and sorts symptom tags.
func NormalizeSymptoms(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, value := range raw {
		tag := strings.ToLower(strings.TrimSpace(value))
		tag = strings.Join(strings.Fields(tag), "_")
		if tag == "" {
			continue
		}
		if len(tag) > maxSymptomTagLen || !symptomTagPattern.MatchString(tag) {
			return nil, apperr.ErrInvalidSymptom
		}
		if _, exists := seen[tag]; exists {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	if len(tags) > MaxSymptomTags {
		return nil, apperr.ErrInvalidSymptom
	}
	sort.Strings(tags)
	return tags, nil
}

func MergeSymptoms(existing []string, added []string) []string {
	merged, err := NormalizeSymptoms(append(append([]string{}, existing...), added...))
	if err != nil {
		return existing
	}
	return merged
}

func TrimNotes(value string) string {
	value = strings.TrimSpace(value)
	if len(value) <= MaxNotesLength {
		return value
	}
	return value[:MaxNotesLength]
}

// ValidateLoggableDay rejects days after today.
func ValidateLoggableDay(day time.Time, now time.Time) error {
	if NormalizeDate(day).After(NormalizeDate(now)) {
		return apperr.ErrDateInFuture
	}
	return nil
}
