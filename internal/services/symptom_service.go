package services

import (
	"context"
	"sort"
	"time"

	"github.com/terraincognita07/cycletrack/internal/apperr"
	"github.com/terraincognita07/cycletrack/internal/models"
)

type SymptomFrequency struct {
	Tag       string `json:"tag"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Count     int    `json:"count"`
	TotalDays int    `json:"total_days"`
}

type SymptomService struct {
	logs DailyLogStore
}

func NewSymptomService(logs DailyLogStore) *SymptomService {
	return &SymptomService{logs: logs}
}

func (service *SymptomService) BuiltinSymptoms() []models.BuiltinSymptom {
	return models.DefaultBuiltinSymptoms()
}

func (service *SymptomService) Frequencies(ctx context.Context, userID string, from *time.Time, to *time.Time) ([]SymptomFrequency, error) {
	logs, err := service.logs.ListDailyLogs(ctx, userID, from, to)
	if err != nil {
		return nil, apperr.Wrap("list daily logs", userID, time.Time{}, err)
	}
	return CalculateSymptomFrequencies(logs), nil
}

// CalculateSymptomFrequencies counts tagged days, most frequent first. Tags outside the
// built-in catalog are reported with the tag as their name.
func CalculateSymptomFrequencies(logs []models.DailyLog) []SymptomFrequency {
	if len(logs) == 0 {
		return []SymptomFrequency{}
	}
	totalDays := len(logs)

	counts := make(map[string]int)
	for _, logEntry := range logs {
		for _, tag := range logEntry.Symptoms {
			counts[tag]++
		}
	}

	catalog := make(map[string]models.BuiltinSymptom)
	for _, symptom := range models.DefaultBuiltinSymptoms() {
		catalog[symptom.Tag] = symptom
	}

	result := make([]SymptomFrequency, 0, len(counts))
	for tag, count := range counts {
		frequency := SymptomFrequency{Tag: tag, Name: tag, Count: count, TotalDays: totalDays}
		if symptom, ok := catalog[tag]; ok {
			frequency.Name = symptom.Name
			frequency.Icon = symptom.Icon
		}
		result = append(result, frequency)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count == result[j].Count {
			return result[i].Name < result[j].Name
		}
		return result[i].Count > result[j].Count
	})
	return result
}
