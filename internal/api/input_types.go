package api

type periodStartPayload struct {
	Date      string   `json:"date" form:"date"`
	Flow      string   `json:"flow" form:"flow"`
	PainLevel *int     `json:"pain_level" form:"pain_level"`
	Mood      *string  `json:"mood" form:"mood"`
	Symptoms  []string `json:"symptoms" form:"symptoms"`
	Notes     string   `json:"notes" form:"notes"`
}

type periodEndPayload struct {
	Date      string   `json:"date" form:"date"`
	PainLevel *int     `json:"pain_level" form:"pain_level"`
	Mood      *string  `json:"mood" form:"mood"`
	Symptoms  []string `json:"symptoms" form:"symptoms"`
	Notes     *string  `json:"notes" form:"notes"`
}

type cycleSettingsPayload struct {
	CycleLength  int `json:"cycle_length" form:"cycle_length"`
	PeriodLength int `json:"period_length" form:"period_length"`
}

type dayPayload struct {
	Flow      string   `json:"flow" form:"flow"`
	Mood      *string  `json:"mood" form:"mood"`
	PainLevel *int     `json:"pain_level" form:"pain_level"`
	Symptoms  []string `json:"symptoms" form:"symptoms"`
	Notes     string   `json:"notes" form:"notes"`
}
