package models

type BuiltinSymptom struct {
	Tag   string `json:"tag"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func DefaultBuiltinSymptoms() []BuiltinSymptom {
	return []BuiltinSymptom{
		{Tag: "cramps", Name: "Cramps", Icon: "🩸", Color: "#FF4444"},
		{Tag: "headache", Name: "Headache", Icon: "🤕", Color: "#FFA500"},
		{Tag: "mood_swings", Name: "Mood swings", Icon: "😢", Color: "#9B59B6"},
		{Tag: "bloating", Name: "Bloating", Icon: "🎈", Color: "#3498DB"},
		{Tag: "fatigue", Name: "Fatigue", Icon: "😴", Color: "#95A5A6"},
		{Tag: "breast_tenderness", Name: "Breast tenderness", Icon: "💔", Color: "#E91E63"},
		{Tag: "acne", Name: "Acne", Icon: "🔴", Color: "#E74C3C"},
		{Tag: "back_pain", Name: "Back pain", Icon: "🦴", Color: "#8E6E53"},
		{Tag: "nausea", Name: "Nausea", Icon: "🤢", Color: "#7CB342"},
		{Tag: "spotting", Name: "Spotting", Icon: "🩹", Color: "#C55A7A"},
		{Tag: "irritability", Name: "Irritability", Icon: "😤", Color: "#FF7043"},
		{Tag: "insomnia", Name: "Insomnia", Icon: "🌙", Color: "#5C6BC0"},
		{Tag: "food_cravings", Name: "Food cravings", Icon: "🍫", Color: "#A1887F"},
		{Tag: "diarrhea", Name: "Diarrhea", Icon: "🚽", Color: "#26A69A"},
		{Tag: "constipation", Name: "Constipation", Icon: "🪨", Color: "#8D6E63"},
	}
}
