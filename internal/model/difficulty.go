package model

import "strings"

const (
	DifficultyLow    = 1
	DifficultyMedium = 2
	DifficultyHard   = 3
)

// DifficultyLevel maps a difficulty label to its stored level. "Mix" and
// unknown labels return (0, false), which callers treat as "no level filter".
func DifficultyLevel(label string) (int, bool) {
	switch strings.ToLower(label) {
	case "low":
		return DifficultyLow, true
	case "medium":
		return DifficultyMedium, true
	case "hard":
		return DifficultyHard, true
	default:
		return 0, false
	}
}

// DifficultyLabel is the inverse of DifficultyLevel for known levels.
func DifficultyLabel(level int) string {
	switch level {
	case DifficultyLow:
		return "Low"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	default:
		return "Medium"
	}
}
