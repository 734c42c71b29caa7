package dto

import "time"

type ProfileResponseDTO struct {
	ID                 uint     `json:"id"`
	UserID             uint     `json:"user_id"`
	Email              string   `json:"email"`
	FullName           string   `json:"full_name"`
	AvatarURL          *string  `json:"avatar_url,omitempty"`
	Bio                *string  `json:"bio,omitempty"`
	Location           *string  `json:"location,omitempty"`
	Title              *string  `json:"title,omitempty"`
	TestsTaken         int      `json:"tests_taken"`
	AvgAccuracy        float64  `json:"avg_accuracy"`
	SubjectsInterested []string `json:"subjects_interested"`
}

// ProfileUpdateDTO applies a partial update; nil fields are left untouched.
type ProfileUpdateDTO struct {
	FullName           *string  `json:"full_name"`
	Bio                *string  `json:"bio"`
	Location           *string  `json:"location"`
	Title              *string  `json:"title"`
	SubjectsInterested []string `json:"subjects_interested"`
}

type HistoryItemDTO struct {
	ID             uint      `json:"id"`
	Subject        string    `json:"subject"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Accuracy       float64   `json:"accuracy"`
	CreatedAt      time.Time `json:"created_at"`
}

// TrendPointDTO is one vertex of the profile performance polyline, already
// scaled into the requested viewport.
type TrendPointDTO struct {
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Accuracy float64   `json:"accuracy"`
	Subject  string    `json:"subject"`
	Date     time.Time `json:"date"`
}

type TrendResponseDTO struct {
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Padding  int             `json:"padding"`
	Points   []TrendPointDTO `json:"points"`
	Polyline string          `json:"polyline"`
	Enough   bool            `json:"enough"` // false until at least two results exist
}
