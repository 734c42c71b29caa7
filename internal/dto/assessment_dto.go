package dto

import "time"

// QuestionDTO is one question as served to a test session. The correct answer
// and explanation ride along so the session can score locally and render
// review detail without a second round trip.
type QuestionDTO struct {
	ID              uint     `json:"id"`
	Subject         string   `json:"subject"`
	DifficultyLevel int      `json:"difficulty_level"`
	Question        string   `json:"question"`
	Options         []string `json:"options"`
	CorrectAnswer   string   `json:"correct_answer,omitempty"`
	Explanation     *string  `json:"explanation,omitempty"`
}

// SubjectCountDTO is one row of the assessment overview: how many questions a
// subject holds, broken down by difficulty label.
type SubjectCountDTO struct {
	Subject          string         `json:"subject"`
	Count            int            `json:"count"`
	DifficultyCounts map[string]int `json:"difficulty_counts"`
}

// SubmitAssessmentDTO is a completed attempt as reported by the session
// controller. Accuracy is recomputed server-side; the client value is never
// trusted.
type SubmitAssessmentDTO struct {
	Subject        string          `json:"subject" binding:"required"`
	Score          int             `json:"score" binding:"min=0"`
	TotalQuestions int             `json:"total_questions" binding:"required,gt=0"`
	Answers        map[uint]string `json:"answers"`
}

// ResultSummaryDTO is the persisted outcome of one attempt.
type ResultSummaryDTO struct {
	ID             uint      `json:"id"`
	Reference      string    `json:"reference"`
	Subject        string    `json:"subject"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Accuracy       float64   `json:"accuracy"`
	CreatedAt      time.Time `json:"created_at"`
}

// QuestionReviewDTO is the per-question review detail on the result page.
type QuestionReviewDTO struct {
	ID             uint     `json:"id"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	SelectedAnswer string   `json:"selected_answer"`
	CorrectAnswer  string   `json:"correct_answer"`
	Explanation    string   `json:"explanation"`
}

type ResultDetailDTO struct {
	ID             uint                `json:"id"`
	Reference      string              `json:"reference"`
	Subject        string              `json:"subject"`
	Score          int                 `json:"score"`
	TotalQuestions int                 `json:"total_questions"`
	Accuracy       float64             `json:"accuracy"`
	CreatedAt      time.Time           `json:"created_at"`
	Questions      []QuestionReviewDTO `json:"questions"`
}

type SeedReportDTO struct {
	Imported int  `json:"imported"`
	Skipped  bool `json:"skipped"`
}
