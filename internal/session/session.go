// Package session implements the timed-assessment attempt: question loading,
// answer capture, the countdown with forced submission, scoring, and review.
// It talks to the portal only through the QuestionProvider, SubmissionSink
// and ResultLookup interfaces, so it can run against any backend that speaks
// the same contract.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type State string

const (
	StateLoading    State = "loading"
	StateActive     State = "active"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
	StateEmpty      State = "empty"
)

type Difficulty string

const (
	DifficultyLow    Difficulty = "Low"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
	DifficultyMix    Difficulty = "Mix"
)

// SecondsPerQuestion sets the countdown: one minute per loaded question.
const SecondsPerQuestion = 60

// Question is immutable once loaded for a session.
type Question struct {
	ID              uint
	Subject         string
	DifficultyLevel int
	Text            string
	Options         []string
	CorrectAnswer   string // empty when the provider withholds it
	Explanation     string
}

// Result is the scored outcome of one attempt. ID and Reference are zero
// when the attempt was scored locally without being persisted.
type Result struct {
	ID             uint
	Reference      string
	Subject        string
	Score          int
	TotalQuestions int
	Accuracy       int
	CreatedAt      time.Time
}

// Attempt is what the SubmissionSink receives for a completed session.
type Attempt struct {
	Subject        string
	Score          int
	TotalQuestions int
	Answers        map[uint]string
}

// ReviewQuestion is the per-question detail returned by ResultLookup.
type ReviewQuestion struct {
	ID             uint
	Text           string
	Options        []string
	SelectedAnswer string
	CorrectAnswer  string
	Explanation    string
}

type ResultDetail struct {
	Result
	Questions []ReviewQuestion
}

// QuestionProvider returns the question set for one session. It may return
// fewer questions than requested. The controller makes a single attempt with
// no retry.
type QuestionProvider interface {
	Questions(ctx context.Context, subject string, difficulty Difficulty, count int) ([]Question, error)
}

// SubmissionSink persists a completed attempt and returns the stored result.
type SubmissionSink interface {
	Submit(ctx context.Context, attempt Attempt) (*Result, error)
}

// ResultLookup fetches the full review detail for a persisted result.
// A missing or foreign result is ErrResultNotFound, distinct from transport
// failures.
type ResultLookup interface {
	Result(ctx context.Context, id uint) (*ResultDetail, error)
}

var ErrResultNotFound = errors.New("result not found")

// IncompleteError rejects a non-forced submission while questions remain
// unanswered.
type IncompleteError struct {
	Answered int
	Required int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("you must answer all %d questions, you have only answered %d", e.Required, e.Answered)
}

// Score counts exact matches between selections and correct answers.
// Unanswered questions never count as correct.
func Score(questions []Question, answers map[uint]string) int {
	score := 0
	for _, q := range questions {
		if selected, ok := answers[q.ID]; ok && selected == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// Accuracy is the rounded percentage of correct answers. Zero totals yield
// zero rather than dividing.
func Accuracy(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(score)/float64(total)*100 + 0.5)
}
