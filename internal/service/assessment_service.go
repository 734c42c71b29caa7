package service

import (
	"fmt"

	"github.com/minhvu/Skillport/internal/dto"
	"github.com/minhvu/Skillport/internal/model"
	"github.com/minhvu/Skillport/internal/repository"
	"github.com/rs/zerolog/log"
)

// AssessmentService serves the question bank: the overview grid on the
// assessment page and the random question draw that starts a session.
type AssessmentService interface {
	GetOverview() ([]dto.SubjectCountDTO, error)
	GetQuestions(subject, difficulty string, count int) ([]dto.QuestionDTO, error)
}

type assessmentService struct {
	questionRepo repository.QuestionRepository
}

func NewAssessmentService(questionRepo repository.QuestionRepository) AssessmentService {
	return &assessmentService{questionRepo: questionRepo}
}

func (s *assessmentService) GetOverview() ([]dto.SubjectCountDTO, error) {
	rows, err := s.questionRepo.CountBySubjectAndLevel()
	if err != nil {
		log.Error().Err(err).Msg("GetOverview: failed to aggregate question bank")
		return nil, fmt.Errorf("error fetching assessment overview: %w", err)
	}

	bySubject := make(map[string]*dto.SubjectCountDTO)
	var order []string
	for _, row := range rows {
		entry, ok := bySubject[row.Subject]
		if !ok {
			entry = &dto.SubjectCountDTO{
				Subject:          row.Subject,
				DifficultyCounts: map[string]int{"Low": 0, "Medium": 0, "Hard": 0},
			}
			bySubject[row.Subject] = entry
			order = append(order, row.Subject)
		}
		entry.DifficultyCounts[model.DifficultyLabel(row.DifficultyLevel)] += row.Count
		entry.Count += row.Count
	}

	overview := make([]dto.SubjectCountDTO, 0, len(order))
	for _, subject := range order {
		overview = append(overview, *bySubject[subject])
	}
	return overview, nil
}

func (s *assessmentService) GetQuestions(subject, difficulty string, count int) ([]dto.QuestionDTO, error) {
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	// "Mix" (or any unknown label) disables the level filter.
	var level *int
	if lvl, ok := model.DifficultyLevel(difficulty); ok {
		level = &lvl
	}

	questions, err := s.questionRepo.FindRandom(subject, level, count)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("GetQuestions: repository error")
		return nil, fmt.Errorf("error fetching questions for subject %s: %w", subject, err)
	}

	dtos := make([]dto.QuestionDTO, len(questions))
	for i, q := range questions {
		dtos[i] = dto.QuestionDTO{
			ID:              q.ID,
			Subject:         q.Subject,
			DifficultyLevel: q.DifficultyLevel,
			Question:        q.Text,
			Options:         q.OptionTexts(),
			CorrectAnswer:   q.CorrectAnswer,
			Explanation:     q.Explanation,
		}
	}
	return dtos, nil
}
