package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/minhvu/Skillport/internal/dto"
	"github.com/minhvu/Skillport/internal/model"
	"github.com/minhvu/Skillport/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrResultNotFound covers both a missing result and one owned by another
// user; callers must not be able to tell the two apart.
var ErrResultNotFound = errors.New("result not found")

// SubmissionService persists completed attempts and serves their review
// detail.
type SubmissionService interface {
	Submit(userID uint, req dto.SubmitAssessmentDTO) (*dto.ResultSummaryDTO, error)
	GetResult(userID uint, resultID uint) (*dto.ResultDetailDTO, error)
}

type submissionService struct {
	resultRepo   repository.ResultRepository
	questionRepo repository.QuestionRepository
	profileRepo  repository.ProfileRepository
}

func NewSubmissionService(
	resultRepo repository.ResultRepository,
	questionRepo repository.QuestionRepository,
	profileRepo repository.ProfileRepository,
) SubmissionService {
	return &submissionService{
		resultRepo:   resultRepo,
		questionRepo: questionRepo,
		profileRepo:  profileRepo,
	}
}

func (s *submissionService) Submit(userID uint, req dto.SubmitAssessmentDTO) (*dto.ResultSummaryDTO, error) {
	if req.TotalQuestions <= 0 {
		return nil, fmt.Errorf("total_questions must be positive, got %d", req.TotalQuestions)
	}
	if req.Score > req.TotalQuestions {
		return nil, fmt.Errorf("score %d exceeds total questions %d", req.Score, req.TotalQuestions)
	}

	// The score is the session's local computation; accuracy is derived here
	// so a tampered client cannot store an inconsistent pair.
	accuracy := float64(req.Score) / float64(req.TotalQuestions) * 100

	result := model.Result{
		Reference:      uuid.NewString(),
		UserID:         userID,
		Subject:        req.Subject,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		Accuracy:       accuracy,
	}
	for questionID, selected := range req.Answers {
		result.Answers = append(result.Answers, model.ResultAnswer{
			QuestionID: questionID,
			Selected:   selected,
		})
	}
	if len(result.Answers) > 0 {
		ids := make([]uint, len(result.Answers))
		for i, a := range result.Answers {
			ids[i] = a.QuestionID
		}
		known, err := s.questionRepo.FindByIDs(ids)
		if err != nil {
			log.Error().Err(err).Uint("userID", userID).Msg("Submit: failed to verify answered questions")
			return nil, fmt.Errorf("error verifying submitted answers: %w", err)
		}
		knownIDs := make(map[uint]bool, len(known))
		for _, q := range known {
			knownIDs[q.ID] = true
		}
		kept := result.Answers[:0]
		for _, a := range result.Answers {
			if !knownIDs[a.QuestionID] {
				log.Warn().Uint("questionID", a.QuestionID).Msg("Submit: answer for unknown question, skipping")
				continue
			}
			kept = append(kept, a)
		}
		result.Answers = kept
	}

	if err := s.resultRepo.Create(&result); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Submit: failed to persist result")
		return nil, fmt.Errorf("error saving assessment result: %w", err)
	}

	s.rollupProfileStats(userID, accuracy)

	var summary dto.ResultSummaryDTO
	if err := copier.Copy(&summary, &result); err != nil {
		log.Error().Err(err).Uint("resultID", result.ID).Msg("Submit: failed to copy result to DTO")
		return nil, fmt.Errorf("error preparing submission response: %w", err)
	}
	return &summary, nil
}

// rollupProfileStats bumps tests-taken and re-aggregates average accuracy.
// A failure here leaves the result persisted; the stats catch up on the next
// submission.
func (s *submissionService) rollupProfileStats(userID uint, accuracy float64) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = &model.Profile{UserID: userID}
		if err := s.profileRepo.Create(profile); err != nil {
			log.Error().Err(err).Uint("userID", userID).Msg("Submit: failed to create profile for stats rollup")
			return
		}
	} else if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Submit: failed to load profile for stats rollup")
		return
	}

	profile.TestsTaken++
	avg, err := s.resultRepo.AvgAccuracyByUser(userID)
	if err != nil {
		log.Warn().Err(err).Uint("userID", userID).Msg("Submit: average accuracy aggregation failed, using latest accuracy")
		avg = accuracy
	}
	profile.AvgAccuracy = roundTo(avg, 2)

	if err := s.profileRepo.Update(profile); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Submit: failed to update profile stats")
	}
}

func (s *submissionService) GetResult(userID uint, resultID uint) (*dto.ResultDetailDTO, error) {
	result, err := s.resultRepo.FindByIDAndUser(resultID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		log.Error().Err(err).Uint("resultID", resultID).Msg("GetResult: repository error")
		return nil, fmt.Errorf("error fetching result %d: %w", resultID, err)
	}

	var detail dto.ResultDetailDTO
	if err := copier.Copy(&detail, result); err != nil {
		log.Error().Err(err).Uint("resultID", resultID).Msg("GetResult: failed to copy result to DTO")
		return nil, fmt.Errorf("error preparing result response: %w", err)
	}

	detail.Questions = make([]dto.QuestionReviewDTO, 0, len(result.Answers))
	for _, answer := range result.Answers {
		question := answer.Question
		if question.ID == 0 {
			log.Warn().Uint("questionID", answer.QuestionID).Msg("GetResult: answer refers to a missing question, skipping")
			continue
		}
		explanation := "No explanation provided."
		if question.Explanation != nil && *question.Explanation != "" {
			explanation = *question.Explanation
		}
		detail.Questions = append(detail.Questions, dto.QuestionReviewDTO{
			ID:             question.ID,
			Question:       question.Text,
			Options:        question.OptionTexts(),
			SelectedAnswer: answer.Selected,
			CorrectAnswer:  question.CorrectAnswer,
			Explanation:    explanation,
		})
	}
	return &detail, nil
}
