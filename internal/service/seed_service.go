package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/minhvu/Skillport/internal/dto"
	"github.com/minhvu/Skillport/internal/model"
	"github.com/minhvu/Skillport/internal/repository"
	"github.com/rs/zerolog/log"
)

// SeedService imports the question bank from a CSV export. Expected columns:
// subject, difficulty_level, question, option_a, option_b, option_c,
// option_d, correct_answer, explanation. A header row is detected and
// skipped.
type SeedService interface {
	SeedFromCSV(path string, force bool) (*dto.SeedReportDTO, error)
}

type seedService struct {
	questionRepo repository.QuestionRepository
}

func NewSeedService(questionRepo repository.QuestionRepository) SeedService {
	return &seedService{questionRepo: questionRepo}
}

func (s *seedService) SeedFromCSV(path string, force bool) (*dto.SeedReportDTO, error) {
	existing, err := s.questionRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("error counting question bank: %w", err)
	}
	if existing > 0 && !force {
		log.Info().Int64("existing", existing).Msg("Question bank already seeded, skipping")
		return &dto.SeedReportDTO{Skipped: true}, nil
	}
	if force && existing > 0 {
		// A forced import replaces the bank rather than stacking the CSV on
		// top of it.
		if err := s.questionRepo.DeleteAll(); err != nil {
			return nil, fmt.Errorf("error clearing question bank before reimport: %w", err)
		}
		log.Info().Int64("removed", existing).Msg("Question bank cleared for forced reimport")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening seed file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var questions []model.Question
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading seed file at line %d: %w", line+1, err)
		}
		line++

		if len(record) < 8 {
			log.Warn().Int("line", line).Int("fields", len(record)).Msg("Seed row too short, skipping")
			continue
		}
		level, err := strconv.Atoi(record[1])
		if err != nil {
			if line == 1 {
				// Header row.
				continue
			}
			log.Warn().Int("line", line).Str("value", record[1]).Msg("Seed row has non-numeric difficulty, skipping")
			continue
		}

		question := model.Question{
			Subject:         record[0],
			DifficultyLevel: level,
			Text:            record[2],
			CorrectAnswer:   record[7],
		}
		for i, text := range record[3:7] {
			question.Options = append(question.Options, model.QuestionOption{Position: i + 1, Text: text})
		}
		if len(record) > 8 && record[8] != "" {
			explanation := record[8]
			question.Explanation = &explanation
		}
		questions = append(questions, question)
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("seed file %s contained no usable rows", path)
	}
	if err := s.questionRepo.CreateBatch(questions); err != nil {
		return nil, fmt.Errorf("error importing question bank: %w", err)
	}

	log.Info().Int("imported", len(questions)).Str("path", path).Msg("Question bank seeded")
	return &dto.SeedReportDTO{Imported: len(questions)}, nil
}
