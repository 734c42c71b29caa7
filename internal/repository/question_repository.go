package repository

import (
	"github.com/minhvu/Skillport/internal/model"
	"gorm.io/gorm"
)

// SubjectLevelCount is one aggregation row of the question bank: how many
// questions a subject has at a given difficulty level.
type SubjectLevelCount struct {
	Subject         string
	DifficultyLevel int
	Count           int
}

type QuestionRepository interface {
	Create(question *model.Question) error
	CreateBatch(questions []model.Question) error
	Count() (int64, error)
	DeleteAll() error
	FindRandom(subject string, level *int, limit int) ([]model.Question, error)
	FindByIDs(ids []uint) ([]model.Question, error)
	CountBySubjectAndLevel() ([]SubjectLevelCount, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	// GORM creates the associated options when question.Options is populated.
	return r.db.Create(question).Error
}

func (r *questionRepository) CreateBatch(questions []model.Question) error {
	return r.db.CreateInBatches(questions, 100).Error
}

func (r *questionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Count(&count).Error
	return count, err
}

// DeleteAll wipes the question bank, options included. Rows are removed for
// real rather than soft-deleted so a re-import starts from a clean table.
func (r *questionRepository) DeleteAll() error {
	if err := r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&model.QuestionOption{}).Error; err != nil {
		return err
	}
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&model.Question{}).Error
}

func (r *questionRepository) FindRandom(subject string, level *int, limit int) ([]model.Question, error) {
	var questions []model.Question
	query := r.db.Where("subject = ?", subject)
	if level != nil {
		query = query.Where("difficulty_level = ?", *level)
	}
	// RANDOM() is fine at question-bank scale.
	err := query.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.position ASC")
		}).
		Order("RANDOM()").
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.position ASC")
		}).
		Where("id IN ?", ids).
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) CountBySubjectAndLevel() ([]SubjectLevelCount, error) {
	var rows []SubjectLevelCount
	err := r.db.Model(&model.Question{}).
		Select("subject, difficulty_level, COUNT(id) as count").
		Group("subject, difficulty_level").
		Scan(&rows).Error
	return rows, err
}
