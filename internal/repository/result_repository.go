package repository

import (
	"github.com/minhvu/Skillport/internal/model"
	"gorm.io/gorm"
)

type ResultRepository interface {
	Create(result *model.Result) error
	FindByIDAndUser(id uint, userID uint) (*model.Result, error)
	FindAllByUser(userID uint) ([]model.Result, error)
	FindRecentByUser(userID uint, limit int) ([]model.Result, error)
	AvgAccuracyByUser(userID uint) (float64, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(result *model.Result) error {
	// Associated ResultAnswer rows are created alongside the result.
	return r.db.Create(result).Error
}

func (r *resultRepository) FindByIDAndUser(id uint, userID uint) (*model.Result, error) {
	var result model.Result
	err := r.db.
		Preload("Answers.Question.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.position ASC")
		}).
		Preload("Answers.Question").
		Preload("Answers").
		Where("id = ? AND user_id = ?", id, userID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepository) FindAllByUser(userID uint) ([]model.Result, error) {
	var results []model.Result
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error
	return results, err
}

func (r *resultRepository) FindRecentByUser(userID uint, limit int) ([]model.Result, error) {
	var results []model.Result
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

func (r *resultRepository) AvgAccuracyByUser(userID uint) (float64, error) {
	var avg *float64
	err := r.db.Model(&model.Result{}).
		Select("AVG(accuracy)").
		Where("user_id = ?", userID).
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
