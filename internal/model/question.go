package model

import (
	"sort"
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	Subject         string           `json:"subject" gorm:"not null;index"`
	DifficultyLevel int              `json:"difficulty_level" gorm:"not null;index"` // 1=Low, 2=Medium, 3=Hard
	Text            string           `json:"question" gorm:"type:text;not null"`
	Options         []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CorrectAnswer   string           `json:"correct_answer" gorm:"type:text;not null"`
	Explanation     *string          `json:"explanation,omitempty" gorm:"type:text"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}

// QuestionOption is one answer choice. Options are ordered by Position so a
// question may carry any number of choices.
type QuestionOption struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	QuestionID uint           `json:"question_id" gorm:"not null;index"`
	Position   int            `json:"position" gorm:"not null"`
	Text       string         `json:"text" gorm:"type:text;not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// OptionTexts returns the choice strings in position order, regardless of
// how the Options slice was loaded.
func (q *Question) OptionTexts() []string {
	options := make([]QuestionOption, len(q.Options))
	copy(options, q.Options)
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Position < options[j].Position
	})

	texts := make([]string, len(options))
	for i, opt := range options {
		texts[i] = opt.Text
	}
	return texts
}
