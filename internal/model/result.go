package model

import (
	"time"

	"gorm.io/gorm"
)

type Result struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Reference      string         `json:"reference" gorm:"type:uuid;uniqueIndex;not null"`
	UserID         uint           `json:"user_id" gorm:"not null;index"`
	User           User           `json:"-" gorm:"foreignKey:UserID"`
	Subject        string         `json:"subject" gorm:"not null"`
	Score          int            `json:"score" gorm:"not null"`
	TotalQuestions int            `json:"total_questions" gorm:"not null"`
	Accuracy       float64        `json:"accuracy" gorm:"not null"`
	Answers        []ResultAnswer `json:"answers,omitempty" gorm:"foreignKey:ResultID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// ResultAnswer records the option the user selected for one question of a
// submitted attempt. Questions the user left blank have no row.
type ResultAnswer struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	ResultID   uint           `json:"result_id" gorm:"not null;index"`
	QuestionID uint           `json:"question_id" gorm:"not null;index"`
	Question   Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Selected   string         `json:"selected" gorm:"type:text;not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
