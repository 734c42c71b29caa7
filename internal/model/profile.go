package model

import (
	"time"

	"gorm.io/gorm"
)

type Profile struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	UserID             uint           `json:"user_id" gorm:"not null;uniqueIndex"`
	User               User           `json:"-" gorm:"foreignKey:UserID"`
	AvatarURL          *string        `json:"avatar_url,omitempty"`
	Bio                *string        `json:"bio,omitempty" gorm:"type:text"`
	Location           *string        `json:"location,omitempty"`
	Title              *string        `json:"title,omitempty"`
	TestsTaken         int            `json:"tests_taken" gorm:"not null;default:0"`
	AvgAccuracy        float64        `json:"avg_accuracy" gorm:"not null;default:0"`
	SubjectsInterested string         `json:"-" gorm:"type:text"` // JSON-encoded list of subject tags
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}
