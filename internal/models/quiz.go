package models

import "time"

type Quiz struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `json:"description"`
	TimeLimit   int    `gorm:"not null" json:"time_limit"` // minutes
	MaxScore    int    `gorm:"not null" json:"max_score"`
	MinScore    int    `gorm:"not null" json:"min_score"`
	LessonID    uint   `gorm:"not null;index" json:"lesson_id"`

	Questions []Question    `gorm:"constraint:OnDelete:CASCADE;" json:"questions,omitempty"`
	Attempts  []QuizAttempt `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

type Question struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Text   string `gorm:"not null" json:"text"`
	Points int    `gorm:"not null" json:"points"`
	QuizID uint   `gorm:"not null;index" json:"quiz_id"`

	Answers []Answer `gorm:"constraint:OnDelete:CASCADE;" json:"answers,omitempty"`
}

// Answer carries a partial unique index so that at most one answer per
// question can be marked correct. Concurrent "mark correct" writes race on the
// index, not on an application-level check.
type Answer struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"is_correct"`
	QuestionID uint   `gorm:"not null;index;uniqueIndex:idx_question_correct,where:is_correct" json:"question_id"`
}

// QuizAttempt is a historical fact: one scored submission. Never updated.
type QuizAttempt struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Score       int       `gorm:"not null" json:"score"`
	AttemptedAt time.Time `gorm:"not null;autoCreateTime" json:"attempted_at"`
	QuizID      uint      `gorm:"not null;index" json:"quiz_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`

	Quiz        *Quiz        `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	User        *User        `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	UserAnswers []UserAnswer `gorm:"constraint:OnDelete:CASCADE;foreignKey:AttemptID" json:"user_answers,omitempty"`
}

// UserAnswer records one selected answer within an attempt, with the
// correctness denormalized at submission time.
type UserAnswer struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	IsCorrect        bool `gorm:"not null" json:"is_correct"`
	AttemptID        uint `gorm:"not null;index" json:"attempt_id"`
	QuestionID       uint `gorm:"not null" json:"question_id"`
	SelectedAnswerID uint `gorm:"not null" json:"selected_answer_id"`

	Question       *Question `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	SelectedAnswer *Answer   `gorm:"constraint:OnDelete:CASCADE;foreignKey:SelectedAnswerID" json:"-"`
}
