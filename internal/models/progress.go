package models

import "time"

// LessonProgress is the single mutable per-(user, lesson) row. Absence of a
// row means the lesson was never started.
type LessonProgress struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	IsCompleted  bool      `gorm:"not null;default:false" json:"is_completed"`
	LastAccessed time.Time `gorm:"not null" json:"last_accessed"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_user_lesson" json:"user_id"`
	LessonID     uint      `gorm:"not null;uniqueIndex:idx_user_lesson" json:"lesson_id"`

	User   *User   `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Lesson *Lesson `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
