package db

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/pathwaygaza/pathway-back/internal/apperr"
	"github.com/pathwaygaza/pathway-back/internal/models"
)

const detailNotStarted = "Lesson progress not found. Start the lesson first."
const detailUpdateNotStarted = "Cannot finish/update a lesson that has not been started."

// GetProgress distinguishes "never touched" (not found) from "touched but
// incomplete" (a row with is_completed=false).
func GetProgress(ctx context.Context, userID, lessonID uint) (*models.LessonProgress, error) {
	if _, err := GetLesson(ctx, lessonID); err != nil {
		return nil, err
	}
	var progress models.LessonProgress
	err := DB.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("%s", detailNotStarted)
		}
		return nil, apperr.Internal(err)
	}
	return &progress, nil
}

// TouchProgress creates the progress row on first access and refreshes
// last_accessed on every later one. The returned bool reports creation.
// A concurrent first touch loses the race on the (user, lesson) unique index
// and falls through to the refresh path.
func TouchProgress(ctx context.Context, userID, lessonID uint) (*models.LessonProgress, bool, error) {
	if _, err := GetLesson(ctx, lessonID); err != nil {
		return nil, false, err
	}

	now := time.Now()
	var progress models.LessonProgress
	err := DB.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.LessonProgress{
			UserID:       userID,
			LessonID:     lessonID,
			LastAccessed: now,
		}
		createErr := DB.WithContext(ctx).Create(&progress).Error
		if createErr == nil {
			return &progress, true, nil
		}
		if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return nil, false, apperr.Internal(createErr)
		}
		if err := DB.WithContext(ctx).
			Where("user_id = ? AND lesson_id = ?", userID, lessonID).
			First(&progress).Error; err != nil {
			return nil, false, apperr.Internal(err)
		}
	} else if err != nil {
		return nil, false, apperr.Internal(err)
	}

	progress.LastAccessed = now
	if err := DB.WithContext(ctx).Model(&progress).Update("last_accessed", now).Error; err != nil {
		return nil, false, apperr.Internal(err)
	}
	return &progress, false, nil
}

// SetCompletion flips is_completed in either direction. It never creates the
// row: updating a lesson that was never started is a client error.
func SetCompletion(ctx context.Context, userID, lessonID uint, completed bool) (*models.LessonProgress, error) {
	if _, err := GetLesson(ctx, lessonID); err != nil {
		return nil, err
	}
	var progress models.LessonProgress
	err := DB.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.PreconditionFailed("%s", detailUpdateNotStarted)
		}
		return nil, apperr.Internal(err)
	}

	now := time.Now()
	progress.IsCompleted = completed
	progress.LastAccessed = now
	err = DB.WithContext(ctx).Model(&progress).Updates(map[string]interface{}{
		"is_completed":  completed,
		"last_accessed": now,
	}).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &progress, nil
}

// CourseProgress returns only the rows that exist for the user within the
// course's lessons. Lessons never started are simply absent.
func CourseProgress(ctx context.Context, userID, courseID uint) ([]models.LessonProgress, error) {
	if _, err := GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	var rows []models.LessonProgress
	err := DB.WithContext(ctx).
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Joins("JOIN units ON units.id = lessons.unit_id").
		Where("units.course_id = ? AND lesson_progresses.user_id = ?", courseID, userID).
		Preload("Lesson").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}

type OverallProgress struct {
	TotalLessons         int64   `json:"total_lessons"`
	CompletedLessons     int64   `json:"completed_lessons"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// OverallProgressForUser aggregates completion over all lessons of the user's
// grade. The user must have a grade assigned.
func OverallProgressForUser(ctx context.Context, user *models.User) (*OverallProgress, error) {
	if user.GradeID == nil {
		return nil, apperr.PreconditionFailed("User has no grade assigned.")
	}

	var total int64
	err := DB.WithContext(ctx).Model(&models.Lesson{}).
		Joins("JOIN units ON units.id = lessons.unit_id").
		Joins("JOIN courses ON courses.id = units.course_id").
		Where("courses.grade_id = ?", *user.GradeID).
		Count(&total).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}

	var completed int64
	err = DB.WithContext(ctx).Model(&models.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Joins("JOIN units ON units.id = lessons.unit_id").
		Joins("JOIN courses ON courses.id = units.course_id").
		Where("courses.grade_id = ? AND lesson_progresses.user_id = ? AND lesson_progresses.is_completed", *user.GradeID, user.ID).
		Count(&completed).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}

	percentage := 0.0
	if total > 0 {
		percentage = math.Round(float64(completed)/float64(total)*100*100) / 100
	}
	return &OverallProgress{
		TotalLessons:         total,
		CompletedLessons:     completed,
		CompletionPercentage: percentage,
	}, nil
}

// LastActivity returns the user's most recently touched progress rows, newest
// first.
func LastActivity(ctx context.Context, userID uint, limit int) ([]models.LessonProgress, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []models.LessonProgress
	err := DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_accessed DESC").
		Limit(limit).
		Preload("Lesson").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}
