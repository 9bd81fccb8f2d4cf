package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pathwaygaza/pathway-back/internal/apperr"
	"github.com/pathwaygaza/pathway-back/internal/models"
)

func ListGrades(ctx context.Context) ([]models.Grade, error) {
	var grades []models.Grade
	if err := DB.WithContext(ctx).Order("id").Find(&grades).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return grades, nil
}

func GetGrade(ctx context.Context, id uint) (*models.Grade, error) {
	var grade models.Grade
	if err := DB.WithContext(ctx).First(&grade, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Grade not found.")
		}
		return nil, apperr.Internal(err)
	}
	return &grade, nil
}

func ListCoursesByGrade(ctx context.Context, gradeID uint) ([]models.Course, error) {
	if _, err := GetGrade(ctx, gradeID); err != nil {
		return nil, err
	}
	var courses []models.Course
	if err := DB.WithContext(ctx).Where("grade_id = ?", gradeID).Order("id").Find(&courses).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return courses, nil
}

// CountLessonsByCourse returns the number of lessons under each of the given
// courses, counted through their units.
func CountLessonsByCourse(ctx context.Context, courseIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		CourseID uint
		N        int64
	}
	err := DB.WithContext(ctx).Model(&models.Lesson{}).
		Select("units.course_id AS course_id, count(lessons.id) AS n").
		Joins("JOIN units ON units.id = lessons.unit_id").
		Where("units.course_id IN ?", courseIDs).
		Group("units.course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for _, r := range rows {
		counts[r.CourseID] = r.N
	}
	return counts, nil
}

func GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := DB.WithContext(ctx).First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Course not found.")
		}
		return nil, apperr.Internal(err)
	}
	return &course, nil
}

// ListUnitsWithLessons returns a course's units ordered by unit order, each
// with its lessons ordered by lesson order.
func ListUnitsWithLessons(ctx context.Context, courseID uint) ([]models.Unit, error) {
	if _, err := GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	var units []models.Unit
	err := DB.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sort_order").
		Preload("Lessons", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order")
		}).
		Find(&units).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return units, nil
}

func GetLesson(ctx context.Context, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := DB.WithContext(ctx).First(&lesson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Lesson not found.")
		}
		return nil, apperr.Internal(err)
	}
	return &lesson, nil
}

// ---------- administrative writes ----------

func CreateGrade(ctx context.Context, grade *models.Grade) error {
	if err := DB.WithContext(ctx).Create(grade).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("A grade with this name already exists.")
		}
		return apperr.Internal(err)
	}
	return nil
}

func DeleteGrade(ctx context.Context, id uint) error {
	return deleteByID(ctx, &models.Grade{}, id, "Grade not found.")
}

func CreateCourse(ctx context.Context, course *models.Course) error {
	if _, err := GetGrade(ctx, course.GradeID); err != nil {
		return err
	}
	if err := DB.WithContext(ctx).Create(course).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func DeleteCourse(ctx context.Context, id uint) error {
	return deleteByID(ctx, &models.Course{}, id, "Course not found.")
}

func CreateUnit(ctx context.Context, unit *models.Unit) error {
	if _, err := GetCourse(ctx, unit.CourseID); err != nil {
		return err
	}
	if err := DB.WithContext(ctx).Create(unit).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("A unit with this order already exists in the course.")
		}
		return apperr.Internal(err)
	}
	return nil
}

func DeleteUnit(ctx context.Context, id uint) error {
	return deleteByID(ctx, &models.Unit{}, id, "Unit not found.")
}

func CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	var unit models.Unit
	if err := DB.WithContext(ctx).First(&unit, lesson.UnitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Unit not found.")
		}
		return apperr.Internal(err)
	}
	if err := DB.WithContext(ctx).Create(lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("A lesson with this order already exists in the unit.")
		}
		return apperr.Internal(err)
	}
	return nil
}

func DeleteLesson(ctx context.Context, id uint) error {
	return deleteByID(ctx, &models.Lesson{}, id, "Lesson not found.")
}

func deleteByID(ctx context.Context, model interface{}, id uint, notFound string) error {
	res := DB.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("%s", notFound)
	}
	return nil
}

// ---------- bulk import ----------

type LessonImport struct {
	Title         string
	Order         int
	DocumentLink  string
	EstimatedTime *int
}

type UnitImport struct {
	Title       string
	Description string
	Order       int
	Lessons     []LessonImport
}

type CourseImport struct {
	Name        string
	Description string
	ImageURL    string
	Units       []UnitImport
}

type CurriculumImport struct {
	GradeName string
	Courses   []CourseImport
}

type ImportStats struct {
	Grades  int `json:"grades"`
	Courses int `json:"courses"`
	Units   int `json:"units"`
	Lessons int `json:"lessons"`
}

// ImportCurriculum loads a parsed curriculum tree in one transaction. Existing
// rows are matched by their natural keys (grade name, course name within the
// grade, unit/lesson order) and left untouched; only missing rows are created.
func ImportCurriculum(ctx context.Context, grades []CurriculumImport) (ImportStats, error) {
	var stats ImportStats
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, g := range grades {
			grade := models.Grade{Name: g.GradeName}
			if err := tx.Where(models.Grade{Name: g.GradeName}).FirstOrCreate(&grade).Error; err != nil {
				return err
			}
			stats.Grades++
			for _, c := range g.Courses {
				course := models.Course{
					Name:        c.Name,
					Description: c.Description,
					ImageURL:    c.ImageURL,
					GradeID:     grade.ID,
				}
				if err := tx.Where(models.Course{Name: c.Name, GradeID: grade.ID}).
					FirstOrCreate(&course).Error; err != nil {
					return err
				}
				stats.Courses++
				for _, u := range c.Units {
					unit := models.Unit{
						Title:       u.Title,
						Description: u.Description,
						Order:       u.Order,
						CourseID:    course.ID,
					}
					// map conditions: a zero order must still match
					if err := tx.Where(map[string]interface{}{"course_id": course.ID, "sort_order": u.Order}).
						FirstOrCreate(&unit).Error; err != nil {
						return err
					}
					stats.Units++
					for _, l := range u.Lessons {
						lesson := models.Lesson{
							Title:         l.Title,
							Order:         l.Order,
							DocumentLink:  l.DocumentLink,
							EstimatedTime: l.EstimatedTime,
							UnitID:        unit.ID,
						}
						if err := tx.Where(map[string]interface{}{"unit_id": unit.ID, "sort_order": l.Order}).
							FirstOrCreate(&lesson).Error; err != nil {
							return err
						}
						stats.Lessons++
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, apperr.Internal(err)
	}
	return stats, nil
}
