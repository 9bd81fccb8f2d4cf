package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pathwaygaza/pathway-back/internal/models"
)

// setupTestDB swaps the package-level handle for an in-memory sqlite database.
// A single connection keeps the memory database alive for the whole test.
func setupTestDB(t *testing.T) {
	t.Helper()
	g, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := g.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(g))
	DB = g
	t.Cleanup(func() { sqlDB.Close() })
}

// seedCurriculum creates one grade with one course, one unit and two lessons.
func seedCurriculum(t *testing.T) (models.Grade, models.Course, models.Unit, []models.Lesson) {
	t.Helper()
	ctx := context.Background()

	grade := models.Grade{Name: "Grade 7"}
	require.NoError(t, CreateGrade(ctx, &grade))

	course := models.Course{Name: "Mathematics", GradeID: grade.ID}
	require.NoError(t, CreateCourse(ctx, &course))

	unit := models.Unit{Title: "Fractions", Order: 1, CourseID: course.ID}
	require.NoError(t, CreateUnit(ctx, &unit))

	lessons := []models.Lesson{
		{Title: "Introduction", Order: 1, UnitID: unit.ID},
		{Title: "Adding fractions", Order: 2, UnitID: unit.ID},
	}
	for i := range lessons {
		require.NoError(t, CreateLesson(ctx, &lessons[i]))
	}
	return grade, course, unit, lessons
}

func seedUser(t *testing.T, gradeID *uint) models.User {
	t.Helper()
	user := models.User{
		Email:        "student@example.com",
		Username:     "student",
		PasswordHash: "x",
		GradeID:      gradeID,
	}
	require.NoError(t, CreateUser(context.Background(), &user))
	return user
}

// seedQuiz attaches a quiz with two questions to the lesson. The first
// question is worth 10 points, the second 5; each has one correct and one
// wrong answer.
func seedQuiz(t *testing.T, lessonID uint) (models.Quiz, []models.Question, map[string]models.Answer) {
	t.Helper()
	ctx := context.Background()

	quiz := models.Quiz{Title: "Checkpoint", TimeLimit: 10, MaxScore: 15, LessonID: lessonID}
	require.NoError(t, CreateQuiz(ctx, &quiz))

	q1 := models.Question{Text: "1/2 + 1/2 = ?", Points: 10, QuizID: quiz.ID}
	require.NoError(t, CreateQuestion(ctx, &q1))
	q2 := models.Question{Text: "1/4 + 1/4 = ?", Points: 5, QuizID: quiz.ID}
	require.NoError(t, CreateQuestion(ctx, &q2))

	answers := map[string]models.Answer{}
	for name, a := range map[string]models.Answer{
		"q1-correct": {Text: "1", IsCorrect: true, QuestionID: q1.ID},
		"q1-wrong":   {Text: "2", QuestionID: q1.ID},
		"q2-correct": {Text: "1/2", IsCorrect: true, QuestionID: q2.ID},
		"q2-wrong":   {Text: "1", QuestionID: q2.ID},
	} {
		answer := a
		require.NoError(t, CreateAnswer(ctx, &answer))
		answers[name] = answer
	}
	return quiz, []models.Question{q1, q2}, answers
}
