package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pathwaygaza/pathway-back/internal/auth"
	"github.com/pathwaygaza/pathway-back/internal/config"
	"github.com/pathwaygaza/pathway-back/internal/db"
	"github.com/pathwaygaza/pathway-back/internal/models"
)

const testSecret = "test-secret"

func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	g, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := g.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(g))
	db.DB = g
	t.Cleanup(func() { sqlDB.Close() })

	cfg := &config.Config{JWTSecret: testSecret, Mode: "dev"}
	return SetupRouter(cfg, zap.NewNop().Sugar())
}

func createUser(t *testing.T, email, username string, staff bool) (models.User, string) {
	t.Helper()
	user := models.User{Email: email, Username: username, PasswordHash: "x", IsStaff: staff}
	require.NoError(t, db.CreateUser(context.Background(), &user))

	pair, err := auth.IssueTokenPair([]byte(testSecret), user.Email)
	require.NoError(t, err)
	return user, pair.AccessToken
}

func seedLesson(t *testing.T) (models.Grade, models.Lesson) {
	t.Helper()
	ctx := context.Background()
	grade := models.Grade{Name: "Grade 7"}
	require.NoError(t, db.CreateGrade(ctx, &grade))
	course := models.Course{Name: "Mathematics", GradeID: grade.ID}
	require.NoError(t, db.CreateCourse(ctx, &course))
	unit := models.Unit{Title: "Fractions", Order: 1, CourseID: course.ID}
	require.NoError(t, db.CreateUnit(ctx, &unit))
	lesson := models.Lesson{Title: "Introduction", Order: 1, UnitID: unit.ID}
	require.NoError(t, db.CreateLesson(ctx, &lesson))
	return grade, lesson
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := setupAPI(t)

	w := doJSON(r, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/api/users/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignupAndLogin(t *testing.T) {
	r := setupAPI(t)

	w := doJSON(r, http.MethodPost, "/auth/signup", "", gin.H{
		"email":    "new@example.com",
		"username": "newbie",
		"password": "long-enough",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.AccessToken)

	// the issued token opens protected routes
	w = doJSON(r, http.MethodGet, "/api/users/me", created.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "new@example.com",
		"password": "long-enough",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "new@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignupRejectsStaffFlag(t *testing.T) {
	r := setupAPI(t)

	w := doJSON(r, http.MethodPost, "/auth/signup", "", gin.H{
		"email":    "new@example.com",
		"username": "newbie",
		"password": "long-enough",
		"is_staff": true,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProgressFlowOverHTTP(t *testing.T) {
	r := setupAPI(t)
	_, lesson := seedLesson(t)
	_, token := createUser(t, "student@example.com", "student", false)
	path := "/api/progress/lessons/1"
	require.Equal(t, uint(1), lesson.ID)

	// never started
	w := doJSON(r, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	var errBody ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	assert.Equal(t, "Lesson progress not found. Start the lesson first.", errBody.Detail)

	// updating before starting is a client error
	w = doJSON(r, http.MethodPatch, path, token, gin.H{"is_completed": true})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	assert.Equal(t, "Cannot finish/update a lesson that has not been started.", errBody.Detail)

	// first touch creates, second refreshes
	w = doJSON(r, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(r, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// complete it
	w = doJSON(r, http.MethodPatch, path, token, gin.H{"is_completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	var progress ProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &progress))
	assert.True(t, progress.IsCompleted)
}

func TestQuizSubmissionOverHTTP(t *testing.T) {
	r := setupAPI(t)
	_, lesson := seedLesson(t)
	user, token := createUser(t, "student@example.com", "student", false)
	ctx := context.Background()

	quiz := models.Quiz{Title: "Checkpoint", TimeLimit: 10, MaxScore: 10, LessonID: lesson.ID}
	require.NoError(t, db.CreateQuiz(ctx, &quiz))
	question := models.Question{Text: "1/2 + 1/2 = ?", Points: 10, QuizID: quiz.ID}
	require.NoError(t, db.CreateQuestion(ctx, &question))
	right := models.Answer{Text: "1", IsCorrect: true, QuestionID: question.ID}
	require.NoError(t, db.CreateAnswer(ctx, &right))
	wrong := models.Answer{Text: "2", QuestionID: question.ID}
	require.NoError(t, db.CreateAnswer(ctx, &wrong))

	// the student-facing quiz view hides correctness
	w := doJSON(r, http.MethodGet, "/api/quizzes/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "is_correct")

	w = doJSON(r, http.MethodPost, "/api/quizzes/submit/1", token, gin.H{
		"answers": []gin.H{{"question_id": question.ID, "selected_answer_id": right.ID}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var attempt AttemptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &attempt))
	assert.Equal(t, 10, attempt.Score)

	attempts, err := db.ListAttemptsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, attempts, 1)
}

func TestAdminRoutesRequireStaff(t *testing.T) {
	r := setupAPI(t)
	_, studentToken := createUser(t, "student@example.com", "student", false)
	_, staffToken := createUser(t, "staff@example.com", "staff", true)

	body := gin.H{"name": "Grade 9"}
	w := doJSON(r, http.MethodPost, "/api/admin/grades", studentToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPost, "/api/admin/grades", staffToken, body)
	assert.Equal(t, http.StatusCreated, w.Code)

	// duplicate name surfaces the storage conflict
	w = doJSON(r, http.MethodPost, "/api/admin/grades", staffToken, body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminCreateQuizZeroMaxScore(t *testing.T) {
	r := setupAPI(t)
	_, lesson := seedLesson(t)
	_, staffToken := createUser(t, "staff@example.com", "staff", true)

	w := doJSON(r, http.MethodPost, "/api/admin/quizzes", staffToken, gin.H{
		"title":      "Ungraded survey",
		"time_limit": 10,
		"max_score":  0,
		"lesson_id":  lesson.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var quiz QuizSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quiz))
	assert.Zero(t, quiz.MaxScore)

	// max_score stays mandatory
	w = doJSON(r, http.MethodPost, "/api/admin/quizzes", staffToken, gin.H{
		"title":      "No max score",
		"time_limit": 10,
		"lesson_id":  lesson.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateMeImmutableFields(t *testing.T) {
	r := setupAPI(t)
	_, token := createUser(t, "student@example.com", "student", false)

	w := doJSON(r, http.MethodPatch, "/api/users/me", token, gin.H{"email": "other@example.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var errBody ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	assert.Equal(t, "Email cannot be changed.", errBody.Detail)

	w = doJSON(r, http.MethodPatch, "/api/users/me", token, gin.H{"password": "new-password"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	assert.Equal(t, "Password cannot be changed through this endpoint.", errBody.Detail)

	w = doJSON(r, http.MethodPatch, "/api/users/me", token, gin.H{"birth_date": "not-a-date"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCoursesRequireGrade(t *testing.T) {
	r := setupAPI(t)
	grade, _ := seedLesson(t)
	user, token := createUser(t, "student@example.com", "student", false)

	w := doJSON(r, http.MethodGet, "/api/learning/courses", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var errBody ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	assert.Equal(t, "User has no grade assigned.", errBody.Detail)

	_, err := db.UpdateProfile(context.Background(), user.ID, db.ProfileUpdate{GradeID: &grade.ID})
	require.NoError(t, err)

	w = doJSON(r, http.MethodGet, "/api/learning/courses", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var courses []CourseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, int64(1), courses[0].LessonsCount)
}
