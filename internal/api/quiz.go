package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pathwaygaza/pathway-back/internal/apperr"
	"github.com/pathwaygaza/pathway-back/internal/auth"
	"github.com/pathwaygaza/pathway-back/internal/db"
	"github.com/pathwaygaza/pathway-back/internal/models"
)

type QuizSummary struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TimeLimit   int    `json:"time_limit"`
	MaxScore    int    `json:"max_score"`
	MinScore    int    `json:"min_score"`
	LessonID    uint   `json:"lesson_id"`
}

// AnswerOption deliberately omits correctness: this is the shape students see
// while taking a quiz.
type AnswerOption struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type QuestionDetail struct {
	ID      uint           `json:"id"`
	Text    string         `json:"text"`
	Points  int            `json:"points"`
	Answers []AnswerOption `json:"answers"`
}

type QuizDetail struct {
	QuizSummary
	Questions []QuestionDetail `json:"questions"`
}

type UserAnswerResponse struct {
	ID               uint `json:"id"`
	QuestionID       uint `json:"question_id"`
	SelectedAnswerID uint `json:"selected_answer_id"`
	IsCorrect        bool `json:"is_correct"`
}

type AttemptResponse struct {
	ID          uint                 `json:"id"`
	QuizID      uint                 `json:"quiz_id"`
	Score       int                  `json:"score"`
	AttemptedAt time.Time            `json:"attempted_at"`
	UserAnswers []UserAnswerResponse `json:"user_answers,omitempty"`
}

type AttemptSummary struct {
	ID          uint      `json:"id"`
	Score       int       `json:"score"`
	AttemptedAt time.Time `json:"attempted_at"`
}

type QuizWithAttempts struct {
	QuizSummary
	Attempts []AttemptSummary `json:"attempts"`
}

func toQuizSummary(q models.Quiz) QuizSummary {
	return QuizSummary{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		TimeLimit:   q.TimeLimit,
		MaxScore:    q.MaxScore,
		MinScore:    q.MinScore,
		LessonID:    q.LessonID,
	}
}

func toAttemptResponse(a *models.QuizAttempt) AttemptResponse {
	resp := AttemptResponse{
		ID:          a.ID,
		QuizID:      a.QuizID,
		Score:       a.Score,
		AttemptedAt: a.AttemptedAt,
	}
	for _, ua := range a.UserAnswers {
		resp.UserAnswers = append(resp.UserAnswers, UserAnswerResponse{
			ID:               ua.ID,
			QuestionID:       ua.QuestionID,
			SelectedAnswerID: ua.SelectedAnswerID,
			IsCorrect:        ua.IsCorrect,
		})
	}
	return resp
}

// ListLessonQuizzes godoc
// @Summary      List quizzes for a lesson
// @Tags         quizzes
// @Produce      json
// @Param        lesson_id path int true "Lesson ID"
// @Success      200 {array}  QuizSummary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/quizzes/lessons/{lesson_id} [get]
func ListLessonQuizzes(c *gin.Context) {
	lessonID, ok := pathID(c, "lesson_id")
	if !ok {
		return
	}
	quizzes, err := db.ListQuizzesByLesson(c.Request.Context(), lessonID)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := make([]QuizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		resp = append(resp, toQuizSummary(q))
	}
	c.JSON(http.StatusOK, resp)
}

// GetQuiz godoc
// @Summary      Fetch one quiz with nested questions and answers
// @Tags         quizzes
// @Produce      json
// @Param        quiz_id path int true "Quiz ID"
// @Success      200 {object} QuizDetail
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/quizzes/{quiz_id} [get]
func GetQuiz(c *gin.Context) {
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}
	quiz, err := db.GetQuiz(c.Request.Context(), quizID)
	if err != nil {
		respondErr(c, err)
		return
	}
	detail := QuizDetail{QuizSummary: toQuizSummary(*quiz)}
	for _, q := range quiz.Questions {
		question := QuestionDetail{ID: q.ID, Text: q.Text, Points: q.Points}
		for _, a := range q.Answers {
			question.Answers = append(question.Answers, AnswerOption{ID: a.ID, Text: a.Text})
		}
		detail.Questions = append(detail.Questions, question)
	}
	c.JSON(http.StatusOK, detail)
}

type SubmitQuizRequest struct {
	Answers []db.SubmittedAnswer `json:"answers" binding:"required"`
}

// SubmitQuiz godoc
// @Summary      Submit answers for a quiz
// @Description  Validates every pair, scores the submission, and persists an immutable attempt
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Param        quiz_id path int               true "Quiz ID"
// @Param        body    body SubmitQuizRequest true "Submitted answers"
// @Success      201 {object} AttemptResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/quizzes/submit/{quiz_id} [post]
func SubmitQuiz(c *gin.Context) {
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}
	var req SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Invalid("Invalid submission payload."))
		return
	}

	user := auth.CurrentUser(c)
	attempt, err := db.SubmitQuiz(c.Request.Context(), quizID, user.ID, req.Answers)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAttemptResponse(attempt))
}

// ListMyAttempts godoc
// @Summary      List the caller's quiz attempts
// @Tags         quizzes
// @Produce      json
// @Success      200 {array} AttemptResponse
// @Security     BearerAuth
// @Router       /api/quizzes/attempts [get]
func ListMyAttempts(c *gin.Context) {
	user := auth.CurrentUser(c)
	attempts, err := db.ListAttemptsByUser(c.Request.Context(), user.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := make([]AttemptResponse, 0, len(attempts))
	for i := range attempts {
		resp = append(resp, toAttemptResponse(&attempts[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetAttempt godoc
// @Summary      Fetch one attempt with its answer records
// @Tags         quizzes
// @Produce      json
// @Param        attempt_id path int true "Attempt ID"
// @Success      200 {object} AttemptResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/quizzes/attempts/{attempt_id} [get]
func GetAttempt(c *gin.Context) {
	attemptID, ok := pathID(c, "attempt_id")
	if !ok {
		return
	}
	user := auth.CurrentUser(c)
	attempt, err := db.GetAttempt(c.Request.Context(), attemptID, user.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toAttemptResponse(attempt))
}

// ListLessonQuizzesWithAttempts godoc
// @Summary      List a lesson's quizzes annotated with the caller's attempt history
// @Tags         quizzes
// @Produce      json
// @Param        lesson_id path int true "Lesson ID"
// @Success      200 {array}  QuizWithAttempts
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/quizzes/attempts/lessons/{lesson_id} [get]
func ListLessonQuizzesWithAttempts(c *gin.Context) {
	lessonID, ok := pathID(c, "lesson_id")
	if !ok {
		return
	}
	user := auth.CurrentUser(c)
	quizzes, history, err := db.ListLessonQuizzesWithAttempts(c.Request.Context(), lessonID, user.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := make([]QuizWithAttempts, 0, len(quizzes))
	for _, q := range quizzes {
		item := QuizWithAttempts{QuizSummary: toQuizSummary(q), Attempts: []AttemptSummary{}}
		for _, a := range history[q.ID] {
			item.Attempts = append(item.Attempts, AttemptSummary{
				ID:          a.ID,
				Score:       a.Score,
				AttemptedAt: a.AttemptedAt,
			})
		}
		resp = append(resp, item)
	}
	c.JSON(http.StatusOK, resp)
}
