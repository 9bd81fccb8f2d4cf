package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/pathwaygaza/pathway-back/internal/apperr"
	"github.com/pathwaygaza/pathway-back/internal/db"
	"github.com/pathwaygaza/pathway-back/internal/excel"
	"github.com/pathwaygaza/pathway-back/internal/models"
)

// Administrative write paths. All of them sit behind RequireStaff; conflicts
// (duplicate grade name, duplicate sibling order, second correct answer)
// surface as 409 from the storage-level uniqueness constraints.

type CreateGradeRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

// CreateGrade godoc
// @Summary      Create a grade
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body body CreateGradeRequest true "Grade"
// @Success      201 {object} GradeResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/grades [post]
func CreateGrade(c *gin.Context) {
	var req CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Invalid("Invalid grade payload."))
		return
	}
	grade := models.Grade{Name: req.Name, Description: req.Description}
	if err := db.CreateGrade(c.Request.Context(), &grade); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, GradeResponse{ID: grade.ID, Name: grade.Name, Description: grade.Description})
}

// DeleteGrade godoc
// @Summary      Delete a grade and its entire subtree
// @Tags         admin
// @Produce      json
// @Param        grade_id path int true "Grade ID"
// @Success      204 {string} string ""
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/grades/{grade_id} [delete]
func DeleteGrade(c *gin.Context) {
	id, ok := pathID(c, "grade_id")
	if !ok {
		return
	}
	if err := db.DeleteGrade(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type CreateCourseRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	GradeID     uint   `json:"grade_id" binding:"required"`
}

// CreateCourse godoc
// @Summary      Create a course
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body body CreateCourseRequest true "Course"
// @Success      201 {object} CourseResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/courses [post]
func CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Invalid("Invalid course payload."))
		return
	}
	course := models.Course{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		GradeID:     req.GradeID,
	}
	if err := db.CreateCourse(c.Request.Context(), &course); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, CourseResponse{
		ID:          course.ID,
		Name:        course.Name,
		Description: course.Description,
		ImageURL:    course.ImageURL,
		GradeID:     course.GradeID,
	})
}

// DeleteCourse godoc
// @Summary      Delete a course and its entire subtree
// @Tags         admin
// @Produce      json
// @Param        course_id path int true "Course ID"
// @Success      204 {string} string ""
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/courses/{course_id} [delete]
func DeleteCourse(c *gin.Context) {
	id, ok := pathID(c, "course_id")
	if !ok {
		return
	}
	if err := db.DeleteCourse(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type CreateUnitRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	Order       *int   `json:"order" binding:"required"`
	CourseID    uint   `json:"course_id" binding:"required"`
}

// CreateUnit godoc
// @Summary      Create a unit
// @Description  Order must be unique within the course
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body body CreateUnitRequest true "Unit"
// @Success      201 {object} UnitResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/units [post]
func CreateUnit(c *gin.Context) {
	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Invalid("Invalid unit payload."))
		return
	}
	unit := models.Unit{
		Title:       req.Title,
		Description: req.Description,
		Order:       *req.Order,
		CourseID:    req.CourseID,
	}
	if err := db.CreateUnit(c.Request.Context(), &unit); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, UnitResponse{
		ID:          unit.ID,
		Title:       unit.Title,
		Description: unit.Description,
		Order:       unit.Order,
		CourseID:    unit.CourseID,
		Lessons:     []LessonResponse{},
	})
}

// DeleteUnit godoc
// @Summary      Delete a unit and its entire subtree
// @Tags         admin
// @Produce      json
// @Param        unit_id path int true "Unit ID"
// @Success      204 {string} string ""
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/units/{unit_id} [delete]
func DeleteUnit(c *gin.Context) {
	id, ok := pathID(c, "unit_id")
	if !ok {
		return
	}
	if err := db.DeleteUnit(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type CreateLessonRequest struct {
	Title         string `json:"title" binding:"required,max=200"`
	Order         *int   `json:"order" binding:"required"`
	DocumentLink  string `json:"document_link"`
	EstimatedTime *int   `json:"estimated_time"`
	UnitID        uint   `json:"unit_id" binding:"required"`
}

// CreateLesson godoc
// @Summary      Create a lesson
// @Description  Order must be unique within the unit
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body body CreateLessonRequest true "Lesson"
// @Success      201 {object} LessonResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/lessons [post]
func CreateLesson(c *gin.Context) {
	var req CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Invalid("Invalid lesson payload."))
		return
	}
	lesson := models.Lesson{
		Title:         req.Title,
		Order:         *req.Order,
		DocumentLink:  req.DocumentLink,
		EstimatedTime: req.EstimatedTime,
		UnitID:        req.UnitID,
	}
	if err := db.CreateLesson(c.Request.Context(), &lesson); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, toLessonResponse(lesson))
}

// DeleteLesson godoc
// @Summary      Delete a lesson and its dependent rows
// @Tags         admin
// @Produce      json
// @Param        lesson_id path int true "Lesson ID"
// @Success      204 {string} string ""
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/lessons/{lesson_id} [delete]
func DeleteLesson(c *gin.Context) {
	id, ok := pathID(c, "lesson_id")
	if !ok {
		return
	}
	if err := db.DeleteLesson(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type CreateQuizRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	TimeLimit   int    `json:"time_limit" binding:"required,min=1"`
	MaxScore    *int   `json:"max_score" binding:"required,min=0"`
	MinScore    int    `json:"min_score" binding:"min=0"`
	LessonID    uint   `json:"lesson_id" binding:"required"`
}

// CreateQuiz godoc
// @Summary      Create a quiz
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body body CreateQuizRequest true "Quiz"
// @Success      201 {object} QuizSummary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/quizzes [post]
func CreateQuiz(c *gin.Context) {
	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Invalid("Invalid quiz payload."))
		return
	}
	quiz := models.Quiz{
		Title:       req.Title,
		Description: req.Description,
		TimeLimit:   req.TimeLimit,
		MaxScore:    *req.MaxScore,
		MinScore:    req.MinScore,
		LessonID:    req.LessonID,
	}
	if err := db.CreateQuiz(c.Request.Context(), &quiz); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, toQuizSummary(quiz))
}

// DeleteQuiz godoc
// @Summary      Delete a quiz and its attempts
// @Tags         admin
// @Produce      json
// @Param        quiz_id path int true "Quiz ID"
// @Success      204 {string} string ""
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/quizzes/{quiz_id} [delete]
func DeleteQuiz(c *gin.Context) {
	id, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}
	if err := db.DeleteQuiz(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type CreateQuestionRequest struct {
	Text   string `json:"text" binding:"required"`
	Points int    `json:"points" binding:"required,min=1"`
	QuizID uint   `json:"quiz_id" binding:"required"`
}

// CreateQuestion godoc
// @Summary      Create a question
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body body CreateQuestionRequest true "Question"
// @Success      201 {object} map[string]interface{}
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/questions [post]
func CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Invalid("Invalid question payload."))
		return
	}
	question := models.Question{Text: req.Text, Points: req.Points, QuizID: req.QuizID}
	if err := db.CreateQuestion(c.Request.Context(), &question); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":      question.ID,
		"text":    question.Text,
		"points":  question.Points,
		"quiz_id": question.QuizID,
	})
}

// DeleteQuestion godoc
// @Summary      Delete a question and its answers
// @Tags         admin
// @Produce      json
// @Param        question_id path int true "Question ID"
// @Success      204 {string} string ""
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/questions/{question_id} [delete]
func DeleteQuestion(c *gin.Context) {
	id, ok := pathID(c, "question_id")
	if !ok {
		return
	}
	if err := db.DeleteQuestion(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type CreateAnswerRequest struct {
	Text       string `json:"text" binding:"required,max=500"`
	IsCorrect  bool   `json:"is_correct"`
	QuestionID uint   `json:"question_id" binding:"required"`
}

// CreateAnswer godoc
// @Summary      Create an answer
// @Description  At most one answer per question may be correct
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body body CreateAnswerRequest true "Answer"
// @Success      201 {object} map[string]interface{}
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/answers [post]
func CreateAnswer(c *gin.Context) {
	var req CreateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Invalid("Invalid answer payload."))
		return
	}
	answer := models.Answer{Text: req.Text, IsCorrect: req.IsCorrect, QuestionID: req.QuestionID}
	if err := db.CreateAnswer(c.Request.Context(), &answer); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":          answer.ID,
		"text":        answer.Text,
		"is_correct":  answer.IsCorrect,
		"question_id": answer.QuestionID,
	})
}

type UpdateAnswerRequest struct {
	Text      string `json:"text" binding:"required,max=500"`
	IsCorrect bool   `json:"is_correct"`
}

// UpdateAnswer godoc
// @Summary      Update an answer's text and correctness
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        answer_id path int                 true "Answer ID"
// @Param        body      body UpdateAnswerRequest true "Answer"
// @Success      200 {object} map[string]interface{}
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/answers/{answer_id} [put]
func UpdateAnswer(c *gin.Context) {
	id, ok := pathID(c, "answer_id")
	if !ok {
		return
	}
	var req UpdateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Invalid("Invalid answer payload."))
		return
	}
	answer, err := db.UpdateAnswer(c.Request.Context(), id, req.Text, req.IsCorrect)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          answer.ID,
		"text":        answer.Text,
		"is_correct":  answer.IsCorrect,
		"question_id": answer.QuestionID,
	})
}

// DeleteAnswer godoc
// @Summary      Delete an answer
// @Tags         admin
// @Produce      json
// @Param        answer_id path int true "Answer ID"
// @Success      204 {string} string ""
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/answers/{answer_id} [delete]
func DeleteAnswer(c *gin.Context) {
	id, ok := pathID(c, "answer_id")
	if !ok {
		return
	}
	if err := db.DeleteAnswer(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportCurriculum godoc
// @Summary      Bulk-load a curriculum workbook
// @Description  Accepts an .xlsx upload where each sheet is a grade
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Curriculum workbook"
// @Success      200 {object} db.ImportStats
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/import [post]
func ImportCurriculum(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondErr(c, apperr.Invalid("A workbook file is required."))
		return
	}

	tmp := filepath.Join(os.TempDir(), file.Filename)
	if err := c.SaveUploadedFile(file, tmp); err != nil {
		respondErr(c, apperr.Internal(err))
		return
	}
	defer os.Remove(tmp)

	grades, err := excel.ParseWorkbook(tmp)
	if err != nil {
		respondErr(c, apperr.Invalid("Failed to parse workbook: %v", err))
		return
	}
	stats, err := db.ImportCurriculum(c.Request.Context(), grades)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
