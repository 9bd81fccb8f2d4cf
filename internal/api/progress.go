package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pathwaygaza/pathway-back/internal/apperr"
	"github.com/pathwaygaza/pathway-back/internal/auth"
	"github.com/pathwaygaza/pathway-back/internal/db"
	"github.com/pathwaygaza/pathway-back/internal/models"
)

type ProgressResponse struct {
	ID           uint            `json:"id"`
	LessonID     uint            `json:"lesson_id"`
	IsCompleted  bool            `json:"is_completed"`
	LastAccessed time.Time       `json:"last_accessed"`
	Lesson       *LessonResponse `json:"lesson,omitempty"`
}

func toProgressResponse(p *models.LessonProgress) ProgressResponse {
	resp := ProgressResponse{
		ID:           p.ID,
		LessonID:     p.LessonID,
		IsCompleted:  p.IsCompleted,
		LastAccessed: p.LastAccessed,
	}
	if p.Lesson != nil {
		lesson := toLessonResponse(*p.Lesson)
		resp.Lesson = &lesson
	}
	return resp
}

// GetLessonProgress godoc
// @Summary      Get the caller's progress for a lesson
// @Description  404 distinguishes a lesson that was never started
// @Tags         progress
// @Produce      json
// @Param        lesson_id path int true "Lesson ID"
// @Success      200 {object} ProgressResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/progress/lessons/{lesson_id} [get]
func GetLessonProgress(c *gin.Context) {
	lessonID, ok := pathID(c, "lesson_id")
	if !ok {
		return
	}
	user := auth.CurrentUser(c)
	progress, err := db.GetProgress(c.Request.Context(), user.ID, lessonID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toProgressResponse(progress))
}

// TouchLessonProgress godoc
// @Summary      Start or touch a lesson
// @Description  Creates the progress record on first access (201), refreshes last_accessed otherwise (200)
// @Tags         progress
// @Produce      json
// @Param        lesson_id path int true "Lesson ID"
// @Success      200 {object} ProgressResponse
// @Success      201 {object} ProgressResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/progress/lessons/{lesson_id} [post]
func TouchLessonProgress(c *gin.Context) {
	lessonID, ok := pathID(c, "lesson_id")
	if !ok {
		return
	}
	user := auth.CurrentUser(c)
	progress, created, err := db.TouchProgress(c.Request.Context(), user.ID, lessonID)
	if err != nil {
		respondErr(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, toProgressResponse(progress))
}

type ProgressUpdateRequest struct {
	IsCompleted *bool `json:"is_completed" binding:"required"`
}

// UpdateLessonProgress godoc
// @Summary      Update completion for a started lesson
// @Description  Fails when the lesson has never been started; never creates the record
// @Tags         progress
// @Accept       json
// @Produce      json
// @Param        lesson_id path int                   true "Lesson ID"
// @Param        body      body ProgressUpdateRequest true "Completion flag"
// @Success      200 {object} ProgressResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/progress/lessons/{lesson_id} [patch]
func UpdateLessonProgress(c *gin.Context) {
	lessonID, ok := pathID(c, "lesson_id")
	if !ok {
		return
	}
	var req ProgressUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Invalid("is_completed is required."))
		return
	}
	user := auth.CurrentUser(c)
	progress, err := db.SetCompletion(c.Request.Context(), user.ID, lessonID, *req.IsCompleted)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toProgressResponse(progress))
}

// GetCourseProgress godoc
// @Summary      List the caller's progress rows within a course
// @Description  Lessons never started are absent from the result
// @Tags         progress
// @Produce      json
// @Param        course_id path int true "Course ID"
// @Success      200 {array}  ProgressResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/progress/courses/{course_id} [get]
func GetCourseProgress(c *gin.Context) {
	courseID, ok := pathID(c, "course_id")
	if !ok {
		return
	}
	user := auth.CurrentUser(c)
	rows, err := db.CourseProgress(c.Request.Context(), user.ID, courseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := make([]ProgressResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, toProgressResponse(&rows[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetOverallProgress godoc
// @Summary      Overall completion summary over the caller's grade
// @Tags         progress
// @Produce      json
// @Success      200 {object} db.OverallProgress
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/progress/overall [get]
func GetOverallProgress(c *gin.Context) {
	user := auth.CurrentUser(c)
	summary, err := db.OverallProgressForUser(c.Request.Context(), user)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetLastActivity godoc
// @Summary      The caller's most recently touched lessons
// @Tags         progress
// @Produce      json
// @Param        limit query int false "Number of records (default 5)"
// @Success      200 {array} ProgressResponse
// @Security     BearerAuth
// @Router       /api/progress/activity [get]
func GetLastActivity(c *gin.Context) {
	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondErr(c, apperr.Invalid("Invalid limit."))
			return
		}
		limit = parsed
	}
	user := auth.CurrentUser(c)
	rows, err := db.LastActivity(c.Request.Context(), user.ID, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := make([]ProgressResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, toProgressResponse(&rows[i]))
	}
	c.JSON(http.StatusOK, resp)
}
