package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pathwaygaza/pathway-back/internal/apperr"
	"github.com/pathwaygaza/pathway-back/internal/auth"
	"github.com/pathwaygaza/pathway-back/internal/db"
	"github.com/pathwaygaza/pathway-back/internal/models"
)

type GradeResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CourseResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	GradeID      uint   `json:"grade_id"`
	LessonsCount int64  `json:"lessons_count"`
}

type LessonResponse struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Order         int    `json:"order"`
	DocumentLink  string `json:"document_link"`
	EstimatedTime *int   `json:"estimated_time,omitempty"`
	UnitID        uint   `json:"unit_id"`
}

type UnitResponse struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Order       int              `json:"order"`
	CourseID    uint             `json:"course_id"`
	Lessons     []LessonResponse `json:"lessons"`
}

func toLessonResponse(l models.Lesson) LessonResponse {
	return LessonResponse{
		ID:            l.ID,
		Title:         l.Title,
		Order:         l.Order,
		DocumentLink:  l.DocumentLink,
		EstimatedTime: l.EstimatedTime,
		UnitID:        l.UnitID,
	}
}

// ListGrades godoc
// @Summary      List all grades
// @Tags         learning
// @Produce      json
// @Success      200 {array} GradeResponse
// @Router       /api/learning/grades [get]
func ListGrades(c *gin.Context) {
	grades, err := db.ListGrades(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := make([]GradeResponse, 0, len(grades))
	for _, g := range grades {
		resp = append(resp, GradeResponse{ID: g.ID, Name: g.Name, Description: g.Description})
	}
	c.JSON(http.StatusOK, resp)
}

// ListMyCourses godoc
// @Summary      List courses for the caller's grade
// @Tags         learning
// @Produce      json
// @Success      200 {array}  CourseResponse
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/learning/courses [get]
func ListMyCourses(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user.GradeID == nil {
		respondErr(c, apperr.PreconditionFailed("User has no grade assigned."))
		return
	}
	listCourses(c, *user.GradeID)
}

// ListGradeCourses godoc
// @Summary      List courses within a grade
// @Tags         learning
// @Produce      json
// @Param        grade_id path int true "Grade ID"
// @Success      200 {array}  CourseResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/learning/grades/{grade_id}/courses [get]
func ListGradeCourses(c *gin.Context) {
	gradeID, ok := pathID(c, "grade_id")
	if !ok {
		return
	}
	listCourses(c, gradeID)
}

func listCourses(c *gin.Context, gradeID uint) {
	courses, err := db.ListCoursesByGrade(c.Request.Context(), gradeID)
	if err != nil {
		respondErr(c, err)
		return
	}
	ids := make([]uint, len(courses))
	for i, course := range courses {
		ids[i] = course.ID
	}
	counts, err := db.CountLessonsByCourse(c.Request.Context(), ids)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		resp = append(resp, CourseResponse{
			ID:           course.ID,
			Name:         course.Name,
			Description:  course.Description,
			ImageURL:     course.ImageURL,
			GradeID:      course.GradeID,
			LessonsCount: counts[course.ID],
		})
	}
	c.JSON(http.StatusOK, resp)
}

// ListCourseUnits godoc
// @Summary      List a course's units with nested lessons
// @Description  Units ordered by unit order, lessons by lesson order
// @Tags         learning
// @Produce      json
// @Param        course_id path int true "Course ID"
// @Success      200 {array}  UnitResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/learning/courses/{course_id}/units [get]
func ListCourseUnits(c *gin.Context) {
	courseID, ok := pathID(c, "course_id")
	if !ok {
		return
	}
	units, err := db.ListUnitsWithLessons(c.Request.Context(), courseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := make([]UnitResponse, 0, len(units))
	for _, u := range units {
		lessons := make([]LessonResponse, 0, len(u.Lessons))
		for _, l := range u.Lessons {
			lessons = append(lessons, toLessonResponse(l))
		}
		resp = append(resp, UnitResponse{
			ID:          u.ID,
			Title:       u.Title,
			Description: u.Description,
			Order:       u.Order,
			CourseID:    u.CourseID,
			Lessons:     lessons,
		})
	}
	c.JSON(http.StatusOK, resp)
}
