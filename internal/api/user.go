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

// UserProfileResponse is a safe view of User for API responses.
type UserProfileResponse struct {
	ID        uint       `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	GradeID   *uint      `json:"grade_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toProfileResponse(u *models.User) UserProfileResponse {
	return UserProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		BirthDate: u.BirthDate,
		GradeID:   u.GradeID,
		CreatedAt: u.CreatedAt,
	}
}

// GetMe godoc
// @Summary      Get current user profile
// @Tags         users
// @Produce      json
// @Success      200 {object} UserProfileResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/users/me [get]
func GetMe(c *gin.Context) {
	user := auth.CurrentUser(c)
	c.JSON(http.StatusOK, toProfileResponse(user))
}

type UpdateProfileRequest struct {
	Username  *string `json:"username" binding:"omitempty,max=150"`
	BirthDate *string `json:"birth_date"` // YYYY-MM-DD
	GradeID   *uint   `json:"grade_id"`
	// email and credentials are immutable through this endpoint
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UpdateMe godoc
// @Summary      Update current user profile
// @Description  Only username, birth date and grade can change
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} UserProfileResponse
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/users/me [patch]
func UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Invalid("Invalid profile payload."))
		return
	}
	if req.Email != nil {
		respondErr(c, apperr.Invalid("Email cannot be changed."))
		return
	}
	if req.Password != nil {
		respondErr(c, apperr.Invalid("Password cannot be changed through this endpoint."))
		return
	}

	update := db.ProfileUpdate{
		Username: req.Username,
		GradeID:  req.GradeID,
	}
	if req.BirthDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			respondErr(c, apperr.Invalid("birth_date must be YYYY-MM-DD."))
			return
		}
		update.BirthDate = &parsed
	}

	user := auth.CurrentUser(c)
	updated, err := db.UpdateProfile(c.Request.Context(), user.ID, update)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(updated))
}
