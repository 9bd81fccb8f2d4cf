package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pathwaygaza/pathway-back/internal/apperr"
	"github.com/pathwaygaza/pathway-back/internal/db"
	"github.com/pathwaygaza/pathway-back/internal/models"
)

const userKey = "currentUser"

// Middleware resolves the bearer token through the given Verifier and
// attaches the matching user to the request. Identities carrying an external
// subject are auto-provisioned on first sight.
func Middleware(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header"})
			return
		}

		identity, err := v.Verify(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.From(err).Detail})
			return
		}

		var user *models.User
		if identity.SubjectID != "" {
			user, err = db.ProvisionExternalUser(c.Request.Context(), identity.SubjectID, identity.Email, identity.DisplayName)
		} else {
			user, err = db.GetUserByEmail(c.Request.Context(), identity.Email)
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireStaff guards administrative routes. Must run after Middleware.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by Middleware.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func respondAuthErr(c *gin.Context, err error) {
	ae := apperr.From(err)
	c.JSON(ae.Status(), gin.H{"error": ae.Detail})
}
