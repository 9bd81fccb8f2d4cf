package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pathwaygaza/pathway-back/internal/apperr"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func respondErr(c *gin.Context, err error) {
	ae := apperr.From(err)
	c.JSON(ae.Status(), ErrorResponse{Detail: ae.Detail})
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		respondErr(c, apperr.Invalid("Invalid %s.", name))
		return 0, false
	}
	return uint(id), true
}
