package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/chapel/internal/common"
	"github.com/gin-gonic/gin"
)

var (
	internalError  = failure{Message: "internal error"}
	invalidRequest = failure{Message: "Invalid Request"}
	notFound       = failure{Message: "Not found"}
)

// writeError maps a service error to a response. conflict is the message for
// common.ErrAlreadyExists. Anything unrecognised is logged and reported as a
// plain 500 without detail.
func (s *Server) writeError(c *gin.Context, op string, err error, conflict string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, invalidRequest)
	case errors.Is(err, common.ErrorNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, notFound)
	case errors.Is(err, common.ErrAlreadyExists):
		if conflict == "" {
			conflict = "Already exists"
		}
		c.AbortWithStatusJSON(http.StatusConflict, failure{Message: conflict})
	default:
		s.logger.Error(c.Request.Context(), "request failed", "op", op, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, internalError)
	}
}

func respondOK(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}
