package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var noFile = failure{Message: "No file uploaded"}

// POST /api/media
func (s *Server) uploadMedia(c *gin.Context) {
	const op = "httpapi.uploadMedia"

	fh, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, noFile)
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.writeError(c, op, err, "")
		return
	}
	defer f.Close()

	url, err := s.media.Put(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), f, fh.Size)
	if err != nil {
		s.writeError(c, op, err, "")
		return
	}

	s.logger.Info(c.Request.Context(), "media uploaded", "url", url, "size", fh.Size)
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
