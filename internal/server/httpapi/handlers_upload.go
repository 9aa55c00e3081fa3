package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vkazmin/bountyboard/internal/common"
)

type presignUploadRequest struct {
	Filename string `json:"filename"`
}

func (s *Server) handlePresignUpload(c *gin.Context) {
	var req presignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}

	key, url, err := s.uploads.PresignUpload(c.Request.Context(), req.Filename)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "upload_url": url})
}

func (s *Server) handlePresignDownload(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		s.respondError(c, fmt.Errorf("%w: key is required", common.ErrorValidation))
		return
	}

	url, err := s.uploads.PresignDownload(c.Request.Context(), key)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"download_url": url})
}
