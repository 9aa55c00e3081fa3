package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vkazmin/bountyboard/internal/common"
	"github.com/vkazmin/bountyboard/internal/server/models"
)

type submitReportRequest struct {
	ProgramID      int64    `json:"program_id"`
	Title          string   `json:"title"`
	Endpoint       string   `json:"endpoint"`
	Weakness       string   `json:"weakness"`
	SeverityType   string   `json:"severity_type"`
	Score          float64  `json:"score"`
	CVSS           string   `json:"cvss"`
	Proof          string   `json:"proof"`
	Impact         string   `json:"impact"`
	Recommendation string   `json:"recommendation"`
	Files          []string `json:"files"`
}

func (s *Server) handleSubmitReport(c *gin.Context) {
	var req submitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}

	sub, err := s.lifecycle.Submit(c.Request.Context(), &models.Submission{
		ProgramID:      req.ProgramID,
		UserID:         claimsFrom(c).UserID,
		Title:          req.Title,
		Endpoint:       req.Endpoint,
		Weakness:       req.Weakness,
		SeverityType:   req.SeverityType,
		Score:          req.Score,
		CVSS:           req.CVSS,
		Proof:          req.Proof,
		Impact:         req.Impact,
		Recommendation: req.Recommendation,
		Files:          req.Files,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSubmissionResponse(sub))
}

func (s *Server) handleMyReports(c *gin.Context) {
	subs, err := s.lifecycle.ListByUser(c.Request.Context(), claimsFrom(c).UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionResponses(subs))
}

// handleGetReport serves one report to its owner or to an admin.
func (s *Server) handleGetReport(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	sub, err := s.lifecycle.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	claims := claimsFrom(c)
	if claims.Role != models.RoleAdmin && sub.UserID != claims.UserID {
		s.respondError(c, common.ErrorForbidden)
		return
	}

	c.JSON(http.StatusOK, toSubmissionResponse(sub))
}

func (s *Server) handleAllReports(c *gin.Context) {
	subs, err := s.lifecycle.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionResponses(subs))
}

func (s *Server) handlePendingReports(c *gin.Context) {
	subs, err := s.lifecycle.ListPending(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionResponses(subs))
}

type approveReportRequest struct {
	Reward float64 `json:"reward"`
}

func (s *Server) handleApproveReport(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req approveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}

	sub, err := s.lifecycle.Approve(c.Request.Context(), claimsFrom(c).UserID, id, req.Reward, c.ClientIP())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionResponse(sub))
}

func (s *Server) handleRejectReport(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	sub, err := s.lifecycle.RejectWithStrike(c.Request.Context(), claimsFrom(c).UserID, id, c.ClientIP())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionResponse(sub))
}

func (s *Server) handleRejectReportSafe(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	sub, err := s.lifecycle.RejectWithoutStrike(c.Request.Context(), claimsFrom(c).UserID, id, c.ClientIP())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionResponse(sub))
}

func (s *Server) handleDeleteReport(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.lifecycle.Delete(c.Request.Context(), claimsFrom(c).UserID, id, c.ClientIP()); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
