package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vkazmin/bountyboard/internal/common"
	"github.com/vkazmin/bountyboard/internal/server/models"
)

const latestProgramsLimit = 10

func (s *Server) handleListPrograms(c *gin.Context) {
	programs, err := s.programs.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProgramResponses(programs))
}

func (s *Server) handleLatestPrograms(c *gin.Context) {
	programs, err := s.programs.ListLatest(c.Request.Context(), latestProgramsLimit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProgramResponses(programs))
}

func (s *Server) handleGetProgram(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	program, err := s.programs.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProgramResponse(program))
}

type programRequest struct {
	Title          string  `json:"title"`
	Link           string  `json:"link"`
	Icon           string  `json:"icon"`
	Details        string  `json:"details"`
	RewardLow      float64 `json:"reward_low"`
	RewardMedium   float64 `json:"reward_medium"`
	RewardHigh     float64 `json:"reward_high"`
	RewardCritical float64 `json:"reward_critical"`
	OutOfScope     string  `json:"out_of_scope"`
}

func (r *programRequest) toModel() *models.Program {
	return &models.Program{
		Title:          r.Title,
		Link:           r.Link,
		Icon:           r.Icon,
		Details:        r.Details,
		RewardLow:      r.RewardLow,
		RewardMedium:   r.RewardMedium,
		RewardHigh:     r.RewardHigh,
		RewardCritical: r.RewardCritical,
		OutOfScope:     r.OutOfScope,
	}
}

func (s *Server) handleCreateProgram(c *gin.Context) {
	var req programRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}

	program, err := s.programs.Create(c.Request.Context(), req.toModel())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProgramResponse(program))
}

func (s *Server) handleUpdateProgram(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req programRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}

	program := req.toModel()
	program.ID = id
	if err := s.programs.Update(c.Request.Context(), program); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProgramResponse(program))
}

func (s *Server) handleDeleteProgram(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.programs.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
