package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vkazmin/bountyboard/internal/common"
)

func (s *Server) handleProfile(c *gin.Context) {
	user, err := s.users.Profile(c.Request.Context(), claimsFrom(c).UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

type updateProfileRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Phone          string `json:"phone"`
	Telegram       string `json:"telegram"`
	X              string `json:"x"`
	Linkedin       string `json:"linkedin"`
	PaymentMethod  string `json:"payment_method"`
	ProfilePicURL  string `json:"profile_pic_url"`
	About          string `json:"about"`
	AccountAddress string `json:"account_address"`
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}

	ctx := c.Request.Context()
	userID := claimsFrom(c).UserID

	user, err := s.users.Profile(ctx, userID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	user.Username = req.Username
	user.Email = req.Email
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone
	user.Telegram = req.Telegram
	user.X = req.X
	user.Linkedin = req.Linkedin
	user.PaymentMethod = req.PaymentMethod
	user.ProfilePicURL = req.ProfilePicURL
	user.About = req.About
	user.AccountAddress = req.AccountAddress

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) handleListNotifications(c *gin.Context) {
	notes, err := s.notifications.ListForUser(c.Request.Context(), claimsFrom(c).UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNotificationResponses(notes))
}

func (s *Server) handleMarkNotificationRead(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.notifications.MarkRead(c.Request.Context(), id, claimsFrom(c).UserID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMarkAllNotificationsRead(c *gin.Context) {
	if err := s.notifications.MarkAllRead(c.Request.Context(), claimsFrom(c).UserID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponses(users))
}

func (s *Server) handleUserDetails(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	user, subs, err := s.users.Details(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":        toUserResponse(user),
		"submissions": toSubmissionResponses(subs),
	})
}

func (s *Server) handleBlockUser(c *gin.Context) {
	s.setUserBlocked(c, true)
}

func (s *Server) handleUnblockUser(c *gin.Context) {
	s.setUserBlocked(c, false)
}

func (s *Server) setUserBlocked(c *gin.Context, blocked bool) {
	id, err := paramID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.users.SetBlocked(c.Request.Context(), claimsFrom(c).UserID, id, blocked, c.ClientIP()); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRecentAudit(c *gin.Context) {
	entries, err := s.audit.Recent(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuditResponses(entries))
}

func (s *Server) handleRecalculateStats(c *gin.Context) {
	updated, err := s.stats.Recalculate(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"programs_updated": updated})
}
