package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vkazmin/bountyboard/internal/common"
	"github.com/vkazmin/bountyboard/internal/server/auth"
	"github.com/vkazmin/bountyboard/internal/server/models"
)

const claimsKey = "claims"

// authenticate verifies the Bearer token and stores its claims on the request
// context for handlers downstream.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.abortWithError(c, common.ErrorUnauthorized)
			return
		}

		claims, err := auth.ParseToken(token, s.secret)
		if err != nil {
			s.abortWithError(c, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claimsFrom(c).Role != models.RoleAdmin {
			s.abortWithError(c, common.ErrorForbidden)
			return
		}
		c.Next()
	}
}

// claimsFrom returns the verified claims. Only valid behind authenticate.
func claimsFrom(c *gin.Context) *auth.Claims {
	return c.MustGet(claimsKey).(*auth.Claims)
}
