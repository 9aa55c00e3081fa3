// Package httpapi exposes the platform over a JSON HTTP API backed by gin.
// Routing is split in three tiers: public endpoints, authenticated researcher
// endpoints and admin-only endpoints.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vkazmin/bountyboard/internal/logging"
	"github.com/vkazmin/bountyboard/internal/server/config"
	"github.com/vkazmin/bountyboard/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger        logging.Logger
	secret        []byte
	users         *services.UserService
	programs      *services.ProgramService
	lifecycle     *services.LifecycleService
	stats         *services.StatsService
	notifications *services.NotificationService
	uploads       *services.UploadService
	audit         *services.AuditService
	httpServer    *http.Server
}

func NewServer(cfg *config.Config, logger logging.Logger,
	users *services.UserService, programs *services.ProgramService,
	lifecycle *services.LifecycleService, stats *services.StatsService,
	notifications *services.NotificationService, uploads *services.UploadService,
	audit *services.AuditService) *Server {

	s := &Server{
		logger:        logger,
		secret:        []byte(cfg.SecretKey),
		users:         users,
		programs:      programs,
		lifecycle:     lifecycle,
		stats:         stats,
		notifications: notifications,
		uploads:       uploads,
		audit:         audit,
	}

	s.httpServer = &http.Server{
		Addr:    cfg.EndpointAddrHTTP,
		Handler: s.Handler(),
	}

	return s
}

func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")

	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)
	api.GET("/programs", s.handleListPrograms)
	api.GET("/programs/latest", s.handleLatestPrograms)
	api.GET("/programs/:id", s.handleGetProgram)

	user := api.Group("/", s.authenticate())
	{
		user.GET("/profile", s.handleProfile)
		user.PUT("/profile", s.handleUpdateProfile)

		user.GET("/notifications", s.handleListNotifications)
		user.POST("/notifications/:id/read", s.handleMarkNotificationRead)
		user.POST("/notifications/read-all", s.handleMarkAllNotificationsRead)

		user.POST("/reports", s.handleSubmitReport)
		user.GET("/reports/my", s.handleMyReports)
		user.GET("/reports/:id", s.handleGetReport)

		user.POST("/uploads/presign", s.handlePresignUpload)
		user.GET("/uploads/download", s.handlePresignDownload)
	}

	admin := api.Group("/admin", s.authenticate(), s.requireAdmin())
	{
		admin.POST("/programs", s.handleCreateProgram)
		admin.PUT("/programs/:id", s.handleUpdateProgram)
		admin.DELETE("/programs/:id", s.handleDeleteProgram)

		admin.GET("/reports", s.handleAllReports)
		admin.GET("/reports/pending", s.handlePendingReports)
		admin.POST("/reports/:id/approve", s.handleApproveReport)
		admin.POST("/reports/:id/reject", s.handleRejectReport)
		admin.POST("/reports/:id/reject-safe", s.handleRejectReportSafe)
		admin.DELETE("/reports/:id", s.handleDeleteReport)

		admin.GET("/users", s.handleListUsers)
		admin.GET("/users/:id", s.handleUserDetails)
		admin.POST("/users/:id/block", s.handleBlockUser)
		admin.POST("/users/:id/unblock", s.handleUnblockUser)

		admin.GET("/audit", s.handleRecentAudit)
		admin.POST("/stats/recalculate", s.handleRecalculateStats)
	}

	return r
}

// Run serves until the context is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.httpServer.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
