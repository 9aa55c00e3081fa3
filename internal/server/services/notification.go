package services

import (
	"context"
	"database/sql"

	"github.com/vkazmin/bountyboard/internal/server/models"
	"github.com/vkazmin/bountyboard/internal/server/repositories/repomanager"
)

// notificationPageSize caps how many recent notifications a user sees.
const notificationPageSize = 20

// NotificationService reads and acknowledges a user's notifications. Writing
// them is the lifecycle engine's job.
type NotificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNotificationService(db *sql.DB, m repomanager.RepositoryManager) *NotificationService {
	return &NotificationService{db: db, repomanager: m}
}

// ListForUser returns the user's most recent notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID int64) ([]*models.Notification, error) {
	return s.repomanager.Notifications(s.db).ListByUser(ctx, userID, notificationPageSize)
}

// MarkRead acknowledges one notification. Marking someone else's notification
// fails with ErrorNotFound, same as a missing one.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	return s.repomanager.Notifications(s.db).MarkRead(ctx, id, userID)
}

// MarkAllRead acknowledges everything the user has.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repomanager.Notifications(s.db).MarkAllRead(ctx, userID)
}
