package models

import "time"

// Notification types.
const (
	NotificationReportUpdate = "REPORT_UPDATE"
	NotificationReward       = "REWARD"
	NotificationSystem       = "SYSTEM"
)

// Notification is a durable record written by the lifecycle engine; delivery
// (email/push) is an external concern. Only the owning user may mark it read.
type Notification struct {
	ID        int64
	UserID    int64
	Type      string
	Message   string
	Link      string
	IsRead    bool
	CreatedAt time.Time
}
