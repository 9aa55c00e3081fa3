package models

import "time"

// Audit action kinds.
const (
	ActionApproveReport = "APPROVE_REPORT"
	ActionRejectStrike  = "REJECT_STRIKE"
	ActionRejectSafe    = "REJECT_SAFE"
	ActionDeleteReport  = "DELETE_REPORT"
	ActionBlockUser     = "BLOCK_USER"
	ActionUnblockUser   = "UNBLOCK_USER"
)

// AuditEntry is an immutable, append-only record of an administrative action.
// Details carries a small JSON document describing the action.
type AuditEntry struct {
	ID        int64
	ActorID   int64
	Action    string
	TargetID  int64
	Details   string
	IPAddress string
	CreatedAt time.Time
}
