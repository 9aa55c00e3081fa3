package auditlog

import (
	"context"

	"github.com/vkazmin/bountyboard/internal/server/models"
)

type Repository interface {
	Append(ctx context.Context, entry *models.AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]*models.AuditEntry, error)
}
