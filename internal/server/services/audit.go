package services

import (
	"context"
	"database/sql"

	"github.com/vkazmin/bountyboard/internal/server/models"
	"github.com/vkazmin/bountyboard/internal/server/repositories/repomanager"
)

const auditPageSize = 50

// AuditService reads the append-only audit trail for the admin console.
type AuditService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAuditService(db *sql.DB, m repomanager.RepositoryManager) *AuditService {
	return &AuditService{db: db, repomanager: m}
}

// Recent returns the newest audit entries, newest first.
func (s *AuditService) Recent(ctx context.Context) ([]*models.AuditEntry, error) {
	return s.repomanager.AuditLog(s.db).ListRecent(ctx, auditPageSize)
}
