// Package auditlog provides the append-only PostgreSQL repository for audit
// records. Entries are never updated or deleted.
package auditlog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vkazmin/bountyboard/internal/dbx"
	"github.com/vkazmin/bountyboard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, entry *models.AuditEntry) error {
	query :=
		`INSERT INTO audit_logs (actor_id, action, target_id, details, ip_address)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	var ip any
	if entry.IPAddress != "" {
		ip = entry.IPAddress
	}

	if _, err := r.db.ExecContext(ctx, query,
		entry.ActorID, entry.Action, entry.TargetID, entry.Details, ip); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]*models.AuditEntry, error) {
	query :=
		`SELECT id, actor_id, action, target_id, details, ip_address FROM audit_logs
		 ORDER BY id DESC
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.AuditEntry
	for rows.Next() {
		var item models.AuditEntry
		var target sql.NullInt64
		var details, ip sql.NullString
		if err := rows.Scan(&item.ID, &item.ActorID, &item.Action, &target, &details, &ip); err != nil {
			return nil, err
		}
		item.TargetID = target.Int64
		item.Details = details.String
		item.IPAddress = ip.String
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
