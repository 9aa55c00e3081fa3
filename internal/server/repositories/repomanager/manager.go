package repomanager

import (
	"context"
	"database/sql"

	"github.com/vkazmin/bountyboard/internal/dbx"
	"github.com/vkazmin/bountyboard/internal/server/repositories/auditlog"
	"github.com/vkazmin/bountyboard/internal/server/repositories/notifications"
	"github.com/vkazmin/bountyboard/internal/server/repositories/programs"
	"github.com/vkazmin/bountyboard/internal/server/repositories/submissions"
	"github.com/vkazmin/bountyboard/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Programs(db dbx.DBTX) programs.Repository
	Submissions(db dbx.DBTX) submissions.Repository
	Notifications(db dbx.DBTX) notifications.Repository
	AuditLog(db dbx.DBTX) auditlog.Repository
}
