package services

// Service tests run against an in-memory SQLite database. The repositories
// only use SQL that both backends accept, so the full transaction paths are
// exercised without a running PostgreSQL.

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vkazmin/bountyboard/internal/server/config"
	"github.com/vkazmin/bountyboard/internal/server/models"
	"github.com/vkazmin/bountyboard/internal/server/repositories/repomanager"
)

const testSchema = `
CREATE TABLE users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user',
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    telegram TEXT NOT NULL DEFAULT '',
    x TEXT NOT NULL DEFAULT '',
    linkedin TEXT NOT NULL DEFAULT '',
    payment_method TEXT NOT NULL DEFAULT '',
    profile_pic_url TEXT NOT NULL DEFAULT '',
    about TEXT NOT NULL DEFAULT '',
    account_address TEXT NOT NULL DEFAULT '',
    total_reward REAL NOT NULL DEFAULT 0,
    warning_count INTEGER NOT NULL DEFAULT 0,
    is_blocked INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE programs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    link TEXT NOT NULL DEFAULT '',
    icon TEXT NOT NULL DEFAULT '',
    details TEXT NOT NULL DEFAULT '',
    reward_low REAL NOT NULL DEFAULT 0,
    reward_medium REAL NOT NULL DEFAULT 0,
    reward_high REAL NOT NULL DEFAULT 0,
    reward_critical REAL NOT NULL DEFAULT 0,
    out_of_scope TEXT NOT NULL DEFAULT '',
    total_reports INTEGER NOT NULL DEFAULT 0,
    pending_reports INTEGER NOT NULL DEFAULT 0,
    approved_reports INTEGER NOT NULL DEFAULT 0,
    rejected_reports INTEGER NOT NULL DEFAULT 0,
    total_bounties_paid REAL NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE submissions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    program_id INTEGER NOT NULL REFERENCES programs(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES users(id),
    title TEXT NOT NULL,
    endpoint TEXT NOT NULL DEFAULT '',
    weakness TEXT NOT NULL DEFAULT '',
    severity_type TEXT NOT NULL DEFAULT '',
    score REAL NOT NULL DEFAULT 0,
    cvss TEXT NOT NULL DEFAULT '',
    proof TEXT NOT NULL DEFAULT '',
    impact TEXT NOT NULL DEFAULT '',
    recommendation TEXT NOT NULL DEFAULT '',
    files TEXT,
    status TEXT NOT NULL DEFAULT 'Pending',
    reward REAL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE audit_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    actor_id INTEGER NOT NULL,
    action TEXT NOT NULL,
    target_id INTEGER,
    details TEXT,
    ip_address TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE notifications (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id),
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    link TEXT NOT NULL DEFAULT '',
    is_read INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

type testEnv struct {
	db            *sql.DB
	manager       repomanager.RepositoryManager
	lifecycle     *LifecycleService
	stats         *StatsService
	users         *UserService
	programs      *ProgramService
	notifications *NotificationService
	audit         *AuditService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	m := repomanager.NewPostgresRepositoryManager()
	cfg := &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		BcryptCost:            4,
	}

	env := &testEnv{
		db:            db,
		manager:       m,
		lifecycle:     NewLifecycleService(db, m),
		stats:         NewStatsService(db, m),
		users:         NewUserService(db, m, cfg),
		programs:      NewProgramService(db, m),
		notifications: NewNotificationService(db, m),
		audit:         NewAuditService(db, m),
	}
	// SQLite has no serializable BeginTx options; single-connection access
	// gives the same effect in tests.
	env.lifecycle.txOpts = nil
	env.stats.txOpts = nil
	env.users.txOpts = nil
	return env
}

func (e *testEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), "researcher", email, "password123")
	require.NoError(t, err)
	return u
}

func (e *testEnv) createProgram(t *testing.T, title string) *models.Program {
	t.Helper()
	p, err := e.programs.Create(context.Background(), &models.Program{
		Title:      title,
		Link:       "https://example.com",
		RewardLow:  50,
		RewardHigh: 500,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) submit(t *testing.T, programID, userID int64, title string) *models.Submission {
	t.Helper()
	sub, err := e.lifecycle.Submit(context.Background(), &models.Submission{
		ProgramID: programID,
		UserID:    userID,
		Title:     title,
		Endpoint:  "https://example.com/api",
		Proof:     "steps to reproduce",
		Impact:    "account takeover",
	})
	require.NoError(t, err)
	return sub
}

func (e *testEnv) programStats(t *testing.T, id int64) models.ProgramStats {
	t.Helper()
	p, err := e.programs.Get(context.Background(), id)
	require.NoError(t, err)
	return p.Stats
}

func (e *testEnv) userState(t *testing.T, id int64) *models.User {
	t.Helper()
	u, err := e.manager.Users(e.db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (e *testEnv) countAudit(t *testing.T, action string) int {
	t.Helper()
	var n int
	err := e.db.QueryRow(`SELECT COUNT(*) FROM audit_logs WHERE action = $1`, action).Scan(&n)
	require.NoError(t, err)
	return n
}

func requireStatsConsistent(t *testing.T, s models.ProgramStats) {
	t.Helper()
	require.Equal(t, s.TotalReports, s.PendingReports+s.ApprovedReports+s.RejectedReports,
		"total must equal pending+approved+rejected")
}
