// Package programs provides the PostgreSQL-backed repository for bounty
// programs and their derived report statistics.
package programs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vkazmin/bountyboard/internal/common"
	"github.com/vkazmin/bountyboard/internal/dbx"
	"github.com/vkazmin/bountyboard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, program *models.Program) (*models.Program, error) {

	query :=
		`INSERT INTO programs (title, link, icon, details,
		   reward_low, reward_medium, reward_high, reward_critical, out_of_scope)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		program.Title, program.Link, program.Icon, program.Details,
		program.RewardLow, program.RewardMedium, program.RewardHigh, program.RewardCritical,
		program.OutOfScope).Scan(&program.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return program, nil
}

func (r *PostgresRepository) Update(ctx context.Context, program *models.Program) error {
	query :=
		`UPDATE programs SET
		   title = $1, link = $2, icon = $3, details = $4,
		   reward_low = $5, reward_medium = $6, reward_high = $7, reward_critical = $8,
		   out_of_scope = $9, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $10
		 `

	res, err := r.db.ExecContext(ctx, query,
		program.Title, program.Link, program.Icon, program.Details,
		program.RewardLow, program.RewardMedium, program.RewardHigh, program.RewardCritical,
		program.OutOfScope, program.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

const programColumns = `id, title, link, icon, details,
	   reward_low, reward_medium, reward_high, reward_critical, out_of_scope,
	   total_reports, pending_reports, approved_reports, rejected_reports, total_bounties_paid`

func scanProgram(scan func(dest ...any) error) (*models.Program, error) {
	p := &models.Program{}
	err := scan(&p.ID, &p.Title, &p.Link, &p.Icon, &p.Details,
		&p.RewardLow, &p.RewardMedium, &p.RewardHigh, &p.RewardCritical, &p.OutOfScope,
		&p.Stats.TotalReports, &p.Stats.PendingReports, &p.Stats.ApprovedReports,
		&p.Stats.RejectedReports, &p.Stats.TotalBountiesPaid)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE id = $1`

	p, err := scanProgram(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Program, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Program
	for rows.Next() {
		p, err := scanProgram(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Program, error) {
	return r.list(ctx, `SELECT `+programColumns+` FROM programs ORDER BY id DESC`)
}

func (r *PostgresRepository) ListLatest(ctx context.Context, limit int) ([]*models.Program, error) {
	return r.list(ctx, `SELECT `+programColumns+` FROM programs ORDER BY id DESC LIMIT $1`, limit)
}

// ApplyStatsDelta adjusts the derived counters in place. All five columns are
// touched in one statement so a transition updates the pair it affects
// atomically.
func (r *PostgresRepository) ApplyStatsDelta(ctx context.Context, id int64, delta models.StatsDelta) error {
	query :=
		`UPDATE programs SET
		   total_reports = total_reports + $1,
		   pending_reports = pending_reports + $2,
		   approved_reports = approved_reports + $3,
		   rejected_reports = rejected_reports + $4,
		   total_bounties_paid = total_bounties_paid + $5
		 WHERE id = $6
		 `

	res, err := r.db.ExecContext(ctx, query,
		delta.TotalReports, delta.PendingReports, delta.ApprovedReports,
		delta.RejectedReports, delta.BountiesPaid, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ResetAllStats zeroes the derived counters of every program. Used by the
// recompute repair path before reapplying aggregates from submissions.
func (r *PostgresRepository) ResetAllStats(ctx context.Context) error {
	query :=
		`UPDATE programs SET
		   total_reports = 0,
		   pending_reports = 0,
		   approved_reports = 0,
		   rejected_reports = 0,
		   total_bounties_paid = 0
		 `

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetStats(ctx context.Context, id int64, stats models.ProgramStats) error {
	query :=
		`UPDATE programs SET
		   total_reports = $1,
		   pending_reports = $2,
		   approved_reports = $3,
		   rejected_reports = $4,
		   total_bounties_paid = $5
		 WHERE id = $6
		 `

	res, err := r.db.ExecContext(ctx, query,
		stats.TotalReports, stats.PendingReports, stats.ApprovedReports,
		stats.RejectedReports, stats.TotalBountiesPaid, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
