// Package submissions provides the PostgreSQL-backed repository for
// vulnerability reports. The conditional status update here is the
// serialization point of the report lifecycle: a transition only succeeds if
// the row is still in the expected prior state.
package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
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

func encodeFiles(files []string) (any, error) {
	if len(files) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(files)
	if err != nil {
		return nil, fmt.Errorf("encoding files: %w", err)
	}
	return string(b), nil
}

func decodeFiles(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var files []string
	if err := json.Unmarshal([]byte(raw.String), &files); err != nil {
		return nil, fmt.Errorf("decoding files: %w", err)
	}
	return files, nil
}

func (r *PostgresRepository) Create(ctx context.Context, sub *models.Submission) (*models.Submission, error) {

	files, err := encodeFiles(sub.Files)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO submissions (program_id, user_id, title, endpoint,
		   weakness, severity_type, score, cvss, proof, impact, recommendation, files, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id
		 `

	err = r.db.QueryRowContext(ctx, query,
		sub.ProgramID, sub.UserID, sub.Title, sub.Endpoint,
		sub.Weakness, sub.SeverityType, sub.Score, sub.CVSS,
		sub.Proof, sub.Impact, sub.Recommendation, files, models.StatusPending).Scan(&sub.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	sub.Status = models.StatusPending
	return sub, nil
}

const submissionColumns = `id, program_id, user_id, title, endpoint,
	   weakness, severity_type, score, cvss, proof, impact, recommendation, files, status, reward`

func scanSubmission(scan func(dest ...any) error) (*models.Submission, error) {
	s := &models.Submission{}
	var files sql.NullString
	var reward sql.NullFloat64
	err := scan(&s.ID, &s.ProgramID, &s.UserID, &s.Title, &s.Endpoint,
		&s.Weakness, &s.SeverityType, &s.Score, &s.CVSS,
		&s.Proof, &s.Impact, &s.Recommendation, &files, &s.Status, &reward)
	if err != nil {
		return nil, err
	}
	if s.Files, err = decodeFiles(files); err != nil {
		return nil, err
	}
	if reward.Valid {
		s.Reward = &reward.Float64
	}
	return s, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Submission
	for rows.Next() {
		s, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Submission, error) {
	return r.list(ctx, `SELECT `+submissionColumns+` FROM submissions ORDER BY id DESC`)
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, statuses ...models.Status) ([]*models.Submission, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE status IN (`
	args := make([]any, 0, len(statuses))
	for i, st := range statuses {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("$%d", i+1)
		args = append(args, st)
	}
	query += `) ORDER BY id ASC`

	return r.list(ctx, query, args...)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Submission, error) {
	return r.list(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE user_id = $1 ORDER BY id DESC`, userID)
}

// SetStatus transitions a submission from one status to another. The UPDATE
// carries the expected prior status, so of two racing transitions only one
// matches a row; the loser gets common.ErrorNotFound and must decide between
// "absent" and "already transitioned". A non-nil reward is stored alongside
// the new status.
func (r *PostgresRepository) SetStatus(ctx context.Context, id int64, from, to models.Status, reward *float64) (*models.Submission, error) {
	query :=
		`UPDATE submissions SET status = $1, reward = COALESCE($2, reward)
		 WHERE id = $3 AND status = $4
		 RETURNING user_id, program_id, title
		 `

	var rewardArg any
	if reward != nil {
		rewardArg = *reward
	}

	s := &models.Submission{ID: id, Status: to, Reward: reward}
	err := r.db.QueryRowContext(ctx, query, to, rewardArg, id, from).
		Scan(&s.UserID, &s.ProgramID, &s.Title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

// Delete removes the row and returns its last state so the caller can reverse
// the row's contribution to the program aggregates.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (*models.Submission, error) {
	query :=
		`DELETE FROM submissions
		 WHERE id = $1
		 RETURNING id, program_id, user_id, title, status, reward
		 `

	s := &models.Submission{}
	var reward sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&s.ID, &s.ProgramID, &s.UserID, &s.Title, &s.Status, &reward)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if reward.Valid {
		s.Reward = &reward.Float64
	}

	return s, nil
}

// AggregateByProgram recomputes per-program statistics from the submissions
// table. Rewards count by absolute value and only for approved reports;
// unset rewards contribute zero.
func (r *PostgresRepository) AggregateByProgram(ctx context.Context) ([]models.ProgramAggregate, error) {
	query :=
		`SELECT program_id,
		   COUNT(*),
		   SUM(CASE WHEN status = $1 THEN 1 ELSE 0 END),
		   SUM(CASE WHEN status = $2 THEN 1 ELSE 0 END),
		   SUM(CASE WHEN status IN ($3, $4) THEN 1 ELSE 0 END),
		   COALESCE(SUM(CASE WHEN status = $5 THEN ABS(COALESCE(reward, 0)) ELSE 0 END), 0)
		 FROM submissions
		 GROUP BY program_id
		 `

	rows, err := r.db.QueryContext(ctx, query,
		models.StatusPending, models.StatusApproved,
		models.StatusRejected, models.StatusRejectedNoStrike, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.ProgramAggregate
	for rows.Next() {
		var agg models.ProgramAggregate
		if err := rows.Scan(&agg.ProgramID, &agg.Stats.TotalReports,
			&agg.Stats.PendingReports, &agg.Stats.ApprovedReports,
			&agg.Stats.RejectedReports, &agg.Stats.TotalBountiesPaid); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
