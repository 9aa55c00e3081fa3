// Package users provides the PostgreSQL-backed repository for user accounts,
// including the derived reward/warning/block fields mutated by the lifecycle
// engine.
package users

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

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, email, password_hash, role,
		   first_name, last_name, phone, telegram, x, linkedin,
		   payment_method, profile_pic_url, about, account_address)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role,
		user.FirstName, user.LastName, user.Phone, user.Telegram, user.X, user.Linkedin,
		user.PaymentMethod, user.ProfilePicURL, user.About, user.AccountAddress).Scan(&user.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const userColumns = `id, username, email, password_hash, role,
	   first_name, last_name, phone, telegram, x, linkedin,
	   payment_method, profile_pic_url, about, account_address,
	   total_reward, warning_count, is_blocked`

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role,
		&user.FirstName, &user.LastName, &user.Phone, &user.Telegram, &user.X, &user.Linkedin,
		&user.PaymentMethod, &user.ProfilePicURL, &user.About, &user.AccountAddress,
		&user.TotalReward, &user.WarningCount, &user.IsBlocked)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT id, username, email, role, profile_pic_url, total_reward, warning_count, is_blocked
		 FROM users
		 ORDER BY id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		var item models.User
		if err := rows.Scan(&item.ID, &item.Username, &item.Email, &item.Role,
			&item.ProfilePicURL, &item.TotalReward, &item.WarningCount, &item.IsBlocked); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// UpdateProfile writes profile fields only. The derived reward/warning/block
// columns are out of reach of this statement by construction.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET
		   username = $1, email = $2, first_name = $3, last_name = $4,
		   phone = $5, telegram = $6, x = $7, linkedin = $8,
		   payment_method = $9, profile_pic_url = $10, about = $11, account_address = $12,
		   updated_at = CURRENT_TIMESTAMP
		 WHERE id = $13
		 `

	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.FirstName, user.LastName,
		user.Phone, user.Telegram, user.X, user.Linkedin,
		user.PaymentMethod, user.ProfilePicURL, user.About, user.AccountAddress,
		user.ID)
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

// AddReward accrues amount onto the user's running total in place, so
// concurrent approvals cannot overwrite each other's additions.
func (r *PostgresRepository) AddReward(ctx context.Context, id int64, amount float64) error {
	query :=
		`UPDATE users SET total_reward = total_reward + $1
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, amount, id)
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

// IncrementWarning adds one strike and returns the post-increment count along
// with the current blocked flag, so the caller can decide on escalation
// within the same transaction.
func (r *PostgresRepository) IncrementWarning(ctx context.Context, id int64) (int, bool, error) {
	query :=
		`UPDATE users SET warning_count = warning_count + 1
		 WHERE id = $1
		 RETURNING warning_count, is_blocked
		 `

	var warnings int
	var blocked bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&warnings, &blocked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, common.ErrorNotFound
		}
		return 0, false, fmt.Errorf("db error: %w", err)
	}

	return warnings, blocked, nil
}

func (r *PostgresRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	query :=
		`UPDATE users SET is_blocked = $1
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, blocked, id)
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
