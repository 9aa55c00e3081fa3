package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/vkazmin/bountyboard/internal/common"
	"github.com/vkazmin/bountyboard/internal/dbx"
	"github.com/vkazmin/bountyboard/internal/server/auth"
	"github.com/vkazmin/bountyboard/internal/server/config"
	"github.com/vkazmin/bountyboard/internal/server/models"
	"github.com/vkazmin/bountyboard/internal/server/repositories/repomanager"
)

const minPasswordLength = 8

// UserService handles account management: registration, login with JWT
// issuance, profile reads/updates and admin-side listing and block control.
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int
	txOpts                *sql.TxOptions
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
		txOpts:                dbx.Serializable(),
	}
}

func validateIdentity(username, email string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username is required", common.ErrorValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}
	return nil
}

func validateCredentials(username, email, password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}
	return validateIdentity(username, email)
}

// Register creates a regular user account. A taken email address yields
// ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	return s.createAccount(ctx, username, email, password, models.RoleUser)
}

// CreateAdmin creates an account with the admin role. Exposed to the
// operator CLI only, never over HTTP.
func (s *UserService) CreateAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	return s.createAccount(ctx, username, email, password, models.RoleAdmin)
}

func (s *UserService) createAccount(ctx context.Context, username, email, password string, role models.Role) (*models.User, error) {
	if err := validateCredentials(username, email, password); err != nil {
		return nil, err
	}

	digest, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, s.txOpts, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		if _, err := repo.GetByEmail(ctx, email); err == nil {
			return fmt.Errorf("%w: email %s is taken", common.ErrorAlreadyExists, email)
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		created, err = repo.Create(ctx, &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: digest,
			Role:         role,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	created.PasswordHash = ""
	return created, nil
}

// Login verifies credentials and mints an access token. A blocked account is
// refused even with a correct password; a wrong password and an unknown email
// are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", nil, common.ErrorUnauthorized
	}
	if user.IsBlocked {
		return "", nil, common.ErrorAccountBlocked
	}

	token, err := auth.GenerateToken(user.ID, user.Role, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	user.PasswordHash = ""
	return token, user, nil
}

// Profile returns the full account record for its owner.
func (s *UserService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile applies profile field changes for the given user. Reward,
// warning and block state are not updatable through this path.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User) error {
	if err := validateIdentity(user.Username, user.Email); err != nil {
		return err
	}
	return s.repomanager.Users(s.db).UpdateProfile(ctx, user)
}

// List returns the researcher leaderboard view of all accounts.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// Details returns one account plus its submission history.
func (s *UserService) Details(ctx context.Context, userID int64) (*models.User, []*models.Submission, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	user.PasswordHash = ""

	subs, err := s.repomanager.Submissions(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, subs, nil
}

// Count returns the total number of accounts.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.repomanager.Users(s.db).Count(ctx)
}

// SetBlocked blocks or unblocks an account by admin decision and records the
// action in the audit log.
func (s *UserService) SetBlocked(ctx context.Context, actorID, userID int64, blocked bool, ip string) error {
	action := models.ActionUnblockUser
	if blocked {
		action = models.ActionBlockUser
	}

	return dbx.WithTx(ctx, s.db, s.txOpts, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).SetBlocked(ctx, userID, blocked); err != nil {
			return err
		}

		details, err := json.Marshal(map[string]any{"manual": true})
		if err != nil {
			return fmt.Errorf("encoding audit details: %w", err)
		}
		return s.repomanager.AuditLog(tx).Append(ctx, &models.AuditEntry{
			ActorID:   actorID,
			Action:    action,
			TargetID:  userID,
			Details:   string(details),
			IPAddress: ip,
		})
	})
}
