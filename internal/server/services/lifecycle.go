// Package services contains server-side business logic. This file implements
// LifecycleService, the single writer for report status transitions and every
// side effect they imply: program counters, researcher rewards and warnings,
// audit records and notifications. Each operation is one transaction, so a
// crash mid-operation leaves no partial state behind.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/vkazmin/bountyboard/internal/common"
	"github.com/vkazmin/bountyboard/internal/dbx"
	"github.com/vkazmin/bountyboard/internal/server/models"
	"github.com/vkazmin/bountyboard/internal/server/repositories/repomanager"
)

// warningLimit is the strike count at which an account is blocked.
const warningLimit = 3

// LifecycleService applies report lifecycle operations. All writes for one
// operation share a serializable transaction.
type LifecycleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	txOpts      *sql.TxOptions
}

func NewLifecycleService(db *sql.DB, m repomanager.RepositoryManager) *LifecycleService {
	return &LifecycleService{db: db, repomanager: m, txOpts: dbx.Serializable()}
}

func validateSubmission(sub *models.Submission) error {
	switch {
	case strings.TrimSpace(sub.Title) == "":
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	case strings.TrimSpace(sub.Endpoint) == "":
		return fmt.Errorf("%w: endpoint is required", common.ErrorValidation)
	case strings.TrimSpace(sub.Proof) == "":
		return fmt.Errorf("%w: proof is required", common.ErrorValidation)
	case strings.TrimSpace(sub.Impact) == "":
		return fmt.Errorf("%w: impact is required", common.ErrorValidation)
	}
	return nil
}

// Submit files a new report in Pending state and bumps the owning program's
// total and pending counters.
func (s *LifecycleService) Submit(ctx context.Context, sub *models.Submission) (*models.Submission, error) {
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	var created *models.Submission
	err := dbx.WithTx(ctx, s.db, s.txOpts, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Programs(tx).GetByID(ctx, sub.ProgramID); err != nil {
			return err
		}

		var err error
		created, err = s.repomanager.Submissions(tx).Create(ctx, sub)
		if err != nil {
			return err
		}

		return s.repomanager.Programs(tx).ApplyStatsDelta(ctx, sub.ProgramID, submitDelta())
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// transition moves a Pending report to a terminal status. When the row is not
// in Pending anymore the caller sees ErrorConflict; when it does not exist at
// all, ErrorNotFound.
func (s *LifecycleService) transition(ctx context.Context, tx dbx.DBTX, id int64, to models.Status, reward *float64) (*models.Submission, error) {
	repo := s.repomanager.Submissions(tx)

	sub, err := repo.SetStatus(ctx, id, models.StatusPending, to, reward)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	if _, getErr := repo.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("%w: report %d is no longer pending", common.ErrorConflict, id)
}

// Approve moves a pending report to Approved, credits the researcher with the
// reward, grows the program's paid total and notifies the reporter. Negative
// reward amounts count by absolute value.
func (s *LifecycleService) Approve(ctx context.Context, actorID, submissionID int64, reward float64, ip string) (*models.Submission, error) {
	amount := math.Abs(reward)

	var approved *models.Submission
	err := dbx.WithTx(ctx, s.db, s.txOpts, func(ctx context.Context, tx dbx.DBTX) error {
		sub, err := s.transition(ctx, tx, submissionID, models.StatusApproved, &amount)
		if err != nil {
			return err
		}

		if err := s.repomanager.Programs(tx).ApplyStatsDelta(ctx, sub.ProgramID,
			transitionDelta(models.StatusApproved, &amount)); err != nil {
			return err
		}

		if err := s.repomanager.Users(tx).AddReward(ctx, sub.UserID, amount); err != nil {
			return err
		}

		if err := s.audit(ctx, tx, actorID, models.ActionApproveReport, submissionID, ip,
			map[string]any{"reward": amount, "title": sub.Title}); err != nil {
			return err
		}

		if err := s.notify(ctx, tx, sub.UserID, models.NotificationReportUpdate,
			fmt.Sprintf("Your report %q has been approved! Reward: $%.2f", sub.Title, amount)); err != nil {
			return err
		}

		approved = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// RejectWithStrike moves a pending report to Rejected and issues a warning
// strike to the reporter. Reaching the warning limit blocks the account and
// writes a BLOCK_USER audit record; an already blocked account just keeps
// accumulating strikes.
func (s *LifecycleService) RejectWithStrike(ctx context.Context, actorID, submissionID int64, ip string) (*models.Submission, error) {
	var rejected *models.Submission
	err := dbx.WithTx(ctx, s.db, s.txOpts, func(ctx context.Context, tx dbx.DBTX) error {
		sub, err := s.transition(ctx, tx, submissionID, models.StatusRejected, nil)
		if err != nil {
			return err
		}

		if err := s.repomanager.Programs(tx).ApplyStatsDelta(ctx, sub.ProgramID,
			transitionDelta(models.StatusRejected, nil)); err != nil {
			return err
		}

		warnings, blocked, err := s.repomanager.Users(tx).IncrementWarning(ctx, sub.UserID)
		if err != nil {
			return err
		}
		if warnings >= warningLimit && !blocked {
			if err := s.repomanager.Users(tx).SetBlocked(ctx, sub.UserID, true); err != nil {
				return err
			}
			if err := s.audit(ctx, tx, actorID, models.ActionBlockUser, sub.UserID, ip,
				map[string]any{"warnings": warnings}); err != nil {
				return err
			}
		}

		if err := s.audit(ctx, tx, actorID, models.ActionRejectStrike, submissionID, ip,
			map[string]any{"title": sub.Title}); err != nil {
			return err
		}

		if err := s.notify(ctx, tx, sub.UserID, models.NotificationReportUpdate,
			fmt.Sprintf("Your report %q was rejected. A warning strike has been issued.", sub.Title)); err != nil {
			return err
		}

		rejected = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// RejectWithoutStrike moves a pending report to the no-strike rejected state.
// The reporter's warning count and blocked flag are untouched.
func (s *LifecycleService) RejectWithoutStrike(ctx context.Context, actorID, submissionID int64, ip string) (*models.Submission, error) {
	var rejected *models.Submission
	err := dbx.WithTx(ctx, s.db, s.txOpts, func(ctx context.Context, tx dbx.DBTX) error {
		sub, err := s.transition(ctx, tx, submissionID, models.StatusRejectedNoStrike, nil)
		if err != nil {
			return err
		}

		if err := s.repomanager.Programs(tx).ApplyStatsDelta(ctx, sub.ProgramID,
			transitionDelta(models.StatusRejectedNoStrike, nil)); err != nil {
			return err
		}

		if err := s.audit(ctx, tx, actorID, models.ActionRejectSafe, submissionID, ip,
			map[string]any{"title": sub.Title}); err != nil {
			return err
		}

		if err := s.notify(ctx, tx, sub.UserID, models.NotificationReportUpdate,
			fmt.Sprintf("Your report %q was rejected (No strike).", sub.Title)); err != nil {
			return err
		}

		rejected = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// Delete removes a report in any state and reverses its contribution to the
// program's counters. Already-paid rewards and already-issued strikes stand;
// deletion erases the report, not its consequences.
func (s *LifecycleService) Delete(ctx context.Context, actorID, submissionID int64, ip string) error {
	return dbx.WithTx(ctx, s.db, s.txOpts, func(ctx context.Context, tx dbx.DBTX) error {
		sub, err := s.repomanager.Submissions(tx).Delete(ctx, submissionID)
		if err != nil {
			return err
		}

		if err := s.repomanager.Programs(tx).ApplyStatsDelta(ctx, sub.ProgramID,
			removalDelta(sub.Status, sub.Reward)); err != nil {
			return err
		}

		return s.audit(ctx, tx, actorID, models.ActionDeleteReport, submissionID, ip,
			map[string]any{"title": sub.Title, "status": sub.Status})
	})
}

func (s *LifecycleService) audit(ctx context.Context, tx dbx.DBTX, actorID int64, action string, targetID int64, ip string, details map[string]any) error {
	encoded, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encoding audit details: %w", err)
	}
	return s.repomanager.AuditLog(tx).Append(ctx, &models.AuditEntry{
		ActorID:   actorID,
		Action:    action,
		TargetID:  targetID,
		Details:   string(encoded),
		IPAddress: ip,
	})
}

func (s *LifecycleService) notify(ctx context.Context, tx dbx.DBTX, userID int64, kind, message string) error {
	return s.repomanager.Notifications(tx).Create(ctx, &models.Notification{
		UserID:  userID,
		Type:    kind,
		Message: message,
		Link:    "/dashboard",
	})
}
