package services

import (
	"context"

	"github.com/vkazmin/bountyboard/internal/server/models"
)

// Read-side queries over submissions. These never mutate state and run
// outside the lifecycle transactions.

// Get returns one submission. Owners and admins may read it; other callers
// get ErrorForbidden from the HTTP layer before this is reached.
func (s *LifecycleService) Get(ctx context.Context, id int64) (*models.Submission, error) {
	return s.repomanager.Submissions(s.db).GetByID(ctx, id)
}

// List returns all submissions, newest first.
func (s *LifecycleService) List(ctx context.Context) ([]*models.Submission, error) {
	return s.repomanager.Submissions(s.db).List(ctx)
}

// ListPending returns the triage queue in arrival order.
func (s *LifecycleService) ListPending(ctx context.Context) ([]*models.Submission, error) {
	return s.repomanager.Submissions(s.db).ListByStatus(ctx, models.StatusPending)
}

// ListResolved returns every report that has left Pending.
func (s *LifecycleService) ListResolved(ctx context.Context) ([]*models.Submission, error) {
	return s.repomanager.Submissions(s.db).ListByStatus(ctx,
		models.StatusApproved, models.StatusRejected, models.StatusRejectedNoStrike)
}

// ListByUser returns one researcher's submission history, newest first.
func (s *LifecycleService) ListByUser(ctx context.Context, userID int64) ([]*models.Submission, error) {
	return s.repomanager.Submissions(s.db).ListByUser(ctx, userID)
}
