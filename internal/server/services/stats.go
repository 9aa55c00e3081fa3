package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/vkazmin/bountyboard/internal/dbx"
	"github.com/vkazmin/bountyboard/internal/server/models"
	"github.com/vkazmin/bountyboard/internal/server/repositories/repomanager"
)

// submitDelta is the stats adjustment for a newly filed report.
func submitDelta() models.StatsDelta {
	return models.StatsDelta{TotalReports: 1, PendingReports: 1}
}

// transitionDelta is the stats adjustment for moving a report out of Pending.
// Only approvals move money: the paid total grows by the absolute reward.
func transitionDelta(to models.Status, reward *float64) models.StatsDelta {
	d := models.StatsDelta{PendingReports: -1}
	switch {
	case to == models.StatusApproved:
		d.ApprovedReports = 1
		if reward != nil {
			d.BountiesPaid = math.Abs(*reward)
		}
	case to.Rejected():
		d.RejectedReports = 1
	}
	return d
}

// removalDelta reverses a report's full contribution to its program's stats,
// whatever state the report died in.
func removalDelta(status models.Status, reward *float64) models.StatsDelta {
	d := models.StatsDelta{TotalReports: -1}
	switch {
	case status == models.StatusPending:
		d.PendingReports = -1
	case status == models.StatusApproved:
		d.ApprovedReports = -1
		if reward != nil {
			d.BountiesPaid = -math.Abs(*reward)
		}
	case status.Rejected():
		d.RejectedReports = -1
	}
	return d
}

// StatsService owns the repair path for program statistics: a full recompute
// from the submissions table that converges to the same state no matter how
// the counters drifted.
type StatsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	txOpts      *sql.TxOptions
}

func NewStatsService(db *sql.DB, m repomanager.RepositoryManager) *StatsService {
	return &StatsService{db: db, repomanager: m, txOpts: dbx.Serializable()}
}

// Recalculate zeroes every program's counters and rebuilds them from the
// submissions table in one transaction. Programs without submissions stay at
// zero. Returns the number of programs that received recomputed stats.
func (s *StatsService) Recalculate(ctx context.Context) (int, error) {
	var updated int
	err := dbx.WithTx(ctx, s.db, s.txOpts, func(ctx context.Context, tx dbx.DBTX) error {
		programRepo := s.repomanager.Programs(tx)
		if err := programRepo.ResetAllStats(ctx); err != nil {
			return fmt.Errorf("resetting stats: %w", err)
		}

		aggregates, err := s.repomanager.Submissions(tx).AggregateByProgram(ctx)
		if err != nil {
			return fmt.Errorf("aggregating submissions: %w", err)
		}

		for _, agg := range aggregates {
			if err := programRepo.SetStats(ctx, agg.ProgramID, agg.Stats); err != nil {
				return fmt.Errorf("storing stats for program %d: %w", agg.ProgramID, err)
			}
		}
		updated = len(aggregates)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
