package models

import "time"

// ProgramStats are the derived per-program counters. Their sole writer is the
// lifecycle engine (incremental deltas) and the recompute repair path; the
// invariant TotalReports == Pending + Approved + Rejected holds after every
// engine operation.
type ProgramStats struct {
	TotalReports      int64
	PendingReports    int64
	ApprovedReports   int64
	RejectedReports   int64
	TotalBountiesPaid float64
}

// StatsDelta is an incremental adjustment to ProgramStats, applied inside the
// same transaction as the submission mutation that causes it.
type StatsDelta struct {
	TotalReports    int64
	PendingReports  int64
	ApprovedReports int64
	RejectedReports int64
	BountiesPaid    float64
}

func (d StatsDelta) IsZero() bool {
	return d == StatsDelta{}
}

// Program is a bounty program definition with severity payout tiers and the
// derived report statistics.
type Program struct {
	ID             int64
	Title          string
	Link           string
	Icon           string
	Details        string
	RewardLow      float64
	RewardMedium   float64
	RewardHigh     float64
	RewardCritical float64
	OutOfScope     string
	Stats          ProgramStats
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProgramAggregate pairs a program with stats recomputed from its submissions.
type ProgramAggregate struct {
	ProgramID int64
	Stats     ProgramStats
}
