package models

import "time"

// Status is a submission's lifecycle state. Pending is the only initial state;
// the other three are terminal. Every transition out of Pending is applied by
// the lifecycle engine, never by ad-hoc updates.
type Status string

const (
	StatusPending          Status = "Pending"
	StatusApproved         Status = "Approved"
	StatusRejected         Status = "Rejected"
	StatusRejectedNoStrike Status = "RejectedNoStrike"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusRejectedNoStrike:
		return true
	}
	return false
}

// Terminal reports whether no further status transitions are allowed.
func (s Status) Terminal() bool {
	return s.Valid() && s != StatusPending
}

// Rejected reports whether the status counts toward a program's rejected total.
func (s Status) Rejected() bool {
	return s == StatusRejected || s == StatusRejectedNoStrike
}

// Submission is a vulnerability report filed by one user against one program.
// Reward is set only on approval and stays nil otherwise.
type Submission struct {
	ID             int64
	ProgramID      int64
	UserID         int64
	Title          string
	Endpoint       string
	Weakness       string
	SeverityType   string
	Score          float64
	CVSS           string
	Proof          string
	Impact         string
	Recommendation string
	Files          []string
	Status         Status
	Reward         *float64
	CreatedAt      time.Time
}
