package httpapi

import (
	"github.com/vkazmin/bountyboard/internal/server/models"
)

// Wire representations. Service models carry fields the API must not expose
// (password hashes) or exposes under different names, so responses are mapped
// explicitly.

type userResponse struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	FirstName      string  `json:"first_name,omitempty"`
	LastName       string  `json:"last_name,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	Telegram       string  `json:"telegram,omitempty"`
	X              string  `json:"x,omitempty"`
	Linkedin       string  `json:"linkedin,omitempty"`
	PaymentMethod  string  `json:"payment_method,omitempty"`
	ProfilePicURL  string  `json:"profile_pic_url,omitempty"`
	About          string  `json:"about,omitempty"`
	AccountAddress string  `json:"account_address,omitempty"`
	TotalReward    float64 `json:"total_reward"`
	WarningCount   int     `json:"warning_count"`
	IsBlocked      bool    `json:"is_blocked"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Role:           string(u.Role),
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Phone:          u.Phone,
		Telegram:       u.Telegram,
		X:              u.X,
		Linkedin:       u.Linkedin,
		PaymentMethod:  u.PaymentMethod,
		ProfilePicURL:  u.ProfilePicURL,
		About:          u.About,
		AccountAddress: u.AccountAddress,
		TotalReward:    u.TotalReward,
		WarningCount:   u.WarningCount,
		IsBlocked:      u.IsBlocked,
	}
}

func toUserResponses(users []*models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

type programStatsResponse struct {
	TotalReports      int64   `json:"total_reports"`
	PendingReports    int64   `json:"pending_reports"`
	ApprovedReports   int64   `json:"approved_reports"`
	RejectedReports   int64   `json:"rejected_reports"`
	TotalBountiesPaid float64 `json:"total_bounties_paid"`
}

type programResponse struct {
	ID             int64                `json:"id"`
	Title          string               `json:"title"`
	Link           string               `json:"link,omitempty"`
	Icon           string               `json:"icon,omitempty"`
	Details        string               `json:"details,omitempty"`
	RewardLow      float64              `json:"reward_low"`
	RewardMedium   float64              `json:"reward_medium"`
	RewardHigh     float64              `json:"reward_high"`
	RewardCritical float64              `json:"reward_critical"`
	OutOfScope     string               `json:"out_of_scope,omitempty"`
	Stats          programStatsResponse `json:"stats"`
}

func toProgramResponse(p *models.Program) programResponse {
	return programResponse{
		ID:             p.ID,
		Title:          p.Title,
		Link:           p.Link,
		Icon:           p.Icon,
		Details:        p.Details,
		RewardLow:      p.RewardLow,
		RewardMedium:   p.RewardMedium,
		RewardHigh:     p.RewardHigh,
		RewardCritical: p.RewardCritical,
		OutOfScope:     p.OutOfScope,
		Stats: programStatsResponse{
			TotalReports:      p.Stats.TotalReports,
			PendingReports:    p.Stats.PendingReports,
			ApprovedReports:   p.Stats.ApprovedReports,
			RejectedReports:   p.Stats.RejectedReports,
			TotalBountiesPaid: p.Stats.TotalBountiesPaid,
		},
	}
}

func toProgramResponses(programs []*models.Program) []programResponse {
	out := make([]programResponse, 0, len(programs))
	for _, p := range programs {
		out = append(out, toProgramResponse(p))
	}
	return out
}

type submissionResponse struct {
	ID             int64    `json:"id"`
	ProgramID      int64    `json:"program_id"`
	UserID         int64    `json:"user_id"`
	Title          string   `json:"title"`
	Endpoint       string   `json:"endpoint"`
	Weakness       string   `json:"weakness,omitempty"`
	SeverityType   string   `json:"severity_type,omitempty"`
	Score          float64  `json:"score"`
	CVSS           string   `json:"cvss,omitempty"`
	Proof          string   `json:"proof"`
	Impact         string   `json:"impact"`
	Recommendation string   `json:"recommendation,omitempty"`
	Files          []string `json:"files,omitempty"`
	Status         string   `json:"status"`
	Reward         *float64 `json:"reward,omitempty"`
}

func toSubmissionResponse(s *models.Submission) submissionResponse {
	return submissionResponse{
		ID:             s.ID,
		ProgramID:      s.ProgramID,
		UserID:         s.UserID,
		Title:          s.Title,
		Endpoint:       s.Endpoint,
		Weakness:       s.Weakness,
		SeverityType:   s.SeverityType,
		Score:          s.Score,
		CVSS:           s.CVSS,
		Proof:          s.Proof,
		Impact:         s.Impact,
		Recommendation: s.Recommendation,
		Files:          s.Files,
		Status:         string(s.Status),
		Reward:         s.Reward,
	}
}

func toSubmissionResponses(subs []*models.Submission) []submissionResponse {
	out := make([]submissionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, toSubmissionResponse(s))
	}
	return out
}

type auditResponse struct {
	ID        int64  `json:"id"`
	ActorID   int64  `json:"actor_id"`
	Action    string `json:"action"`
	TargetID  int64  `json:"target_id,omitempty"`
	Details   string `json:"details,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
}

func toAuditResponses(entries []*models.AuditEntry) []auditResponse {
	out := make([]auditResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditResponse{
			ID:        e.ID,
			ActorID:   e.ActorID,
			Action:    e.Action,
			TargetID:  e.TargetID,
			Details:   e.Details,
			IPAddress: e.IPAddress,
		})
	}
	return out
}

type notificationResponse struct {
	ID      int64  `json:"id"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
	IsRead  bool   `json:"is_read"`
}

func toNotificationResponses(notes []*models.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, notificationResponse{
			ID:      n.ID,
			Type:    n.Type,
			Message: n.Message,
			Link:    n.Link,
			IsRead:  n.IsRead,
		})
	}
	return out
}
