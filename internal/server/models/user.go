package models

import "time"

// User combines login credentials and researcher profile. TotalReward,
// WarningCount and IsBlocked are derived state owned by the lifecycle engine
// (plus explicit admin block/unblock) — profile updates never touch them.
type User struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   string
	Role           Role
	FirstName      string
	LastName       string
	Phone          string
	Telegram       string
	X              string
	Linkedin       string
	PaymentMethod  string
	ProfilePicURL  string
	About          string
	AccountAddress string
	TotalReward    float64
	WarningCount   int
	IsBlocked      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
