package model

import "time"

// User is a verified shopper. ID is a generated UUID.
type User struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	JoinDate time.Time `json:"join_date"`
}

// Session is a cookie-backed login session.
type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// OTPCode is a pending phone verification code. Only a bcrypt hash of the
// code is stored.
type OTPCode struct {
	ID        int64      `json:"id"`
	Phone     string     `json:"phone"`
	CodeHash  string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
	Attempts  int        `json:"attempts"`
	CreatedAt time.Time  `json:"created_at"`
}
