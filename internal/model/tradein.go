package model

import "time"

// TradeIn is the record of a completed trade-in submission.
type TradeIn struct {
	ID             int64     `json:"id"`
	UserID         *string   `json:"user_id,omitempty"`
	Category       string    `json:"category"`
	Item           string    `json:"item"`
	Reason         string    `json:"reason"`
	Condition      string    `json:"condition"`
	Description    string    `json:"description"`
	EstimatedValue int       `json:"estimated_value"`
	PointsAwarded  int       `json:"points_awarded"`
	CreatedAt      time.Time `json:"created_at"`
}
