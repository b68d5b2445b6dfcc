package model

// Badge is an entry in the fixed badge catalog. Earned flips true at most
// once and is never reset.
type Badge struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
	Icon        string `json:"icon"`
}

// Goal tracks progress toward a sustainability target. Increment is how far
// progress advances per qualifying award event (0 for goals advanced
// explicitly, e.g. by trade-in completion). Completed guards the one-shot
// reward payout.
type Goal struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Progress  int    `json:"progress"`
	Target    int    `json:"target"`
	Reward    int    `json:"reward"`
	Increment int    `json:"-"`
	Completed bool   `json:"completed"`
}

// RewardState is the snapshot the ledger hands to consumers.
type RewardState struct {
	GreenPoints int     `json:"green_points"`
	Badges      []Badge `json:"badges"`
	Goals       []Goal  `json:"goals"`
}
