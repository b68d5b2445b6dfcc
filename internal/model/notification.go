package model

import "time"

// Notification types.
const (
	NotifTypeExpiry      = "expiry"
	NotifTypeEco         = "eco"
	NotifTypeRecipe      = "recipe"
	NotifTypeTradeIn     = "trade-in"
	NotifTypeAchievement = "achievement"
	NotifTypeUrgent      = "urgent"
)

// Notification actions. Dispatching an action maps it to a view command
// and marks the notification read.
const (
	ActionExpiry  = "expiry-action"
	ActionUrgent  = "urgent-action"
	ActionRecipe  = "recipe-suggestion"
	ActionEco     = "eco-disposal"
	ActionTradeIn = "trade-in"
	ActionBadge   = "view-badge"
)

// Notification is an entry in the feed. The feed keeps at most the 10 most
// recent entries.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Date      string    `json:"date"`
	Unread    bool      `json:"unread"`
	Action    string    `json:"action,omitempty"`
	ItemID    *int64    `json:"item_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Toast severity levels.
const (
	ToastSuccess = "success"
	ToastInfo    = "info"
	ToastWarning = "warning"
	ToastError   = "error"
)

// Toast is the single ephemeral banner. At most one is live at a time; it
// auto-expires after a fixed duration.
type Toast struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
