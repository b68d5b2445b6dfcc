package model

// ExpiringItem is a perishable the expiry watcher tracks. ExpiresIn is
// whole days until expiry. The watcher reads these, never mutates them.
type ExpiringItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	ExpiresIn int    `json:"expires_in"`
}
