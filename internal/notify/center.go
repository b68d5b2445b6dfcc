package notify

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ecomart/ecomart/internal/model"
)

const (
	// FeedLimit caps the notification feed; the oldest entries beyond it
	// are evicted.
	FeedLimit = 10
	// ToastDuration is how long a toast stays live before auto-clearing.
	ToastDuration = 4 * time.Second
)

// TimerFunc schedules fn after d and returns a cancel function. The default
// wraps time.AfterFunc; tests inject their own to fire or drop timers
// deterministically.
type TimerFunc func(d time.Duration, fn func()) (cancel func())

// RealTimer is the production TimerFunc.
func RealTimer(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Command is the external view change a dispatched notification action
// asks the rendering consumer to perform.
type Command int

const (
	CommandNone Command = iota
	CommandOpenExpiry
	CommandOpenRecipes
	CommandOpenTradeIn
	CommandOpenBadge
)

func (c Command) String() string {
	switch c {
	case CommandOpenExpiry:
		return "open-expiry"
	case CommandOpenRecipes:
		return "open-recipes"
	case CommandOpenTradeIn:
		return "open-trade-in"
	case CommandOpenBadge:
		return "open-badge"
	default:
		return "none"
	}
}

// Hooks receive center events. Nil hooks are skipped. OnToast receives nil
// when the live toast clears.
type Hooks struct {
	OnPush  func(model.Notification)
	OnToast func(*model.Toast)
}

// Center owns the notification feed and the single live toast. It is safe
// for concurrent use; the expiry watcher pushes from its own goroutine.
type Center struct {
	mu          sync.Mutex
	feed        []model.Notification
	toast       *model.Toast
	toastGen    uint64
	cancelToast func()
	timer       TimerFunc
	hooks       Hooks
	now         func() time.Time
}

// NewCenter builds a Center. A nil timer falls back to RealTimer.
func NewCenter(timer TimerFunc, hooks Hooks) *Center {
	if timer == nil {
		timer = RealTimer
	}
	return &Center{
		timer: timer,
		hooks: hooks,
		now:   time.Now,
	}
}

// Seed loads an initial feed without firing hooks, newest first, truncated
// to the cap.
func (c *Center) Seed(notifications []model.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(notifications) > FeedLimit {
		notifications = notifications[:FeedLimit]
	}
	c.feed = append([]model.Notification(nil), notifications...)
}

// Push prepends a notification to the feed and evicts the oldest entries
// beyond the cap. Missing id, date label, and timestamp are filled in.
func (c *Center) Push(n model.Notification) model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = c.now().UTC()
	}
	if n.Date == "" {
		n.Date = "Now"
	}

	c.feed = append([]model.Notification{n}, c.feed...)
	if len(c.feed) > FeedLimit {
		c.feed = c.feed[:FeedLimit]
	}

	if c.hooks.OnPush != nil {
		c.hooks.OnPush(n)
	}
	return n
}

// MarkRead flips unread off for the matching entry. An absent id is a
// no-op; it reports whether an entry was updated.
func (c *Center) MarkRead(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.feed {
		if c.feed[i].ID == id {
			c.feed[i].Unread = false
			return true
		}
	}
	return false
}

// Dispatch maps a notification's action to a view command and marks the
// entry read. Actions match case-insensitively; unknown or absent actions
// produce CommandNone. The eco-disposal action additionally raises an info
// toast before opening the trade-in view.
func (c *Center) Dispatch(id string) (Command, bool) {
	c.mu.Lock()
	var action string
	found := false
	for i := range c.feed {
		if c.feed[i].ID == id {
			c.feed[i].Unread = false
			action = c.feed[i].Action
			found = true
			break
		}
	}
	c.mu.Unlock()

	if !found {
		return CommandNone, false
	}

	switch strings.ToLower(action) {
	case model.ActionExpiry, model.ActionUrgent:
		return CommandOpenExpiry, true
	case model.ActionRecipe:
		return CommandOpenRecipes, true
	case model.ActionEco:
		c.ShowToast(model.Toast{
			Type:    model.ToastInfo,
			Title:   "Eco-Disposal Guide 🌱",
			Message: "Check our comprehensive guide for sustainable disposal options",
		})
		return CommandOpenTradeIn, true
	case model.ActionTradeIn:
		return CommandOpenTradeIn, true
	case model.ActionBadge:
		return CommandOpenBadge, true
	default:
		return CommandNone, true
	}
}

// ShowToast replaces the live toast and re-arms the auto-clear timer.
// Cancelling the previous timer first keeps an old expiry from wiping a
// newer toast early.
func (c *Center) ShowToast(t model.Toast) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelToast != nil {
		c.cancelToast()
	}
	c.toastGen++
	gen := c.toastGen
	c.toast = &t
	if c.hooks.OnToast != nil {
		c.hooks.OnToast(c.toast)
	}
	c.cancelToast = c.timer(ToastDuration, func() {
		c.clearToast(gen)
	})
}

// Dismiss clears the live toast immediately.
func (c *Center) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelToast != nil {
		c.cancelToast()
		c.cancelToast = nil
	}
	c.toastGen++
	if c.toast != nil {
		c.toast = nil
		if c.hooks.OnToast != nil {
			c.hooks.OnToast(nil)
		}
	}
}

// clearToast is the timer callback. The generation check keeps a stale
// timer that was already in flight from wiping a toast shown after it.
func (c *Center) clearToast(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.toastGen {
		return
	}
	c.cancelToast = nil
	if c.toast != nil {
		c.toast = nil
		if c.hooks.OnToast != nil {
			c.hooks.OnToast(nil)
		}
	}
}

// Feed returns a snapshot of the feed, newest first.
func (c *Center) Feed() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Notification, len(c.feed))
	copy(out, c.feed)
	return out
}

// Toast returns the live toast, or nil.
func (c *Center) Toast() *model.Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.toast == nil {
		return nil
	}
	t := *c.toast
	return &t
}

// UnreadCount returns how many feed entries are unread.
func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, entry := range c.feed {
		if entry.Unread {
			n++
		}
	}
	return n
}
