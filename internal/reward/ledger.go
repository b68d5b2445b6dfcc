package reward

import (
	"errors"

	"github.com/ecomart/ecomart/internal/model"
)

// ErrInvalidPoints is returned for award amounts that are not positive.
// Invalid amounts fail fast instead of being clamped so the balance can
// never be corrupted.
var ErrInvalidPoints = errors.New("reward: points must be a positive amount")

// Hooks receive ledger events. Nil hooks are skipped. The ledger stays
// headless: it never talks to toasts, modals, or the hub directly.
type Hooks struct {
	// OnCoin fires once per points award, carrying the amount awarded.
	OnCoin func(points int)
	// OnBadge fires the first time a badge is earned.
	OnBadge func(badge model.Badge)
	// OnGoalCompleted fires once when a goal's progress reaches its target.
	OnGoalCompleted func(goal model.Goal)
}

// Ledger tracks the green points balance, the badge catalog, and the
// sustainability goals. The balance only ever increases. Ledger is not safe
// for concurrent use; the engine serializes access.
type Ledger struct {
	balance    int
	badges     []model.Badge
	goals      []model.Goal
	goalBadges map[int64]string
	hooks      Hooks
}

// NewLedger builds a ledger with the given starting balance and catalogs.
// goalBadges maps a goal id to the badge unlocked when that goal completes.
func NewLedger(balance int, badges []model.Badge, goals []model.Goal, goalBadges map[int64]string, hooks Hooks) *Ledger {
	if goalBadges == nil {
		goalBadges = map[int64]string{}
	}
	return &Ledger{
		balance:    balance,
		badges:     badges,
		goals:      goals,
		goalBadges: goalBadges,
		hooks:      hooks,
	}
}

// DefaultBadges returns the fixed badge catalog.
func DefaultBadges() []model.Badge {
	return []model.Badge{
		{ID: 1, Name: "Eco Warrior", Description: "Made 10 sustainable purchases", Earned: true, Icon: "🌱"},
		{ID: 2, Name: "Waste Reducer", Description: "Prevented 5kg of food waste", Earned: true, Icon: "♻️"},
		{ID: 3, Name: "Green Shopper", Description: "100% sustainable purchases this month", Earned: false, Icon: "🛒"},
		{ID: 4, Name: "Planet Protector", Description: "Saved 50kg CO₂ emissions", Earned: false, Icon: "🌍"},
	}
}

// Well-known goal ids from the default catalog.
const (
	GoalShoppingStreak  int64 = 2
	GoalTradeInChampion int64 = 3
)

// DefaultGoals returns the starting sustainability goals. Only the shopping
// streak advances automatically on awards; the trade-in goal is advanced
// explicitly by trade-in completions.
func DefaultGoals() []model.Goal {
	return []model.Goal{
		{ID: 1, Title: "Zero Food Waste Week", Progress: 60, Target: 100, Reward: 100},
		{ID: 2, Title: "Sustainable Shopping Streak", Progress: 7, Target: 14, Reward: 150, Increment: 1},
		{ID: 3, Title: "Trade-in Champion", Progress: 2, Target: 5, Reward: 200},
	}
}

// DefaultGoalBadges maps goal completions to badge unlocks.
func DefaultGoalBadges() map[int64]string {
	return map[int64]string{
		2: "Green Shopper",
	}
}

// Award adds points to the balance, emits a coin event, and advances every
// goal that carries an increment rule. Non-positive amounts are rejected.
func (l *Ledger) Award(points int) error {
	if points <= 0 {
		return ErrInvalidPoints
	}
	l.balance += points
	if l.hooks.OnCoin != nil {
		l.hooks.OnCoin(points)
	}
	l.evaluateGoals()
	return nil
}

func (l *Ledger) evaluateGoals() {
	for i := range l.goals {
		if l.goals[i].Increment > 0 {
			l.advance(i, l.goals[i].Increment)
		}
	}
}

// AdvanceGoal moves a goal forward by the given amount, capped at its
// target. Advancing an unknown goal is a no-op.
func (l *Ledger) AdvanceGoal(goalID int64, by int) {
	if by <= 0 {
		return
	}
	for i := range l.goals {
		if l.goals[i].ID == goalID {
			l.advance(i, by)
			return
		}
	}
}

// advance applies progress and, on first reaching the target, pays the
// goal's reward and unlocks the mapped badge. The reward is added to the
// balance directly rather than through Award, so a completion can never
// re-trigger goal evaluation.
func (l *Ledger) advance(i, by int) {
	g := &l.goals[i]
	if g.Progress+by >= g.Target {
		g.Progress = g.Target
	} else {
		g.Progress += by
	}
	if g.Progress == g.Target && !g.Completed {
		g.Completed = true
		l.balance += g.Reward
		if l.hooks.OnCoin != nil {
			l.hooks.OnCoin(g.Reward)
		}
		if name, ok := l.goalBadges[g.ID]; ok {
			l.EarnBadge(name)
		}
		if l.hooks.OnGoalCompleted != nil {
			l.hooks.OnGoalCompleted(*g)
		}
	}
}

// EarnBadge marks the named badge earned and reports whether it was newly
// earned. Earning an already-earned or unknown badge is a no-op.
func (l *Ledger) EarnBadge(name string) bool {
	for i := range l.badges {
		if l.badges[i].Name == name {
			if l.badges[i].Earned {
				return false
			}
			l.badges[i].Earned = true
			if l.hooks.OnBadge != nil {
				l.hooks.OnBadge(l.badges[i])
			}
			return true
		}
	}
	return false
}

// Balance returns the current green points balance.
func (l *Ledger) Balance() int {
	return l.balance
}

// State returns a snapshot of the ledger.
func (l *Ledger) State() model.RewardState {
	badges := make([]model.Badge, len(l.badges))
	copy(badges, l.badges)
	goals := make([]model.Goal, len(l.goals))
	copy(goals, l.goals)
	return model.RewardState{
		GreenPoints: l.balance,
		Badges:      badges,
		Goals:       goals,
	}
}
