package notify

import (
	"time"

	"github.com/ecomart/ecomart/internal/model"
)

func itemRef(id int64) *int64 { return &id }

// DefaultFeed returns the inbox a fresh session starts with: the demo
// storefront's six stock notifications, newest first.
func DefaultFeed() []model.Notification {
	today := time.Now().UTC()
	yesterday := today.Add(-24 * time.Hour)

	return []model.Notification{
		{
			ID:        "1",
			Type:      model.NotifTypeExpiry,
			Title:     "🍌 Bananas Expiring Soon!",
			Message:   "Your organic bananas expire in 2 days. Get recipe ideas or learn about composting options.",
			Date:      "Today",
			Unread:    true,
			Action:    model.ActionExpiry,
			ItemID:    itemRef(1),
			CreatedAt: today,
		},
		{
			ID:        "2",
			Type:      model.NotifTypeEco,
			Title:     "🌱 Eco-Disposal Reminder",
			Message:   "Your Greek yogurt expires tomorrow. Consider composting the container or returning for recycling credits.",
			Date:      "Today",
			Unread:    true,
			Action:    model.ActionEco,
			ItemID:    itemRef(2),
			CreatedAt: today,
		},
		{
			ID:        "3",
			Type:      model.NotifTypeRecipe,
			Title:     "👨‍🍳 Recipe Suggestion",
			Message:   "Turn your expiring bread into delicious French toast or breadcrumbs!",
			Date:      "Today",
			Unread:    true,
			Action:    model.ActionRecipe,
			ItemID:    itemRef(3),
			CreatedAt: today,
		},
		{
			ID:        "4",
			Type:      model.NotifTypeTradeIn,
			Title:     "♻️ Trade-In Opportunity",
			Message:   "Earn Green Points by trading in your empty containers and packaging!",
			Date:      "Yesterday",
			Unread:    true,
			Action:    model.ActionTradeIn,
			CreatedAt: yesterday,
		},
		{
			ID:        "5",
			Type:      model.NotifTypeAchievement,
			Title:     "🏆 New Eco Badge Earned!",
			Message:   "Congratulations! You've earned the 'Waste Reducer' badge for preventing food waste.",
			Date:      "Yesterday",
			Unread:    false,
			Action:    model.ActionBadge,
			CreatedAt: yesterday,
		},
		{
			ID:        "6",
			Type:      model.NotifTypeUrgent,
			Title:     "⚠️ Urgent: Food Safety Alert",
			Message:   "Your dairy products expire today. Use immediately or dispose of safely.",
			Date:      "Today",
			Unread:    true,
			Action:    model.ActionUrgent,
			CreatedAt: today,
		},
	}
}
