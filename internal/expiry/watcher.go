package expiry

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/ecomart/ecomart/internal/model"
	"github.com/ecomart/ecomart/internal/notify"
)

const (
	defaultScanInterval = 30 * time.Second
	defaultTipInterval  = 120 * time.Second

	// notifyChance damps per-item expiry reminders so a tick does not
	// flood the feed.
	notifyChance = 0.4
	tipChance    = 0.3
)

// Sampler is the randomness source for the watcher. Injecting it lets
// tests force every gate open or closed and pin template selection.
type Sampler interface {
	// Gate reports true with probability p.
	Gate(p float64) bool
	// Pick returns a uniform index in [0, n).
	Pick(n int) int
}

type randSampler struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandSampler returns a Sampler backed by math/rand with the given seed.
func NewRandSampler(seed int64) Sampler {
	return &randSampler{r: rand.New(rand.NewSource(seed))}
}

func (s *randSampler) Gate(p float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64() < p
}

func (s *randSampler) Pick(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

// Watcher periodically scans the expiring-item list and surfaces
// food-waste notifications, plus a slower broadcast of general eco tips.
type Watcher struct {
	mu           sync.RWMutex
	center       *notify.Center
	items        func() []model.ExpiringItem
	sampler      Sampler
	scanInterval time.Duration
	tipInterval  time.Duration
	logger       *slog.Logger
	cancel       context.CancelFunc
	done         chan struct{}
}

// NewWatcher creates an expiry watcher. items is read on every scan and is
// never mutated.
func NewWatcher(center *notify.Center, items func() []model.ExpiringItem, sampler Sampler, logger *slog.Logger) *Watcher {
	return &Watcher{
		center:       center,
		items:        items,
		sampler:      sampler,
		scanInterval: defaultScanInterval,
		tipInterval:  defaultTipInterval,
		logger:       logger,
	}
}

// Start begins the watcher loop.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.mu.Unlock()

	go func() {
		defer close(w.done)
		scan := time.NewTicker(w.scanInterval)
		defer scan.Stop()
		tips := time.NewTicker(w.tipInterval)
		defer tips.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-scan.C:
				w.tickScan()
			case <-tips.C:
				w.tickTips()
			}
		}
	}()
}

// Stop gracefully stops the watcher. After Stop returns, no further ticks
// fire.
func (w *Watcher) Stop() {
	w.mu.RLock()
	cancel := w.cancel
	done := w.done
	w.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// tickScan samples each tracked item independently and emits at most one
// notification per item per tick.
func (w *Watcher) tickScan() {
	for _, item := range w.items() {
		if !w.sampler.Gate(notifyChance) {
			continue
		}
		switch {
		case item.ExpiresIn <= 1:
			w.notifyUrgent(item)
		case item.ExpiresIn <= 3:
			w.notifyEco(item)
		}
	}
}

func (w *Watcher) notifyUrgent(item model.ExpiringItem) {
	itemID := item.ID
	w.center.Push(model.Notification{
		Type:    model.NotifTypeUrgent,
		Title:   fmt.Sprintf("⚠️ %s expires today!", item.Name),
		Message: "Use immediately, get recipes, or learn about safe disposal options.",
		Unread:  true,
		Action:  model.ActionUrgent,
		ItemID:  &itemID,
	})
	w.center.ShowToast(model.Toast{
		Type:    model.ToastWarning,
		Title:   fmt.Sprintf("%s expires today! ⏰", item.Name),
		Message: "Tap for immediate action options",
	})
	w.logger.Debug("urgent expiry notification", "item", item.Name, "expires_in", item.ExpiresIn)
}

func (w *Watcher) notifyEco(item model.ExpiringItem) {
	itemID := item.ID
	msg := ecoMessage(item, w.sampler.Pick(ecoMessageCount))
	w.center.Push(model.Notification{
		Type:    model.NotifTypeEco,
		Title:   fmt.Sprintf("🌱 Eco-Reminder: %s", item.Name),
		Message: msg,
		Unread:  true,
		Action:  model.ActionEco,
		ItemID:  &itemID,
	})
	w.logger.Debug("eco expiry notification", "item", item.Name, "expires_in", item.ExpiresIn)
}

const ecoMessageCount = 3

// ecoMessage renders the idx-th reminder template for an item.
func ecoMessage(item model.ExpiringItem, idx int) string {
	switch idx {
	case 0:
		suggestion := "a delicious recipe"
		if item.Category == "fruits" {
			suggestion = "smoothies or fruit salad"
		}
		return fmt.Sprintf("Consider making %s with your %s", suggestion, item.Name)
	case 1:
		return fmt.Sprintf("Your %s can be composted if unused - earn Green Points for eco-disposal!", item.Name)
	default:
		return fmt.Sprintf("Trade in your %s packaging for recycling credits when done", item.Name)
	}
}

// ecoTips is the fixed broadcast catalog.
var ecoTips = []model.Notification{
	{
		Type:    model.NotifTypeEco,
		Title:   "🌱 Daily Eco Tip",
		Message: "Did you know? Composting food scraps can reduce household waste by up to 30%!",
		Action:  "learn-more",
	},
	{
		Type:    model.NotifTypeTradeIn,
		Title:   "♻️ Packaging Reminder",
		Message: "Don't forget to trade in your empty containers for Green Points and recycling credits!",
		Action:  model.ActionTradeIn,
	},
	{
		Type:    model.NotifTypeRecipe,
		Title:   "👨‍🍳 Reduce Food Waste",
		Message: "Transform your leftovers into new meals! Check our recipe suggestions.",
		Action:  model.ActionRecipe,
	},
	{
		Type:    model.NotifTypeEco,
		Title:   "🌍 Sustainability Goal",
		Message: "You're 3 eco-purchases away from your monthly sustainability goal!",
		Action:  "view-goals",
	},
}

// tickTips occasionally broadcasts one randomly chosen eco tip.
func (w *Watcher) tickTips() {
	if !w.sampler.Gate(tipChance) {
		return
	}
	tip := ecoTips[w.sampler.Pick(len(ecoTips))]
	tip.Unread = true
	w.center.Push(tip)
	w.center.ShowToast(model.Toast{
		Type:    model.ToastInfo,
		Title:   tip.Title,
		Message: tip.Message,
	})
	w.logger.Debug("eco tip broadcast", "title", tip.Title)
}
