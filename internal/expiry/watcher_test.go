package expiry

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ecomart/ecomart/internal/model"
	"github.com/ecomart/ecomart/internal/notify"
)

// fixedSampler forces every gate to one outcome and every pick to one index.
type fixedSampler struct {
	pass bool
	pick int
}

func (s fixedSampler) Gate(float64) bool { return s.pass }
func (s fixedSampler) Pick(int) int      { return s.pick }

func noopTimer(time.Duration, func()) func() { return func() {} }

func staticItems(items ...model.ExpiringItem) func() []model.ExpiringItem {
	return func() []model.ExpiringItem { return items }
}

func newTestWatcher(sampler Sampler, items func() []model.ExpiringItem) (*Watcher, *notify.Center) {
	center := notify.NewCenter(noopTimer, notify.Hooks{})
	w := NewWatcher(center, items, sampler, slog.Default())
	return w, center
}

func TestScanUrgentAlwaysPass(t *testing.T) {
	w, center := newTestWatcher(fixedSampler{pass: true}, staticItems(
		model.ExpiringItem{ID: 2, Name: "Greek Yogurt", Category: "dairy", ExpiresIn: 1},
	))

	w.tickScan()

	feed := center.Feed()
	if len(feed) != 1 {
		t.Fatalf("feed length = %d, want exactly 1 per tick", len(feed))
	}
	n := feed[0]
	if n.Type != model.NotifTypeUrgent {
		t.Errorf("type = %q, want urgent", n.Type)
	}
	if n.Title != "⚠️ Greek Yogurt expires today!" {
		t.Errorf("title = %q", n.Title)
	}
	if n.Action != model.ActionUrgent {
		t.Errorf("action = %q, want urgent-action", n.Action)
	}
	if n.ItemID == nil || *n.ItemID != 2 {
		t.Errorf("item id = %v, want 2", n.ItemID)
	}
	toast := center.Toast()
	if toast == nil || toast.Type != model.ToastWarning {
		t.Errorf("toast = %+v, want warning toast", toast)
	}
}

func TestScanAlwaysFailEmitsNothing(t *testing.T) {
	w, center := newTestWatcher(fixedSampler{pass: false}, staticItems(
		model.ExpiringItem{ID: 1, Name: "Bananas", Category: "fruits", ExpiresIn: 1},
		model.ExpiringItem{ID: 2, Name: "Yogurt", Category: "dairy", ExpiresIn: 2},
	))

	for i := 0; i < 5; i++ {
		w.tickScan()
	}

	if got := len(center.Feed()); got != 0 {
		t.Errorf("feed length = %d, want 0 with gate closed", got)
	}
	if center.Toast() != nil {
		t.Error("expected no toast with gate closed")
	}
}

func TestScanEcoWindow(t *testing.T) {
	w, center := newTestWatcher(fixedSampler{pass: true, pick: 1}, staticItems(
		model.ExpiringItem{ID: 3, Name: "Whole Grain Bread", Category: "bakery", ExpiresIn: 3},
	))

	w.tickScan()

	feed := center.Feed()
	if len(feed) != 1 {
		t.Fatalf("feed length = %d, want 1", len(feed))
	}
	n := feed[0]
	if n.Type != model.NotifTypeEco {
		t.Errorf("type = %q, want eco", n.Type)
	}
	if n.Action != model.ActionEco {
		t.Errorf("action = %q, want eco-disposal", n.Action)
	}
	want := "Your Whole Grain Bread can be composted if unused - earn Green Points for eco-disposal!"
	if n.Message != want {
		t.Errorf("message = %q, want template 1", n.Message)
	}
}

func TestScanFreshItemSilent(t *testing.T) {
	w, center := newTestWatcher(fixedSampler{pass: true}, staticItems(
		model.ExpiringItem{ID: 4, Name: "Canned Beans", Category: "pantry", ExpiresIn: 30},
	))

	w.tickScan()

	if got := len(center.Feed()); got != 0 {
		t.Errorf("feed length = %d, want 0 for non-expiring item", got)
	}
}

func TestEcoMessageTemplates(t *testing.T) {
	fruit := model.ExpiringItem{Name: "Organic Bananas", Category: "fruits"}
	dairy := model.ExpiringItem{Name: "Greek Yogurt", Category: "dairy"}

	if got := ecoMessage(fruit, 0); got != "Consider making smoothies or fruit salad with your Organic Bananas" {
		t.Errorf("fruit template 0 = %q", got)
	}
	if got := ecoMessage(dairy, 0); got != "Consider making a delicious recipe with your Greek Yogurt" {
		t.Errorf("dairy template 0 = %q", got)
	}
	if got := ecoMessage(dairy, 2); got != "Trade in your Greek Yogurt packaging for recycling credits when done" {
		t.Errorf("template 2 = %q", got)
	}
}

func TestTipBroadcast(t *testing.T) {
	w, center := newTestWatcher(fixedSampler{pass: true, pick: 2}, staticItems())

	w.tickTips()

	feed := center.Feed()
	if len(feed) != 1 {
		t.Fatalf("feed length = %d, want 1", len(feed))
	}
	if feed[0].Title != "👨‍🍳 Reduce Food Waste" {
		t.Errorf("title = %q, want recipe tip", feed[0].Title)
	}
	if !feed[0].Unread {
		t.Error("expected tip pushed unread")
	}
	toast := center.Toast()
	if toast == nil || toast.Type != model.ToastInfo {
		t.Errorf("toast = %+v, want info toast", toast)
	}
}

func TestTipGateClosed(t *testing.T) {
	w, center := newTestWatcher(fixedSampler{pass: false}, staticItems())

	w.tickTips()

	if got := len(center.Feed()); got != 0 {
		t.Errorf("feed length = %d, want 0", got)
	}
}

func TestStartStop(t *testing.T) {
	w, _ := newTestWatcher(fixedSampler{pass: false}, staticItems())
	w.scanInterval = time.Millisecond
	w.tipInterval = time.Millisecond

	w.Start(context.Background())
	time.Sleep(10 * time.Millisecond)
	w.Stop()

	// Stop must wait for the loop to exit; a second Stop is a no-op.
	w.Stop()
}

func TestRandSamplerBounds(t *testing.T) {
	s := NewRandSampler(1)
	for i := 0; i < 100; i++ {
		if got := s.Pick(4); got < 0 || got > 3 {
			t.Fatalf("Pick(4) = %d, out of range", got)
		}
	}
	if s.Gate(0) {
		t.Error("Gate(0) should never pass")
	}
	if !s.Gate(1) {
		t.Error("Gate(1) should always pass")
	}
}
