package tradein

import (
	"testing"
	"time"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		category, item, condition string
		want                      int
	}{
		{"electronics", "Smartphone", "excellent", 200},
		{"electronics", "Smartphone", "broken", 40},
		{"electronics", "Laptop", "good", 240},
		{"home", "Garden Equipment", "fair", 36},
		{"clothing", "Shoes", "poor", 12},
		{"food", "Canned Goods", "broken", 0}, // round(2 × 0.2)
		{"food", "Beverages", "excellent", 1},
	}

	for _, tt := range tests {
		got, err := Estimate(tt.category, tt.item, tt.condition)
		if err != nil {
			t.Fatalf("Estimate(%s, %s, %s): %v", tt.category, tt.item, tt.condition, err)
		}
		if got != tt.want {
			t.Errorf("Estimate(%s, %s, %s) = %d, want %d", tt.category, tt.item, tt.condition, got, tt.want)
		}
	}
}

func TestEstimateUnknowns(t *testing.T) {
	if _, err := Estimate("toys", "Smartphone", "excellent"); err == nil {
		t.Error("expected error for unknown category")
	}
	if _, err := Estimate("electronics", "Toaster", "excellent"); err == nil {
		t.Error("expected error for item outside category")
	}
	if _, err := Estimate("electronics", "Smartphone", "mint"); err == nil {
		t.Error("expected error for unknown condition")
	}
}

func TestPointsFloor(t *testing.T) {
	tests := []struct {
		value, want int
	}{
		{200, 400},
		{30, 60},
		{25, 50},
		{10, 50},
		{0, 50},
	}
	for _, tt := range tests {
		if got := Points(tt.value); got != tt.want {
			t.Errorf("Points(%d) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestStepGates(t *testing.T) {
	w := NewWizard()

	if err := w.Next(); err != ErrCategoryRequired {
		t.Fatalf("Next without category = %v, want ErrCategoryRequired", err)
	}
	if err := w.SetCategory("electronics"); err != nil {
		t.Fatalf("set category: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}

	if err := w.Next(); err != ErrItemRequired {
		t.Fatalf("Next without item/reason = %v, want ErrItemRequired", err)
	}
	if err := w.SetItem("Smartphone"); err != nil {
		t.Fatalf("set item: %v", err)
	}
	if err := w.Next(); err != ErrItemRequired {
		t.Fatalf("Next with item but no reason = %v, want ErrItemRequired", err)
	}
	if err := w.SetReason("Upgrading to newer model"); err != nil {
		t.Fatalf("set reason: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}

	if err := w.Next(); err != ErrConditionRequired {
		t.Fatalf("Next without condition = %v, want ErrConditionRequired", err)
	}
	if err := w.SetCondition("excellent"); err != nil {
		t.Fatalf("set condition: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}

	if w.Step() != 4 {
		t.Errorf("step = %d, want 4", w.Step())
	}
	if err := w.Next(); err != ErrStepBounds {
		t.Errorf("Next past confirmation = %v, want ErrStepBounds", err)
	}

	if err := w.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if w.Step() != 3 {
		t.Errorf("step = %d, want 3 after back", w.Step())
	}
}

func TestBackAtFirstStep(t *testing.T) {
	w := NewWizard()
	if err := w.Back(); err != ErrStepBounds {
		t.Errorf("Back at step 1 = %v, want ErrStepBounds", err)
	}
}

func TestChangingCategoryClearsItem(t *testing.T) {
	w := NewWizard()
	w.SetCategory("electronics")
	w.SetItem("Smartphone")
	w.SetCategory("clothing")

	if err := w.SetItem("Smartphone"); err == nil {
		t.Error("expected Smartphone to be invalid for clothing")
	}
	if got := w.EstimatedValue(); got != 0 {
		t.Errorf("estimated value = %d, want 0 with item cleared", got)
	}
}

func TestCompleteSmartphone(t *testing.T) {
	w := NewWizard()
	w.SetCategory("electronics")
	w.Next()
	w.SetItem("Smartphone")
	w.SetReason("Upgrading to newer model")
	w.Next()
	w.SetCondition("excellent")
	w.SetDescription("barely used")
	w.Next()

	record, points, err := w.Complete(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if record.EstimatedValue != 200 {
		t.Errorf("estimated value = %d, want 200", record.EstimatedValue)
	}
	if points != 400 || record.PointsAwarded != 400 {
		t.Errorf("points = %d/%d, want 400", points, record.PointsAwarded)
	}
	if record.Description != "barely used" {
		t.Errorf("description = %q", record.Description)
	}
}

func TestCompleteFloorApplies(t *testing.T) {
	w := NewWizard()
	w.SetCategory("food")
	w.Next()
	w.SetItem("Canned Goods")
	w.SetReason("Expired/near expiry")
	w.Next()
	w.SetCondition("broken")
	w.Next()

	record, points, err := w.Complete(time.Now())
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if record.EstimatedValue != 0 {
		t.Errorf("estimated value = %d, want 0", record.EstimatedValue)
	}
	if points != 50 {
		t.Errorf("points = %d, want floor of 50", points)
	}
}

func TestCompleteBeforeConfirmation(t *testing.T) {
	w := NewWizard()
	if _, _, err := w.Complete(time.Now()); err != ErrNotAtConfirmation {
		t.Fatalf("complete at step 1 = %v, want ErrNotAtConfirmation", err)
	}
}
