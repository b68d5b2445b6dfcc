package tradein

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ecomart/ecomart/internal/model"
)

// MinPoints is the floor for a completed trade-in regardless of item value.
const MinPoints = 50

const lastStep = 4

var (
	ErrStepBounds        = errors.New("tradein: no step in that direction")
	ErrCategoryRequired  = errors.New("tradein: select a category first")
	ErrItemRequired      = errors.New("tradein: select an item and a reason first")
	ErrConditionRequired = errors.New("tradein: select a condition first")
	ErrNotAtConfirmation = errors.New("tradein: complete is only allowed from the confirmation step")
	ErrUnknownCategory   = errors.New("tradein: unknown category")
	ErrUnknownItem       = errors.New("tradein: item not in selected category")
	ErrUnknownCondition  = errors.New("tradein: unknown condition")
	ErrUnknownReason     = errors.New("tradein: unknown reason")
)

// Category groups the tradeable items.
type Category struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// Categories returns the fixed trade-in catalog.
func Categories() []Category {
	return []Category{
		{ID: "electronics", Name: "Electronics", Items: []string{"Smartphone", "Laptop", "Tablet", "Smart Watch", "Headphones", "Gaming Console"}},
		{ID: "clothing", Name: "Clothing & Accessories", Items: []string{"Shirts", "Pants", "Shoes", "Bags", "Jewelry", "Watches"}},
		{ID: "home", Name: "Home & Garden", Items: []string{"Furniture", "Appliances", "Tools", "Garden Equipment", "Decor", "Kitchen Items"}},
		{ID: "automotive", Name: "Automotive", Items: []string{"Car Parts", "Tires", "Accessories", "Tools", "Electronics", "Fluids"}},
		{ID: "food", Name: "Food & Grocery", Items: []string{"Canned Goods", "Packaged Foods", "Beverages", "Snacks", "Condiments", "Spices"}},
	}
}

// Condition is a wear tier with its value multiplier.
type Condition struct {
	Value       string  `json:"value"`
	Label       string  `json:"label"`
	Multiplier  float64 `json:"multiplier"`
	Description string  `json:"description"`
}

// Conditions returns the five condition tiers, best first.
func Conditions() []Condition {
	return []Condition{
		{Value: "excellent", Label: "Excellent", Multiplier: 1.0, Description: "Like new, no visible wear"},
		{Value: "good", Label: "Good", Multiplier: 0.8, Description: "Minor signs of use, fully functional"},
		{Value: "fair", Label: "Fair", Multiplier: 0.6, Description: "Noticeable wear, works properly"},
		{Value: "poor", Label: "Poor", Multiplier: 0.4, Description: "Heavy wear or minor issues"},
		{Value: "broken", Label: "Broken/Parts", Multiplier: 0.2, Description: "Not working, for parts only"},
	}
}

// Reasons returns the accepted trade-in reasons.
func Reasons() []string {
	return []string{
		"Upgrading to newer model",
		"No longer needed",
		"Duplicate item",
		"Wrong size/fit",
		"Damaged/broken",
		"Expired/near expiry",
		"Environmental responsibility",
		"Space constraints",
		"Other",
	}
}

// baseValues is the fixed dollar table per category and item.
var baseValues = map[string]map[string]int{
	"electronics": {"Smartphone": 200, "Laptop": 300, "Tablet": 150, "Smart Watch": 100, "Headphones": 50, "Gaming Console": 250},
	"clothing":    {"Shirts": 15, "Pants": 20, "Shoes": 30, "Bags": 40, "Jewelry": 50, "Watches": 80},
	"home":        {"Furniture": 100, "Appliances": 150, "Tools": 40, "Garden Equipment": 60, "Decor": 25, "Kitchen Items": 30},
	"automotive":  {"Car Parts": 80, "Tires": 120, "Accessories": 30, "Tools": 50, "Electronics": 70, "Fluids": 10},
	"food":        {"Canned Goods": 2, "Packaged Foods": 3, "Beverages": 1, "Snacks": 2, "Condiments": 1, "Spices": 2},
}

func conditionMultiplier(condition string) (float64, bool) {
	for _, c := range Conditions() {
		if c.Value == condition {
			return c.Multiplier, true
		}
	}
	return 0, false
}

// Estimate values an item: round(base × condition multiplier).
func Estimate(category, item, condition string) (int, error) {
	items, ok := baseValues[category]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	base, ok := items[item]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownItem, item)
	}
	mult, ok := conditionMultiplier(condition)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCondition, condition)
	}
	return int(math.Round(float64(base) * mult)), nil
}

// Points converts an estimated value to the trade-in award, with the
// MinPoints floor.
func Points(estimatedValue int) int {
	if p := estimatedValue * 2; p > MinPoints {
		return p
	}
	return MinPoints
}

// Wizard is one trade-in session: four steps with required-field gates.
type Wizard struct {
	step        int
	category    string
	item        string
	reason      string
	condition   string
	description string
}

func NewWizard() *Wizard {
	return &Wizard{step: 1}
}

// Step returns the current step, 1 through 4.
func (w *Wizard) Step() int {
	return w.step
}

// Next advances one step if the current step's required fields are set.
func (w *Wizard) Next() error {
	switch w.step {
	case 1:
		if w.category == "" {
			return ErrCategoryRequired
		}
	case 2:
		if w.item == "" || w.reason == "" {
			return ErrItemRequired
		}
	case 3:
		if w.condition == "" {
			return ErrConditionRequired
		}
	default:
		return ErrStepBounds
	}
	w.step++
	return nil
}

// Back moves one step back.
func (w *Wizard) Back() error {
	if w.step <= 1 {
		return ErrStepBounds
	}
	w.step--
	return nil
}

// SetCategory selects a category. Changing category clears any previously
// selected item, since items belong to a category.
func (w *Wizard) SetCategory(id string) error {
	if _, ok := baseValues[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, id)
	}
	if w.category != id {
		w.item = ""
	}
	w.category = id
	return nil
}

// SetItem selects an item within the chosen category.
func (w *Wizard) SetItem(item string) error {
	if w.category == "" {
		return ErrCategoryRequired
	}
	if _, ok := baseValues[w.category][item]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownItem, item)
	}
	w.item = item
	return nil
}

// SetReason records why the item is being traded in.
func (w *Wizard) SetReason(reason string) error {
	for _, r := range Reasons() {
		if r == reason {
			w.reason = reason
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownReason, reason)
}

// SetCondition selects the wear tier.
func (w *Wizard) SetCondition(condition string) error {
	if _, ok := conditionMultiplier(condition); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCondition, condition)
	}
	w.condition = condition
	return nil
}

// SetDescription records the optional free-text condition notes.
func (w *Wizard) SetDescription(description string) {
	w.description = description
}

// EstimatedValue returns the current valuation, or 0 while category, item,
// or condition are still unset.
func (w *Wizard) EstimatedValue() int {
	if w.category == "" || w.item == "" || w.condition == "" {
		return 0
	}
	v, err := Estimate(w.category, w.item, w.condition)
	if err != nil {
		return 0
	}
	return v
}

// Complete finalizes the trade-in from the confirmation step, producing
// the record and the points to award.
func (w *Wizard) Complete(now time.Time) (model.TradeIn, int, error) {
	if w.step != lastStep {
		return model.TradeIn{}, 0, ErrNotAtConfirmation
	}
	value := w.EstimatedValue()
	points := Points(value)
	record := model.TradeIn{
		Category:       w.category,
		Item:           w.item,
		Reason:         w.reason,
		Condition:      w.condition,
		Description:    w.description,
		EstimatedValue: value,
		PointsAwarded:  points,
		CreatedAt:      now.UTC(),
	}
	return record, points, nil
}
