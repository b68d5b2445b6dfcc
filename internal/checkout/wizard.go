package checkout

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ecomart/ecomart/internal/model"
)

// Pricing policy.
const (
	TaxRate         = 0.08
	ExpressFee      = 9.99
	EcoDiscountRate = 0.05

	// Points awarded on submit.
	EcoDeliveryPoints     = 50
	SustainableCartPoints = 25
	// SustainableCartThreshold is the average sustainability score above
	// which the cart bonus applies.
	SustainableCartThreshold = 70
)

// Step is a checkout wizard step. Transitions move exactly one step at a
// time; submit is only reachable from the payment step.
type Step string

const (
	StepDelivery Step = "delivery"
	StepInfo     Step = "info"
	StepPayment  Step = "payment"
)

var steps = []Step{StepDelivery, StepInfo, StepPayment}

var (
	ErrStepBounds      = errors.New("checkout: no step in that direction")
	ErrNotAtPayment    = errors.New("checkout: submit is only allowed from the payment step")
	ErrInvalidDelivery = errors.New("checkout: unknown delivery option")
)

// Totals is the priced breakdown for a cart subtotal under the selected
// delivery option.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	DeliveryFee float64 `json:"delivery_fee"`
	EcoDiscount float64 `json:"eco_discount"`
	Total       float64 `json:"total"`
}

// Wizard is one checkout session: a three-step linear state machine ending
// in an order snapshot. It holds no cart state of its own.
type Wizard struct {
	step     int
	delivery string
	customer model.CustomerInfo
	payment  model.PaymentInfo
}

func NewWizard() *Wizard {
	return &Wizard{delivery: model.DeliveryStandard, payment: model.PaymentInfo{Method: "card"}}
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	return steps[w.step]
}

// Next advances one step. Advancing past the payment step is rejected.
func (w *Wizard) Next() error {
	if w.step >= len(steps)-1 {
		return ErrStepBounds
	}
	w.step++
	return nil
}

// Back moves one step back. Moving before the delivery step is rejected.
func (w *Wizard) Back() error {
	if w.step == 0 {
		return ErrStepBounds
	}
	w.step--
	return nil
}

// SetDelivery selects the delivery option.
func (w *Wizard) SetDelivery(option string) error {
	switch option {
	case model.DeliveryStandard, model.DeliveryEco, model.DeliveryExpress:
		w.delivery = option
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDelivery, option)
	}
}

// Delivery returns the selected delivery option.
func (w *Wizard) Delivery() string {
	return w.delivery
}

// SetCustomerInfo records the shipping contact.
func (w *Wizard) SetCustomerInfo(info model.CustomerInfo) {
	w.customer = info
}

// SetPaymentInfo records the payment details for this session only.
func (w *Wizard) SetPaymentInfo(info model.PaymentInfo) {
	w.payment = info
}

// Price computes the totals for a subtotal under the current delivery
// option: flat 8% tax, a 9.99 fee for express, a 5% discount for eco.
func (w *Wizard) Price(subtotal float64) Totals {
	t := Totals{
		Subtotal: subtotal,
		Tax:      subtotal * TaxRate,
	}
	switch w.delivery {
	case model.DeliveryExpress:
		t.DeliveryFee = ExpressFee
	case model.DeliveryEco:
		t.EcoDiscount = subtotal * EcoDiscountRate
	}
	t.Total = t.Subtotal + t.Tax + t.DeliveryFee - t.EcoDiscount
	return t
}

// Points returns the green points the order earns: an eco-delivery bonus
// plus a sustainable-cart bonus when the average score clears the
// threshold.
func (w *Wizard) Points(avgSustainability float64) int {
	points := 0
	if w.delivery == model.DeliveryEco {
		points += EcoDeliveryPoints
	}
	if avgSustainability > SustainableCartThreshold {
		points += SustainableCartPoints
	}
	return points
}

// Submit builds the order snapshot from the cart lines. It is only valid
// from the payment step; the caller is responsible for rejecting empty
// carts before the wizard is ever entered.
func (w *Wizard) Submit(lines []model.CartLine, totals model.CartTotals, now time.Time) (model.Order, int, error) {
	if w.Step() != StepPayment {
		return model.Order{}, 0, ErrNotAtPayment
	}

	priced := w.Price(totals.Subtotal)
	order := model.Order{
		Number:       uuid.NewString(),
		Items:        lines,
		Delivery:     w.delivery,
		Payment:      w.payment.Method,
		Subtotal:     round2(priced.Subtotal),
		Tax:          round2(priced.Tax),
		DeliveryFee:  priced.DeliveryFee,
		EcoDiscount:  round2(priced.EcoDiscount),
		Total:        round2(priced.Total),
		CustomerInfo: w.customer,
		CreatedAt:    now.UTC(),
	}
	return order, w.Points(totals.AvgSustainability), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
