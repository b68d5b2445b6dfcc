package cart

import (
	"errors"

	"github.com/ecomart/ecomart/internal/model"
)

// ErrNegativeQuantity is returned when a caller tries to set a line to a
// negative quantity. Zero is allowed and removes the line.
var ErrNegativeQuantity = errors.New("cart: quantity must not be negative")

// Store holds the cart lines for one shopping session. Lines keep insertion
// order and hold at most one entry per product id. Store is not safe for
// concurrent use; the engine serializes access.
type Store struct {
	lines []model.CartLine
}

func NewStore() *Store {
	return &Store{}
}

// Add inserts a line for the product with quantity 1, or bumps the quantity
// if a line for that product already exists. It always succeeds.
func (s *Store) Add(p model.Product) model.CartLine {
	for i := range s.lines {
		if s.lines[i].ProductID == p.ID {
			s.lines[i].Quantity++
			return s.lines[i]
		}
	}
	line := model.CartLine{
		ProductID:           p.ID,
		Name:                p.Name,
		UnitPrice:           p.Price,
		Quantity:            1,
		SustainabilityScore: p.SustainabilityScore,
	}
	s.lines = append(s.lines, line)
	return line
}

// UpdateQuantity sets the quantity for a product's line. Zero removes the
// line (equivalent to Remove); negative values are rejected. Updating an
// absent line is a no-op.
func (s *Store) UpdateQuantity(productID int64, quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	if quantity == 0 {
		s.Remove(productID)
		return nil
	}
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			return nil
		}
	}
	return nil
}

// Remove deletes the line for the product. Removing an absent line is a
// no-op, not an error. It reports whether a line was removed.
func (s *Store) Remove(productID int64) bool {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every line.
func (s *Store) Clear() {
	s.lines = nil
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	return len(s.lines)
}

// Lines returns a copy of the current lines.
func (s *Store) Lines() []model.CartLine {
	out := make([]model.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Totals derives the aggregate view of the cart. The sustainability average
// is taken over lines that carry a score; it is 0 when none do.
func (s *Store) Totals() model.CartTotals {
	var t model.CartTotals
	var scoreSum, scored int
	for _, l := range s.lines {
		t.TotalItems += l.Quantity
		t.Subtotal += l.UnitPrice * float64(l.Quantity)
		if l.SustainabilityScore != nil {
			scoreSum += *l.SustainabilityScore
			scored++
		}
	}
	if scored > 0 {
		t.AvgSustainability = float64(scoreSum) / float64(scored)
	}
	return t
}
