package model

// CartLine is a single cart entry. A product id appears at most once per
// cart; Quantity is always >= 1 (setting it to zero removes the line).
type CartLine struct {
	ProductID           int64   `json:"product_id"`
	Name                string  `json:"name"`
	UnitPrice           float64 `json:"unit_price"`
	Quantity            int     `json:"quantity"`
	SustainabilityScore *int    `json:"sustainability_score,omitempty"`
}

// CartTotals are derived from the lines on every read, never stored.
type CartTotals struct {
	TotalItems        int     `json:"total_items"`
	Subtotal          float64 `json:"subtotal"`
	AvgSustainability float64 `json:"avg_sustainability"`
}
