package model

// Product is a catalog entry. SustainabilityScore is a 0-100 rating and is
// optional; products without one do not count toward cart averages.
type Product struct {
	ID                  int64    `json:"id"`
	Name                string   `json:"name"`
	Price               float64  `json:"price"`
	Category            string   `json:"category"`
	SustainabilityScore *int     `json:"sustainability_score,omitempty"`
	Certifications      []string `json:"certifications,omitempty"`
}

// RecyclingCategory is one of the fixed categories the image classifier
// can assign to an uploaded item, with the points confirming it awards.
type RecyclingCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// Classification is the result of the simulated image analysis.
type Classification struct {
	Category   RecyclingCategory `json:"category"`
	Confidence int               `json:"confidence"`
}
