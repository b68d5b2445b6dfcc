package catalog

import "github.com/ecomart/ecomart/internal/model"

func score(v int) *int { return &v }

// standardProducts is the everyday catalog.
var standardProducts = []model.Product{
	{ID: 1, Name: "Fresh Bananas", Price: 2.99, Category: "fruits", SustainabilityScore: score(60)},
	{ID: 2, Name: "Plastic Water Bottle", Price: 1.99, Category: "beverages", SustainabilityScore: score(25)},
	{ID: 3, Name: "Greek Yogurt", Price: 4.49, Category: "dairy", SustainabilityScore: score(55)},
	{ID: 4, Name: "Plastic Toothbrush", Price: 3.99, Category: "personal-care", SustainabilityScore: score(30)},
	{ID: 5, Name: "White Bread", Price: 2.99, Category: "bakery", SustainabilityScore: score(45)},
	{ID: 6, Name: "All-Purpose Cleaner", Price: 4.99, Category: "household", SustainabilityScore: score(35)},
	{ID: 7, Name: "Cotton T-Shirt", Price: 15.99, Category: "clothing", SustainabilityScore: score(50)},
	{ID: 8, Name: "Red Apples", Price: 3.49, Category: "fruits", SustainabilityScore: score(65)},
}

// sustainableProducts is the eco-certified variant of the same catalog.
var sustainableProducts = []model.Product{
	{ID: 1, Name: "Organic Bananas (BPA-Free Packaging)", Price: 3.99, Category: "fruits", SustainabilityScore: score(95), Certifications: []string{"Organic", "BPA-Free"}},
	{ID: 2, Name: "Stainless Steel Water Bottle (BPA-Free)", Price: 24.99, Category: "beverages", SustainabilityScore: score(98), Certifications: []string{"BPA-Free"}},
	{ID: 3, Name: "Organic Greek Yogurt (Glass Container)", Price: 5.99, Category: "dairy", SustainabilityScore: score(88), Certifications: []string{"Organic"}},
	{ID: 4, Name: "Bamboo Toothbrush Set (Biodegradable)", Price: 12.99, Category: "personal-care", SustainabilityScore: score(96), Certifications: []string{"Biodegradable"}},
	{ID: 5, Name: "Organic Whole Grain Bread (Compostable Wrap)", Price: 4.99, Category: "bakery", SustainabilityScore: score(85), Certifications: []string{"Organic", "Compostable"}},
	{ID: 6, Name: "Eco-Friendly Cleaning Spray (Refillable)", Price: 8.99, Category: "household", SustainabilityScore: score(94), Certifications: []string{"Refillable"}},
	{ID: 7, Name: "Organic Cotton T-Shirt (Fair Trade)", Price: 24.99, Category: "clothing", SustainabilityScore: score(92), Certifications: []string{"Organic", "Fair Trade"}},
	{ID: 8, Name: "Organic Apples (Local Farm)", Price: 4.99, Category: "fruits", SustainabilityScore: score(93), Certifications: []string{"Organic", "Local"}},
}

// Products returns the catalog for the requested shopping mode.
func Products(sustainable bool) []model.Product {
	src := standardProducts
	if sustainable {
		src = sustainableProducts
	}
	out := make([]model.Product, len(src))
	copy(out, src)
	return out
}

// ProductByID looks up a product in the given mode's catalog. Returns nil
// when the id is unknown.
func ProductByID(id int64, sustainable bool) *model.Product {
	for _, p := range Products(sustainable) {
		if p.ID == id {
			return &p
		}
	}
	return nil
}

// DefaultExpiringItems is the perishables list the expiry watcher tracks.
func DefaultExpiringItems() []model.ExpiringItem {
	return []model.ExpiringItem{
		{ID: 1, Name: "Organic Bananas", Category: "fruits", ExpiresIn: 2},
		{ID: 2, Name: "Greek Yogurt", Category: "dairy", ExpiresIn: 1},
		{ID: 3, Name: "Whole Grain Bread", Category: "bakery", ExpiresIn: 3},
	}
}
