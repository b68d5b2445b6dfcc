package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/ecomart/ecomart/internal/model"
)

const classifyDelay = 2 * time.Second

// recyclingCategories is the fixed set the classifier can assign, each with
// the points confirming it awards.
var recyclingCategories = []model.RecyclingCategory{
	{ID: "packaging", Name: "Packaging Material", Description: "Cardboard, plastic containers, bubble wrap", Points: 10},
	{ID: "clothing", Name: "Clothing & Textiles", Description: "Shirts, pants, shoes, fabric items", Points: 15},
	{ID: "electronics", Name: "Electronics", Description: "Phones, laptops, cables, batteries", Points: 25},
	{ID: "kitchen", Name: "Kitchen Items", Description: "Utensils, containers, small appliances", Points: 12},
	{ID: "household", Name: "Household Items", Description: "Light bulbs, decorations, tools", Points: 8},
	{ID: "mixed", Name: "Mixed Materials", Description: "Multiple materials or unclear category", Points: 5},
}

// RecyclingCategories returns the classifier's category catalog.
func RecyclingCategories() []model.RecyclingCategory {
	out := make([]model.RecyclingCategory, len(recyclingCategories))
	copy(out, recyclingCategories)
	return out
}

// RecyclingCategoryByID finds a category, or nil when unknown.
func RecyclingCategoryByID(id string) *model.RecyclingCategory {
	for _, c := range recyclingCategories {
		if c.ID == id {
			return &c
		}
	}
	return nil
}

// Sampler is the randomness source for the classifier stub.
type Sampler interface {
	Pick(n int) int
}

// Classifier is the simulated image-analysis service: after a fixed delay
// it assigns a uniformly random category with 80-99% confidence. No image
// bytes are ever inspected.
type Classifier struct {
	sampler Sampler
	delay   time.Duration
	sleep   func(ctx context.Context, d time.Duration)
	logger  *slog.Logger
}

func NewClassifier(sampler Sampler, logger *slog.Logger) *Classifier {
	return &Classifier{
		sampler: sampler,
		delay:   classifyDelay,
		sleep:   sleepCtx,
		logger:  logger,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Classify runs the simulated analysis.
func (c *Classifier) Classify(ctx context.Context) (model.Classification, error) {
	c.sleep(ctx, c.delay)
	if err := ctx.Err(); err != nil {
		return model.Classification{}, err
	}

	category := recyclingCategories[c.sampler.Pick(len(recyclingCategories))]
	confidence := 80 + c.sampler.Pick(20)
	c.logger.Debug("image classified", "category", category.ID, "confidence", confidence)
	return model.Classification{Category: category, Confidence: confidence}, nil
}
