package recommendation

import (
	"fmt"
	"sort"
	"time"

	"salesanalytics/internal/model"
)

// State is the aggregate view a rule evaluates against.
type State struct {
	Analytics        model.Analytics
	WindowQuantities map[string]int
	Now              time.Time
	Version          uint64
}

// Candidate is a recommendation a rule wants active. Type and Subject
// together identify its slot.
type Candidate struct {
	Subject     string
	Title       string
	Description string
	Type        string
	Priority    string
	Impact      string
}

func (c Candidate) key() string {
	return c.Type + ":" + c.Subject
}

type Rule interface {
	Name() string
	Evaluate(state State) ([]Candidate, error)
}

// Thresholds tune the built-in rules.
type Thresholds struct {
	TopSharePct   float64
	SurgePct      float64
	LowStockUnits int
}

func DefaultThresholds() Thresholds {
	return Thresholds{TopSharePct: 30, SurgePct: 50, LowStockUnits: 50}
}

// DefaultRules returns the built-in rule set.
func DefaultRules(t Thresholds) []Rule {
	return []Rule{
		TopSellerRule{SharePct: t.TopSharePct},
		BundleRule{},
		RevenueTrendRule{SurgePct: t.SurgePct},
		LowStockRule{Units: t.LowStockUnits},
		SeasonalRule{},
	}
}

// TopSellerRule suggests promoting the best seller once it dominates revenue.
type TopSellerRule struct {
	SharePct float64
}

func (TopSellerRule) Name() string { return "top_seller" }

func (r TopSellerRule) Evaluate(state State) ([]Candidate, error) {
	top := state.Analytics.TopProducts
	if len(top) == 0 || top[0].Percentage <= r.SharePct {
		return nil, nil
	}
	name := top[0].Name
	return []Candidate{{
		Subject:     name,
		Title:       "Promote " + name,
		Description: fmt.Sprintf("%s accounts for more than %.0f%% of total revenue. Consider a flash sale to boost revenue further.", name, r.SharePct),
		Type:        model.RecommendationPromotion,
		Priority:    model.PriorityHigh,
		Impact:      "Expected 25% increase in " + name + " sales",
	}}, nil
}

// BundleRule pairs the two best sellers.
type BundleRule struct{}

func (BundleRule) Name() string { return "bundle" }

func (BundleRule) Evaluate(state State) ([]Candidate, error) {
	top := state.Analytics.TopProducts
	if len(top) < 2 {
		return nil, nil
	}
	// The pair is keyed by name so a rank swap between the two keeps one slot.
	first, second := top[0].Name, top[1].Name
	if second < first {
		first, second = second, first
	}
	return []Candidate{{
		Subject:     first + "+" + second,
		Title:       "Bundle Opportunity",
		Description: "Create a bundle offer combining " + first + " and " + second + " to increase average order value.",
		Type:        model.RecommendationPricing,
		Priority:    model.PriorityMedium,
		Impact:      "Potential 15% increase in average order value",
	}}, nil
}

// RevenueTrendRule reacts to the minute-over-minute revenue change.
type RevenueTrendRule struct {
	SurgePct float64
}

func (RevenueTrendRule) Name() string { return "revenue_trend" }

func (r RevenueTrendRule) Evaluate(state State) ([]Candidate, error) {
	change := state.Analytics.RevenueChange
	switch {
	case change < 0:
		return []Candidate{{
			Title:       "Revenue Recovery Strategy",
			Description: "Revenue decreased compared with the previous minute. Consider implementing promotional campaigns or discounts.",
			Type:        model.RecommendationPromotion,
			Priority:    model.PriorityHigh,
			Impact:      "Expected 20% revenue recovery within next hour",
		}}, nil
	case change > r.SurgePct:
		return []Candidate{{
			Title:       "Capitalize on Momentum",
			Description: fmt.Sprintf("Revenue grew more than %.0f%% over the previous minute. Consider increasing inventory for high-demand products.", r.SurgePct),
			Type:        model.RecommendationInventory,
			Priority:    model.PriorityMedium,
			Impact:      "Prevent stockouts and maintain growth trajectory",
		}}, nil
	}
	return nil, nil
}

// LowStockRule flags products selling faster than Units per minute.
type LowStockRule struct {
	Units int
}

func (LowStockRule) Name() string { return "low_stock" }

func (r LowStockRule) Evaluate(state State) ([]Candidate, error) {
	if r.Units <= 0 {
		return nil, fmt.Errorf("low stock threshold must be positive, got %d", r.Units)
	}
	var out []Candidate
	for product, quantity := range state.WindowQuantities {
		if quantity <= r.Units {
			continue
		}
		out = append(out, Candidate{
			Subject:     product,
			Title:       "Restock " + product,
			Description: fmt.Sprintf("%s sold more than %d units in the last minute. Stock may run out soon.", product, r.Units),
			Type:        model.RecommendationInventory,
			Priority:    model.PriorityHigh,
			Impact:      "Prevent stockouts of " + product,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })
	return out, nil
}

// SeasonalRule picks a seasonal suggestion from the current month.
type SeasonalRule struct{}

func (SeasonalRule) Name() string { return "seasonal" }

func (SeasonalRule) Evaluate(state State) ([]Candidate, error) {
	if state.Now.IsZero() {
		return nil, fmt.Errorf("evaluation time is missing")
	}
	c := Candidate{Type: model.RecommendationSeasonal}
	switch state.Now.UTC().Month() {
	case time.December, time.January, time.February:
		c.Title = "Cold Weather Strategy"
		c.Description = "Winter conditions suggest promoting warm beverages and winter accessories."
		c.Priority = model.PriorityMedium
		c.Impact = "Expected 18% increase in winter product sales"
	case time.March, time.April, time.May:
		c.Title = "Rainy Day Specials"
		c.Description = "Spring showers create opportunities for indoor entertainment and comfort products."
		c.Priority = model.PriorityLow
		c.Impact = "Potential 12% boost in indoor product categories"
	case time.June, time.July, time.August:
		c.Title = "Hot Weather Promotion"
		c.Description = "Summer conditions favor promoting cooling products and summer accessories."
		c.Priority = model.PriorityMedium
		c.Impact = "Potential 20% boost in seasonal product sales"
	default:
		c.Title = "Optimize Product Mix"
		c.Description = "Autumn is a good time to promote outdoor and recreational products."
		c.Priority = model.PriorityLow
		c.Impact = "Expected 10% increase in outdoor product sales"
	}
	return []Candidate{c}, nil
}
