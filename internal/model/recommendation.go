package model

// RecommendationType Enum Simulation
const (
	RecommendationPromotion = "promotion"
	RecommendationPricing   = "pricing"
	RecommendationInventory = "inventory"
	RecommendationSeasonal  = "seasonal"
)

// Priority constants
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// RecommendationStatus constants
const (
	RecommendationActive   = "active"
	RecommendationResolved = "resolved"
)

// Recommendation is an advisory item derived from the aggregate state.
type Recommendation struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`     // promotion, pricing, inventory, seasonal
	Priority    string `json:"priority"` // high, medium, low
	Impact      string `json:"impact"`
	Status      string `json:"status"`
	Supersedes  string `json:"supersedes,omitempty"`
}

// PriorityRank orders priorities high first.
func PriorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}
