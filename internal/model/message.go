package model

// WebSocket message types
const (
	MessageConnected            = "connected"
	MessageNewOrder             = "new_order"
	MessageAnalyticsUpdate      = "analytics_update"
	MessageRecommendationUpdate = "recommendation_update"
)

// WebSocketMessage is the push envelope. Data is an Order for new_order,
// Analytics for analytics_update and a Recommendation for recommendation_update.
type WebSocketMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
