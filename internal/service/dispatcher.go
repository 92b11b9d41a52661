package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"salesanalytics/internal/analytics"
	"salesanalytics/internal/metrics"
	"salesanalytics/internal/model"
	"salesanalytics/internal/recommendation"
)

const (
	DefaultDebounceInterval = 250 * time.Millisecond
	DefaultRefreshInterval  = 5 * time.Second
)

// UpdateDispatcher pushes analytics and recommendation changes after orders
// are applied. Bursts of notifications within the debounce interval collapse
// into one flush; a periodic refresh catches window expiry with no new orders.
type UpdateDispatcher struct {
	engine    *analytics.Engine
	recs      *recommendation.Engine
	publisher Publisher
	nudge     chan struct{}
	debounce  time.Duration
	refresh   time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics

	mu   sync.Mutex
	last []byte
}

func NewUpdateDispatcher(engine *analytics.Engine, recs *recommendation.Engine, publisher Publisher, debounce, refresh time.Duration, logger *slog.Logger, m *metrics.Metrics) *UpdateDispatcher {
	if debounce <= 0 {
		debounce = DefaultDebounceInterval
	}
	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateDispatcher{
		engine:    engine,
		recs:      recs,
		publisher: publisher,
		nudge:     make(chan struct{}, 1),
		debounce:  debounce,
		refresh:   refresh,
		logger:    logger.With("component", "dispatcher"),
		metrics:   m,
	}
}

// Notify never blocks; pending notifications coalesce.
func (d *UpdateDispatcher) Notify() {
	select {
	case d.nudge <- struct{}{}:
	default:
	}
}

func (d *UpdateDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.refresh)
	defer ticker.Stop()

	var timer *time.Timer
	var pending <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.nudge:
			// later nudges do not extend a pending timer
			if pending == nil {
				timer = time.NewTimer(d.debounce)
				pending = timer.C
			}
		case <-pending:
			pending = nil
			d.Flush()
		case <-ticker.C:
			d.Flush()
		}
	}
}

// Flush publishes analytics_update when the snapshot changed since the last
// flush, then one recommendation_update per recommendation state change.
func (d *UpdateDispatcher) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	version := d.engine.Version()
	snapshot := d.engine.Snapshot()
	state := recommendation.State{
		Analytics:        snapshot,
		WindowQuantities: d.engine.WindowQuantities(),
		Now:              d.engine.Now(),
		Version:          version,
	}

	encoded, err := json.Marshal(snapshot)
	if err != nil {
		d.logger.Error("failed to encode analytics snapshot", "error", err)
	} else if !bytes.Equal(encoded, d.last) {
		d.last = encoded
		d.publisher.Publish(model.WebSocketMessage{Type: model.MessageAnalyticsUpdate, Data: snapshot})
		d.metrics.AnalyticsBroadcast()
	}

	for _, rec := range d.recs.Evaluate(state) {
		d.logger.Info("recommendation changed", "id", rec.ID, "type", rec.Type, "status", rec.Status, "title", rec.Title)
		d.publisher.Publish(model.WebSocketMessage{Type: model.MessageRecommendationUpdate, Data: rec})
	}
}
