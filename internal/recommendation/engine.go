// Package recommendation turns aggregate state into advisory items and
// tracks their lifecycle per slot so only net changes are reported.
package recommendation

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"salesanalytics/internal/metrics"
	"salesanalytics/internal/model"

	"github.com/google/uuid"
)

type slot struct {
	rule string
	rec  model.Recommendation
}

type Engine struct {
	mu          sync.Mutex
	rules       []Rule
	slots       map[string]slot
	lastVersion uint64
	logger      *slog.Logger
	metrics     *metrics.Metrics
	newID       func() string
}

func NewEngine(rules []Rule, logger *slog.Logger, m *metrics.Metrics) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		rules:   rules,
		slots:   make(map[string]slot),
		logger:  logger.With("component", "recommendation"),
		metrics: m,
		newID:   func() string { return uuid.NewString() },
	}
}

// Evaluate runs every rule against state and returns the recommendations
// whose slot changed: activations, supersessions and resolutions. A state
// older than the last evaluated one is discarded.
func (e *Engine) Evaluate(state State) []model.Recommendation {
	e.mu.Lock()
	defer e.mu.Unlock()

	if state.Version < e.lastVersion {
		e.logger.Debug("discarding stale evaluation", "version", state.Version, "last", e.lastVersion)
		return nil
	}
	e.lastVersion = state.Version

	desired := make(map[string]Candidate)
	owner := make(map[string]string)
	failed := make(map[string]bool)
	for _, rule := range e.rules {
		candidates, err := e.run(rule, state)
		if err != nil {
			failed[rule.Name()] = true
			e.metrics.RuleFailed(rule.Name())
			e.logger.Warn("recommendation rule failed", "rule", rule.Name(), "error", err)
			continue
		}
		for _, c := range candidates {
			key := c.key()
			if _, taken := desired[key]; taken {
				continue
			}
			desired[key] = c
			owner[key] = rule.Name()
		}
	}

	var updates []model.Recommendation

	for _, key := range sortedKeys(desired) {
		c := desired[key]
		current, ok := e.slots[key]
		switch {
		case !ok:
			rec := e.activate(c)
			e.slots[key] = slot{rule: owner[key], rec: rec}
			updates = append(updates, rec)
		case !sameContent(current.rec, c):
			rec := e.activate(c)
			rec.Supersedes = current.rec.ID
			e.slots[key] = slot{rule: owner[key], rec: rec}
			updates = append(updates, rec)
		}
	}

	for _, key := range sortedKeys(e.slots) {
		if _, ok := desired[key]; ok {
			continue
		}
		current := e.slots[key]
		if failed[current.rule] {
			continue
		}
		delete(e.slots, key)
		resolved := current.rec
		resolved.Status = model.RecommendationResolved
		resolved.Supersedes = ""
		updates = append(updates, resolved)
	}

	for _, u := range updates {
		e.metrics.RecommendationChanged(u.Status)
	}
	return updates
}

// Active lists current recommendations, high priority first.
func (e *Engine) Active() []model.Recommendation {
	e.mu.Lock()
	out := make([]model.Recommendation, 0, len(e.slots))
	for _, s := range e.slots {
		out = append(out, s.rec)
	}
	e.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		pi, pj := model.PriorityRank(out[i].Priority), model.PriorityRank(out[j].Priority)
		if pi != pj {
			return pi < pj
		}
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Title < out[j].Title
	})
	return out
}

func (e *Engine) run(rule Rule, state State) (candidates []Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rule %s panicked: %v", rule.Name(), r)
		}
	}()
	return rule.Evaluate(state)
}

func (e *Engine) activate(c Candidate) model.Recommendation {
	return model.Recommendation{
		ID:          e.newID(),
		Title:       c.Title,
		Description: c.Description,
		Type:        c.Type,
		Priority:    c.Priority,
		Impact:      c.Impact,
		Status:      model.RecommendationActive,
	}
}

func sameContent(rec model.Recommendation, c Candidate) bool {
	return rec.Title == c.Title &&
		rec.Description == c.Description &&
		rec.Priority == c.Priority &&
		rec.Impact == c.Impact
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
