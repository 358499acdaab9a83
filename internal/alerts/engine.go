package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/caudal-io/caudal/internal/common"
	"github.com/caudal-io/caudal/internal/model"
	"github.com/caudal-io/caudal/internal/service"
)

// Engine evaluates all registered rules against a company snapshot and
// persists the candidates that survive the deduplication window.
type Engine struct {
	store  service.AlertStore
	rules  map[string]Rule
	window time.Duration
}

// NewEngine creates an engine with the built-in rules registered and the
// given deduplication window.
func NewEngine(store service.AlertStore, window time.Duration) *Engine {
	e := &Engine{
		store:  store,
		rules:  make(map[string]Rule),
		window: window,
	}

	e.Register(model.RuleCashLow, CashLow)
	e.Register(model.RuleUnusualSpend, UnusualSpend)
	e.Register(model.RuleInactivity, Inactivity)
	e.Register(model.RuleUpcomingDueDate, UpcomingDueDate(DefaultObligations))

	return e
}

// Register adds or replaces a rule under the given type key.
func (e *Engine) Register(ruleType string, rule Rule) {
	e.rules[ruleType] = rule
}

// EvaluateAll runs every registered rule over the snapshot, in sorted rule
// type order so evaluation is deterministic. A rule failure is logged and
// skipped; it never prevents the remaining rules from running. Candidates
// whose rule type already produced an alert for this company inside the
// deduplication window are suppressed. Returns the alerts actually
// persisted.
func (e *Engine) EvaluateAll(ctx context.Context, snap *Snapshot) ([]model.Alert, error) {
	ruleTypes := make([]string, 0, len(e.rules))
	for ruleType := range e.rules {
		ruleTypes = append(ruleTypes, ruleType)
	}
	sort.Strings(ruleTypes)

	var created []model.Alert

	for _, ruleType := range ruleTypes {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		candidates, err := e.rules[ruleType](snap)
		if err != nil {
			ruleErr := &common.RuleEvaluationError{RuleType: ruleType, Err: err}
			slog.Error("Alert rule failed",
				"company_id", snap.CompanyID,
				"rule", ruleType,
				"error", ruleErr)
			continue
		}

		for _, candidate := range candidates {
			alert, err := e.persist(ctx, snap.CompanyID, ruleType, candidate)
			if err != nil {
				slog.Error("Failed to persist alert",
					"company_id", snap.CompanyID,
					"rule", ruleType,
					"error", err)
				continue
			}
			if alert != nil {
				created = append(created, *alert)
			}
		}
	}

	return created, nil
}

// persist runs the dedup check and stores the candidate. The check and the
// insert are not atomic; concurrent evaluations of the same company can at
// worst produce one duplicate alert per rule, which is tolerated.
func (e *Engine) persist(ctx context.Context, companyID, ruleType string, candidate model.CandidateAlert) (*model.Alert, error) {
	recent, err := e.store.HasRecentAlert(ctx, companyID, ruleType, e.window)
	if err != nil {
		return nil, fmt.Errorf("dedup check: %w", err)
	}
	if recent {
		slog.Debug("Suppressing duplicate alert",
			"company_id", companyID,
			"rule", ruleType,
			"window", e.window)
		return nil, nil
	}

	alert, err := e.store.CreateAlert(ctx, companyID, candidate)
	if err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}
	return alert, nil
}
