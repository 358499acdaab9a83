// Package engine orchestrates projection and alert-evaluation runs for a
// company: it assembles snapshots from storage, drives the pure computation
// packages, and persists the results.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caudal-io/caudal/internal/alerts"
	"github.com/caudal-io/caudal/internal/config"
	"github.com/caudal-io/caudal/internal/forecast"
	"github.com/caudal-io/caudal/internal/model"
	"github.com/caudal-io/caudal/internal/service"
)

// AlgorithmVersion is persisted with every projection batch so stored points
// can be traced to the algorithm that produced them.
const AlgorithmVersion = "1.0.0"

// DefaultHorizonDays is used when a caller does not request a horizon.
const DefaultHorizonDays = 30

// Engine wires the projection and alert engines to their collaborators.
type Engine struct {
	storage   service.Storage
	cfg       config.Engine
	detector  *forecast.Detector
	projector *forecast.Projector
	scenarios *forecast.ScenarioGenerator
	alerts    *alerts.Engine
	now       func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the engine's notion of "now". Used in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over the given storage with the given parameters.
func New(storage service.Storage, cfg config.Engine, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		storage:  storage,
		cfg:      cfg,
		detector: forecast.NewDetector(),
		projector: forecast.NewProjector(forecast.Config{
			Seasonal:        forecast.SeasonalTable(cfg.SeasonalFactors),
			ConfidenceDecay: cfg.ConfidenceDecay,
			ConfidenceFloor: cfg.ConfidenceFloor,
		}),
		scenarios: forecast.NewScenarioGenerator(cfg.OptimisticBand, cfg.PesimisticBand),
		alerts:    alerts.NewEngine(storage, cfg.DedupWindow),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// RunProjection regenerates the company's projection batch for the given
// horizon and persists it with replace semantics. The horizon defaults to 30
// days and is capped at the configured maximum. Re-running with unchanged
// history produces an identical point sequence.
func (e *Engine) RunProjection(ctx context.Context, companyID string, horizonDays int) (*model.ScenarioBundle, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	if horizonDays > e.cfg.HorizonCapDays {
		horizonDays = e.cfg.HorizonCapDays
	}

	today := e.now()

	balance, err := e.storage.GetConnectedBalance(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balance: %w", err)
	}

	since := today.AddDate(0, 0, -e.cfg.LookbackDays)
	movements, err := e.storage.GetMovements(ctx, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movements: %w", err)
	}

	agg, err := forecast.Aggregate(movements, today, e.cfg.LookbackDays)
	if err != nil {
		return nil, err
	}
	patterns := e.detector.Detect(agg.SamplesByDay)

	realistic := e.projector.Project(today, balance, agg, patterns, horizonDays)
	bundle := e.scenarios.Generate(realistic)
	bundle.CurrentCash = balance
	bundle.Metadata = model.ProjectionMetadata{
		GeneratedAt:      e.now().UTC(),
		AlgorithmVersion: AlgorithmVersion,
		HistoryDays:      agg.HistoryDays,
		PatternsDetected: len(patterns),
	}

	if err := e.storage.ReplaceProjections(ctx, companyID, bundle); err != nil {
		return nil, fmt.Errorf("failed to persist projections: %w", err)
	}

	slog.Info("Projection run complete",
		"company_id", companyID,
		"horizon_days", horizonDays,
		"history_days", agg.HistoryDays,
		"patterns_detected", len(patterns))

	return bundle, nil
}

// RunAlertEvaluation builds the company snapshot and evaluates every alert
// rule against it, returning the alerts that were actually persisted.
func (e *Engine) RunAlertEvaluation(ctx context.Context, companyID string) ([]model.Alert, error) {
	snap, err := e.buildSnapshot(ctx, companyID)
	if err != nil {
		return nil, err
	}

	created, err := e.alerts.EvaluateAll(ctx, snap)
	if err != nil {
		return created, err
	}

	slog.Info("Alert evaluation complete",
		"company_id", companyID,
		"alerts_created", len(created))

	return created, nil
}

func (e *Engine) buildSnapshot(ctx context.Context, companyID string) (*alerts.Snapshot, error) {
	company, err := e.storage.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	today := e.now()

	balance, err := e.storage.GetConnectedBalance(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balance: %w", err)
	}

	since := today.AddDate(0, 0, -e.cfg.LookbackDays)
	movements, err := e.storage.GetMovements(ctx, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movements: %w", err)
	}

	lastMovement, err := e.storage.GetLastMovementDate(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch last movement: %w", err)
	}

	categorySpend, err := e.storage.GetCategorySpend(ctx, companyID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category spend: %w", err)
	}

	ruleCfg := alerts.RuleConfig{
		LowCashThreshold:   e.cfg.LowCashThreshold,
		UnusualSpendFactor: decimal.NewFromFloat(e.cfg.UnusualSpendFactor),
		InactivityDays:     e.cfg.InactivityDays,
		DueDateLeadDays:    e.cfg.DueDateLeadDays,
	}
	if threshold, ok := company.LowCashThreshold(); ok {
		ruleCfg.LowCashThreshold = threshold
	}

	return &alerts.Snapshot{
		Today:         today,
		CompanyID:     companyID,
		Balance:       balance,
		Movements:     movements,
		CategorySpend: categorySpend,
		LastMovement:  lastMovement,
		Rules:         ruleCfg,
	}, nil
}

// Summary condenses the stored realistic projection around the 30-day mark
// into a dashboard outlook. Returns nil when no fresh projection is stored.
func (e *Engine) Summary(ctx context.Context, companyID string) (*model.OutlookSummary, error) {
	today := e.now()
	from := today.AddDate(0, 0, 25)
	to := today.AddDate(0, 0, 35)

	points, err := e.storage.GetProjections(ctx, companyID, model.ScenarioRealistic, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to read projections: %w", err)
	}
	if len(points) == 0 {
		return nil, nil
	}

	balance, err := e.storage.GetConnectedBalance(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balance: %w", err)
	}

	point := points[0]
	trend := model.TrendFalling
	if point.Cash.GreaterThan(balance) {
		trend = model.TrendRising
	}

	return &model.OutlookSummary{
		CurrentCash:   balance,
		ProjectedCash: point.Cash,
		Trend:         trend,
		Confidence:    point.Confidence,
	}, nil
}
