package alerts

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/caudal-io/caudal/internal/common"
	"github.com/caudal-io/caudal/internal/model"
)

// Rule is a pure evaluator producing candidate alerts from a snapshot.
// Rules must not perform I/O or mutate the snapshot.
type Rule func(snap *Snapshot) ([]model.CandidateAlert, error)

var two = decimal.NewFromInt(2)

// CashLow raises a warning when the connected balance drops below the
// configured threshold, escalating to critical below half of it.
func CashLow(snap *Snapshot) ([]model.CandidateAlert, error) {
	threshold := snap.Rules.LowCashThreshold
	if !threshold.IsPositive() {
		return nil, common.ConfigErrorf("low cash threshold must be positive, got %s", threshold)
	}

	if snap.Balance.GreaterThanOrEqual(threshold) {
		return nil, nil
	}

	severity := model.SeverityWarning
	if snap.Balance.LessThan(threshold.Div(two)) {
		severity = model.SeverityCritical
	}

	return []model.CandidateAlert{{
		RuleType: model.RuleCashLow,
		Severity: severity,
		Title:    "Low cash balance",
		Message: fmt.Sprintf("Current balance %s is below the %s threshold.",
			snap.Balance.StringFixed(2), threshold.StringFixed(2)),
		Data: map[string]any{
			"balance":   snap.Balance.String(),
			"threshold": threshold.String(),
		},
	}}, nil
}

// UnusualSpend raises a warning per category whose current-month spend
// exceeds its trailing three-month average by the configured factor.
// Categories with no trailing history are skipped: there is no baseline to
// call unusual.
func UnusualSpend(snap *Snapshot) ([]model.CandidateAlert, error) {
	factor := snap.Rules.UnusualSpendFactor
	if !factor.IsPositive() {
		return nil, common.ConfigErrorf("unusual spend factor must be positive, got %s", factor)
	}

	var candidates []model.CandidateAlert
	for _, spend := range snap.CategorySpend {
		if !spend.TrailingAvg.IsPositive() {
			continue
		}
		if spend.CurrentMonth.LessThanOrEqual(spend.TrailingAvg.Mul(factor)) {
			continue
		}

		increase := spend.CurrentMonth.Div(spend.TrailingAvg).
			Sub(decimal.NewFromInt(1)).
			Mul(decimal.NewFromInt(100)).
			Round(0)

		candidates = append(candidates, model.CandidateAlert{
			RuleType: model.RuleUnusualSpend,
			Severity: model.SeverityWarning,
			Title:    fmt.Sprintf("Unusual spend in %s", spend.CategoryName),
			Message: fmt.Sprintf("Spending in %q this month is %s%% above its three-month average.",
				spend.CategoryName, increase),
			Data: map[string]any{
				"category_id":   spend.CategoryID,
				"current_spend": spend.CurrentMonth.String(),
				"trailing_avg":  spend.TrailingAvg.String(),
			},
		})
	}

	return candidates, nil
}

// Inactivity raises an informational alert when no movement has been
// recorded for the configured number of days. A company with no history at
// all is in its first-use state, not inactive.
func Inactivity(snap *Snapshot) ([]model.CandidateAlert, error) {
	days, ok := snap.DaysSinceLastMovement()
	if !ok || days < snap.Rules.InactivityDays {
		return nil, nil
	}

	return []model.CandidateAlert{{
		RuleType: model.RuleInactivity,
		Severity: model.SeverityInfo,
		Title:    "No recent activity",
		Message:  fmt.Sprintf("No movements recorded in the last %d days.", days),
		Data: map[string]any{
			"days_inactive": days,
			"last_movement": snap.LastMovement.Format("2006-01-02"),
		},
	}}, nil
}

// Obligation is a recurring monthly due date to warn about.
type Obligation struct {
	Name string
	Day  int
}

// DefaultObligations lists the recurring tax obligations the due-date rule
// watches out of the box.
var DefaultObligations = []Obligation{
	{Name: "Monotributo", Day: 20},
}

// UpcomingDueDate warns when a recurring monthly obligation falls within the
// configured lead window, from lead days before the due day through the due
// day itself.
func UpcomingDueDate(obligations []Obligation) Rule {
	return func(snap *Snapshot) ([]model.CandidateAlert, error) {
		day := snap.Today.Day()

		var candidates []model.CandidateAlert
		for _, ob := range obligations {
			if day < ob.Day-snap.Rules.DueDateLeadDays || day > ob.Day {
				continue
			}
			candidates = append(candidates, model.CandidateAlert{
				RuleType: model.RuleUpcomingDueDate,
				Severity: model.SeverityWarning,
				Title:    fmt.Sprintf("Upcoming due date: %s", ob.Name),
				Message:  fmt.Sprintf("%s is due on day %d of this month.", ob.Name, ob.Day),
				Data: map[string]any{
					"obligation": ob.Name,
					"due_day":    ob.Day,
				},
			})
		}
		return candidates, nil
	}
}
