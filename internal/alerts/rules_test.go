package alerts

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caudal-io/caudal/internal/common"
	"github.com/caudal-io/caudal/internal/model"
)

func defaultRuleConfig() RuleConfig {
	return RuleConfig{
		LowCashThreshold:   decimal.NewFromInt(50000),
		UnusualSpendFactor: decimal.NewFromFloat(1.5),
		InactivityDays:     7,
		DueDateLeadDays:    3,
	}
}

func snapshotWithBalance(balance int64) *Snapshot {
	return &Snapshot{
		Today:     time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC),
		CompanyID: "co-1",
		Balance:   decimal.NewFromInt(balance),
		Rules:     defaultRuleConfig(),
	}
}

func TestCashLow(t *testing.T) {
	tests := []struct {
		name         string
		balance      int64
		wantSeverity model.Severity
		wantAlert    bool
	}{
		{name: "below half threshold is critical", balance: 20000, wantAlert: true, wantSeverity: model.SeverityCritical},
		{name: "below threshold is warning", balance: 40000, wantAlert: true, wantSeverity: model.SeverityWarning},
		{name: "exactly half threshold is warning", balance: 25000, wantAlert: true, wantSeverity: model.SeverityWarning},
		{name: "at threshold no alert", balance: 50000, wantAlert: false},
		{name: "above threshold no alert", balance: 60000, wantAlert: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates, err := CashLow(snapshotWithBalance(tt.balance))
			require.NoError(t, err)

			if !tt.wantAlert {
				assert.Empty(t, candidates)
				return
			}
			require.Len(t, candidates, 1)
			assert.Equal(t, model.RuleCashLow, candidates[0].RuleType)
			assert.Equal(t, tt.wantSeverity, candidates[0].Severity)
		})
	}
}

func TestCashLow_InvalidThreshold(t *testing.T) {
	snap := snapshotWithBalance(20000)
	snap.Rules.LowCashThreshold = decimal.Zero

	_, err := CashLow(snap)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConfig)
}

func TestUnusualSpend(t *testing.T) {
	spend := func(current, trailing int64) model.CategorySpend {
		return model.CategorySpend{
			CategoryID:   "cat-1",
			CategoryName: "Logistics",
			CurrentMonth: decimal.NewFromInt(current),
			TrailingAvg:  decimal.NewFromInt(trailing),
		}
	}

	t.Run("spend above factor fires with percentage", func(t *testing.T) {
		snap := snapshotWithBalance(100000)
		snap.CategorySpend = []model.CategorySpend{spend(450, 100)}

		candidates, err := UnusualSpend(snap)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, model.SeverityWarning, candidates[0].Severity)
		assert.Contains(t, candidates[0].Message, "350%")
	})

	t.Run("spend at factor boundary stays quiet", func(t *testing.T) {
		snap := snapshotWithBalance(100000)
		snap.CategorySpend = []model.CategorySpend{spend(150, 100)}

		candidates, err := UnusualSpend(snap)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("no trailing history is not unusual", func(t *testing.T) {
		snap := snapshotWithBalance(100000)
		snap.CategorySpend = []model.CategorySpend{spend(10000, 0)}

		candidates, err := UnusualSpend(snap)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("one candidate per offending category", func(t *testing.T) {
		snap := snapshotWithBalance(100000)
		snap.CategorySpend = []model.CategorySpend{
			spend(450, 100),
			{CategoryID: "cat-2", CategoryName: "Payroll",
				CurrentMonth: decimal.NewFromInt(400), TrailingAvg: decimal.NewFromInt(200)},
			{CategoryID: "cat-3", CategoryName: "Rent",
				CurrentMonth: decimal.NewFromInt(100), TrailingAvg: decimal.NewFromInt(100)},
		}

		candidates, err := UnusualSpend(snap)
		require.NoError(t, err)
		assert.Len(t, candidates, 2)
	})
}

func TestInactivity(t *testing.T) {
	t.Run("gap at or beyond limit fires info", func(t *testing.T) {
		snap := snapshotWithBalance(100000)
		last := snap.Today.AddDate(0, 0, -10)
		snap.LastMovement = &last

		candidates, err := Inactivity(snap)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, model.SeverityInfo, candidates[0].Severity)
		assert.Equal(t, 10, candidates[0].Data["days_inactive"])
	})

	t.Run("recent activity stays quiet", func(t *testing.T) {
		snap := snapshotWithBalance(100000)
		last := snap.Today.AddDate(0, 0, -3)
		snap.LastMovement = &last

		candidates, err := Inactivity(snap)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("no history at all is first use, not inactivity", func(t *testing.T) {
		snap := snapshotWithBalance(100000)
		snap.LastMovement = nil

		candidates, err := Inactivity(snap)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})
}

func TestUpcomingDueDate(t *testing.T) {
	rule := UpcomingDueDate(DefaultObligations)

	tests := []struct {
		name      string
		day       int
		wantAlert bool
	}{
		{name: "before lead window", day: 16, wantAlert: false},
		{name: "start of lead window", day: 17, wantAlert: true},
		{name: "inside lead window", day: 19, wantAlert: true},
		{name: "due day itself", day: 20, wantAlert: true},
		{name: "past due day", day: 21, wantAlert: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := snapshotWithBalance(100000)
			snap.Today = time.Date(2025, 9, tt.day, 12, 0, 0, 0, time.UTC)

			candidates, err := rule(snap)
			require.NoError(t, err)

			if tt.wantAlert {
				require.Len(t, candidates, 1)
				assert.Equal(t, model.RuleUpcomingDueDate, candidates[0].RuleType)
				assert.Equal(t, model.SeverityWarning, candidates[0].Severity)
			} else {
				assert.Empty(t, candidates)
			}
		})
	}
}
