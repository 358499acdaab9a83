package forecast

import (
	"sort"

	"github.com/shopspring/decimal"
)

// defaultClusterTolerance is the relative distance within which two amounts
// are considered the same recurring payment.
const defaultClusterTolerance = 0.05

// DayPattern holds the recurring amounts detected for one day of the month.
// A zero value means no pattern was found for that kind.
type DayPattern struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Detector finds recurring near-equal amounts within day-of-month groups,
// the signature of fixed payments like rent, salaries, or subscriptions.
type Detector struct {
	tolerance decimal.Decimal
}

// NewDetector creates a detector with the default 5% cluster tolerance.
func NewDetector() *Detector {
	return NewDetectorWithTolerance(defaultClusterTolerance)
}

// NewDetectorWithTolerance creates a detector with a custom relative
// tolerance.
func NewDetectorWithTolerance(tolerance float64) *Detector {
	return &Detector{tolerance: decimal.NewFromFloat(tolerance)}
}

// Detect returns the detected pattern per day of month. Days with no cluster
// of at least two near-equal amounts for either kind are omitted from the
// result.
func (d *Detector) Detect(samplesByDay map[int]*DaySamples) map[int]DayPattern {
	patterns := make(map[int]DayPattern)

	for day, samples := range samplesByDay {
		income := d.detectRecurring(samples.Income)
		expense := d.detectRecurring(samples.Expense)

		if income.IsZero() && expense.IsZero() {
			continue
		}
		patterns[day] = DayPattern{Income: income, Expense: expense}
	}

	return patterns
}

// cluster accumulates near-equal amounts; its mean is the running centroid.
type cluster struct {
	sum   decimal.Decimal
	count int
}

func (c *cluster) mean() decimal.Decimal {
	return c.sum.Div(decimal.NewFromInt(int64(c.count)))
}

// detectRecurring returns the mean of the largest cluster of near-equal
// amounts, or zero when no cluster reaches size two.
//
// The clustering is greedy and order-dependent: amounts are sorted ascending
// and each one joins the first cluster whose running mean is within the
// tolerance. This is intentionally not an optimal clustering; downstream
// consumers depend on the exact grouping it produces.
func (d *Detector) detectRecurring(amounts []decimal.Decimal) decimal.Decimal {
	if len(amounts) < 2 {
		return decimal.Zero
	}

	sorted := make([]decimal.Decimal, len(amounts))
	copy(sorted, amounts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})

	var clusters []*cluster
	for _, amount := range sorted {
		joined := false
		for _, c := range clusters {
			mean := c.mean()
			// A zero mean would make the relative distance undefined;
			// such a cluster only admits more zeros via a fresh cluster.
			if mean.IsZero() {
				continue
			}
			if amount.Sub(mean).Abs().LessThan(mean.Mul(d.tolerance)) {
				c.sum = c.sum.Add(amount)
				c.count++
				joined = true
				break
			}
		}
		if !joined {
			clusters = append(clusters, &cluster{sum: amount, count: 1})
		}
	}

	var largest *cluster
	for _, c := range clusters {
		if largest == nil || c.count > largest.count {
			largest = c
		}
	}

	if largest == nil || largest.count < 2 {
		return decimal.Zero
	}
	return largest.mean()
}
