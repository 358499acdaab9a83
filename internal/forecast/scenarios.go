package forecast

import (
	"github.com/shopspring/decimal"

	"github.com/caudal-io/caudal/internal/model"
)

// ScenarioGenerator derives the optimistic and pesimistic trajectories from
// a realistic simulation by scaling projected cash with fixed band
// multipliers. This is a presentation band, not an independently simulated
// scenario or a statistical confidence interval, and the band deliberately
// does not widen with forecast distance.
type ScenarioGenerator struct {
	optimistic decimal.Decimal
	pesimistic decimal.Decimal
}

// NewScenarioGenerator creates a generator with the given band multipliers.
func NewScenarioGenerator(optimisticBand, pesimisticBand float64) *ScenarioGenerator {
	return &ScenarioGenerator{
		optimistic: decimal.NewFromFloat(optimisticBand),
		pesimistic: decimal.NewFromFloat(pesimisticBand),
	}
}

// Generate returns the three scenario trajectories. The realistic slice is
// the input unchanged; the band scenarios copy every point and scale only
// the projected cash, rounded to two decimal places.
func (g *ScenarioGenerator) Generate(realistic []model.ProjectionPoint) *model.ScenarioBundle {
	bundle := &model.ScenarioBundle{
		Realistic:  realistic,
		Optimistic: g.scale(realistic, model.ScenarioOptimistic, g.optimistic),
		Pesimistic: g.scale(realistic, model.ScenarioPesimistic, g.pesimistic),
	}
	return bundle
}

func (g *ScenarioGenerator) scale(points []model.ProjectionPoint, scenario model.Scenario, band decimal.Decimal) []model.ProjectionPoint {
	scaled := make([]model.ProjectionPoint, len(points))
	for i, point := range points {
		point.Scenario = scenario
		point.Cash = point.Cash.Mul(band).Round(2)
		scaled[i] = point
	}
	return scaled
}
