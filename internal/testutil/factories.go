package testutil

import (
	"math/rand"
	"time"

	"github.com/marovole/HearthBulter-sub010/internal/model"
)

// HistoryFactory generates deterministic price-point fixtures from a seeded
// random generator so tests can assert exact outputs.
type HistoryFactory struct {
	rand *rand.Rand
	now  time.Time
}

func NewHistoryFactory(seed int64, now time.Time) *HistoryFactory {
	if seed == 0 {
		seed = 1
	}
	return &HistoryFactory{rand: rand.New(rand.NewSource(seed)), now: now}
}

// Series builds one point per day ending yesterday, oldest first, with the
// given unit prices. Price carries the same value: fixtures buy one unit.
func (f *HistoryFactory) Series(itemID, platform string, unitPrices []float64) []model.PricePoint {
	points := make([]model.PricePoint, 0, len(unitPrices))
	for i, price := range unitPrices {
		daysAgo := len(unitPrices) - i
		points = append(points, model.PricePoint{
			ItemID:    itemID,
			Date:      f.now.AddDate(0, 0, -daysAgo),
			Price:     price,
			UnitPrice: price,
			Platform:  platform,
			Valid:     true,
		})
	}
	return points
}

// NoisySeries builds a daily series random-walking around base by at most
// spreadPct percent per step.
func (f *HistoryFactory) NoisySeries(itemID, platform string, base float64, days int, spreadPct float64) []model.PricePoint {
	prices := make([]float64, days)
	price := base
	for i := range prices {
		step := (f.rand.Float64()*2 - 1) * spreadPct / 100 * base
		price += step
		if price < 0.01 {
			price = 0.01
		}
		prices[i] = price
	}
	return f.Series(itemID, platform, prices)
}

// Invalid returns a point that every computation must ignore.
func (f *HistoryFactory) Invalid(itemID, platform string, daysAgo int) model.PricePoint {
	return model.PricePoint{
		ItemID:    itemID,
		Date:      f.now.AddDate(0, 0, -daysAgo),
		Price:     0,
		UnitPrice: 0,
		Platform:  platform,
		Valid:     false,
	}
}
