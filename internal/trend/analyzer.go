package trend

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/marovole/HearthBulter-sub010/internal/model"
	"github.com/marovole/HearthBulter-sub010/internal/pricedata"
)

const (
	minTrendPoints = 3
	forecastDays   = 7

	// DefaultSeed keeps forecasts reproducible for analyzers built without an
	// explicit seed.
	DefaultSeed = 1
)

// Analyzer fits a trend to one item's price history and produces a
// bounded-noise short-horizon forecast. It is stateless between calls apart
// from the injected noise generator, which is re-seeded per call so repeated
// analyses of the same data agree exactly.
type Analyzer struct {
	source pricedata.Source
	seed   int64
	now    func() time.Time
}

func NewAnalyzer(source pricedata.Source, seed int64) *Analyzer {
	if seed == 0 {
		seed = DefaultSeed
	}
	return &Analyzer{source: source, seed: seed, now: time.Now}
}

// Trend analyzes the item's unit prices over the trailing window.
// Fewer than three valid points is an InsufficientDataError.
func (a *Analyzer) Trend(itemID string, windowDays int) (*model.TrendResult, error) {
	if itemID == "" {
		return nil, &model.InvalidInputError{Reason: "empty item id"}
	}
	if windowDays <= 0 {
		return nil, &model.InvalidInputError{Reason: fmt.Sprintf("non-positive window %d", windowDays)}
	}

	now := a.now()
	since := now.AddDate(0, 0, -windowDays)
	points, err := a.source.FetchValidPricePoints([]string{itemID}, since)
	if err != nil {
		return nil, fmt.Errorf("fetch price points for %q: %w", itemID, err)
	}

	points = filterItem(points, itemID)
	if len(points) < minTrendPoints {
		return nil, &model.InsufficientDataError{ItemID: itemID, Needed: minTrendPoints, Got: len(points)}
	}

	prices := make([]float64, len(points))
	indexes := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.UnitPrice
		indexes[i] = float64(i)
	}

	current := prices[len(prices)-1]
	minPrice, maxPrice := prices[0], prices[0]
	for _, p := range prices {
		if p < minPrice {
			minPrice = p
		}
		if p > maxPrice {
			maxPrice = p
		}
	}

	slope, confidence := LinearRegression(indexes, prices)
	direction := DirectionFromSlope(slope)
	volatility := Volatility(prices)
	forecast := a.forecast(current, slope, volatility)

	result := &model.TrendResult{
		ItemID:      itemID,
		Current:     current,
		Average:     mean(prices),
		Min:         minPrice,
		Max:         maxPrice,
		Changes:     changes(points, current, now),
		Direction:   direction,
		Slope:       slope,
		Confidence:  confidence,
		Forecast:    forecast,
		ForecastMin: minOf(forecast),
		ForecastMax: maxOf(forecast),
	}
	result.Recommendations = recommend(result)
	return result, nil
}

// forecast projects the regression line forward, perturbed per day by noise
// bounded by historical volatility and floored at zero.
func (a *Analyzer) forecast(current, slope, volatility float64) []float64 {
	noise := rand.New(rand.NewSource(a.seed))
	out := make([]float64, 0, forecastDays)
	for i := 1; i <= forecastDays; i++ {
		predicted := current + slope*float64(i)
		perturbed := predicted + (noise.Float64()*2-1)*volatility*predicted
		if perturbed < 0 {
			perturbed = 0
		}
		out = append(out, perturbed)
	}
	return out
}

// changes computes percent deltas against the closest point at or before each
// horizon. A horizon with no preceding point reports 0.
func changes(points []model.PricePoint, current float64, now time.Time) model.PriceChanges {
	at := func(daysBack int) float64 {
		target := now.AddDate(0, 0, -daysBack)
		best := -1
		for i, p := range points {
			if !p.Date.After(target) {
				best = i
			}
		}
		if best < 0 {
			return 0
		}
		base := points[best].UnitPrice
		if base <= 0 {
			return 0
		}
		return (current - base) / base * 100
	}

	return model.PriceChanges{
		Daily:   at(1),
		Weekly:  at(7),
		Monthly: at(30),
	}
}

// Recommendation rules fire independently, in fixed priority order.
func recommend(r *model.TrendResult) []string {
	var recs []string

	if r.Average > 0 {
		switch {
		case r.Current < r.Average*0.8:
			recs = append(recs, fmt.Sprintf("Current price %.2f is more than 20%% below the window average %.2f - good time to buy", r.Current, r.Average))
		case r.Current > r.Average*1.2:
			recs = append(recs, fmt.Sprintf("Current price %.2f is more than 20%% above the window average %.2f - consider holding off", r.Current, r.Average))
		}
	}

	if r.Confidence > 0.7 {
		switch r.Direction {
		case model.DirectionDown:
			recs = append(recs, "Prices are trending down - waiting is likely to get a lower price")
		case model.DirectionUp:
			recs = append(recs, "Prices are trending up - buying sooner is likely to cost less")
		}
	}

	if r.Current > 0 {
		forecastAvg := mean(r.Forecast)
		switch {
		case forecastAvg < r.Current*0.9:
			recs = append(recs, "Forecast suggests prices may drop over the next week")
		case forecastAvg > r.Current*1.1:
			recs = append(recs, "Forecast suggests prices may rise over the next week")
		}
	}

	return recs
}

func filterItem(points []model.PricePoint, itemID string) []model.PricePoint {
	var out []model.PricePoint
	for _, p := range points {
		if p.ItemID == itemID && p.Valid && p.UnitPrice > 0 {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min := values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
	}
	return min
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}
