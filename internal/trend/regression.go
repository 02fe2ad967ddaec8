package trend

import (
	"math"

	"github.com/marovole/HearthBulter-sub010/internal/model"
)

// stableSlopeEpsilon is the slope magnitude (canonical-unit per day) below
// which a trend is reported as STABLE.
const stableSlopeEpsilon = 0.01

// LinearRegression fits y = slope*x + intercept by ordinary least squares and
// returns the slope with the fit's R-squared. Degenerate input (fewer than
// two points, zero variance in x) yields (0, 0).
func LinearRegression(x, y []float64) (slope, rSquared float64) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, 0
	}

	n := float64(len(x))
	var sumX, sumY, sumXY, sumXX float64
	for i := 0; i < len(x); i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var totalSumSquares, residualSumSquares float64
	for i := 0; i < len(y); i++ {
		predicted := slope*x[i] + intercept
		totalSumSquares += (y[i] - meanY) * (y[i] - meanY)
		residualSumSquares += (y[i] - predicted) * (y[i] - predicted)
	}

	if totalSumSquares > 0 {
		rSquared = 1 - (residualSumSquares / totalSumSquares)
	}
	return slope, clamp01(rSquared)
}

// DirectionFromSlope maps a regression slope to a trend direction.
func DirectionFromSlope(slope float64) model.Direction {
	switch {
	case math.Abs(slope) < stableSlopeEpsilon:
		return model.DirectionStable
	case slope > 0:
		return model.DirectionUp
	default:
		return model.DirectionDown
	}
}

// Volatility returns the sample standard deviation of day-over-day relative
// returns for a price series. Fewer than two prices, or a flat series, give 0.
func Volatility(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}

	var returns []float64
	for i := 1; i < len(prices); i++ {
		if prices[i-1] > 0 {
			returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
		}
	}
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var varianceSum float64
	for _, r := range returns {
		diff := r - mean
		varianceSum += diff * diff
	}
	return math.Sqrt(varianceSum / float64(len(returns)-1))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
