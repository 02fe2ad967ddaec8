package model

import "time"

// Direction classifies a price trend.
type Direction string

const (
	DirectionUp     Direction = "UP"
	DirectionDown   Direction = "DOWN"
	DirectionStable Direction = "STABLE"
)

// PricePoint is a single observed price for an item on a purchasing platform.
// UnitPrice is the price normalized to the canonical unit (e.g. per-kg) so
// differently sized listings stay comparable. Invalid points are kept in
// storage but excluded from every computation.
type PricePoint struct {
	ItemID    string    `json:"item_id"`
	Date      time.Time `json:"date"`
	Price     float64   `json:"price"`
	UnitPrice float64   `json:"unit_price"`
	Platform  string    `json:"platform"`
	Valid     bool      `json:"valid"`
}

// PlatformRule holds a platform's static shipping and discount policy.
type PlatformRule struct {
	Platform              string
	ShippingCost          float64
	FreeShippingThreshold float64
	Discount              DiscountPolicy // may be nil (no discount)
}

// PriceChanges holds percentage deltas over fixed horizons.
type PriceChanges struct {
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
}

// TrendResult is the outcome of a trend analysis over one item's history.
type TrendResult struct {
	ItemID          string       `json:"item_id"`
	Current         float64      `json:"current"`
	Average         float64      `json:"average"`
	Min             float64      `json:"min"`
	Max             float64      `json:"max"`
	Changes         PriceChanges `json:"changes"`
	Direction       Direction    `json:"direction"`
	Slope           float64      `json:"slope"`
	Confidence      float64      `json:"confidence"` // R-squared, clamped to [0,1]
	Forecast        []float64    `json:"forecast"`   // next 7 days
	ForecastMin     float64      `json:"forecast_min"`
	ForecastMax     float64      `json:"forecast_max"`
	Recommendations []string     `json:"recommendations"`
}

// PlatformOption is one platform's offer for an item at a given quantity.
type PlatformOption struct {
	Platform    string    `json:"platform"`
	UnitPrice   float64   `json:"unit_price"`
	TotalCost   float64   `json:"total_cost"` // after discount and shipping
	Reliability float64   `json:"reliability"`
	Direction   Direction `json:"direction"`
	Samples     int       `json:"samples"`
}

// ComparisonResult ranks the qualifying platforms for one item.
// Best is nil when no platform has enough history; callers must branch on it.
type ComparisonResult struct {
	ItemID         string           `json:"item_id"`
	Platforms      []PlatformOption `json:"platforms"`
	Best           *PlatformOption  `json:"best_platform"`
	SavingsPercent float64          `json:"savings_percent"`
}

// PlanBreakdown is one platform's share of a mixed purchase plan.
type PlanBreakdown struct {
	Items []string `json:"items"`
	Cost  float64  `json:"cost"`
}

// AllocationPlan is the result of bulk-purchase optimization.
type AllocationPlan struct {
	PerPlatformTotal map[string]float64       `json:"per_platform_total"`
	Mixed            map[string]PlanBreakdown `json:"mixed_plan"`
	BestPlanID       string                   `json:"best_plan_id"`
	TotalCost        float64                  `json:"total_cost"`
	SavingsPercent   float64                  `json:"savings_percent"`
	UnpricedItems    []string                 `json:"unpriced_items"`
}

// AlertKind classifies a price alert.
type AlertKind string

const (
	AlertSpike       AlertKind = "SPIKE"
	AlertOpportunity AlertKind = "OPPORTUNITY"
)

// Urgency is the severity tier of an alert.
type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
)

// UrgencyRank orders urgencies for sorting; higher is more urgent.
func UrgencyRank(u Urgency) int {
	switch u {
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 1
	default:
		return 0
	}
}

// PriceAlert flags a statistically significant deviation from an item's
// short rolling baseline.
type PriceAlert struct {
	ItemID           string    `json:"item_id"`
	Kind             AlertKind `json:"kind"`
	CurrentPrice     float64   `json:"current_price"`
	BaselinePrice    float64   `json:"baseline_price"`
	DeviationPercent float64   `json:"deviation_percent"`
	Urgency          Urgency   `json:"urgency"`
}
