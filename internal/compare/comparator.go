package compare

import (
	"fmt"
	"sort"
	"time"

	"github.com/marovole/HearthBulter-sub010/internal/model"
	"github.com/marovole/HearthBulter-sub010/internal/pricedata"
	"github.com/marovole/HearthBulter-sub010/internal/trend"
)

const (
	// A platform must contribute at least this many points to qualify.
	minPlatformPoints = 2

	// Sample count at which reliability saturates at 1.0.
	reliabilitySaturation = 10

	// DefaultWindowDays bounds how far back observations count toward a
	// platform comparison.
	DefaultWindowDays = 30
)

// Comparator ranks purchasing platforms for one item by landed cost.
type Comparator struct {
	source     pricedata.Source
	windowDays int
	now        func() time.Time
}

func NewComparator(source pricedata.Source) *Comparator {
	return &Comparator{source: source, windowDays: DefaultWindowDays, now: time.Now}
}

// WindowStart returns the earliest observation date that counts toward a
// comparison. Bulk callers pass it to a single batched fetch and then price
// each item from the shared snapshot via CompareFromPoints.
func (c *Comparator) WindowStart() time.Time {
	return c.now().AddDate(0, 0, -c.windowDays)
}

// Compare aggregates the item's recent observations per platform and computes
// each qualifying platform's discount- and shipping-adjusted cost for the
// requested quantity. Zero qualifying platforms is a valid result with a nil
// Best, not an error.
func (c *Comparator) Compare(itemID string, quantity float64) (*model.ComparisonResult, error) {
	if itemID == "" {
		return nil, &model.InvalidInputError{Reason: "empty item id"}
	}
	if quantity <= 0 {
		return nil, &model.InvalidInputError{Reason: fmt.Sprintf("non-positive quantity %v", quantity)}
	}

	points, err := c.source.FetchValidPricePoints([]string{itemID}, c.WindowStart())
	if err != nil {
		return nil, fmt.Errorf("fetch price points for %q: %w", itemID, err)
	}
	return c.CompareFromPoints(itemID, quantity, points)
}

// CompareFromPoints is Compare over an already-fetched snapshot. Points
// belonging to other items are ignored, so one batched fetch can feed many
// item comparisons without further point round trips.
func (c *Comparator) CompareFromPoints(itemID string, quantity float64, points []model.PricePoint) (*model.ComparisonResult, error) {
	if itemID == "" {
		return nil, &model.InvalidInputError{Reason: "empty item id"}
	}
	if quantity <= 0 {
		return nil, &model.InvalidInputError{Reason: fmt.Sprintf("non-positive quantity %v", quantity)}
	}

	byPlatform := make(map[string][]model.PricePoint)
	for _, p := range points {
		if p.ItemID != itemID || !p.Valid || p.UnitPrice <= 0 {
			continue
		}
		byPlatform[p.Platform] = append(byPlatform[p.Platform], p)
	}

	platforms := make([]string, 0, len(byPlatform))
	for name := range byPlatform {
		platforms = append(platforms, name)
	}
	sort.Strings(platforms)

	result := &model.ComparisonResult{ItemID: itemID, Platforms: []model.PlatformOption{}}
	for _, name := range platforms {
		group := byPlatform[name]
		if len(group) < minPlatformPoints {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool { return group[i].Date.Before(group[j].Date) })

		rule, err := c.source.FetchPlatformRules(name)
		if err != nil {
			return nil, fmt.Errorf("fetch rules for platform %q: %w", name, err)
		}

		prices := make([]float64, len(group))
		indexes := make([]float64, len(group))
		for i, p := range group {
			prices[i] = p.UnitPrice
			indexes[i] = float64(i)
		}
		slope, _ := trend.LinearRegression(indexes, prices)

		unitPrice := group[len(group)-1].UnitPrice
		option := model.PlatformOption{
			Platform:    name,
			UnitPrice:   unitPrice,
			TotalCost:   LandedCost(rule, unitPrice*quantity),
			Reliability: reliability(len(group)),
			Direction:   trend.DirectionFromSlope(slope),
			Samples:     len(group),
		}
		result.Platforms = append(result.Platforms, option)
	}

	if len(result.Platforms) == 0 {
		return result, nil
	}

	best := 0
	for i := 1; i < len(result.Platforms); i++ {
		if better(result.Platforms[i], result.Platforms[best]) {
			best = i
		}
	}
	chosen := result.Platforms[best]
	result.Best = &chosen

	if len(result.Platforms) >= 2 {
		var sum float64
		for _, opt := range result.Platforms {
			sum += opt.TotalCost
		}
		avg := sum / float64(len(result.Platforms))
		if avg > 0 {
			result.SavingsPercent = (avg - chosen.TotalCost) / avg * 100
		}
	}
	return result, nil
}

// better reports whether a should outrank b: lower cost, then higher
// reliability, then ascending platform name.
func better(a, b model.PlatformOption) bool {
	if a.TotalCost != b.TotalCost {
		return a.TotalCost < b.TotalCost
	}
	if a.Reliability != b.Reliability {
		return a.Reliability > b.Reliability
	}
	return a.Platform < b.Platform
}

func reliability(samples int) float64 {
	r := float64(samples) / reliabilitySaturation
	if r > 1 {
		return 1
	}
	return r
}

// LandedCost applies the platform's discount policy to a subtotal and then
// adds shipping unless the discounted subtotal clears the free-shipping
// threshold. A threshold of zero means shipping is never free.
func LandedCost(rule model.PlatformRule, subtotal float64) float64 {
	switch d := rule.Discount.(type) {
	case model.PercentageDiscount:
		subtotal -= subtotal * d.Percent / 100
	case model.FixedDiscount:
		subtotal -= d.Amount
		if subtotal < 0 {
			subtotal = 0
		}
	case model.ThresholdDiscount:
		// informational only
	}

	if rule.FreeShippingThreshold > 0 && subtotal >= rule.FreeShippingThreshold {
		return subtotal
	}
	return subtotal + rule.ShippingCost
}
