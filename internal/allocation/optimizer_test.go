package allocation

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/marovole/HearthBulter-sub010/internal/compare"
	"github.com/marovole/HearthBulter-sub010/internal/model"
	"github.com/marovole/HearthBulter-sub010/internal/pricedata"
	"github.com/marovole/HearthBulter-sub010/internal/testutil"
)

// Fixture dates are relative to the real clock so they land inside the
// comparator's trailing window.
var testNow = time.Now()

func newTestOptimizer(points []model.PricePoint, rules []model.PlatformRule) *Optimizer {
	source := pricedata.NewMemorySource(points, pricedata.NewRuleTable(rules))
	return NewOptimizer(source, compare.NewComparator(source))
}

// twoByTwo builds two items priced on two platforms with no shipping:
// rice alpha=5 beta=6, beans alpha=7 beta=4.
func twoByTwo(t *testing.T) *Optimizer {
	t.Helper()
	factory := testutil.NewHistoryFactory(1, testNow)
	var points []model.PricePoint
	points = append(points, factory.Series("rice", "alpha", []float64{5, 5})...)
	points = append(points, factory.Series("rice", "beta", []float64{6, 6})...)
	points = append(points, factory.Series("beans", "alpha", []float64{7, 7})...)
	points = append(points, factory.Series("beans", "beta", []float64{4, 4})...)
	return newTestOptimizer(points, nil)
}

func TestOptimizeMixedPlanDominance(t *testing.T) {
	plan, err := twoByTwo(t).Optimize([]string{"rice", "beans"})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if plan.PerPlatformTotal["alpha"] != 12 {
		t.Errorf("Expected alpha plan 12, got %v", plan.PerPlatformTotal["alpha"])
	}
	if plan.PerPlatformTotal["beta"] != 10 {
		t.Errorf("Expected beta plan 10, got %v", plan.PerPlatformTotal["beta"])
	}

	var mixedTotal float64
	for _, group := range plan.Mixed {
		mixedTotal += group.Cost
	}
	if mixedTotal != 9 {
		t.Errorf("Expected mixed plan 9, got %v", mixedTotal)
	}
	for _, single := range plan.PerPlatformTotal {
		if mixedTotal > single {
			t.Errorf("Mixed plan %v exceeds single-platform plan %v", mixedTotal, single)
		}
	}

	if plan.BestPlanID != "mixed" {
		t.Errorf("Expected best plan mixed, got %s", plan.BestPlanID)
	}
	if plan.TotalCost != 9 {
		t.Errorf("Expected total 9, got %v", plan.TotalCost)
	}

	if !reflect.DeepEqual(plan.Mixed["alpha"].Items, []string{"rice"}) {
		t.Errorf("Expected alpha group [rice], got %v", plan.Mixed["alpha"].Items)
	}
	if !reflect.DeepEqual(plan.Mixed["beta"].Items, []string{"beans"}) {
		t.Errorf("Expected beta group [beans], got %v", plan.Mixed["beta"].Items)
	}

	// mean(12, 10, 9) = 31/3; savings measured against that mean.
	mean := 31.0 / 3
	wantSavings := (mean - 9) / mean * 100
	if math.Abs(plan.SavingsPercent-wantSavings) > 1e-9 {
		t.Errorf("Expected savings %.4f%%, got %v", wantSavings, plan.SavingsPercent)
	}
}

func TestOptimizeShippingOncePerPlatform(t *testing.T) {
	factory := testutil.NewHistoryFactory(1, testNow)
	var points []model.PricePoint
	points = append(points, factory.Series("rice", "alpha", []float64{5, 5})...)
	points = append(points, factory.Series("beans", "alpha", []float64{7, 7})...)
	rules := []model.PlatformRule{{Platform: "alpha", ShippingCost: 10}}

	plan, err := newTestOptimizer(points, rules).Optimize([]string{"rice", "beans"})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	// 5 + 7 + one shipping charge, not one per item.
	if plan.PerPlatformTotal["alpha"] != 22 {
		t.Errorf("Expected single shipping on combined order: 22, got %v", plan.PerPlatformTotal["alpha"])
	}
	if plan.Mixed["alpha"].Cost != 22 {
		t.Errorf("Expected mixed group cost 22, got %v", plan.Mixed["alpha"].Cost)
	}
}

func TestOptimizeCombinedOrderReachesFreeShipping(t *testing.T) {
	factory := testutil.NewHistoryFactory(1, testNow)
	var points []model.PricePoint
	points = append(points, factory.Series("rice", "alpha", []float64{6, 6})...)
	points = append(points, factory.Series("beans", "alpha", []float64{7, 7})...)
	rules := []model.PlatformRule{{Platform: "alpha", ShippingCost: 4, FreeShippingThreshold: 12}}

	plan, err := newTestOptimizer(points, rules).Optimize([]string{"rice", "beans"})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	// Individually each item pays shipping; the combined order clears the
	// threshold at 13.
	if plan.PerPlatformTotal["alpha"] != 13 {
		t.Errorf("Expected combined order free shipping: 13, got %v", plan.PerPlatformTotal["alpha"])
	}
}

func TestOptimizeUnpricedItems(t *testing.T) {
	factory := testutil.NewHistoryFactory(1, testNow)
	var points []model.PricePoint
	points = append(points, factory.Series("rice", "alpha", []float64{5, 5})...)
	points = append(points, factory.Series("ghost", "alpha", []float64{3})...) // one point: never qualifies

	plan, err := newTestOptimizer(points, nil).Optimize([]string{"rice", "ghost", "phantom"})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if !reflect.DeepEqual(plan.UnpricedItems, []string{"ghost", "phantom"}) {
		t.Errorf("Expected unpriced [ghost phantom], got %v", plan.UnpricedItems)
	}
	if plan.PerPlatformTotal["alpha"] != 5 {
		t.Errorf("Expected unpriced items excluded from totals, got %v", plan.PerPlatformTotal["alpha"])
	}
}

func TestOptimizeAllUnpriced(t *testing.T) {
	plan, err := newTestOptimizer(nil, nil).Optimize([]string{"ghost"})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if plan.BestPlanID != "" || plan.TotalCost != 0 {
		t.Errorf("Expected empty plan, got best %q total %v", plan.BestPlanID, plan.TotalCost)
	}
	if !reflect.DeepEqual(plan.UnpricedItems, []string{"ghost"}) {
		t.Errorf("Expected unpriced [ghost], got %v", plan.UnpricedItems)
	}
}

func TestOptimizeEmptyInput(t *testing.T) {
	var invalid *model.InvalidInputError
	if _, err := newTestOptimizer(nil, nil).Optimize(nil); !errors.As(err, &invalid) {
		t.Errorf("Expected InvalidInputError for empty item list, got %v", err)
	}
}

func TestOptimizeDeterministic(t *testing.T) {
	o := twoByTwo(t)

	first, err := o.Optimize([]string{"beans", "rice"})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	second, err := o.Optimize([]string{"rice", "beans"})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical plans regardless of input order")
	}
}

// fetchCountSource counts point round trips against the backing source.
type fetchCountSource struct {
	pricedata.Source
	pointFetches int
}

func (s *fetchCountSource) FetchValidPricePoints(itemIDs []string, since time.Time) ([]model.PricePoint, error) {
	s.pointFetches++
	return s.Source.FetchValidPricePoints(itemIDs, since)
}

func TestOptimizeFetchesPointsOnce(t *testing.T) {
	factory := testutil.NewHistoryFactory(1, testNow)
	var points []model.PricePoint
	points = append(points, factory.Series("rice", "alpha", []float64{5, 5})...)
	points = append(points, factory.Series("rice", "beta", []float64{6, 6})...)
	points = append(points, factory.Series("beans", "alpha", []float64{7, 7})...)
	points = append(points, factory.Series("beans", "beta", []float64{4, 4})...)
	points = append(points, factory.Series("flour", "alpha", []float64{3, 3})...)
	points = append(points, factory.Series("oats", "beta", []float64{2, 2})...)

	counting := &fetchCountSource{Source: pricedata.NewMemorySource(points, pricedata.NewRuleTable(nil))}
	o := NewOptimizer(counting, compare.NewComparator(counting))

	plan, err := o.Optimize([]string{"rice", "beans", "flour", "oats"})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if counting.pointFetches != 1 {
		t.Errorf("Expected one point round trip for 4 items, got %d", counting.pointFetches)
	}
	if plan.Mixed["alpha"].Cost == 0 || plan.Mixed["beta"].Cost == 0 {
		t.Errorf("Expected priced mixed groups from the shared snapshot, got %v", plan.Mixed)
	}
}

func TestOptimizeSinglePlatformWins(t *testing.T) {
	// Mixing would split the order across platforms and pay two shipping
	// charges; one platform with free shipping over threshold wins.
	factory := testutil.NewHistoryFactory(1, testNow)
	var points []model.PricePoint
	points = append(points, factory.Series("rice", "alpha", []float64{6, 6})...)
	points = append(points, factory.Series("beans", "alpha", []float64{7, 7})...)
	points = append(points, factory.Series("rice", "beta", []float64{5, 5})...)
	points = append(points, factory.Series("beans", "beta", []float64{8, 8})...)
	rules := []model.PlatformRule{
		{Platform: "alpha", ShippingCost: 6, FreeShippingThreshold: 12},
		{Platform: "beta", ShippingCost: 6},
	}

	plan, err := newTestOptimizer(points, rules).Optimize([]string{"rice", "beans"})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	// alpha: 13, free shipping. beta: 13 + 6. mixed: rice on beta (5+6=11
	// beats 6+6=12), beans on alpha (7+6=13 beats 8+6=14) -> groups pay
	// 5+6 and 7+6 = 24.
	if plan.PerPlatformTotal["alpha"] != 13 {
		t.Errorf("Expected alpha 13, got %v", plan.PerPlatformTotal["alpha"])
	}
	if plan.BestPlanID != "platform:alpha" {
		t.Errorf("Expected platform:alpha to win, got %s", plan.BestPlanID)
	}
	if plan.TotalCost != 13 {
		t.Errorf("Expected total 13, got %v", plan.TotalCost)
	}
}
