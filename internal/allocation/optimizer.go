package allocation

import (
	"context"
	"fmt"
	"sort"

	"github.com/marovole/HearthBulter-sub010/internal/compare"
	"github.com/marovole/HearthBulter-sub010/internal/model"
	"github.com/marovole/HearthBulter-sub010/internal/pricedata"
)

const mixedPlanID = "mixed"

// Optimizer builds and compares bulk-purchase plans: buy everything on one
// platform versus the cheapest platform per item. Iteration is always in
// sorted order so identical input yields byte-identical output.
type Optimizer struct {
	source     pricedata.Source
	fetcher    *pricedata.BatchFetcher
	comparator *compare.Comparator
}

func NewOptimizer(source pricedata.Source, comparator *compare.Comparator) *Optimizer {
	return &Optimizer{
		source:     source,
		fetcher:    pricedata.NewBatchFetcher(source, pricedata.BatchConfig{}),
		comparator: comparator,
	}
}

// itemPricing is one item's qualifying platform menu.
type itemPricing struct {
	itemID  string
	best    string             // cheapest platform (comparator tie-break)
	perUnit map[string]float64 // platform -> unit price
}

// Optimize prices every item at quantity one, builds every viable
// single-platform plan plus the mixed plan, and selects the minimum cost.
// Items with no qualifying platform are surfaced in UnpricedItems.
func (o *Optimizer) Optimize(itemIDs []string) (*model.AllocationPlan, error) {
	if len(itemIDs) == 0 {
		return nil, &model.InvalidInputError{Reason: "empty item list"}
	}

	ids := dedupeSorted(itemIDs)

	plan := &model.AllocationPlan{
		PerPlatformTotal: make(map[string]float64),
		Mixed:            make(map[string]model.PlanBreakdown),
		UnpricedItems:    []string{},
	}

	// All items' points come back in one batched fetch; per-item pricing runs
	// over the shared snapshot instead of issuing a read per item.
	points, err := o.fetcher.Fetch(context.Background(), ids, o.comparator.WindowStart())
	if err != nil {
		return nil, fmt.Errorf("fetch price points for %d items: %w", len(ids), err)
	}

	var priced []itemPricing
	for _, id := range ids {
		cmp, err := o.comparator.CompareFromPoints(id, 1, points)
		if err != nil {
			return nil, fmt.Errorf("price item %q: %w", id, err)
		}
		if cmp.Best == nil {
			plan.UnpricedItems = append(plan.UnpricedItems, id)
			continue
		}

		pricing := itemPricing{itemID: id, best: cmp.Best.Platform, perUnit: make(map[string]float64)}
		for _, opt := range cmp.Platforms {
			pricing.perUnit[opt.Platform] = opt.UnitPrice
		}
		priced = append(priced, pricing)
	}

	if len(priced) == 0 {
		return plan, nil
	}

	// Single-platform plans exist only for platforms every priced item offers.
	common := commonPlatforms(priced)
	for _, platform := range common {
		rule, err := o.source.FetchPlatformRules(platform)
		if err != nil {
			return nil, fmt.Errorf("fetch rules for platform %q: %w", platform, err)
		}
		var subtotal float64
		for _, item := range priced {
			subtotal += item.perUnit[platform]
		}
		// Shipping and discount apply once to the combined order.
		plan.PerPlatformTotal[platform] = compare.LandedCost(rule, subtotal)
	}

	// Mixed plan: cheapest platform per item, shipping per platform group.
	groups := make(map[string][]string)
	for _, item := range priced {
		groups[item.best] = append(groups[item.best], item.itemID)
	}
	groupNames := make([]string, 0, len(groups))
	for name := range groups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	var mixedTotal float64
	for _, platform := range groupNames {
		rule, err := o.source.FetchPlatformRules(platform)
		if err != nil {
			return nil, fmt.Errorf("fetch rules for platform %q: %w", platform, err)
		}
		items := groups[platform]
		sort.Strings(items)
		var subtotal float64
		for _, id := range items {
			for _, item := range priced {
				if item.itemID == id {
					subtotal += item.perUnit[platform]
				}
			}
		}
		cost := compare.LandedCost(rule, subtotal)
		plan.Mixed[platform] = model.PlanBreakdown{Items: items, Cost: cost}
		mixedTotal += cost
	}

	// Candidate plans in fixed order: single plans by platform name, then mixed.
	type candidate struct {
		id   string
		cost float64
	}
	var candidates []candidate
	for _, platform := range common {
		candidates = append(candidates, candidate{
			id:   "platform:" + platform,
			cost: plan.PerPlatformTotal[platform],
		})
	}
	candidates = append(candidates, candidate{id: mixedPlanID, cost: mixedTotal})

	best := candidates[0]
	var costSum float64
	for _, c := range candidates {
		costSum += c.cost
		if c.cost < best.cost {
			best = c
		}
	}
	plan.BestPlanID = best.id
	plan.TotalCost = best.cost

	avg := costSum / float64(len(candidates))
	if avg > 0 {
		plan.SavingsPercent = (avg - best.cost) / avg * 100
	}
	return plan, nil
}

// commonPlatforms returns, ascending, the platforms present in every item's
// qualifying set.
func commonPlatforms(priced []itemPricing) []string {
	counts := make(map[string]int)
	for _, item := range priced {
		for platform := range item.perUnit {
			counts[platform]++
		}
	}
	var common []string
	for platform, n := range counts {
		if n == len(priced) {
			common = append(common, platform)
		}
	}
	sort.Strings(common)
	return common
}

func dedupeSorted(ids []string) []string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	out := sorted[:0]
	for i, id := range sorted {
		if i == 0 || id != sorted[i-1] {
			out = append(out, id)
		}
	}
	return out
}
