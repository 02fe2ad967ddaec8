package alerts

import (
	"fmt"
	"sort"
	"time"

	"github.com/marovole/HearthBulter-sub010/internal/model"
	"github.com/marovole/HearthBulter-sub010/internal/pricedata"
)

const (
	// DefaultWindowDays is the scan window when the caller passes zero.
	DefaultWindowDays = 7

	// An item needs this many recent points before it can be evaluated.
	minAlertPoints = 3

	// Baseline covers the 2nd through 6th most recent points; the most
	// recent point is the one being judged.
	baselineDepth = 5

	spikeThresholdPct       = 20
	spikeHighThresholdPct   = 50
	opportunityThresholdPct = -15
)

// Generator scans recent history across all items and flags statistically
// significant deviations from each item's short rolling baseline.
type Generator struct {
	source pricedata.Source
	now    func() time.Time
}

func NewGenerator(source pricedata.Source) *Generator {
	return &Generator{source: source, now: time.Now}
}

// Scan evaluates every item with enough recent history. Items below the
// point minimum are skipped, never an error. Output is sorted by urgency
// descending, then item id ascending.
func (g *Generator) Scan(windowDays int) ([]model.PriceAlert, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	since := g.now().AddDate(0, 0, -windowDays)
	points, err := g.source.FetchValidPricePoints(nil, since)
	if err != nil {
		return nil, fmt.Errorf("fetch price points: %w", err)
	}

	byItem := make(map[string][]model.PricePoint)
	for _, p := range points {
		if !p.Valid || p.UnitPrice <= 0 {
			continue
		}
		byItem[p.ItemID] = append(byItem[p.ItemID], p)
	}

	itemIDs := make([]string, 0, len(byItem))
	for id := range byItem {
		itemIDs = append(itemIDs, id)
	}
	sort.Strings(itemIDs)

	var alerts []model.PriceAlert
	for _, id := range itemIDs {
		history := byItem[id]
		sort.SliceStable(history, func(i, j int) bool { return history[i].Date.Before(history[j].Date) })
		if alert, ok := evaluate(id, history); ok {
			alerts = append(alerts, alert)
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := model.UrgencyRank(alerts[i].Urgency), model.UrgencyRank(alerts[j].Urgency)
		if ri != rj {
			return ri > rj
		}
		return alerts[i].ItemID < alerts[j].ItemID
	})
	return alerts, nil
}

// evaluate judges the most recent price against the mean of the points
// ranked 2nd through 6th most recent.
func evaluate(itemID string, history []model.PricePoint) (model.PriceAlert, bool) {
	if len(history) < minAlertPoints {
		return model.PriceAlert{}, false
	}

	current := history[len(history)-1].UnitPrice

	var sum float64
	var n int
	for i := len(history) - 2; i >= 0 && n < baselineDepth; i-- {
		sum += history[i].UnitPrice
		n++
	}
	baseline := sum / float64(n)
	if baseline <= 0 {
		return model.PriceAlert{}, false
	}

	deviation := (current - baseline) / baseline * 100

	alert := model.PriceAlert{
		ItemID:           itemID,
		CurrentPrice:     current,
		BaselinePrice:    baseline,
		DeviationPercent: deviation,
	}

	switch {
	case deviation >= spikeHighThresholdPct:
		alert.Kind = model.AlertSpike
		alert.Urgency = model.UrgencyHigh
	case deviation > spikeThresholdPct:
		alert.Kind = model.AlertSpike
		alert.Urgency = model.UrgencyMedium
	case deviation < opportunityThresholdPct:
		alert.Kind = model.AlertOpportunity
		alert.Urgency = model.UrgencyMedium
	default:
		return model.PriceAlert{}, false
	}
	return alert, true
}
