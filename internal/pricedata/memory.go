package pricedata

import (
	"sort"
	"time"

	"github.com/marovole/HearthBulter-sub010/internal/model"
)

// MemorySource is a Source backed by an in-memory point slice and a static
// rule table. It is the standard backing for tests and for CLI runs that load
// history from a file.
type MemorySource struct {
	points []model.PricePoint
	rules  *RuleTable
}

func NewMemorySource(points []model.PricePoint, rules *RuleTable) *MemorySource {
	if rules == nil {
		rules = NewRuleTable(nil)
	}
	s := &MemorySource{rules: rules}
	s.points = append(s.points, points...)
	sort.SliceStable(s.points, func(i, j int) bool {
		if s.points[i].ItemID != s.points[j].ItemID {
			return s.points[i].ItemID < s.points[j].ItemID
		}
		return s.points[i].Date.Before(s.points[j].Date)
	})
	return s
}

func (s *MemorySource) FetchValidPricePoints(itemIDs []string, since time.Time) ([]model.PricePoint, error) {
	var want map[string]bool
	if len(itemIDs) > 0 {
		want = make(map[string]bool, len(itemIDs))
		for _, id := range itemIDs {
			want[id] = true
		}
	}

	var out []model.PricePoint
	for _, p := range s.points {
		if !p.Valid || p.UnitPrice <= 0 {
			continue
		}
		if p.Date.Before(since) {
			continue
		}
		if want != nil && !want[p.ItemID] {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *MemorySource) FetchPlatformRules(platform string) (model.PlatformRule, error) {
	return s.rules.Rule(platform), nil
}

// ItemIDs returns the distinct item ids present, ascending.
func (s *MemorySource) ItemIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, p := range s.points {
		if !seen[p.ItemID] {
			seen[p.ItemID] = true
			ids = append(ids, p.ItemID)
		}
	}
	sort.Strings(ids)
	return ids
}
