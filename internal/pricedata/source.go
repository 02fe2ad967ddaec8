package pricedata

import (
	"sort"
	"time"

	"github.com/marovole/HearthBulter-sub010/internal/model"
)

// Source supplies immutable price observations and static platform rules.
// It is the only upstream of the analysis packages; all of them treat the
// returned slice as a read-only snapshot.
type Source interface {
	// FetchValidPricePoints returns only points with Valid=true observed at or
	// after since, ordered by item id then date ascending. An empty itemIDs
	// slice means all items.
	FetchValidPricePoints(itemIDs []string, since time.Time) ([]model.PricePoint, error)

	// FetchPlatformRules returns the shipping/discount rule for a platform.
	// Platforms without a configured rule get a neutral rule (no shipping,
	// no discount) so unconfigured platforms still price cleanly.
	FetchPlatformRules(platform string) (model.PlatformRule, error)
}

// RuleTable is a static, configuration-backed platform rule lookup.
type RuleTable struct {
	rules map[string]model.PlatformRule
}

func NewRuleTable(rules []model.PlatformRule) *RuleTable {
	t := &RuleTable{rules: make(map[string]model.PlatformRule, len(rules))}
	for _, r := range rules {
		t.rules[r.Platform] = r
	}
	return t
}

func (t *RuleTable) Rule(platform string) model.PlatformRule {
	if r, ok := t.rules[platform]; ok {
		return r
	}
	return model.PlatformRule{Platform: platform}
}

// Platforms returns the configured platform names in ascending order.
func (t *RuleTable) Platforms() []string {
	names := make([]string, 0, len(t.rules))
	for name := range t.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
