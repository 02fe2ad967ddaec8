package pricedata

import (
	"reflect"
	"testing"
	"time"

	"github.com/marovole/HearthBulter-sub010/internal/model"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func point(item, platform string, daysAgo int, unitPrice float64, valid bool) model.PricePoint {
	return model.PricePoint{
		ItemID:    item,
		Date:      testNow.AddDate(0, 0, -daysAgo),
		Price:     unitPrice,
		UnitPrice: unitPrice,
		Platform:  platform,
		Valid:     valid,
	}
}

func TestMemorySourceFilters(t *testing.T) {
	s := NewMemorySource([]model.PricePoint{
		point("rice", "alpha", 1, 3.0, true),
		point("rice", "alpha", 2, 3.1, false), // invalid
		point("rice", "alpha", 40, 2.8, true), // too old
		point("beans", "beta", 1, 4.0, true),
	}, nil)

	got, err := s.FetchValidPricePoints([]string{"rice"}, testNow.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("FetchValidPricePoints failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 point, got %d", len(got))
	}
	if got[0].UnitPrice != 3.0 {
		t.Errorf("Expected the valid recent point, got %+v", got[0])
	}
}

func TestMemorySourceAllItemsSorted(t *testing.T) {
	s := NewMemorySource([]model.PricePoint{
		point("zeta", "alpha", 1, 5, true),
		point("alpha", "alpha", 1, 2, true),
		point("alpha", "alpha", 3, 1.8, true),
	}, nil)

	got, err := s.FetchValidPricePoints(nil, testNow.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("FetchValidPricePoints failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(got))
	}
	if got[0].ItemID != "alpha" || got[1].ItemID != "alpha" || got[2].ItemID != "zeta" {
		t.Errorf("Expected item-sorted output, got %v %v %v", got[0].ItemID, got[1].ItemID, got[2].ItemID)
	}
	if !got[0].Date.Before(got[1].Date) {
		t.Error("Expected dates ascending within an item")
	}

	if ids := s.ItemIDs(); !reflect.DeepEqual(ids, []string{"alpha", "zeta"}) {
		t.Errorf("Expected item ids [alpha zeta], got %v", ids)
	}
}

func TestRuleTable(t *testing.T) {
	table := NewRuleTable([]model.PlatformRule{
		{Platform: "beta", ShippingCost: 5},
		{Platform: "alpha", ShippingCost: 3, Discount: model.PercentageDiscount{Percent: 10}},
	})

	rule := table.Rule("alpha")
	if rule.ShippingCost != 3 {
		t.Errorf("Expected configured rule, got %+v", rule)
	}
	if _, ok := rule.Discount.(model.PercentageDiscount); !ok {
		t.Errorf("Expected percentage discount variant, got %T", rule.Discount)
	}

	neutral := table.Rule("unknown")
	if neutral.ShippingCost != 0 || neutral.Discount != nil {
		t.Errorf("Expected neutral rule for unconfigured platform, got %+v", neutral)
	}
	if neutral.Platform != "unknown" {
		t.Errorf("Expected platform carried through, got %q", neutral.Platform)
	}

	if got := table.Platforms(); !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Errorf("Expected sorted platform names, got %v", got)
	}
}
