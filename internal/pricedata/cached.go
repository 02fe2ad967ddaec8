package pricedata

import (
	"time"

	"github.com/marovole/HearthBulter-sub010/internal/cache"
	"github.com/marovole/HearthBulter-sub010/internal/model"
)

// discountRecord is the JSON shape a DiscountPolicy round-trips through the
// cache as; interfaces do not survive plain json.Unmarshal.
type discountRecord struct {
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
}

type cachedRule struct {
	Platform              string          `json:"platform"`
	ShippingCost          float64         `json:"shipping_cost"`
	FreeShippingThreshold float64         `json:"free_shipping_threshold"`
	Discount              *discountRecord `json:"discount,omitempty"`
}

func toCachedRule(r model.PlatformRule) cachedRule {
	c := cachedRule{
		Platform:              r.Platform,
		ShippingCost:          r.ShippingCost,
		FreeShippingThreshold: r.FreeShippingThreshold,
	}
	switch d := r.Discount.(type) {
	case model.PercentageDiscount:
		c.Discount = &discountRecord{Kind: "percentage", Value: d.Percent}
	case model.FixedDiscount:
		c.Discount = &discountRecord{Kind: "fixed", Value: d.Amount}
	case model.ThresholdDiscount:
		c.Discount = &discountRecord{Kind: "threshold", Value: d.MinSubtotal}
	}
	return c
}

func (c cachedRule) rule() model.PlatformRule {
	r := model.PlatformRule{
		Platform:              c.Platform,
		ShippingCost:          c.ShippingCost,
		FreeShippingThreshold: c.FreeShippingThreshold,
	}
	if c.Discount != nil {
		switch c.Discount.Kind {
		case "percentage":
			r.Discount = model.PercentageDiscount{Percent: c.Discount.Value}
		case "fixed":
			r.Discount = model.FixedDiscount{Amount: c.Discount.Value}
		case "threshold":
			r.Discount = model.ThresholdDiscount{MinSubtotal: c.Discount.Value}
		}
	}
	return r
}

// CachedSource wraps a Source and memoizes platform rule lookups, which may
// be backed by a remote configuration table. Price points are never cached:
// every analysis works on a fresh snapshot.
type CachedSource struct {
	inner Source
	rules *cache.Cache
	ttl   time.Duration
}

func NewCachedSource(inner Source, ttl time.Duration) *CachedSource {
	return &CachedSource{inner: inner, rules: cache.New(), ttl: ttl}
}

func (s *CachedSource) FetchValidPricePoints(itemIDs []string, since time.Time) ([]model.PricePoint, error) {
	return s.inner.FetchValidPricePoints(itemIDs, since)
}

func (s *CachedSource) FetchPlatformRules(platform string) (model.PlatformRule, error) {
	var c cachedRule
	hit, err := s.rules.Get(platform, &c)
	if err == nil && hit {
		return c.rule(), nil
	}

	rule, err := s.inner.FetchPlatformRules(platform)
	if err != nil {
		return model.PlatformRule{}, err
	}
	_ = s.rules.Put(platform, toCachedRule(rule), s.ttl)
	return rule, nil
}
