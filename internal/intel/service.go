// Package intel wires the analysis components behind the single surface the
// API, UI, and notification layers consume. Every operation is a pure
// function of the data the injected source returns; nothing is cached as
// authoritative state and independent calls are safe to run in parallel.
package intel

import (
	"github.com/marovole/HearthBulter-sub010/internal/alerts"
	"github.com/marovole/HearthBulter-sub010/internal/allocation"
	"github.com/marovole/HearthBulter-sub010/internal/compare"
	"github.com/marovole/HearthBulter-sub010/internal/model"
	"github.com/marovole/HearthBulter-sub010/internal/pricedata"
	"github.com/marovole/HearthBulter-sub010/internal/trend"
)

// Config tunes the service; zero values select the defaults.
type Config struct {
	Seed int64 // forecast noise seed
}

// Service is the price-intelligence front door.
type Service struct {
	trends     *trend.Analyzer
	comparator *compare.Comparator
	optimizer  *allocation.Optimizer
	alerts     *alerts.Generator
}

func New(source pricedata.Source, cfg Config) *Service {
	comparator := compare.NewComparator(source)
	return &Service{
		trends:     trend.NewAnalyzer(source, cfg.Seed),
		comparator: comparator,
		optimizer:  allocation.NewOptimizer(source, comparator),
		alerts:     alerts.NewGenerator(source),
	}
}

// GetTrend analyzes one item's price history over the trailing window.
func (s *Service) GetTrend(itemID string, windowDays int) (*model.TrendResult, error) {
	return s.trends.Trend(itemID, windowDays)
}

// ComparePlatforms ranks platforms for an item at the requested quantity.
func (s *Service) ComparePlatforms(itemID string, quantity float64) (*model.ComparisonResult, error) {
	return s.comparator.Compare(itemID, quantity)
}

// OptimizeBulkPurchase builds the cheapest purchase plan for a set of items.
func (s *Service) OptimizeBulkPurchase(itemIDs []string) (*model.AllocationPlan, error) {
	return s.optimizer.Optimize(itemIDs)
}

// ScanAlerts flags significant recent price deviations across all items.
func (s *Service) ScanAlerts(windowDays int) ([]model.PriceAlert, error) {
	return s.alerts.Scan(windowDays)
}
