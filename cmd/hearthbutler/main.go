// Command hearthbutler runs the price-intelligence toolkit over a saved
// price-history file.
//
// Usage:
//
//	hearthbutler --data history.json trend --item rice
//	hearthbutler --data history.json compare --item rice --qty 3
//	hearthbutler --data history.json optimize --items rice,beans
//	hearthbutler --data history.json alerts [--csv out.csv] [--watch "0 * * * *"]
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"

	"github.com/marovole/HearthBulter-sub010/internal/alerts"
	"github.com/marovole/HearthBulter-sub010/internal/intel"
	"github.com/marovole/HearthBulter-sub010/internal/model"
	"github.com/marovole/HearthBulter-sub010/internal/pricedata"
)

type ruleFile struct {
	Rules []ruleJSON `json:"rules"`
}

type ruleJSON struct {
	Platform              string  `json:"platform"`
	ShippingCost          float64 `json:"shipping_cost"`
	FreeShippingThreshold float64 `json:"free_shipping_threshold"`
	Discount              *struct {
		Type  string  `json:"type"`
		Value float64 `json:"value"`
	} `json:"discount,omitempty"`
}

func (r ruleJSON) rule() (model.PlatformRule, error) {
	out := model.PlatformRule{
		Platform:              r.Platform,
		ShippingCost:          r.ShippingCost,
		FreeShippingThreshold: r.FreeShippingThreshold,
	}
	if r.Discount == nil {
		return out, nil
	}
	switch r.Discount.Type {
	case "percentage":
		out.Discount = model.PercentageDiscount{Percent: r.Discount.Value}
	case "fixed":
		out.Discount = model.FixedDiscount{Amount: r.Discount.Value}
	case "threshold":
		out.Discount = model.ThresholdDiscount{MinSubtotal: r.Discount.Value}
	default:
		return out, fmt.Errorf("unknown discount type %q for platform %q", r.Discount.Type, r.Platform)
	}
	return out, nil
}

func main() {
	// .env is optional; flags and real env take precedence.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "hearthbutler",
		Usage: "price trends, platform comparison, bulk-purchase optimization, and price alerts",

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data",
				Usage:   "JSON price-history file",
				EnvVars: []string{"HEARTHBUTLER_DATA"},
			},
			&cli.StringFlag{
				Name:  "html",
				Usage: "exported order-history HTML page to import instead of --data",
			},
			&cli.StringFlag{
				Name:    "rules",
				Usage:   "JSON platform rules file",
				EnvVars: []string{"HEARTHBUTLER_RULES"},
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "forecast noise seed (0 = default)",
			},
		},

		Commands: []*cli.Command{
			trendCommand(),
			compareCommand(),
			optimizeCommand(),
			alertsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("hearthbutler: %v", err)
	}
}

func trendCommand() *cli.Command {
	return &cli.Command{
		Name:  "trend",
		Usage: "Analyze one item's price trend and 7-day forecast",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "item", Usage: "item id", Required: true},
			&cli.IntFlag{Name: "window", Value: 30, Usage: "analysis window in days"},
		},
		Action: func(c *cli.Context) error {
			service, err := buildService(c)
			if err != nil {
				return err
			}
			result, err := service.GetTrend(c.String("item"), c.Int("window"))
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:  "compare",
		Usage: "Rank platforms for one item by landed cost",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "item", Usage: "item id", Required: true},
			&cli.Float64Flag{Name: "qty", Value: 1, Usage: "purchase quantity"},
		},
		Action: func(c *cli.Context) error {
			service, err := buildService(c)
			if err != nil {
				return err
			}
			result, err := service.ComparePlatforms(c.String("item"), c.Float64("qty"))
			if err != nil {
				return err
			}
			if result.Best == nil {
				log.Printf("no platform has enough history for %q", c.String("item"))
			}
			return printJSON(result)
		},
	}
}

func optimizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimize",
		Usage: "Find the cheapest way to buy a list of items",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "items", Usage: "comma-separated item ids", Required: true},
		},
		Action: func(c *cli.Context) error {
			service, err := buildService(c)
			if err != nil {
				return err
			}
			plan, err := service.OptimizeBulkPurchase(splitItems(c.String("items")))
			if err != nil {
				return err
			}
			return printJSON(plan)
		},
	}
}

func alertsCommand() *cli.Command {
	return &cli.Command{
		Name:  "alerts",
		Usage: "Scan every item for price spikes and buying opportunities",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "window", Value: 7, Usage: "scan window in days"},
			&cli.StringFlag{Name: "csv", Usage: "write results as CSV to this file"},
			&cli.StringFlag{Name: "watch", Usage: "cron schedule: keep running and re-scan on it"},
		},
		Action: func(c *cli.Context) error {
			service, err := buildService(c)
			if err != nil {
				return err
			}
			window := c.Int("window")
			csvPath := c.String("csv")
			if schedule := c.String("watch"); schedule != "" {
				return runWatch(service, schedule, window, csvPath)
			}
			return scanAlerts(service, window, csvPath)
		},
	}
}

func buildService(c *cli.Context) (*intel.Service, error) {
	var points []model.PricePoint
	switch {
	case c.String("html") != "":
		imported, err := pricedata.ParseOrderHistoryFile(c.String("html"))
		if err != nil {
			return nil, err
		}
		points = imported
	case c.String("data") != "":
		data, err := os.ReadFile(c.String("data"))
		if err != nil {
			return nil, fmt.Errorf("read history: %w", err)
		}
		if err := json.Unmarshal(data, &points); err != nil {
			return nil, fmt.Errorf("parse history: %w", err)
		}
	default:
		return nil, fmt.Errorf("no price history: pass --data or --html (or set HEARTHBUTLER_DATA)")
	}

	var rules []model.PlatformRule
	if rulesPath := c.String("rules"); rulesPath != "" {
		data, err := os.ReadFile(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("read rules: %w", err)
		}
		var rf ruleFile
		if err := json.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("parse rules: %w", err)
		}
		for _, rj := range rf.Rules {
			rule, err := rj.rule()
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		}
	}

	source := pricedata.NewCachedSource(
		pricedata.NewMemorySource(points, pricedata.NewRuleTable(rules)),
		time.Hour,
	)
	return intel.New(source, intel.Config{Seed: c.Int64("seed")}), nil
}

func scanAlerts(service *intel.Service, window int, csvPath string) error {
	found, err := service.ScanAlerts(window)
	if err != nil {
		return err
	}

	report := alerts.NewReport(found, window)
	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("create csv: %w", err)
		}
		defer f.Close()
		if err := report.WriteCSV(f); err != nil {
			return err
		}
		log.Printf("wrote %d alerts to %s", len(found), csvPath)
		return nil
	}
	return report.WriteJSON(os.Stdout)
}

func runWatch(service *intel.Service, schedule string, window int, csvPath string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := scanAlerts(service, window, csvPath); err != nil {
			log.Printf("scheduled scan: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("bad schedule %q: %w", schedule, err)
	}
	log.Printf("watching with schedule %q", schedule)
	c.Run()
	return nil
}

func splitItems(items string) []string {
	var ids []string
	for _, id := range strings.Split(items, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
