package alerts

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/marovole/HearthBulter-sub010/internal/model"
	"github.com/marovole/HearthBulter-sub010/internal/report"
)

// Report packages a scan's alerts with metadata for export.
type Report struct {
	Metadata ReportMetadata     `json:"metadata"`
	Alerts   []model.PriceAlert `json:"alerts"`
}

// ReportMetadata summarizes a scan for report consumers.
type ReportMetadata struct {
	GeneratedAt   time.Time `json:"generated_at"`
	WindowDays    int       `json:"window_days"`
	TotalAlerts   int       `json:"total_alerts"`
	HighUrgency   int       `json:"high_urgency"`
	MediumUrgency int       `json:"medium_urgency"`
	LowUrgency    int       `json:"low_urgency"`
}

// NewReport builds a report over a finished scan.
func NewReport(alerts []model.PriceAlert, windowDays int) *Report {
	meta := ReportMetadata{
		GeneratedAt: time.Now(),
		WindowDays:  windowDays,
		TotalAlerts: len(alerts),
	}
	for _, a := range alerts {
		switch a.Urgency {
		case model.UrgencyHigh:
			meta.HighUrgency++
		case model.UrgencyMedium:
			meta.MediumUrgency++
		case model.UrgencyLow:
			meta.LowUrgency++
		}
	}
	return &Report{Metadata: meta, Alerts: alerts}
}

// WriteCSV emits one row per alert with cells escaped against spreadsheet
// formula injection.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"Item", "Kind", "Urgency", "Current", "Baseline", "Deviation_Pct"},
	}
	for _, a := range r.Alerts {
		rows = append(rows, []string{
			a.ItemID,
			string(a.Kind),
			string(a.Urgency),
			strconv.FormatFloat(a.CurrentPrice, 'f', 2, 64),
			strconv.FormatFloat(a.BaselinePrice, 'f', 2, 64),
			strconv.FormatFloat(a.DeviationPercent, 'f', 1, 64),
		})
	}
	for _, row := range report.EscapeCSVRows(rows) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write alert row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON emits the full report, metadata included.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
