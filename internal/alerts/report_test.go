package alerts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/marovole/HearthBulter-sub010/internal/model"
)

func TestNewReportCounts(t *testing.T) {
	alerts := []model.PriceAlert{
		{ItemID: "a", Kind: model.AlertSpike, Urgency: model.UrgencyHigh},
		{ItemID: "b", Kind: model.AlertSpike, Urgency: model.UrgencyMedium},
		{ItemID: "c", Kind: model.AlertOpportunity, Urgency: model.UrgencyMedium},
	}

	r := NewReport(alerts, 7)

	if r.Metadata.TotalAlerts != 3 {
		t.Errorf("Expected 3 total alerts, got %d", r.Metadata.TotalAlerts)
	}
	if r.Metadata.HighUrgency != 1 || r.Metadata.MediumUrgency != 2 || r.Metadata.LowUrgency != 0 {
		t.Errorf("Expected counts 1/2/0, got %d/%d/%d",
			r.Metadata.HighUrgency, r.Metadata.MediumUrgency, r.Metadata.LowUrgency)
	}
	if r.Metadata.WindowDays != 7 {
		t.Errorf("Expected window 7, got %d", r.Metadata.WindowDays)
	}
}

func TestReportWriteCSV(t *testing.T) {
	alerts := []model.PriceAlert{
		{
			ItemID:           "=evil()",
			Kind:             model.AlertSpike,
			Urgency:          model.UrgencyHigh,
			CurrentPrice:     15,
			BaselinePrice:    10,
			DeviationPercent: 50,
		},
	}

	var buf bytes.Buffer
	if err := NewReport(alerts, 7).WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "'=evil()") {
		t.Error("Expected formula-leading item id to be escaped")
	}
	if !strings.Contains(out, "SPIKE") || !strings.Contains(out, "HIGH") {
		t.Error("Expected kind and urgency columns in CSV output")
	}
	if !strings.Contains(out, "50.0") {
		t.Error("Expected deviation column in CSV output")
	}
}

func TestReportWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewReport(nil, 7).WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if !strings.Contains(buf.String(), "\"window_days\": 7") {
		t.Errorf("Expected metadata in JSON output, got %s", buf.String())
	}
}
