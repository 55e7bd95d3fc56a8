package output

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/HaseeebA/volley/internal/dispatch"
	"github.com/HaseeebA/volley/internal/gateway"
	"github.com/HaseeebA/volley/internal/metrics"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected OutputFormat
		wantErr  bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
		{"JSON", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected OutputFormat
	}{
		{"report.json", FormatJSON},
		{"report.yaml", FormatYAML},
		{"report.YML", FormatYAML},
		{"report.txt", FormatJSON},
		{"report", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatForPath(tt.path); got != tt.expected {
				t.Errorf("FormatForPath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func sampleBatchResult() *dispatch.BatchResult {
	started := time.Date(2025, 3, 1, 10, 15, 0, 0, time.UTC)
	return &dispatch.BatchResult{
		Results: []dispatch.Result{
			{
				Task: dispatch.Task{
					ID:      1,
					Account: "primary",
					Message: gateway.Message{
						Token:  "FEe6qKyrn2",
						Text:   "testing12",
						Number: "923237146391",
					},
				},
				Worker:  1,
				Status:  200,
				Body:    `{"status":"sent","id":"msg-000001"}`,
				Timing:  gateway.TimingInfo{TotalTime: 40 * time.Millisecond},
				Check:   &gateway.CheckResult{Extracted: map[string]string{"id": "msg-000001"}},
				End:     started.Add(40 * time.Millisecond),
				Elapsed: 40 * time.Millisecond,
			},
			{
				Task: dispatch.Task{
					ID: 2,
					Message: gateway.Message{
						Token:  "j8EYENJLH2",
						Text:   "testing123",
						Number: "923237146391",
					},
				},
				Worker:  2,
				Err:     errors.New("connection refused"),
				End:     started.Add(100 * time.Millisecond),
				Elapsed: 100 * time.Millisecond,
			},
		},
		Sent:     1,
		Failed:   1,
		Started:  started,
		Finished: started.Add(100 * time.Millisecond),
		Elapsed:  100 * time.Millisecond,
		Latency: metrics.Summary{
			Total:  2,
			Failed: 1,
			Latency: metrics.LatencyStats{
				Min:   40 * time.Millisecond,
				Max:   100 * time.Millisecond,
				Count: 2,
			},
		},
	}
}

func TestNewReport(t *testing.T) {
	report := NewReport("Morning reminders", sampleBatchResult())

	if report.Name != "Morning reminders" {
		t.Errorf("Expected name 'Morning reminders', got %q", report.Name)
	}
	if report.Total != 2 || report.Sent != 1 || report.Failed != 1 {
		t.Errorf("Unexpected counts: total=%d sent=%d failed=%d", report.Total, report.Sent, report.Failed)
	}
	if report.Started != "2025-03-01 10:15:00" {
		t.Errorf("Unexpected start stamp: %q", report.Started)
	}
	if report.Latency == nil || report.Latency.MaxMs != 100 {
		t.Errorf("Expected latency data with MaxMs=100, got %+v", report.Latency)
	}

	if len(report.Results) != 2 {
		t.Fatalf("Expected 2 result rows, got %d", len(report.Results))
	}

	first := report.Results[0]
	if first.Worker != "worker-1" || first.Status != 200 || first.Failed {
		t.Errorf("Unexpected first row: %+v", first)
	}
	if first.Timing == nil || first.Timing.Total != 40 {
		t.Errorf("Expected first row timing totalMs=40, got %+v", first.Timing)
	}
	if first.Extracted["id"] != "msg-000001" {
		t.Errorf("Expected extracted id, got %+v", first.Extracted)
	}

	second := report.Results[1]
	if second.Error != "connection refused" || !second.Failed {
		t.Errorf("Unexpected second row: %+v", second)
	}
	if second.Timing != nil {
		t.Errorf("Expected no timing for a failed transport, got %+v", second.Timing)
	}
}

func TestReport_RenderJSON(t *testing.T) {
	report := NewReport("batch", sampleBatchResult())

	rendered, err := report.Render(FormatJSON)
	if err != nil {
		t.Fatalf("Error rendering JSON: %v", err)
	}

	// Must be valid JSON
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(rendered), &decoded); err != nil {
		t.Fatalf("Rendered report is not valid JSON: %v", err)
	}

	if decoded["total"] != float64(2) {
		t.Errorf("Expected total 2, got %v", decoded["total"])
	}

	// Credential tokens must never appear in reports
	for _, token := range []string{"FEe6qKyrn2", "j8EYENJLH2"} {
		if strings.Contains(rendered, token) {
			t.Errorf("Expected report to exclude token %s", token)
		}
	}
}

func TestReport_RenderYAML(t *testing.T) {
	report := NewReport("batch", sampleBatchResult())

	rendered, err := report.Render(FormatYAML)
	if err != nil {
		t.Fatalf("Error rendering YAML: %v", err)
	}

	expectedParts := []string{
		"name: batch",
		"total: 2",
		"failed: 1",
		"worker: worker-1",
	}
	for _, part := range expectedParts {
		if !strings.Contains(rendered, part) {
			t.Errorf("Expected YAML to contain %q, got:\n%s", part, rendered)
		}
	}
}

func TestReport_RenderText_NotStructured(t *testing.T) {
	report := NewReport("batch", sampleBatchResult())
	if _, err := report.Render(FormatText); err == nil {
		t.Error("Expected error rendering text through Render")
	}
}
