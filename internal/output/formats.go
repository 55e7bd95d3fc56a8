package output

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/HaseeebA/volley/internal/dispatch"
)

// OutputFormat represents the available report formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs the report in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs the report in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseOutputFormat parses a format name from a command-line flag.
// An empty name selects the text format.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (expected text, json, or yaml)", s)
	}
}

// FormatForPath picks the structured format for a report file from its
// extension. JSON is the default.
func FormatForPath(path string) OutputFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// TimingData is the per-request phase breakdown in milliseconds.
type TimingData struct {
	DNSLookup       int64 `json:"dnsLookupMs,omitempty" yaml:"dnsLookupMs,omitempty"`
	TCPConnection   int64 `json:"tcpConnectionMs,omitempty" yaml:"tcpConnectionMs,omitempty"`
	TLSHandshake    int64 `json:"tlsHandshakeMs,omitempty" yaml:"tlsHandshakeMs,omitempty"`
	TimeToFirstByte int64 `json:"timeToFirstByteMs,omitempty" yaml:"timeToFirstByteMs,omitempty"`
	ContentTransfer int64 `json:"contentTransferMs,omitempty" yaml:"contentTransferMs,omitempty"`
	Total           int64 `json:"totalMs" yaml:"totalMs"`
}

// ResultData is one completed send in a report. Credential tokens are
// deliberately left out.
type ResultData struct {
	ID         int               `json:"id" yaml:"id"`
	Account    string            `json:"account,omitempty" yaml:"account,omitempty"`
	Number     string            `json:"number" yaml:"number"`
	Worker     string            `json:"worker" yaml:"worker"`
	Status     int               `json:"status,omitempty" yaml:"status,omitempty"`
	Body       string            `json:"body,omitempty" yaml:"body,omitempty"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
	Failed     bool              `json:"failed" yaml:"failed"`
	Seconds    float64           `json:"seconds" yaml:"seconds"`
	Timestamp  string            `json:"timestamp" yaml:"timestamp"`
	Timing     *TimingData       `json:"timing,omitempty" yaml:"timing,omitempty"`
	Extracted  map[string]string `json:"extracted,omitempty" yaml:"extracted,omitempty"`
	Violations []string          `json:"violations,omitempty" yaml:"violations,omitempty"`
}

// LatencyData is the latency distribution in milliseconds.
type LatencyData struct {
	MinMs  float64 `json:"minMs" yaml:"minMs"`
	MeanMs float64 `json:"meanMs" yaml:"meanMs"`
	P50Ms  float64 `json:"p50Ms" yaml:"p50Ms"`
	P90Ms  float64 `json:"p90Ms" yaml:"p90Ms"`
	P95Ms  float64 `json:"p95Ms" yaml:"p95Ms"`
	P99Ms  float64 `json:"p99Ms" yaml:"p99Ms"`
	MaxMs  float64 `json:"maxMs" yaml:"maxMs"`
}

// Report is the structured outcome of one batch run.
type Report struct {
	Name         string       `json:"name,omitempty" yaml:"name,omitempty"`
	Total        int          `json:"total" yaml:"total"`
	Sent         int          `json:"sent" yaml:"sent"`
	Failed       int          `json:"failed" yaml:"failed"`
	TotalSeconds float64      `json:"totalSeconds" yaml:"totalSeconds"`
	Started      string       `json:"started" yaml:"started"`
	Finished     string       `json:"finished" yaml:"finished"`
	Latency      *LatencyData `json:"latency,omitempty" yaml:"latency,omitempty"`
	Results      []ResultData `json:"results" yaml:"results"`
}

// NewReport builds a structured report from a batch result.
func NewReport(name string, b *dispatch.BatchResult) *Report {
	report := &Report{
		Name:         name,
		Total:        len(b.Results),
		Sent:         b.Sent,
		Failed:       b.Failed,
		TotalSeconds: b.Elapsed.Seconds(),
		Started:      b.Started.Format(timestampLayout),
		Finished:     b.Finished.Format(timestampLayout),
		Results:      make([]ResultData, 0, len(b.Results)),
	}

	if b.Latency.Latency.Count > 0 {
		report.Latency = &LatencyData{
			MinMs:  durationMillis(b.Latency.Latency.Min),
			MeanMs: durationMillis(b.Latency.Latency.Mean),
			P50Ms:  durationMillis(b.Latency.Latency.P50),
			P90Ms:  durationMillis(b.Latency.Latency.P90),
			P95Ms:  durationMillis(b.Latency.Latency.P95),
			P99Ms:  durationMillis(b.Latency.Latency.P99),
			MaxMs:  durationMillis(b.Latency.Latency.Max),
		}
	}

	for i := range b.Results {
		report.Results = append(report.Results, newResultData(&b.Results[i]))
	}

	return report
}

// newResultData maps a single dispatch result into its report row.
func newResultData(r *dispatch.Result) ResultData {
	data := ResultData{
		ID:        r.Task.ID,
		Account:   r.Task.Account,
		Number:    r.Task.Message.Number,
		Worker:    r.WorkerName(),
		Status:    r.Status,
		Body:      r.Body,
		Error:     r.ErrorText(),
		Failed:    r.Failed(),
		Seconds:   r.Elapsed.Seconds(),
		Timestamp: r.End.Format(timestampLayout),
	}

	if r.Err == nil {
		data.Timing = &TimingData{
			DNSLookup:       r.Timing.DNSLookupTime.Milliseconds(),
			TCPConnection:   r.Timing.TCPConnectTime.Milliseconds(),
			TLSHandshake:    r.Timing.TLSHandshakeTime.Milliseconds(),
			TimeToFirstByte: r.Timing.TimeToFirstByte.Milliseconds(),
			ContentTransfer: r.Timing.ContentTransferTime.Milliseconds(),
			Total:           r.Timing.TotalTime.Milliseconds(),
		}
	}

	if r.Check != nil {
		data.Extracted = r.Check.Extracted
		data.Violations = r.Check.Violations
	}

	return data
}

// Render serializes the report in the requested structured format.
// The text format is rendered incrementally by Formatter instead.
func (r *Report) Render(format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to render JSON report: %w", err)
		}
		return string(data) + "\n", nil
	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("failed to render YAML report: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("format %s has no structured rendering", format)
	}
}

func durationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
