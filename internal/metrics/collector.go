// Package metrics aggregates per-send latencies for a single batch run.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram range: 1 microsecond to 1 hour, 3 significant figures.
const (
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

// Collector records request latencies into an HDR histogram.
//
// Recording is safe for concurrent use: counters are atomic and the
// histogram is mutex protected (RecordValue is not thread-safe).
type Collector struct {
	hist   *hdrhistogram.Histogram
	histMu sync.Mutex

	total  atomic.Int64
	failed atomic.Int64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		hist: hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
	}
}

// Record adds one completed send to the histogram.
func (c *Collector) Record(latency time.Duration, success bool) {
	micros := latency.Microseconds()

	// Clamp to the recordable range
	if micros < histogramMin {
		micros = histogramMin
	}
	if micros > histogramMax {
		micros = histogramMax
	}

	c.histMu.Lock()
	c.hist.RecordValue(micros)
	c.histMu.Unlock()

	c.total.Add(1)
	if !success {
		c.failed.Add(1)
	}
}

// Snapshot returns an aggregated view of everything recorded so far.
func (c *Collector) Snapshot() Summary {
	c.histMu.Lock()
	latency := LatencyStats{
		Min:    time.Duration(c.hist.Min()) * time.Microsecond,
		Max:    time.Duration(c.hist.Max()) * time.Microsecond,
		Mean:   time.Duration(c.hist.Mean()) * time.Microsecond,
		StdDev: time.Duration(c.hist.StdDev()) * time.Microsecond,
		P50:    time.Duration(c.hist.ValueAtQuantile(50)) * time.Microsecond,
		P90:    time.Duration(c.hist.ValueAtQuantile(90)) * time.Microsecond,
		P95:    time.Duration(c.hist.ValueAtQuantile(95)) * time.Microsecond,
		P99:    time.Duration(c.hist.ValueAtQuantile(99)) * time.Microsecond,
		Count:  c.hist.TotalCount(),
	}
	c.histMu.Unlock()

	total := c.total.Load()
	failed := c.failed.Load()

	errorRate := 0.0
	if total > 0 {
		errorRate = float64(failed) / float64(total)
	}

	return Summary{
		Total:     total,
		Failed:    failed,
		ErrorRate: errorRate,
		Latency:   latency,
	}
}

// Reset clears everything recorded so far.
func (c *Collector) Reset() {
	c.histMu.Lock()
	c.hist.Reset()
	c.histMu.Unlock()

	c.total.Store(0)
	c.failed.Store(0)
}

// Summary is a point-in-time view of a collector.
type Summary struct {
	Total     int64        `json:"total"`
	Failed    int64        `json:"failed"`
	ErrorRate float64      `json:"errorRate"`
	Latency   LatencyStats `json:"latency"`
}

// LatencyStats contains latency distribution statistics.
type LatencyStats struct {
	Min    time.Duration `json:"min"`
	Max    time.Duration `json:"max"`
	Mean   time.Duration `json:"mean"`
	StdDev time.Duration `json:"stdDev"`
	P50    time.Duration `json:"p50"`
	P90    time.Duration `json:"p90"`
	P95    time.Duration `json:"p95"`
	P99    time.Duration `json:"p99"`
	Count  int64         `json:"count"`
}
