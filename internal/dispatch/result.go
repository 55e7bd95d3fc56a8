package dispatch

import (
	"fmt"
	"time"

	"github.com/HaseeebA/volley/internal/gateway"
	"github.com/HaseeebA/volley/internal/metrics"
)

// Result records the terminal state of a single task.
type Result struct {
	Task   Task
	Worker int

	// Status is the HTTP status code, 0 when the transport failed.
	Status int
	Body   string
	Timing gateway.TimingInfo

	// Check holds the response check outcome, nil when no check ran.
	Check *gateway.CheckResult

	Err error

	Start   time.Time
	End     time.Time
	Elapsed time.Duration
}

// WorkerName returns the display name of the worker that ran the task.
func (r *Result) WorkerName() string {
	return fmt.Sprintf("worker-%d", r.Worker)
}

// Failed reports whether the task reached a terminal failure: a
// transport error, a non-2xx status, or a schema violation.
func (r *Result) Failed() bool {
	if r.Err != nil {
		return true
	}
	if r.Status < 200 || r.Status >= 300 {
		return true
	}
	if r.Check != nil && !r.Check.OK() {
		return true
	}
	return false
}

// ErrorText returns the error message, or "" when the task succeeded
// at the transport level.
func (r *Result) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// BatchResult is the aggregate outcome of one Run. Results appear in
// completion order; Task.ID recovers submission order.
type BatchResult struct {
	Results []Result

	Sent   int
	Failed int

	Started  time.Time
	Finished time.Time
	Elapsed  time.Duration

	Latency metrics.Summary
}
