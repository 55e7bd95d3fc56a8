package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/HaseeebA/volley/internal/gateway"
	"github.com/HaseeebA/volley/internal/metrics"
)

// DefaultConcurrency is the worker pool size when none is configured.
const DefaultConcurrency = 3

// Sender executes a single message send. *gateway.Client satisfies it;
// tests substitute fakes.
type Sender interface {
	Send(ctx context.Context, msg gateway.Message) (*gateway.Response, error)
}

// Dispatcher fans tasks out to a fixed pool of workers.
type Dispatcher struct {
	sender      Sender
	concurrency int
	check       *gateway.Check
	onResult    func(Result)
}

// Option is a function that configures a Dispatcher
type Option func(*Dispatcher)

// New creates a dispatcher that sends through the given sender.
func New(sender Sender, options ...Option) *Dispatcher {
	d := &Dispatcher{
		sender:      sender,
		concurrency: DefaultConcurrency,
	}

	// Apply options
	for _, option := range options {
		option(d)
	}

	if d.concurrency < 1 {
		d.concurrency = 1
	}

	return d
}

// WithConcurrency caps the number of in-flight sends.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		d.concurrency = n
	}
}

// WithCheck applies a compiled response check to every successful send.
func WithCheck(check *gateway.Check) Option {
	return func(d *Dispatcher) {
		d.check = check
	}
}

// WithOnResult registers a callback invoked as each task completes.
// Callbacks run one at a time from a single goroutine, so callers can
// print multi-line blocks without interleaving.
func WithOnResult(fn func(Result)) Option {
	return func(d *Dispatcher) {
		d.onResult = fn
	}
}

// Run executes every task and returns once all of them have reached a
// terminal state. An empty task list returns immediately.
//
// Cancelling ctx stops queueing further tasks; in-flight sends are
// interrupted through the request context, and Run still drains the
// pool before returning.
func (d *Dispatcher) Run(ctx context.Context, tasks []Task) *BatchResult {
	started := time.Now()
	collector := metrics.NewCollector()

	batch := &BatchResult{Started: started}
	if len(tasks) == 0 {
		batch.Finished = started
		batch.Latency = collector.Snapshot()
		return batch
	}

	workers := d.concurrency
	if workers > len(tasks) {
		workers = len(tasks)
	}

	queue := make(chan Task)
	results := make(chan Result)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 1; i <= workers; i++ {
		go func(id int) {
			defer wg.Done()
			for task := range queue {
				results <- d.execute(ctx, id, task)
			}
		}(i)
	}

	// Feed tasks in submission order; cancellation stops the queue.
	go func() {
		defer close(queue)
		for _, task := range tasks {
			select {
			case queue <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Close results once every worker has exited.
	go func() {
		wg.Wait()
		close(results)
	}()

	// Results arrive one at a time, so the onResult callback never
	// runs concurrently with itself.
	for result := range results {
		collector.Record(result.Elapsed, !result.Failed())
		if result.Failed() {
			batch.Failed++
		} else {
			batch.Sent++
		}
		batch.Results = append(batch.Results, result)
		if d.onResult != nil {
			d.onResult(result)
		}
	}

	batch.Finished = time.Now()
	batch.Elapsed = batch.Finished.Sub(started)
	batch.Latency = collector.Snapshot()
	return batch
}

// execute runs one task to its terminal state. Errors are captured on
// the result rather than returned, so a failing task never takes its
// siblings down with it.
func (d *Dispatcher) execute(ctx context.Context, worker int, task Task) Result {
	result := Result{
		Task:   task,
		Worker: worker,
		Start:  time.Now(),
	}

	resp, err := d.sender.Send(ctx, task.Message)
	result.End = time.Now()
	result.Elapsed = result.End.Sub(result.Start)

	if err != nil {
		result.Err = err
		return result
	}

	result.Status = resp.StatusCode
	result.Body = resp.BodyString()
	result.Timing = resp.Timing

	if d.check != nil && resp.IsSuccess() {
		outcome := d.check.Apply(resp)
		result.Check = &outcome
	}

	return result
}
