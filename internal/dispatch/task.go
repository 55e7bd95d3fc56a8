// Package dispatch runs message sends through a bounded worker pool.
//
// Tasks are queued in submission order and picked up by a fixed number
// of workers, so at most the configured concurrency is in flight at any
// instant. Run blocks until every task has reached a terminal state;
// one task failing never prevents its siblings from completing.
package dispatch

import (
	"github.com/HaseeebA/volley/internal/gateway"
)

// Task is one queued message send. Tasks are immutable once built and
// each one is executed exactly once.
type Task struct {
	// ID is the 1-based submission position within the batch.
	ID int `json:"id"`

	// Account is the configured alias for the sending credential.
	// May be empty when the token was given inline.
	Account string `json:"account,omitempty"`

	// Message is what gets sent.
	Message gateway.Message `json:"-"`
}
