// Package executor defines scheduler errors
package executor

import "errors"

var (
	// ErrExecutorClosed is returned by Run after Close, and completes any
	// future still pending when the executor shuts down.
	ErrExecutorClosed = errors.New("executor is closed")

	// ErrNilGraph is returned when Run is given no graph.
	ErrNilGraph = errors.New("graph cannot be nil")
)
