package engine

import (
	"fmt"
	"time"

	"github.com/chazu/inset/pkg/graph"
)

// DefaultTimeout is the limit for a single evaluation unless the engine
// is built with WithTimeout.
const DefaultTimeout = 5 * time.Second

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the evaluation time limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// evalResult passes evaluation results through channels.
type evalResult struct {
	graph  *graph.DesignGraph
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// once timeout elapses. A result for which stale reports true was
// overtaken by a newer evaluation and is discarded.
//
// On timeout the goroutine may still be running; its result lands in the
// buffered channel and is dropped.
func waitWithTimeout(ch <-chan evalResult, timeout time.Duration, stale func() bool) (*graph.DesignGraph, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if stale() {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.graph, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", timeout)
	}
}
