// Package engine evaluates scene scripts. A script is zygomys Lisp with
// builtins for profiles and offset operations; evaluating it yields a
// graph.DesignGraph.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/inset/pkg/graph"
)

// EvalError is a problem in the script itself: a parse error, a failing
// builtin or a validation error in the graph it built. Line is 0 when
// the position is unknown.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line <= 0 {
		return e.Message
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// EvalWarning is a validation warning about one node of the graph.
type EvalWarning struct {
	Message string
	NodeID  graph.NodeID
}

// EvalResult bundles the full output of an evaluation and the validation
// of the graph it produced.
type EvalResult struct {
	Graph    *graph.DesignGraph
	Errors   []EvalError
	Warnings []EvalWarning
}

// OK reports whether the result carries a graph and no errors.
func (r EvalResult) OK() bool {
	return r.Graph != nil && len(r.Errors) == 0
}

// Engine evaluates scripts, each in a fresh sandbox. A call to Evaluate
// supersedes any call still running on the same Engine, so independent
// evaluations need an Engine each.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
}

// NewEngine returns an Engine with DefaultTimeout unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs source and returns the graph it built. Problems in the
// script come back as EvalErrors with a nil graph. The error result is
// reserved for failures of the evaluation itself: a timeout, a panic, or
// being superseded by a newer call.
func (e *Engine) Evaluate(source string) (*graph.DesignGraph, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("engine: panic: %v", r)}
			}
		}()
		g, evalErrs, err := e.evaluate(source)
		ch <- evalResult{graph: g, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, e.timeout, func() bool {
		return e.currentGeneration() != gen
	})
}

// Run evaluates source and validates the resulting graph. Validation
// errors are reported in Errors and clear Graph; validation warnings go
// to Warnings.
func (e *Engine) Run(source string) (EvalResult, error) {
	g, evalErrs, err := e.Evaluate(source)
	if err != nil {
		return EvalResult{}, err
	}
	res := EvalResult{Graph: g, Errors: evalErrs}
	if g == nil {
		return res, nil
	}
	for _, v := range graph.Validate(g) {
		if v.Severity == graph.SeverityWarning {
			res.Warnings = append(res.Warnings, EvalWarning{Message: v.Message, NodeID: v.NodeID})
			continue
		}
		res.Errors = append(res.Errors, EvalError{Message: v.Error()})
	}
	if len(res.Errors) > 0 {
		res.Graph = nil
	}
	return res, nil
}

func (e *Engine) evaluate(source string) (*graph.DesignGraph, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return graph.New(), nil, nil
	}

	// no filesystem or system calls from scripts
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	s := newScene()
	registerBuiltins(env, s)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	g := s.finish()
	g.Version = e.currentGeneration()
	return g, nil, nil
}

func (e *Engine) currentGeneration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// linePatterns match the positions zygomys puts in its messages, as in
// "Error on line 5: ..." or "line 5: ...".
var linePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`),
	regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`),
}

// parseZygomysError turns a zygomys error into an EvalError, keeping the
// line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range linePatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
