// Package executor defines the execution contract shared by the HTTP layer
// and the language pipelines: a request carrying source text plus a language
// tag, and a normalized result carrying exactly one of output or error text
// alongside the elapsed wall-clock time.
package executor

import (
	"context"
	"time"
)

// Request represents a request to execute a source snippet.
type Request struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// Kind classifies how an execution ended. It never crosses the wire — the
// JSON contract is just output-or-error — but handlers and tests use it to
// tell compile failures, runtime failures, timeouts, and orchestration
// failures apart without parsing message text.
type Kind string

const (
	// KindSuccess means the snippet ran to completion; Output holds its stdout.
	KindSuccess Kind = "success"
	// KindInput means the request never reached a pipeline (empty source).
	KindInput Kind = "input_error"
	// KindCompile means a compiler or build tool rejected the source.
	KindCompile Kind = "compile_error"
	// KindRuntime means the program ran and failed (stderr output or non-zero exit).
	KindRuntime Kind = "runtime_error"
	// KindTimeout means the process tree was killed at the wall-clock limit.
	KindTimeout Kind = "timeout"
	// KindSystem means the orchestration itself failed: missing toolchain,
	// workspace allocation failure, process spawn failure.
	KindSystem Kind = "system_error"
)

// Result is the uniform outcome returned for every execution, regardless of
// language and regardless of how it failed. Output and Error are mutually
// exclusive; ExecutionTime covers the whole pipeline including compilation,
// and is 0 only when execution failed before any process could run.
type Result struct {
	Output        string  `json:"output,omitempty"`
	Error         string  `json:"error,omitempty"`
	ExecutionTime float64 `json:"execution_time"`
	Kind          Kind    `json:"-"`
}

// Success builds a result for a snippet that ran to completion.
func Success(output string, elapsed time.Duration) *Result {
	return &Result{
		Output:        output,
		ExecutionTime: elapsed.Seconds(),
		Kind:          KindSuccess,
	}
}

// Failure builds a result for any failed execution. The message is what the
// caller sees verbatim, so pipelines put compiler diagnostics and interpreter
// tracebacks here unmodified.
func Failure(kind Kind, message string, elapsed time.Duration) *Result {
	return &Result{
		Error:         message,
		ExecutionTime: elapsed.Seconds(),
		Kind:          kind,
	}
}

// Executor is the core interface for turning a request into a result.
// Implementations must never let a failing snippet surface as a Go error:
// compile errors, runtime errors, and timeouts are ordinary results. The
// error return is reserved for the caller's context being canceled before a
// result exists.
type Executor interface {
	Execute(ctx context.Context, req Request) (*Result, error)
}
