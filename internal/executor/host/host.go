// Package host implements the executor contract with the host-installed
// toolchains: each execution gets a private workspace directory, one or more
// bounded child processes, and a normalized result. Isolation beyond
// per-execution filesystem ownership and process-group time limits is the
// deployment's responsibility — anything stronger (containers, seccomp,
// namespaces) slots in behind the same executor.Executor interface.
package host

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sakif/online-compiler/internal/executor"
)

// Executor dispatches execution requests to the per-language pipelines.
type Executor struct {
	cfg       Config
	logger    *slog.Logger
	pipelines map[string]pipeline
	fallback  pipeline
	// slots bounds concurrent executions. Each run holds one slot for its
	// whole lifetime; further requests queue on the channel until a slot
	// frees or their context is canceled.
	slots chan struct{}
}

var _ executor.Executor = (*Executor)(nil)

// New creates a host Executor and prepares the workspace base directory.
func New(cfg Config, logger *slog.Logger) (*Executor, error) {
	if cfg.WorkspaceDir == "" {
		cfg.WorkspaceDir = filepath.Join(os.TempDir(), "playground")
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultConfig().MaxConcurrent
	}
	if err := os.MkdirAll(cfg.WorkspaceDir, 0o755); err != nil {
		return nil, fmt.Errorf("host: creating workspace dir: %w", err)
	}

	d := &deps{
		cfg:    cfg,
		ws:     newWorkspaceManager(cfg.WorkspaceDir, logger),
		logger: logger,
	}
	registry := buildRegistry(d)

	return &Executor{
		cfg:       cfg,
		logger:    logger,
		pipelines: registry,
		fallback:  registry["python"],
		slots:     make(chan struct{}, cfg.MaxConcurrent),
	}, nil
}

// Execute validates the request, waits for an execution slot, and delegates
// to the pipeline registered for the language tag. Unknown tags fall back to
// the python pipeline. All failure modes — including a panicking pipeline —
// come back as results, never as faults for the transport layer to handle.
func (e *Executor) Execute(ctx context.Context, req executor.Request) (res *executor.Result, err error) {
	if strings.TrimSpace(req.Code) == "" {
		return executor.Failure(executor.KindInput, "No code provided", 0), nil
	}

	select {
	case e.slots <- struct{}{}:
		defer func() { <-e.slots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	p, ok := e.pipelines[req.Language]
	if !ok {
		e.logger.Warn("unknown language, using default pipeline",
			slog.String("language", req.Language),
		)
		p = e.fallback
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("pipeline panicked",
				slog.String("language", req.Language),
				slog.Any("panic", r),
			)
			res = executor.Failure(executor.KindSystem,
				fmt.Sprintf("internal execution failure: %v", r), 0)
			err = nil
		}
	}()

	res = p.run(ctx, req.Code)

	e.logger.Info("execution finished",
		slog.String("language", req.Language),
		slog.String("kind", string(res.Kind)),
		slog.Float64("seconds", res.ExecutionTime),
	)
	return res, nil
}
