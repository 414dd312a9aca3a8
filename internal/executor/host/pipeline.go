package host

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/online-compiler/internal/executor"
)

// pipeline is the per-language sequence that turns source text into a
// normalized result: acquire a workspace, run one or more processes, map the
// raw outcomes onto the output/error channels, release the workspace.
type pipeline interface {
	run(ctx context.Context, source string) *executor.Result
}

// deps is what every pipeline needs: limits, workspace allocation, logging.
type deps struct {
	cfg    Config
	ws     *workspaceManager
	logger *slog.Logger
}

const timeoutMessage = "Code execution timed out"

// systemFailure wraps an orchestration failure (workspace or spawn) into a
// result. Timing is reported as 0 — nothing meaningful ran.
func systemFailure(err error) *executor.Result {
	return executor.Failure(executor.KindSystem, err.Error(), 0)
}

// finishRun classifies the final run step of a pipeline. Any stderr content
// marks the run as failed and becomes the error text verbatim; a non-zero
// exit with a silent stderr is still a failure, reported with the code.
func finishRun(out processOutcome, start time.Time) *executor.Result {
	elapsed := time.Since(start)
	switch {
	case out.timedOut:
		return executor.Failure(executor.KindTimeout, timeoutMessage, elapsed)
	case out.stderr != "":
		return executor.Failure(executor.KindRuntime, out.stderr, elapsed)
	case out.exitCode != 0:
		msg := fmt.Sprintf("Process exited with code %d", out.exitCode)
		return executor.Failure(executor.KindRuntime, msg, elapsed)
	default:
		return executor.Success(out.stdout, elapsed)
	}
}

// interpreted is the single-step pattern: write the source under the
// language's conventional file name and hand it to the interpreter.
// Python and JavaScript use it.
type interpreted struct {
	deps     *deps
	fileName string   // e.g. "main.py"
	command  []string // interpreter plus fixed flags; the file path is appended
}

func (p *interpreted) run(ctx context.Context, source string) *executor.Result {
	start := time.Now()

	ws, err := p.deps.ws.acquire()
	if err != nil {
		return systemFailure(err)
	}
	defer ws.release()

	file, err := ws.writeSource(p.fileName, source)
	if err != nil {
		return systemFailure(err)
	}

	out, err := runProcess(ctx, processSpec{
		name:      p.command[0],
		args:      append(append([]string{}, p.command[1:]...), file),
		dir:       ws.dir,
		timeLimit: p.deps.cfg.RunTimeout,
	})
	if err != nil {
		return systemFailure(err)
	}
	return finishRun(out, start)
}

// compiled is the two-step pattern: compile the source into an artifact
// inside the workspace, then run the artifact with no arguments. A failed
// compile short-circuits — the execute step never happens. C and C++ use it.
type compiled struct {
	deps     *deps
	fileName string // e.g. "main.c"
	compiler string // e.g. "gcc"
}

func (p *compiled) run(ctx context.Context, source string) *executor.Result {
	start := time.Now()

	ws, err := p.deps.ws.acquire()
	if err != nil {
		return systemFailure(err)
	}
	defer ws.release()

	file, err := ws.writeSource(p.fileName, source)
	if err != nil {
		return systemFailure(err)
	}

	bin := ws.path("main")
	compileOut, err := runProcess(ctx, processSpec{
		name:      p.compiler,
		args:      []string{file, "-o", bin},
		dir:       ws.dir,
		timeLimit: p.deps.cfg.CompileTimeout,
	})
	if err != nil {
		return systemFailure(err)
	}
	if compileOut.timedOut {
		return executor.Failure(executor.KindTimeout, timeoutMessage, time.Since(start))
	}
	if compileOut.exitCode != 0 {
		msg := "Compilation Error:\n" + compileOut.stderr
		return executor.Failure(executor.KindCompile, msg, time.Since(start))
	}

	runOut, err := runProcess(ctx, processSpec{
		name:      bin,
		dir:       ws.dir,
		timeLimit: p.deps.cfg.RunTimeout,
	})
	if err != nil {
		return systemFailure(err)
	}
	return finishRun(runOut, start)
}
