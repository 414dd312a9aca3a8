package host

import (
	"context"
	"time"

	"github.com/sakif/online-compiler/internal/executor"
)

// kotlinPipeline compiles the snippet into a self-contained runtime jar and
// runs it with java. Both the jar and the source live in the workspace, so
// concurrent Kotlin executions never step on each other's artifacts.
type kotlinPipeline struct {
	deps *deps
}

func (p *kotlinPipeline) run(ctx context.Context, source string) *executor.Result {
	start := time.Now()

	ws, err := p.deps.ws.acquire()
	if err != nil {
		return systemFailure(err)
	}
	defer ws.release()

	file, err := ws.writeSource("main.kt", source)
	if err != nil {
		return systemFailure(err)
	}

	jar := ws.path("main.jar")
	compileOut, err := runProcess(ctx, processSpec{
		name:      "kotlinc",
		args:      []string{file, "-include-runtime", "-d", jar},
		dir:       ws.dir,
		timeLimit: p.deps.cfg.BuildTimeout,
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
		name:      "java",
		args:      []string{"-jar", jar},
		dir:       ws.dir,
		timeLimit: p.deps.cfg.RunTimeout,
	})
	if err != nil {
		return systemFailure(err)
	}
	return finishRun(runOut, start)
}
