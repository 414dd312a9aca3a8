package host

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sakif/online-compiler/internal/executor"
)

// rustPipeline materializes a minimal Cargo project in the workspace and
// invokes cargo's combined build-and-run. Cargo doesn't separate the two
// phases for us, so a single non-zero exit is reported with a combined
// prefix instead of distinguishing compile from runtime failure. That
// coarser granularity is deliberate and applies to Rust only.
type rustPipeline struct {
	deps *deps
}

const cargoManifest = `[package]
name = "playground"
version = "0.1.0"
edition = "2021"

[[bin]]
name = "main"
path = "src/main.rs"
`

func (p *rustPipeline) run(ctx context.Context, source string) *executor.Result {
	start := time.Now()

	ws, err := p.deps.ws.acquire()
	if err != nil {
		return systemFailure(err)
	}
	defer ws.release()

	if _, err := ws.writeSource("Cargo.toml", cargoManifest); err != nil {
		return systemFailure(err)
	}
	if err := os.Mkdir(ws.path("src"), 0o755); err != nil {
		return systemFailure(fmt.Errorf("workspace: creating src dir: %w", err))
	}
	if _, err := ws.writeSource("src/main.rs", source); err != nil {
		return systemFailure(err)
	}

	out, err := runProcess(ctx, processSpec{
		name:      "cargo",
		args:      []string{"run", "--quiet"},
		dir:       ws.dir,
		timeLimit: p.deps.cfg.BuildTimeout,
	})
	if err != nil {
		return systemFailure(err)
	}

	elapsed := time.Since(start)
	if out.timedOut {
		return executor.Failure(executor.KindTimeout, timeoutMessage, elapsed)
	}
	if out.exitCode != 0 {
		msg := "Compilation/Runtime Error:\n" + out.stderr
		return executor.Failure(executor.KindRuntime, msg, elapsed)
	}
	return executor.Success(out.stdout, elapsed)
}
