package host

import (
	"context"
	"regexp"
	"time"

	"github.com/sakif/online-compiler/internal/executor"
)

// javaPipeline is the compiled pattern with a twist: javac requires the file
// name to match the public class, so the class name is sniffed out of the
// source before anything touches the filesystem.
type javaPipeline struct {
	deps *deps
}

var javaClassPattern = regexp.MustCompile(`public\s+class\s+([A-Za-z_$][A-Za-z0-9_$]*)`)

// mainClassName extracts the public class declared in the source, falling
// back to "Main" when no declaration is recognizable.
func mainClassName(source string) string {
	if m := javaClassPattern.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	return "Main"
}

func (p *javaPipeline) run(ctx context.Context, source string) *executor.Result {
	start := time.Now()

	ws, err := p.deps.ws.acquire()
	if err != nil {
		return systemFailure(err)
	}
	defer ws.release()

	class := mainClassName(source)
	file, err := ws.writeSource(class+".java", source)
	if err != nil {
		return systemFailure(err)
	}

	compileOut, err := runProcess(ctx, processSpec{
		name:      "javac",
		args:      []string{file},
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
		name:      "java",
		args:      []string{"-cp", ws.dir, class},
		dir:       ws.dir,
		timeLimit: p.deps.cfg.RunTimeout,
	})
	if err != nil {
		return systemFailure(err)
	}
	return finishRun(runOut, start)
}
