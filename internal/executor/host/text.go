package host

import (
	"context"
	"strings"
	"time"

	"github.com/sakif/online-compiler/internal/executor"
)

// textPipeline is the passthrough identifier: no workspace, no process, the
// input comes straight back as output. Empty input (reachable only when the
// pipeline is called directly — the dispatcher rejects empty source first)
// yields a placeholder instead of an empty document.
type textPipeline struct{}

func (textPipeline) run(_ context.Context, source string) *executor.Result {
	start := time.Now()
	if strings.TrimSpace(source) == "" {
		return executor.Success("(Empty text document)", time.Since(start))
	}
	return executor.Success(source, time.Since(start))
}
