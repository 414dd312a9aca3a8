package host

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/online-compiler/internal/executor"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	cfg := DefaultConfig()
	cfg.WorkspaceDir = t.TempDir()
	e, err := New(cfg, testLogger())
	require.NoError(t, err)
	return e
}

// requireToolchain skips the test when the named binary is not installed.
// Host pipelines are only as available as the machine's toolchains.
func requireToolchain(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not installed", name)
	}
}

func TestExecute_EmptyCode(t *testing.T) {
	e := newTestExecutor(t)

	for _, code := range []string{"", "   ", "\n\t\n"} {
		res, err := e.Execute(context.Background(), executor.Request{Code: code, Language: "python"})
		require.NoError(t, err)
		assert.Equal(t, executor.KindInput, res.Kind)
		assert.Equal(t, "No code provided", res.Error)
		assert.Empty(t, res.Output)
		assert.Zero(t, res.ExecutionTime)
	}
}

func TestExecute_RegistryCoversAllLanguages(t *testing.T) {
	e := newTestExecutor(t)

	for _, lang := range executor.Languages() {
		assert.Contains(t, e.pipelines, lang.ID, "no pipeline registered for %s", lang.ID)
	}
}

func TestExecute_TextLanguage(t *testing.T) {
	e := newTestExecutor(t)

	res, err := e.Execute(context.Background(), executor.Request{
		Code:     "just some text",
		Language: "text",
	})
	require.NoError(t, err)
	assert.Equal(t, executor.KindSuccess, res.Kind)
	assert.Equal(t, "just some text", res.Output)
	assert.Empty(t, res.Error)
}

func TestExecute_SQLLanguage(t *testing.T) {
	e := newTestExecutor(t)

	res, err := e.Execute(context.Background(), executor.Request{
		Code:     "SELECT 42 AS answer;",
		Language: "sql",
	})
	require.NoError(t, err)
	assert.Equal(t, executor.KindSuccess, res.Kind)
	assert.Contains(t, res.Output, "answer")
	assert.Contains(t, res.Output, "42")
}

func TestExecute_UnknownLanguageFallsBack(t *testing.T) {
	requireToolchain(t, "python3")
	e := newTestExecutor(t)

	res, err := e.Execute(context.Background(), executor.Request{
		Code:     "print('fallback')",
		Language: "cobol",
	})
	require.NoError(t, err)
	assert.Equal(t, executor.KindSuccess, res.Kind)
	assert.Contains(t, res.Output, "fallback")
}

func TestExecute_Python(t *testing.T) {
	requireToolchain(t, "python3")
	e := newTestExecutor(t)

	t.Run("success", func(t *testing.T) {
		res, err := e.Execute(context.Background(), executor.Request{
			Code:     "print('Hello, World!')",
			Language: "python",
		})
		require.NoError(t, err)
		assert.Equal(t, executor.KindSuccess, res.Kind)
		assert.Equal(t, "Hello, World!\n", res.Output)
		assert.Greater(t, res.ExecutionTime, 0.0)
	})

	t.Run("runtime error via stderr", func(t *testing.T) {
		res, err := e.Execute(context.Background(), executor.Request{
			Code:     "raise ValueError('boom')",
			Language: "python",
		})
		require.NoError(t, err)
		assert.Equal(t, executor.KindRuntime, res.Kind)
		assert.Contains(t, res.Error, "ValueError")
		assert.Empty(t, res.Output)
	})

	t.Run("silent non-zero exit", func(t *testing.T) {
		res, err := e.Execute(context.Background(), executor.Request{
			Code:     "import sys; sys.exit(2)",
			Language: "python",
		})
		require.NoError(t, err)
		assert.Equal(t, executor.KindRuntime, res.Kind)
		assert.Contains(t, res.Error, "exited with code 2")
	})
}

func TestExecute_PythonTimeout(t *testing.T) {
	requireToolchain(t, "python3")

	cfg := DefaultConfig()
	cfg.WorkspaceDir = t.TempDir()
	cfg.RunTimeout = 500 * time.Millisecond
	e, err := New(cfg, testLogger())
	require.NoError(t, err)

	start := time.Now()
	res, err := e.Execute(context.Background(), executor.Request{
		Code:     "while True: pass",
		Language: "python",
	})
	require.NoError(t, err)

	assert.Equal(t, executor.KindTimeout, res.Kind)
	assert.Equal(t, "Code execution timed out", res.Error)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestExecute_ConcurrentRequestsStayIsolated(t *testing.T) {
	e := newTestExecutor(t)

	const n = 8
	var wg sync.WaitGroup
	results := make([]*executor.Result, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := fmt.Sprintf("CREATE TABLE t (v INT);\nINSERT INTO t VALUES (%d);\nSELECT v FROM t;", i)
			res, err := e.Execute(context.Background(), executor.Request{Code: code, Language: "sql"})
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	// Each execution sees only its own row: no shared database, no shared
	// workspace.
	for i, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, executor.KindSuccess, res.Kind, "execution %d: %s", i, res.Error)
		assert.Contains(t, res.Output, fmt.Sprintf("%d", i))
	}
}

func TestExecute_QueueingRespectsCancellation(t *testing.T) {
	e := newTestExecutor(t)

	// Fill every slot so the next request has to queue.
	for i := 0; i < cap(e.slots); i++ {
		e.slots <- struct{}{}
	}
	defer func() {
		for i := 0; i < cap(e.slots); i++ {
			<-e.slots
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := e.Execute(ctx, executor.Request{Code: "x", Language: "text"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// panicPipeline stands in for a pipeline with an internal bug.
type panicPipeline struct{}

func (panicPipeline) run(context.Context, string) *executor.Result {
	panic("pipeline bug")
}

func TestExecute_PanickingPipelineBecomesResult(t *testing.T) {
	e := newTestExecutor(t)
	e.pipelines["text"] = panicPipeline{}

	res, err := e.Execute(context.Background(), executor.Request{Code: "x", Language: "text"})
	require.NoError(t, err)
	assert.Equal(t, executor.KindSystem, res.Kind)
	assert.Contains(t, res.Error, "pipeline bug")

	// The slot was released despite the panic: the next request must not
	// hang even with a single-slot executor.
	res, err = e.Execute(context.Background(), executor.Request{Code: "SELECT 1;", Language: "sql"})
	require.NoError(t, err)
	assert.Equal(t, executor.KindSuccess, res.Kind)
}

func TestExecute_MissingToolchainIsSystemError(t *testing.T) {
	if _, err := exec.LookPath("kotlinc"); err == nil {
		t.Skip("kotlinc installed, cannot test the missing-toolchain path with it")
	}
	e := newTestExecutor(t)

	res, err := e.Execute(context.Background(), executor.Request{
		Code:     `fun main() { println("hi") }`,
		Language: "kotlin",
	})
	require.NoError(t, err)
	assert.Equal(t, executor.KindSystem, res.Kind)
	assert.Contains(t, res.Error, "toolchain not available")
}
