package host

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"
)

// processSpec describes one bounded-lifetime child process.
type processSpec struct {
	name      string
	args      []string
	dir       string
	timeLimit time.Duration
}

// processOutcome is the raw record of one finished (or killed) process.
// What an exit code or stderr content *means* is the pipeline's call, not
// the runner's.
type processOutcome struct {
	exitCode int
	stdout   string
	stderr   string
	timedOut bool
	duration time.Duration
}

// runProcess spawns one child process, captures stdout and stderr
// separately, and enforces the wall-clock limit. The child runs in its own
// process group so that expiry (or caller cancellation) kills everything the
// snippet spawned, not just the immediate child.
//
// A non-zero exit is ordinary data recorded in the outcome. The error return
// is reserved for failing to start the process at all — typically a missing
// toolchain binary.
func runProcess(ctx context.Context, spec processSpec) (processOutcome, error) {
	cmd := exec.Command(spec.name, spec.args...)
	cmd.Dir = spec.dir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return processOutcome{}, fmt.Errorf("toolchain not available: %s: %w", spec.name, err)
		}
		return processOutcome{}, fmt.Errorf("starting %s: %w", spec.name, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(spec.timeLimit)
	defer timer.Stop()

	var outcome processOutcome
	select {
	case waitErr := <-done:
		outcome.exitCode = exitCode(waitErr)
	case <-timer.C:
		killGroup(cmd)
		<-done
		outcome.timedOut = true
		outcome.exitCode = -1
	case <-ctx.Done():
		// Caller gone (disconnect or an outer deadline). Same cleanup as a
		// timeout: the whole group dies and the workspace still gets released.
		killGroup(cmd)
		<-done
		outcome.timedOut = true
		outcome.exitCode = -1
	}

	outcome.duration = time.Since(start)
	outcome.stdout = decode(stdout.Bytes())
	outcome.stderr = decode(stderr.Bytes())
	return outcome, nil
}

// killGroup sends SIGKILL to the child's whole process group. The negative
// pid addresses the group, so grandchildren die too.
func killGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}

// exitCode extracts the status from Wait's error. nil means 0; anything that
// isn't an ExitError (I/O trouble mid-wait) is reported as -1.
func exitCode(waitErr error) int {
	if waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// decode turns captured bytes into text, replacing invalid UTF-8 sequences
// rather than failing — snippets can write arbitrary bytes to their streams.
func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
