package host

import "time"

// Config holds the tuning knobs for host-toolchain execution.
type Config struct {
	// WorkspaceDir is the base directory under which per-execution
	// workspaces are created. Empty means a "playground" directory under
	// the OS temp dir.
	WorkspaceDir string
	// RunTimeout is the wall-clock limit for running a snippet (or the
	// produced artifact, for compiled languages).
	RunTimeout time.Duration
	// CompileTimeout is the wall-clock limit for a single compiler
	// invocation (gcc, g++, javac).
	CompileTimeout time.Duration
	// BuildTimeout is the wall-clock limit for the heavier build steps:
	// kotlinc bundling a runtime jar, and cargo's combined build-and-run.
	BuildTimeout time.Duration
	// MaxConcurrent bounds how many executions may be in flight at once.
	// Requests beyond the bound queue until a slot frees.
	MaxConcurrent int
}

// DefaultConfig returns the limits the service ships with: 5s to run, 10s to
// compile, 15s for build tools, and room for 8 simultaneous executions.
func DefaultConfig() Config {
	return Config{
		RunTimeout:     5 * time.Second,
		CompileTimeout: 10 * time.Second,
		BuildTimeout:   15 * time.Second,
		MaxConcurrent:  8,
	}
}
