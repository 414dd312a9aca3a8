package host

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rs/xid"
)

// workspaceManager allocates private filesystem areas for executions.
// Isolation between concurrent executions rests entirely on each one owning
// its own directory; the xid-based names make collisions impossible without
// any coordination.
type workspaceManager struct {
	baseDir string
	logger  *slog.Logger
}

func newWorkspaceManager(baseDir string, logger *slog.Logger) *workspaceManager {
	return &workspaceManager{baseDir: baseDir, logger: logger}
}

// acquire creates a fresh directory owned exclusively by one execution.
// The caller must release it on every exit path.
func (m *workspaceManager) acquire() (*workspace, error) {
	dir := filepath.Join(m.baseDir, "exec-"+xid.New().String())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("workspace: creating %s: %w", dir, err)
	}
	return &workspace{dir: dir, logger: m.logger}, nil
}

// workspace is one execution's private directory. Source files, compiler
// artifacts, and the SQL pipeline's database file all live here and are all
// removed together on release.
type workspace struct {
	dir    string
	logger *slog.Logger
}

// path returns the absolute path of name inside the workspace.
func (w *workspace) path(name string) string {
	return filepath.Join(w.dir, name)
}

// writeSource writes the snippet into the workspace under name and returns
// the file's absolute path.
func (w *workspace) writeSource(name, source string) (string, error) {
	p := w.path(name)
	if err := os.WriteFile(p, []byte(source), 0o644); err != nil {
		return "", fmt.Errorf("workspace: writing %s: %w", p, err)
	}
	return p, nil
}

// release removes the workspace and everything in it. Cleanup is best
// effort: a failure is logged and the request proceeds — a stale directory
// is a degraded state, not a crash condition.
func (w *workspace) release() {
	if err := os.RemoveAll(w.dir); err != nil {
		w.logger.Warn("failed to remove workspace",
			slog.String("dir", w.dir),
			slog.String("error", err.Error()),
		)
	}
}
