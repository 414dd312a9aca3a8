package host

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWorkspace_AcquireCreatesDistinctDirs(t *testing.T) {
	m := newWorkspaceManager(t.TempDir(), testLogger())

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		ws, err := m.acquire()
		require.NoError(t, err)
		assert.False(t, seen[ws.dir], "workspace dir %s handed out twice", ws.dir)
		seen[ws.dir] = true

		info, err := os.Stat(ws.dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		ws.release()
	}
}

func TestWorkspace_WriteSource(t *testing.T) {
	m := newWorkspaceManager(t.TempDir(), testLogger())
	ws, err := m.acquire()
	require.NoError(t, err)
	defer ws.release()

	path, err := ws.writeSource("main.py", "print('hi')")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ws.dir, "main.py"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "print('hi')", string(content))
}

func TestWorkspace_ReleaseRemovesEverything(t *testing.T) {
	m := newWorkspaceManager(t.TempDir(), testLogger())
	ws, err := m.acquire()
	require.NoError(t, err)

	_, err = ws.writeSource("main.py", "print('hi')")
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(ws.path("src"), 0o755))

	ws.release()

	_, err = os.Stat(ws.dir)
	assert.True(t, os.IsNotExist(err))
}

func TestWorkspace_FilesDoNotLeakBetweenWorkspaces(t *testing.T) {
	m := newWorkspaceManager(t.TempDir(), testLogger())

	first, err := m.acquire()
	require.NoError(t, err)
	defer first.release()
	_, err = first.writeSource("main.py", "secret")
	require.NoError(t, err)

	second, err := m.acquire()
	require.NoError(t, err)
	defer second.release()

	_, err = os.Stat(second.path("main.py"))
	assert.True(t, os.IsNotExist(err))
}
