package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sir_venger/dropblocks/internal/config"
	"github.com/sir_venger/dropblocks/internal/logging"
)

func TestBuildHandlerRecoversExistingFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := config.Default()
	cfg.StorageDir = "/srv/uploads"
	require.NoError(t, afero.WriteFile(fs, "/srv/uploads/abc123_report.pdf", []byte("%PDF-1.4 body"), 0o644))

	h, err := buildHandler(cfg, fs, logging.Discard())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/abc123", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.4 body", rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="report.pdf"`, rec.Header().Get("Content-Disposition"))
}

func TestBuildHandlerCreatesStorageDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := config.Default()
	cfg.StorageDir = "/fresh"

	_, err := buildHandler(cfg, fs, logging.Discard())
	require.NoError(t, err)

	ok, err := afero.DirExists(fs, "/fresh")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewRootCommandLeavesCobraGlobals(t *testing.T) {
	prev := cobra.EnableCommandSorting
	t.Cleanup(func() { cobra.EnableCommandSorting = prev })

	cobra.EnableCommandSorting = true
	root := newRootCommand(afero.NewMemMapFs())
	assert.True(t, cobra.EnableCommandSorting)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "push", "pull"})
}

func TestPushPull(t *testing.T) {
	cfg := config.Default()
	cfg.StorageDir = "/srv"
	h, err := buildHandler(cfg, afero.NewMemMapFs(), logging.Discard())
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	local := afero.NewMemMapFs()
	content := strings.Repeat("dropblocks\n", 1000)
	require.NoError(t, afero.WriteFile(local, "/home/me/notes.txt", []byte(content), 0o644))

	var out bytes.Buffer
	root := newRootCommand(local)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"push", "-q", "--server", srv.URL, "/home/me/notes.txt"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	link := strings.TrimSpace(out.String())
	require.True(t, strings.HasPrefix(link, srv.URL+"/download/"), link)
	id := strings.TrimPrefix(link, srv.URL+"/download/")

	out.Reset()
	root = newRootCommand(local)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"pull", "-q", "--server", srv.URL, id})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, "notes.txt", strings.TrimSpace(out.String()))

	got, err := afero.ReadFile(local, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, content, string(got))

	// повторный pull не перетирает существующий файл
	root = newRootCommand(local)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"pull", "-q", "--server", srv.URL, id})
	assert.Error(t, root.ExecuteContext(context.Background()))
}

func TestPullUnknownID(t *testing.T) {
	cfg := config.Default()
	h, err := buildHandler(cfg, afero.NewMemMapFs(), logging.Discard())
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	root := newRootCommand(afero.NewMemMapFs())
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"pull", "-q", "--server", srv.URL, "nope"})
	err = root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
