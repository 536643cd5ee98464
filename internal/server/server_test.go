package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shpaw415/frame-master-sub000/internal/config"
	"github.com/shpaw415/frame-master-sub000/internal/dispatch"
	"github.com/shpaw415/frame-master-sub000/internal/host"
	"github.com/shpaw415/frame-master-sub000/internal/pattern"
	"github.com/shpaw415/frame-master-sub000/internal/registry"
	"github.com/shpaw415/frame-master-sub000/internal/types"
)

func newTestServer(t *testing.T, root string, reg *registry.Registry) *Server {
	t.Helper()
	bundler, err := host.New(dispatch.NewEngine(reg, nil), nil, nil)
	require.NoError(t, err)
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: 8080},
		Build:  config.BuildConfig{Roots: []string{root}},
	}
	return New(cfg, bundler, nil)
}

func TestHandleResource_ServesTransformedContent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.css"), []byte("body{}"), 0o644))

	reg := registry.New()
	require.NoError(t, reg.RegisterLoader("css", 0,
		registry.LoadOptions{Pattern: pattern.MustCompile(`\.css$`), Namespace: "file"},
		func(ctx context.Context, in types.Input) (*types.LoadResult, error) {
			raw, err := os.ReadFile(in.Resource.Path)
			if err != nil {
				return nil, err
			}
			return &types.LoadResult{Content: append(raw, []byte("/*minified*/")...), Kind: types.KindStyle}, nil
		}))
	srv := newTestServer(t, root, reg)

	rec := httptest.NewRecorder()
	srv.handleResource(rec, httptest.NewRequest(http.MethodGet, "/app.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "body{}/*minified*/", rec.Body.String())
}

func TestHandleResource_DefaultLoadsUnhandledFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "data.json"), []byte(`{"a":1}`), 0o644))

	srv := newTestServer(t, root, registry.New())
	rec := httptest.NewRecorder()
	srv.handleResource(rec, httptest.NewRequest(http.MethodGet, "/data.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"a":1}`, rec.Body.String())
}

func TestHandleResource_RecordsFailures(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.tsx"), []byte("x"), 0o644))

	reg := registry.New()
	require.NoError(t, reg.RegisterLoader("broken", 0,
		registry.LoadOptions{Pattern: pattern.MustCompile(`\.tsx$`), Namespace: "file"},
		func(ctx context.Context, in types.Input) (*types.LoadResult, error) {
			return nil, assert.AnError
		}))
	srv := newTestServer(t, root, reg)

	rec := httptest.NewRecorder()
	srv.handleResource(rec, httptest.NewRequest(http.MethodGet, "/bad.tsx", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.True(t, srv.Errors().HasErrors())
	recorded := srv.Errors().All()
	require.Len(t, recorded, 1)
	assert.Equal(t, "broken", recorded[0].Owner)
}

func TestHandleResource_TriesEveryBuildRoot(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rootB, "data.json"), []byte(`{"a":1}`), 0o644))

	bundler, err := host.New(dispatch.NewEngine(registry.New(), nil), nil, nil)
	require.NoError(t, err)
	srv := New(&config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: 8080},
		Build:  config.BuildConfig{Roots: []string{rootA, rootB}},
	}, bundler, nil)

	rec := httptest.NewRecorder()
	srv.handleResource(rec, httptest.NewRequest(http.MethodGet, "/data.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"a":1}`, rec.Body.String())
}

func TestHandleResource_MissingFileIs404(t *testing.T) {
	srv := newTestServer(t, t.TempDir(), registry.New())

	rec := httptest.NewRecorder()
	srv.handleResource(rec, httptest.NewRequest(http.MethodGet, "/absent.txt", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleResource_RefusesPathEscape(t *testing.T) {
	srv := newTestServer(t, t.TempDir(), registry.New())

	rec := httptest.NewRecorder()
	srv.handleResource(rec, httptest.NewRequest(http.MethodGet, "/../../etc/passwd", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolvePath_RootFallsBackToIndex(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<html><head></head><body>hi</body></html>"), 0o644))

	srv := newTestServer(t, root, registry.New())
	rec := httptest.NewRecorder()
	srv.handleResource(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "hi")
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/javascript; charset=utf-8", contentTypeFor(types.KindScript))
	assert.Equal(t, "text/css; charset=utf-8", contentTypeFor(types.KindStyle))
	assert.Equal(t, "text/html; charset=utf-8", contentTypeFor(types.KindMarkup))
	assert.Equal(t, "application/json; charset=utf-8", contentTypeFor(types.KindJSON))
	assert.Equal(t, "text/plain; charset=utf-8", contentTypeFor(types.KindText))
	assert.Equal(t, "application/octet-stream", contentTypeFor(types.KindBinary))
	assert.Equal(t, "application/octet-stream", contentTypeFor(types.Kind("mystery")))
}
