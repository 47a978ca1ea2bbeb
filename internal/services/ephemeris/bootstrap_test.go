package ephemeris

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapperDownloadsMissingFiles(t *testing.T) {
	var (
		mu     sync.Mutex
		served []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		mu.Lock()
		served = append(served, name)
		mu.Unlock()
		_, _ = w.Write([]byte("series " + name))
	}))
	defer srv.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VSOP87B.ear"), []byte("kept"), 0o644))

	b := NewBootstrapper(dir, srv.URL+"/", time.Second, nil)
	assert.Len(t, b.Missing(), 7)

	require.NoError(t, b.Ensure(context.Background()))
	assert.Empty(t, b.Missing())
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, served, 7)
	assert.NotContains(t, served, "VSOP87B.ear")

	got, err := os.ReadFile(filepath.Join(dir, "VSOP87B.mer"))
	require.NoError(t, err)
	assert.Equal(t, "series VSOP87B.mer", string(got))

	kept, err := os.ReadFile(filepath.Join(dir, "VSOP87B.ear"))
	require.NoError(t, err)
	assert.Equal(t, "kept", string(kept))
}

func TestBootstrapperReportsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".nep") {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	b := NewBootstrapper(dir, srv.URL, time.Second, nil)

	err := b.Ensure(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VSOP87B.nep")
	assert.Equal(t, []string{"VSOP87B.nep"}, b.Missing())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".part"), "temp file left behind: %s", e.Name())
	}
}
