package app

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hl-portal/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler(), zap.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServe_ListenError(t *testing.T) {
	err := Serve(context.Background(), "127.0.0.1:-1", http.NotFoundHandler(), zap.NewNop())
	assert.Error(t, err)
}

func TestLoadConfig_ValidatesForServer(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  mysql:\n    user: hl\n    database: hl\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("API_KEY", "k")
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadConfig(false)
	require.NoError(t, err)
	assert.Equal(t, "k", cfg.Server.APIKey)

	_, err = LoadConfig(true)
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestOpenSearch_DisabledWhenUnreachable(t *testing.T) {
	assert.Nil(t, openSearch(config.SearchConfig{}, zap.NewNop()))

	unreachable := config.SearchConfig{Meilisearch: config.MeilisearchConfig{Host: "http://127.0.0.1:1"}}
	assert.Nil(t, openSearch(unreachable, zap.NewNop()))
}
