package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feecalc/internal/config"
	applog "feecalc/internal/log"
)

type fakeServer struct {
	stop     chan struct{}
	failWith error
	shutdown atomic.Int32
}

func newFakeServer() *fakeServer {
	return &fakeServer{stop: make(chan struct{})}
}

func (s *fakeServer) ListenAndServe() error {
	if s.failWith != nil {
		return s.failWith
	}
	<-s.stop
	return http.ErrServerClosed
}

func (s *fakeServer) Shutdown(context.Context) error {
	if s.shutdown.Add(1) == 1 {
		close(s.stop)
	}
	return nil
}

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Output: io.Discard})
}

func TestServeStopsWhenContextIsCancelled(t *testing.T) {
	srv := newFakeServer()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, quietLogger(), srv, time.Second) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
	assert.Equal(t, int32(1), srv.shutdown.Load())
}

func TestServeReturnsListenError(t *testing.T) {
	srv := newFakeServer()
	srv.failWith = errors.New("address in use")

	err := Serve(context.Background(), quietLogger(), srv, time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, srv.failWith)
}

func TestLoadAndValidateConfig(t *testing.T) {
	v := viper.New()
	config.Defaults(v)
	cfg, err := LoadAndValidateConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Port)

	v.Set(config.KeyPort, "not-a-port")
	_, err = LoadAndValidateConfig(v)
	assert.ErrorContains(t, err, "invalid port")
}

func TestLoadCatalog(t *testing.T) {
	cat, err := LoadCatalog(quietLogger(), &config.Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"KL", "Royal"}, cat.IDs())

	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("templates:\n  - id: Home\n    items:\n      - name: Rent\n"), 0o600))
	cat, err = LoadCatalog(quietLogger(), &config.Config{TemplatesFile: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"Home"}, cat.IDs())

	_, err = LoadCatalog(quietLogger(), &config.Config{TemplatesFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FEECALC_TEST_ENV=loaded\n"), 0o600))
	t.Setenv("FEECALC_TEST_ENV", "")
	require.NoError(t, os.Unsetenv("FEECALC_TEST_ENV"))

	LoadEnvFile(path)
	assert.Equal(t, "loaded", os.Getenv("FEECALC_TEST_ENV"))

	LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
}
