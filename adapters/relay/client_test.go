package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pjackim/webbuddy/internal/config"
	"github.com/pjackim/webbuddy/internal/domain/asset"
	"github.com/pjackim/webbuddy/pkg/apperror"
	"github.com/pjackim/webbuddy/pkg/logger"
)

type recordedCall struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

func newRelayServer(t *testing.T, status int) (*httptest.Server, func() []recordedCall) {
	t.Helper()
	var mu sync.Mutex
	var calls []recordedCall

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&call.Body)
		}
		mu.Lock()
		calls = append(calls, call)
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedCall {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedCall(nil), calls...)
	}
}

func relayConfig(url string) config.Config {
	var cfg config.Config
	cfg.Relay.Enabled = true
	cfg.Relay.URL = url
	cfg.Relay.Token = "secret"
	cfg.Relay.Timeout = 2 * time.Second
	return cfg
}

func textAsset() asset.Asset {
	return asset.Draft{ScreenID: "s1", Type: asset.KindText}.Build("a1")
}

func TestDryRunMakesNoCalls(t *testing.T) {
	srv, calls := newRelayServer(t, http.StatusOK)
	cfg := relayConfig(srv.URL)
	cfg.Relay.Enabled = false

	c := NewClient(cfg, logger.NewNopLogger())
	assert.False(t, c.IsEnabled())
	assert.NoError(t, c.Apply(context.Background(), textAsset()))
	assert.NoError(t, c.Remove(context.Background(), textAsset()))
	assert.Empty(t, calls())
}

func TestApplyAndRemoveHitRelay(t *testing.T) {
	srv, calls := newRelayServer(t, http.StatusNoContent)
	c := NewClient(relayConfig(srv.URL), logger.NewNopLogger())

	require.NoError(t, c.Apply(context.Background(), textAsset()))
	require.NoError(t, c.Remove(context.Background(), textAsset()))

	got := calls()
	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPut, got[0].Method)
	assert.Equal(t, "/assets/a1", got[0].Path)
	assert.Equal(t, "Bearer secret", got[0].Auth)
	assert.Equal(t, "text", got[0].Body["type"])
	assert.Equal(t, http.MethodDelete, got[1].Method)
	assert.Equal(t, "/assets/a1", got[1].Path)
}

func TestRelayErrorIsExternalServiceFailure(t *testing.T) {
	srv, _ := newRelayServer(t, http.StatusServiceUnavailable)
	c := NewClient(relayConfig(srv.URL), logger.NewNopLogger())

	err := c.Apply(context.Background(), textAsset())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrExternalService)
	assert.Equal(t, http.StatusBadGateway, apperror.ToHTTPStatus(err))
}

func TestUnreachableRelay(t *testing.T) {
	srv, _ := newRelayServer(t, http.StatusOK)
	url := srv.URL
	srv.Close()

	c := NewClient(relayConfig(url), logger.NewNopLogger())
	err := c.Remove(context.Background(), textAsset())
	assert.ErrorIs(t, err, apperror.ErrExternalService)
}
