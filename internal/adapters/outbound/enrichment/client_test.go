package enrichment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shipkraft/shipkraft/internal/adapters/outbound/enrichment"
	"github.com/shipkraft/shipkraft/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func config(url string) domain.EnrichmentConfig {
	return domain.EnrichmentConfig{Enabled: true, Endpoint: url, Model: "test-model", APIKey: "sk-test", TimeoutSeconds: 5}
}

func TestClient_Generate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"dockerfile\":\"FROM x\"}"}}]}`))
	}))
	defer srv.Close()

	c := enrichment.New(config(srv.URL + "/v1/"))
	out, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"dockerfile":"FROM x"}`, out)

	assert.Equal(t, "test-model", got["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, got["response_format"])
	messages := got["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "prompt", messages[1].(map[string]any)["content"])
}

func TestClient_StatusErrors(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, domain.ErrRateLimited},
		{http.StatusUnauthorized, domain.ErrAccessDenied},
		{http.StatusForbidden, domain.ErrAccessDenied},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		}))
		_, err := enrichment.New(config(srv.URL)).Generate(context.Background(), "p")
		assert.ErrorIs(t, err, tc.want, "status %d", tc.status)
		srv.Close()
	}
}

func TestClient_ProviderErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"model not found"}}`))
	}))
	defer srv.Close()

	_, err := enrichment.New(config(srv.URL)).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := enrichment.New(config(srv.URL))
	for i := 0; i < 3; i++ {
		_, err := c.Generate(context.Background(), "p")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrEnrichmentUnavailable)
	}

	_, err := c.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, domain.ErrEnrichmentUnavailable)
	assert.Equal(t, int32(3), hits.Load(), "open breaker must not reach the server")
	assert.False(t, c.Available(context.Background()))
}

func TestClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" {
			_, _ = w.Write([]byte(`{"data":[]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.True(t, enrichment.New(config(srv.URL)).Available(context.Background()))
	assert.False(t, enrichment.New(config(srv.URL+"/nope")).Available(context.Background()))
}

func TestClient_AvailableHonoursProbeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := enrichment.New(config(srv.URL), enrichment.WithProbeTimeout(50*time.Millisecond))
	start := time.Now()
	assert.False(t, c.Available(context.Background()))
	assert.Less(t, time.Since(start), 2*time.Second)
}
